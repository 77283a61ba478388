package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xlogpub"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	out, err := cfg.Stdout.Options()
	require.NoError(t, err)
	require.NotNil(t, out.Levels)
	assert.Equal(t, xlogpub.PrimaryLevels, *out.Levels)
	assert.Equal(t, xlogpub.FormatColour, out.Format)
	assert.Equal(t, xlogpub.ColourAuto, out.Colour)

	errOpts, err := cfg.Stderr.Options()
	require.NoError(t, err)
	require.NotNil(t, errOpts.Levels)
	assert.Equal(t, xlogpub.SecondaryLevels, *errOpts.Levels)
}

func TestParse_OverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
[stdout]
levels = ["info"]
show_source = true
format = "syslogd"
colour = "never"

[stderr]
disabled = true
`))
	require.NoError(t, err)

	opts, err := cfg.Stdout.Options()
	require.NoError(t, err)
	require.NotNil(t, opts.Levels)
	assert.Equal(t, xlogpub.NewLevelSet(xlogpub.LevelInfo), *opts.Levels)
	assert.True(t, opts.ShowSource)
	assert.Equal(t, xlogpub.FormatSyslogd, opts.Format)
	assert.Equal(t, xlogpub.ColourNever, opts.Colour)
	assert.True(t, cfg.Stderr.Disabled)
	// untouched keys keep their defaults
	assert.Equal(t, "colour", cfg.Stderr.Format)
}

func TestParse_EmptyLevelsAcceptNothing(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("[stdout]\nlevels = []\nformat = \"syslogd\"\n"))
	require.NoError(t, err)

	opts, err := cfg.Stdout.Options()
	require.NoError(t, err)
	require.NotNil(t, opts.Levels)
	assert.True(t, opts.Levels.Empty())

	var stdout bytes.Buffer
	pub, err := cfg.Publisher(xlogpub.Streams{Stdout: &stdout, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	pub.Logger("Router").Info("dropped")
	assert.Zero(t, stdout.Len())
}

func TestOptions_NilLevelsUseDirectionDefaults(t *testing.T) {
	t.Parallel()

	oc := ObserverConfig{Format: "syslogd"}
	opts, err := oc.Options()
	require.NoError(t, err)
	assert.Nil(t, opts.Levels)
}

func TestParse_RejectsBadValues(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("[stdout]\nformat = \"json\"\n"))
	assert.ErrorIs(t, err, xlogpub.ErrUnknownFormat)

	_, err = Parse([]byte("[stderr]\nlevels = [\"loud\"]\n"))
	assert.ErrorIs(t, err, xlogpub.ErrUnknownLevel)

	_, err = Parse([]byte("[stdout]\ncolour = \"rainbow\"\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not = [valid"))
	assert.Error(t, err)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "xlogpub.toml")
	cfg := Default()
	cfg.Stdout.Format = "nocolour"
	cfg.Stderr.ShowSource = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPublisher_RoutesByConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
[stdout]
format = "syslogd"
[stderr]
format = "syslogd"
`))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	pub, err := cfg.Publisher(xlogpub.Streams{Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)
	require.Equal(t, 2, pub.Len())

	log := pub.Logger("Router")
	log.Info("up")
	log.Critical("down")

	assert.Equal(t, "[Router] up\n", stdout.String())
	assert.Equal(t, "[Router] down\n", stderr.String())
}

func TestObservers_SkipsDisabled(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Stdout.Disabled = true
	obs, err := cfg.Observers(xlogpub.Streams{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	require.Len(t, obs, 1)

	co, ok := obs[0].(*xlogpub.ConsoleObserver)
	require.True(t, ok)
	assert.Equal(t, xlogpub.Secondary, co.Direction())
	assert.True(t, strings.Contains(co.Levels().String(), "critical"))
}
