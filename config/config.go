// Package config loads console observer settings from TOML.
//
//	[stdout]
//	levels = ["info", "debug"]
//	show_source = false
//	format = "colour"   # colour | nocolour | syslogd
//	colour = "auto"     # auto | always | never
//
//	[stderr]
//	levels = ["warn", "error", "critical"]
//	format = "colour"
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/trickstertwo/xlogpub"
)

type Config struct {
	Stdout ObserverConfig `toml:"stdout"`
	Stderr ObserverConfig `toml:"stderr"`
}

// ObserverConfig mirrors xlogpub.Options in text form.
type ObserverConfig struct {
	Disabled   bool     `toml:"disabled,omitempty"`
	Levels     []string `toml:"levels"`
	ShowSource bool     `toml:"show_source"`
	Format     string   `toml:"format"`
	Colour     string   `toml:"colour"`
	TimeFormat string   `toml:"time_format,omitempty"`
}

func levelNames(s xlogpub.LevelSet) []string {
	ls := s.Levels()
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.String()
	}
	return names
}

// Default returns the stock two-observer setup.
func Default() *Config {
	return &Config{
		Stdout: ObserverConfig{
			Levels: levelNames(xlogpub.PrimaryLevels),
			Format: string(xlogpub.FormatColour),
			Colour: "auto",
		},
		Stderr: ObserverConfig{
			Levels: levelNames(xlogpub.SecondaryLevels),
			Format: string(xlogpub.FormatColour),
			Colour: "auto",
		},
	}
}

// Load reads path. A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if _, err := c.Stdout.Options(); err != nil {
		return errors.Wrap(err, "stdout")
	}
	if _, err := c.Stderr.Options(); err != nil {
		return errors.Wrap(err, "stderr")
	}
	return nil
}

// Options converts the text settings into observer options.
func (oc ObserverConfig) Options() (xlogpub.Options, error) {
	var levels *xlogpub.LevelSet
	if oc.Levels != nil {
		set, err := xlogpub.ParseLevelSet(oc.Levels)
		if err != nil {
			return xlogpub.Options{}, err
		}
		levels = &set
	}
	format, err := xlogpub.ParseFormat(oc.Format)
	if err != nil {
		return xlogpub.Options{}, err
	}
	colour, err := xlogpub.ParseColourMode(oc.Colour)
	if err != nil {
		return xlogpub.Options{}, err
	}
	return xlogpub.Options{
		Levels:     levels,
		ShowSource: oc.ShowSource,
		Format:     format,
		Colour:     colour,
		TimeFormat: oc.TimeFormat,
	}, nil
}

// Observers builds the enabled observers writing to streams, stdout first.
func (c *Config) Observers(streams xlogpub.Streams) ([]xlogpub.Observer, error) {
	var out []xlogpub.Observer
	if !c.Stdout.Disabled {
		opts, err := c.Stdout.Options()
		if err != nil {
			return nil, errors.Wrap(err, "stdout")
		}
		opts.Writer = streams.Stdout
		opts.Diagnostics = streams.Stderr
		out = append(out, xlogpub.NewStandardOutObserver(opts))
	}
	if !c.Stderr.Disabled {
		opts, err := c.Stderr.Options()
		if err != nil {
			return nil, errors.Wrap(err, "stderr")
		}
		opts.Writer = streams.Stderr
		opts.Diagnostics = streams.Stderr
		out = append(out, xlogpub.NewStandardErrObserver(opts))
	}
	return out, nil
}

// Publisher builds a Publisher with the configured observers subscribed.
func (c *Config) Publisher(streams xlogpub.Streams) (*xlogpub.Publisher, error) {
	obs, err := c.Observers(streams)
	if err != nil {
		return nil, err
	}
	b := xlogpub.NewBuilder().WithErrorHandler(xlogpub.StderrErrorHandler(streams.Stderr))
	for _, o := range obs {
		b = b.AddObserver(o)
	}
	return b.Build()
}
