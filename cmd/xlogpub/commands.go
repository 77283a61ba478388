package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/trickstertwo/xlogpub"
	"github.com/trickstertwo/xlogpub/config"
)

// loadConfig reads --config and applies the root overrides.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if f := c.String("format"); f != "" {
		cfg.Stdout.Format, cfg.Stderr.Format = f, f
	}
	if m := c.String("colour"); m != "" {
		cfg.Stdout.Colour, cfg.Stderr.Colour = m, m
	}
	if c.Bool("show-source") {
		cfg.Stdout.ShowSource, cfg.Stderr.ShowSource = true, true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newPublisher(c *cli.Command) (*xlogpub.Publisher, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	return cfg.Publisher(xlogpub.CapturedStreams())
}

// parseParams turns "key=value" pairs into string parameters.
func parseParams(pairs []string) ([]xlogpub.Field, error) {
	fs := make([]xlogpub.Field, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("invalid param %q, want key=value", p)
		}
		fs = append(fs, xlogpub.Str(k, v))
	}
	return fs, nil
}

// EmitCommand publishes a single event.
func EmitCommand() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Usage:     "Publish one event",
		ArgsUsage: "<template>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "level",
				Usage: "Event level (debug, info, warn, error, critical)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "system",
				Usage: "Subsystem tag; empty for the default Controller label",
			},
			&cli.StringSliceFlag{
				Name:  "param",
				Usage: "Template parameter as key=value (repeatable)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return errors.New("emit: missing template")
			}
			level, err := xlogpub.ParseLevel(c.String("level"))
			if err != nil {
				return err
			}
			params, err := parseParams(c.StringSlice("param"))
			if err != nil {
				return err
			}
			pub, err := newPublisher(c)
			if err != nil {
				return err
			}
			template := strings.Join(c.Args().Slice(), " ")
			pub.Logger(c.String("system")).Log(level, template, params...)
			return nil
		},
	}
}

// PipeCommand publishes every stdin line as an event.
func PipeCommand() *cli.Command {
	return &cli.Command{
		Name:  "pipe",
		Usage: "Publish each line read from stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "level",
				Usage: "Level of every line",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "system",
				Usage: "Subsystem tag",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			level, err := xlogpub.ParseLevel(c.String("level"))
			if err != nil {
				return err
			}
			pub, err := newPublisher(c)
			if err != nil {
				return err
			}
			return pipeLines(os.Stdin, pub.Logger(c.String("system")), level)
		},
	}
}

func pipeLines(r io.Reader, l *xlogpub.Logger, level xlogpub.Level) error {
	lw := xlogpub.NewLineWriter(l, level)
	defer lw.Flush()
	if _, err := io.Copy(lw, r); err != nil {
		return errors.Wrap(err, "reading stdin")
	}
	return nil
}

type demoSource struct{}

// DemoCommand shows one line per colour rule, through every entry point.
func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Emit sample events from each subsystem",
		Action: func(ctx context.Context, c *cli.Command) error {
			pub, err := newPublisher(c)
			if err != nil {
				return err
			}
			stop, err := xlogpub.StartLogging(pub)
			if err != nil {
				return err
			}
			defer stop()

			runDemo(pub)
			log.Print("stdlib log lines are published too")
			slog.Info("slog record from {user}", "user", "alice", "system", "Container 2")
			return nil
		},
	}
}

func runDemo(pub *xlogpub.Publisher) {
	pub.Logger("").Info("controller started")
	pub.Logger("Router 1").WithSource(demoSource{}).Info("realm {realm} attached", xlogpub.Str("realm", "realm1"))
	pub.Logger("Container 1").At(xlogpub.LevelDebug).Int("workers", 4).Msg("container ready with {workers} workers")
	pub.Logger("Guest 1").Info("guest process output")
	pub.Logger("Router 1").Warn("session {id} idle", xlogpub.Int("id", 42))
	pub.Logger("").Critical("shutting down: {reason!r}", xlogpub.Str("reason", "demo over"))
}

// InitCommand writes the default configuration file.
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write the default configuration to --config",
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.String("config")
			if _, err := os.Stat(path); err == nil {
				return errors.Errorf("config %s already exists", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			pub := xlogpub.NewPublisher()
			pub.Subscribe(xlogpub.NewStandardOutObserver(xlogpub.Options{Format: xlogpub.FormatNoColour}))
			pub.Logger("cli").Info("wrote {path}", xlogpub.Str("path", path))
			return nil
		},
	}
}
