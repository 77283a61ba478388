package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/trickstertwo/xlogpub"
)

func main() {
	app := &cli.Command{
		Name:  "xlogpub",
		Usage: "Publish log events to the console observers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: defaultConfigPath(),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Override the format of both observers (colour, nocolour, syslogd)",
			},
			&cli.StringFlag{
				Name:  "colour",
				Usage: "Override colour detection (auto, always, never)",
			},
			&cli.BoolFlag{
				Name:  "show-source",
				Usage: "Append the source type name to the subsystem label",
			},
		},
		Commands: []*cli.Command{
			EmitCommand(),
			PipeCommand(),
			DemoCommand(),
			InitCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		// Straight to the captured stream: the publisher may be what failed.
		fmt.Fprintf(xlogpub.CapturedStreams().Stderr, "xlogpub: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "xlogpub.toml"
	}
	return filepath.Join(dir, "xlogpub", "config.toml")
}
