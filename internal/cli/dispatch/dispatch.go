// Package dispatch is the default command runner: a urfave/cli application
// built from the loaded runtime configuration.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sfcli/internal/cli/self"
	"github.com/nightconcept/sfcli/internal/cli/version"
	"github.com/nightconcept/sfcli/internal/core/config"
	"github.com/nightconcept/sfcli/internal/core/env"
	"github.com/nightconcept/sfcli/internal/core/registry"
	"github.com/nightconcept/sfcli/internal/logger"
)

// UpdateChecker reports a newer published version, or "" when current.
type UpdateChecker interface {
	Check(ctx context.Context, cfg *config.Config) (string, error)
}

// Dispatcher runs commands against a loaded configuration.
type Dispatcher struct {
	Env        *env.Env
	Stdout     io.Writer
	Stderr     io.Writer
	Stdin      io.Reader
	NewChecker func(cfg *config.Config) UpdateChecker
}

// New returns a Dispatcher writing to the process's standard streams.
func New(e *env.Env) *Dispatcher {
	return &Dispatcher{
		Env:    e,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		NewChecker: func(cfg *config.Config) UpdateChecker {
			return registry.NewChecker(cfg)
		},
	}
}

// Run executes args (program name excluded). Command failures are returned
// as-is; exit codes are left to the caller.
func (d *Dispatcher) Run(ctx context.Context, args []string, cfg *config.Config) error {
	argv := append([]string{cfg.Bin}, args...)
	return d.App(cfg).RunContext(ctx, argv)
}

// App builds the application for cfg.
func (d *Dispatcher) App(cfg *config.Config) *cli.App {
	usage := "Command-line interface"
	if cfg.Metadata != nil && cfg.Metadata.Package.Description != "" {
		usage = cfg.Metadata.Package.Description
	}
	return &cli.App{
		Name:      cfg.Bin,
		Usage:     usage,
		Version:   cfg.Version,
		Writer:    d.Stdout,
		ErrWriter: d.Stderr,
		Reader:    d.Stdin,
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return cli.Exit(fmt.Sprintf("command %s not found", c.Args().First()), 127)
			}
			// Default action if no command is specified
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			version.NewVersionCommand(cfg),
			self.NewUpdateCommand(cfg, d.Env),
		},
		After: func(c *cli.Context) error {
			d.warnIfUpdateAvailable(c, cfg)
			return nil
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// warnIfUpdateAvailable prints a notice when the registry has a newer
// release. It never fails the command.
func (d *Dispatcher) warnIfUpdateAvailable(c *cli.Context, cfg *config.Config) {
	if d.Env.SkipNewVersionCheck() || d.NewChecker == nil || c.Args().First() == "update" {
		return
	}
	log := logger.FromContext(c.Context)

	latest, err := d.NewChecker(cfg).Check(c.Context, cfg)
	if err != nil {
		log.Debugf("update check failed: %v", err)
		return
	}
	if latest == "" {
		return
	}

	warn := color.New(color.FgYellow)
	_, _ = warn.Fprintf(d.Stderr, "Warning: %s update available from %s to %s.\n", cfg.Name, cfg.Version, latest)
	if msg := d.Env.UpdateInstructions(); msg != "" {
		_, _ = warn.Fprintf(d.Stderr, "Warning: %s\n", msg)
	}
}
