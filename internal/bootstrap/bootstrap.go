// Package bootstrap builds the runtime configuration, settles the autoupdate
// policy and hands the command line to a command runner.
package bootstrap

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nightconcept/sfcli/internal/cli/dispatch"
	"github.com/nightconcept/sfcli/internal/core/config"
	"github.com/nightconcept/sfcli/internal/core/env"
	"github.com/nightconcept/sfcli/internal/logger"
)

// Namespace is the debug namespace used for bootstrap diagnostics.
const Namespace = "sf"

// RunFunc dispatches args against a loaded configuration.
type RunFunc func(ctx context.Context, args []string, cfg *config.Config) error

// CLI is a prepared, not yet started, invocation.
type CLI struct {
	version string
	channel string
	run     RunFunc
	env     *env.Env
	root    string
	argv    []string
	log     *zap.SugaredLogger
}

// Option customizes Create.
type Option func(*CLI)

// WithRoot sets the directory holding package.toml.
func WithRoot(root string) Option {
	return func(c *CLI) { c.root = root }
}

// WithArgs sets the full argument vector, program name included.
func WithArgs(argv []string) Option {
	return func(c *CLI) { c.argv = argv }
}

// WithLogger replaces the DEBUG-driven logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *CLI) { c.log = l }
}

// Create prepares a CLI for version and channel. A nil run uses the default
// dispatcher and a nil e uses the process environment.
func Create(version, channel string, run RunFunc, e *env.Env, opts ...Option) *CLI {
	if e == nil {
		e = env.Process()
	}
	c := &CLI{
		version: version,
		channel: channel,
		run:     run,
		env:     e,
		argv:    os.Args,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.root == "" {
		c.root = defaultRoot()
	}
	if c.log == nil {
		c.log = logger.ForNamespace(e.GetString(logger.SelectorVar, ""), Namespace, os.Stderr)
	}
	if c.run == nil {
		c.run = dispatch.New(e).Run
	}
	return c
}

// Run loads the configuration, applies update settings, logs diagnostics and
// dispatches. Errors from loading and dispatching are returned unchanged.
func (c *CLI) Run(ctx context.Context) error {
	cfg := config.New(config.Options{
		Root:    c.root,
		Version: c.version,
		Channel: c.channel,
		Getenv:  func(k string) string { return c.env.GetString(k, "") },
	})
	if err := cfg.Load(ctx); err != nil {
		return err
	}

	ConfigureUpdateSites(cfg, c.env)
	policy := ConfigureAutoUpdate(c.env)
	c.log.Debugf("autoupdate policy: %s", policy)
	LogCLIInfo(c.log, c.version, c.channel, c.env, cfg, c.argv)

	ctx = logger.ToContext(ctx, c.log)
	return c.run(ctx, args(c.argv), cfg)
}

func args(argv []string) []string {
	if len(argv) <= 1 {
		return []string{}
	}
	return argv[1:]
}

// defaultRoot is the parent of the executable's directory (<root>/bin/sf).
func defaultRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}
