// Package main is the sf entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sfcli/internal/bootstrap"
	"github.com/nightconcept/sfcli/internal/core/env"
)

// version and channel are set at build time.
var (
	version = "dev" // Default to "dev" if not set by ldflags
	channel = "stable"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	err := bootstrap.Create(version, channel, nil, env.Process()).Run(ctx)
	if err == nil {
		return
	}

	code := 1
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(os.Stderr, msg)
	}
	stop()
	os.Exit(code)
}
