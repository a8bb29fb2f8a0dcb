package version

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sfcli/internal/core/config"
)

// NewVersionCommand creates the "version" command for the loaded configuration.
func NewVersionCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Display the CLI version and platform",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Also display the channel and data directories",
			},
		},
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			_, _ = fmt.Fprintln(w, UserAgent(cfg))
			if !c.Bool("verbose") {
				return nil
			}
			_, _ = fmt.Fprintf(w, "  channel: %s\n", cfg.Channel)
			_, _ = fmt.Fprintf(w, "  shell:   %s\n", cfg.Shell)
			_, _ = fmt.Fprintf(w, "  root:    %s\n", cfg.Root)
			_, _ = fmt.Fprintf(w, "  data:    %s\n", cfg.DataDir)
			_, _ = fmt.Fprintf(w, "  cache:   %s\n", cfg.CacheDir)
			_, _ = fmt.Fprintf(w, "  config:  %s\n", cfg.ConfigDir)
			return nil
		},
	}
}

// UserAgent formats "<bin>/<version> <platform>-<arch> <go version>".
func UserAgent(cfg *config.Config) string {
	return fmt.Sprintf("%s/%s %s-%s %s", cfg.Bin, cfg.Version, cfg.Platform, cfg.Arch, runtime.Version())
}
