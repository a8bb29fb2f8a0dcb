package self

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sfcli/internal/core/config"
	"github.com/nightconcept/sfcli/internal/core/env"
	"github.com/nightconcept/sfcli/internal/logger"
)

// DefaultSlug is the release repository used when package.toml names none.
const DefaultSlug = "salesforcecli/cli"

// NewUpdateCommand creates the "update" command, which replaces the running
// binary with the newest release unless autoupdate is disabled.
func NewUpdateCommand(cfg *config.Config, e *env.Env) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Update the CLI to the latest version",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Automatically confirm the update",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Check for available updates without installing",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Specify a custom GitHub update source as 'owner/repo'",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			return updateAction(c, cfg, e)
		},
	}
}

func updateAction(c *cli.Context, cfg *config.Config, e *env.Env) error {
	out := c.App.Writer
	verbose := c.Bool("verbose")
	log := logger.FromContext(c.Context)

	if e.IsAutoupdateDisabled() {
		msg := e.UpdateInstructions()
		if msg == "" {
			msg = "CLI updates have been disabled."
		}
		_, _ = color.New(color.FgYellow).Fprintf(c.App.ErrWriter, "Warning: %s\n", msg)
		return nil
	}

	currentSemVer, err := semver.NewVersion(strings.TrimPrefix(cfg.Version, "v"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error parsing current version '%s': %v. Ensure version is like vX.Y.Z or X.Y.Z.", cfg.Version, err), 1)
	}
	if verbose {
		_, _ = fmt.Fprintf(out, "%s current version: %s\n", cfg.Bin, currentSemVer.String())
	}

	repoSlug, err := resolveSlug(c.String("source"), cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if verbose {
		_, _ = fmt.Fprintf(out, "Using GitHub source: %s\n", repoSlug)
	}
	log.Debugf("self-update source %s, channel %s", repoSlug, cfg.Channel)

	ghSource, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error creating GitHub source: %v", err), 1)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     ghSource,
		Prerelease: cfg.Channel != "" && cfg.Channel != config.DefaultChannel,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to initialize updater: %v", err), 1)
	}

	if verbose {
		_, _ = fmt.Fprintln(out, "Checking for latest version...")
	}

	latestRelease, found, err := updater.DetectLatest(c.Context, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error detecting latest version: %v", err), 1)
	}
	if !found || !latestRelease.GreaterThan(currentSemVer.String()) {
		_, _ = fmt.Fprintf(out, "Current version %s is already the latest.\n", cfg.Version)
		return nil
	}

	if verbose && latestRelease.ReleaseNotes != "" {
		_, _ = fmt.Fprintf(out, "Release Notes:\n%s\n", latestRelease.ReleaseNotes)
	}
	_, _ = fmt.Fprintf(out, "New version available: %s (current: %s)\n", latestRelease.Version(), cfg.Version)

	if c.Bool("check") {
		return nil
	}

	if !c.Bool("yes") && !confirm(c) {
		_, _ = fmt.Fprintln(out, "Update cancelled.")
		return nil
	}

	_, _ = fmt.Fprintf(out, "Updating to %s...\n", latestRelease.Version())
	execPath, err := os.Executable()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Could not get executable path: %v", err), 1)
	}

	if err := updater.UpdateTo(c.Context, latestRelease, execPath); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update: %v", err), 1)
	}

	_, _ = fmt.Fprintf(out, "Successfully updated to version %s.\n", latestRelease.Version())
	return nil
}

// resolveSlug picks the --source flag, then package.toml, then DefaultSlug.
func resolveSlug(sourceFlag string, cfg *config.Config) (string, error) {
	if sourceFlag != "" {
		parts := strings.Split(sourceFlag, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", fmt.Errorf("invalid --source format, expected 'owner/repo', got: %s", sourceFlag)
		}
		return sourceFlag, nil
	}
	if cfg.Metadata != nil && cfg.Metadata.CLI.Update.Slug != "" {
		return cfg.Metadata.CLI.Update.Slug, nil
	}
	return DefaultSlug, nil
}

func confirm(c *cli.Context) bool {
	_, _ = fmt.Fprint(c.App.Writer, "Do you want to update? (y/N): ")
	reader := bufio.NewReader(c.App.Reader)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(input)) == "y"
}
