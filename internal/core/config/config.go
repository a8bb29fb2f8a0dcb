package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nightconcept/sfcli/internal/core/project"
)

// DefaultChannel is used when no release channel is supplied.
const DefaultChannel = "stable"

// Options are the inputs needed to build a Config.
type Options struct {
	Root    string
	Version string
	Channel string
	// Getenv resolves directory and shell variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// Config is the runtime configuration for a single invocation.
type Config struct {
	Name      string
	Bin       string
	Dirname   string
	Root      string
	Version   string
	Channel   string
	Platform  string
	Arch      string
	Shell     string
	DataDir   string
	CacheDir  string
	ConfigDir string
	HomeDir   string

	Metadata *project.Metadata

	getenv func(string) string
	goos   string
}

// New returns an unloaded Config. Call Load before use.
func New(opts Options) *Config {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Config{
		Root:    opts.Root,
		Version: opts.Version,
		Channel: opts.Channel,
		getenv:  getenv,
		goos:    runtime.GOOS,
	}
}

// Load reads the package metadata from Root and derives names and directories.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta, err := LoadMetadata(c.Root)
	if err != nil {
		return fmt.Errorf("load %s: %w", project.MetadataFileName, err)
	}
	c.Metadata = meta

	c.Name = meta.Package.Name
	c.Bin = meta.CLI.Bin
	if c.Bin == "" {
		c.Bin = filepath.Base(c.Name)
	}
	if c.Name == "" {
		c.Name = c.Bin
	}
	c.Dirname = meta.CLI.Dirname
	if c.Dirname == "" {
		c.Dirname = c.Bin
	}
	if c.Version == "" {
		c.Version = meta.Package.Version
	}
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}

	c.Platform = c.goos
	c.Arch = runtime.GOARCH
	c.Shell = c.shell()
	c.HomeDir = c.home()
	c.DataDir = c.dir("DATA_DIR", "XDG_DATA_HOME", c.dataBase)
	c.CacheDir = c.dir("CACHE_DIR", "XDG_CACHE_HOME", c.cacheBase)
	c.ConfigDir = c.dir("CONFIG_DIR", "XDG_CONFIG_HOME", c.configBase)
	return nil
}

// UpdateRegistry returns the registry queried for update availability.
func (c *Config) UpdateRegistry() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.CLI.Update.Registry
}

// SetUpdateRegistry overrides the registry queried for update availability.
func (c *Config) SetUpdateRegistry(url string) {
	if c.Metadata == nil {
		c.Metadata = project.NewMetadata()
	}
	c.Metadata.CLI.Update.Registry = url
}

// ScopedEnvVar returns the name of a variable scoped to this binary,
// e.g. SF_DATA_DIR for bin "sf".
func (c *Config) ScopedEnvVar(suffix string) string {
	prefix := strings.ToUpper(strings.NewReplacer("-", "_", "@", "", "/", "_").Replace(c.Bin))
	return prefix + "_" + suffix
}

func (c *Config) dir(scopedSuffix, xdgVar string, base func() string) string {
	if v := c.getenv(c.ScopedEnvVar(scopedSuffix)); v != "" {
		return v
	}
	if c.goos != "windows" {
		if v := c.getenv(xdgVar); v != "" {
			return filepath.Join(v, c.Dirname)
		}
	}
	return filepath.Join(base(), c.Dirname)
}

func (c *Config) dataBase() string {
	if c.goos == "windows" {
		return c.windowsBase()
	}
	return filepath.Join(c.HomeDir, ".local", "share")
}

func (c *Config) cacheBase() string {
	switch c.goos {
	case "windows":
		return c.windowsBase()
	case "darwin":
		return filepath.Join(c.HomeDir, "Library", "Caches")
	default:
		return filepath.Join(c.HomeDir, ".cache")
	}
}

func (c *Config) configBase() string {
	return filepath.Join(c.HomeDir, ".config")
}

func (c *Config) windowsBase() string {
	if v := c.getenv("LOCALAPPDATA"); v != "" {
		return v
	}
	return c.HomeDir
}

func (c *Config) home() string {
	if c.goos == "windows" {
		if v := c.getenv("USERPROFILE"); v != "" {
			return v
		}
	}
	if v := c.getenv("HOME"); v != "" {
		return v
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.TempDir()
}

func (c *Config) shell() string {
	var sh string
	if c.goos == "windows" {
		sh = c.getenv("COMSPEC")
	} else {
		sh = c.getenv("SHELL")
	}
	if sh == "" {
		return "unknown"
	}
	// COMSPEC uses backslashes which filepath.Base ignores off windows.
	sh = strings.ReplaceAll(sh, `\`, "/")
	return filepath.Base(sh)
}

// LoadMetadata reads the package.toml file from the given dirPath and unmarshals it.
func LoadMetadata(dirPath string) (*project.Metadata, error) {
	fullPath := filepath.Join(dirPath, project.MetadataFileName)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	var meta project.Metadata
	if err := toml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	meta.Normalize()
	if meta.Package.Name == "" && meta.CLI.Bin == "" {
		return nil, fmt.Errorf("%s: package.name or cli.bin is required", fullPath)
	}
	return &meta, nil
}

// WriteMetadata marshals the Metadata and writes it to the specified dirPath.
// It will overwrite the file if it already exists.
func WriteMetadata(dirPath string, meta *project.Metadata) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(meta); err != nil {
		return err
	}

	fullPath := filepath.Join(dirPath, project.MetadataFileName)
	return os.WriteFile(fullPath, buf.Bytes(), 0644)
}
