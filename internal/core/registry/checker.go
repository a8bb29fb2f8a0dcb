package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/nightconcept/sfcli/internal/core/config"
)

// CacheFileName is the file under the cache directory recording the last check.
const CacheFileName = "version.toml"

// DefaultFrequency is the minimum interval between registry queries.
const DefaultFrequency = 24 * time.Hour

// Cache records the outcome of the most recent registry query.
type Cache struct {
	Latest    string    `toml:"latest"`
	DistTag   string    `toml:"dist_tag"`
	CheckedAt time.Time `toml:"checked_at"`
}

// Checker reports whether a newer release than the running one is published.
type Checker struct {
	Client *Client
	Now    func() time.Time
}

// NewChecker returns a Checker using the timeout configured in cfg.
func NewChecker(cfg *config.Config) *Checker {
	timeout := DefaultTimeout
	if cfg.Metadata != nil && cfg.Metadata.CLI.Update.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Metadata.CLI.Update.TimeoutSeconds) * time.Second
	}
	return &Checker{Client: NewClient(timeout), Now: time.Now}
}

// Check returns the newer version available for cfg, or "" when the running
// version is current or cannot be compared.
func (ch *Checker) Check(ctx context.Context, cfg *config.Config) (string, error) {
	current, err := semver.NewVersion(strings.TrimPrefix(cfg.Version, "v"))
	if err != nil {
		return "", nil
	}

	latest, err := ch.latest(ctx, cfg)
	if err != nil {
		return "", err
	}

	latestVer, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return "", fmt.Errorf("registry returned invalid version %q: %w", latest, err)
	}
	if !latestVer.GreaterThan(current) {
		return "", nil
	}
	return latestVer.String(), nil
}

func (ch *Checker) latest(ctx context.Context, cfg *config.Config) (string, error) {
	tag := DistTag(cfg.Channel)
	cachePath := filepath.Join(cfg.CacheDir, CacheFileName)

	cached, err := LoadCache(cachePath)
	if err == nil && cached.DistTag == tag && ch.now().Sub(cached.CheckedAt) < frequency(cfg) {
		return cached.Latest, nil
	}

	latest, err := ch.Client.LatestVersion(ctx, cfg.UpdateRegistry(), cfg.Name, tag)
	if err != nil {
		return "", err
	}

	// A cache write failure only costs a repeat query next run.
	_ = SaveCache(cachePath, &Cache{Latest: latest, DistTag: tag, CheckedAt: ch.now()})
	return latest, nil
}

func (ch *Checker) now() time.Time {
	if ch.Now == nil {
		return time.Now()
	}
	return ch.Now()
}

func frequency(cfg *config.Config) time.Duration {
	if cfg.Metadata != nil && cfg.Metadata.CLI.Update.FrequencyMinutes > 0 {
		return time.Duration(cfg.Metadata.CLI.Update.FrequencyMinutes) * time.Minute
	}
	return DefaultFrequency
}

// LoadCache reads a cache file written by SaveCache.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Cache
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Latest == "" {
		return nil, errors.New("cache has no version")
	}
	return &c, nil
}

// SaveCache writes c to path, creating parent directories as needed.
func SaveCache(path string, c *Cache) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(c); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
