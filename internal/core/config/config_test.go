package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/sfcli/internal/core/project"
)

const validMetadata = `
[package]
name = "@salesforce/cli"
version = "2.5.8"
description = "The Salesforce CLI"

[cli]
bin = "sf"

[cli.update]
registry = "https://registry.npmjs.org"
slug = "salesforcecli/cli"
frequency_minutes = 60
`

func writeMetadata(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, project.MetadataFileName), []byte(content), 0644)
	require.NoError(t, err)
	return dir
}

func envFunc(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func loadConfig(t *testing.T, root, goos string, vars map[string]string) *Config {
	t.Helper()
	c := New(Options{Root: root, Version: "2.6.0", Channel: "nightly", Getenv: envFunc(vars)})
	c.goos = goos
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestLoadMetadata_Valid(t *testing.T) {
	dir := writeMetadata(t, validMetadata)

	meta, err := LoadMetadata(dir)
	require.NoError(t, err)
	require.NotNil(t, meta)

	assert.Equal(t, "@salesforce/cli", meta.Package.Name)
	assert.Equal(t, "2.5.8", meta.Package.Version)
	assert.Equal(t, "sf", meta.CLI.Bin)
	assert.Equal(t, "https://registry.npmjs.org", meta.CLI.Update.Registry)
	assert.Equal(t, "salesforcecli/cli", meta.CLI.Update.Slug)
	assert.Equal(t, 60, meta.CLI.Update.FrequencyMinutes)
}

func TestLoadMetadata_NotFound(t *testing.T) {
	_, err := LoadMetadata(t.TempDir())
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err), "Error should be a 'file not found' type error")
}

func TestLoadMetadata_InvalidFormat(t *testing.T) {
	dir := writeMetadata(t, "[package\nname = \"broken\"\n")
	_, err := LoadMetadata(dir)
	assert.Error(t, err)
}

func TestLoadMetadata_MissingIdentity(t *testing.T) {
	dir := writeMetadata(t, "[package]\nversion = \"1.0.0\"\n")
	_, err := LoadMetadata(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package.name or cli.bin is required")
}

func TestWriteMetadata_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	meta := project.NewMetadata()
	meta.Package.Name = "tool"
	meta.CLI.Bin = "tl"
	meta.CLI.Update.Registry = "https://example.test"

	require.NoError(t, WriteMetadata(dir, meta))

	loaded, err := LoadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, "tool", loaded.Package.Name)
	assert.Equal(t, "tl", loaded.CLI.Bin)
	assert.Equal(t, "https://example.test", loaded.CLI.Update.Registry)
}

func TestConfigLoad_Linux(t *testing.T) {
	dir := writeMetadata(t, validMetadata)
	c := loadConfig(t, dir, "linux", map[string]string{
		"HOME":  "/home/dev",
		"SHELL": "/usr/bin/zsh",
	})

	assert.Equal(t, "@salesforce/cli", c.Name)
	assert.Equal(t, "sf", c.Bin)
	assert.Equal(t, "2.6.0", c.Version)
	assert.Equal(t, "nightly", c.Channel)
	assert.Equal(t, "linux", c.Platform)
	assert.Equal(t, "zsh", c.Shell)
	assert.Equal(t, filepath.Join("/home/dev", ".local", "share", "sf"), c.DataDir)
	assert.Equal(t, filepath.Join("/home/dev", ".cache", "sf"), c.CacheDir)
	assert.Equal(t, filepath.Join("/home/dev", ".config", "sf"), c.ConfigDir)
	assert.Equal(t, "https://registry.npmjs.org", c.UpdateRegistry())
}

func TestConfigLoad_DirectoryOverrides(t *testing.T) {
	dir := writeMetadata(t, validMetadata)
	c := loadConfig(t, dir, "linux", map[string]string{
		"HOME":            "/home/dev",
		"XDG_CACHE_HOME":  "/xdg/cache",
		"XDG_CONFIG_HOME": "/xdg/config",
		"SF_CONFIG_DIR":   "/custom/config",
	})

	assert.Equal(t, filepath.Join("/xdg/cache", "sf"), c.CacheDir)
	assert.Equal(t, "/custom/config", c.ConfigDir)
	assert.Equal(t, "unknown", c.Shell)
}

func TestConfigLoad_DarwinCache(t *testing.T) {
	dir := writeMetadata(t, validMetadata)
	c := loadConfig(t, dir, "darwin", map[string]string{"HOME": "/Users/dev"})
	assert.Equal(t, filepath.Join("/Users/dev", "Library", "Caches", "sf"), c.CacheDir)
}

func TestConfigLoad_Windows(t *testing.T) {
	dir := writeMetadata(t, validMetadata)
	c := loadConfig(t, dir, "windows", map[string]string{
		"USERPROFILE":  `C:\Users\dev`,
		"LOCALAPPDATA": `C:\Users\dev\AppData\Local`,
		"COMSPEC":      `C:\Windows\system32\cmd.exe`,
	})

	assert.Equal(t, "cmd.exe", c.Shell)
	assert.Equal(t, filepath.Join(`C:\Users\dev\AppData\Local`, "sf"), c.DataDir)
	assert.Equal(t, filepath.Join(`C:\Users\dev\AppData\Local`, "sf"), c.CacheDir)
}

func TestConfigLoad_DefaultsFromMetadata(t *testing.T) {
	dir := writeMetadata(t, "[package]\nname = \"@scope/tool\"\nversion = \"0.3.0\"\n")
	c := New(Options{Root: dir, Getenv: envFunc(map[string]string{"HOME": "/h"})})
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, "tool", c.Bin)
	assert.Equal(t, "0.3.0", c.Version)
	assert.Equal(t, DefaultChannel, c.Channel)
	assert.Empty(t, c.UpdateRegistry())
}

func TestConfigLoad_NameFallsBackToBin(t *testing.T) {
	dir := writeMetadata(t, "[cli]\nbin = \"sf\"\n")
	c := New(Options{Root: dir, Version: "1.0.0", Getenv: envFunc(map[string]string{"HOME": "/h"})})
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, "sf", c.Bin)
	assert.Equal(t, "sf", c.Name)
}

func TestConfigLoad_MissingMetadataPropagates(t *testing.T) {
	c := New(Options{Root: t.TempDir()})
	err := c.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSetUpdateRegistry(t *testing.T) {
	c := New(Options{})
	assert.Empty(t, c.UpdateRegistry())
	c.SetUpdateRegistry("https://mirror.test")
	assert.Equal(t, "https://mirror.test", c.UpdateRegistry())
}

func TestScopedEnvVar(t *testing.T) {
	c := &Config{Bin: "my-tool"}
	assert.Equal(t, "MY_TOOL_DATA_DIR", c.ScopedEnvVar("DATA_DIR"))
}
