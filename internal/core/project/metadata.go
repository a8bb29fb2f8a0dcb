package project

// MetadataFileName is the metadata file found at the program root.
const MetadataFileName = "package.toml"

// Metadata represents the structure of the package.toml file shipped next
// to the binary.
type Metadata struct {
	Package *PackageInfo `toml:"package"`
	CLI     *CLIInfo     `toml:"cli"`
}

// PackageInfo holds the published package identity.
type PackageInfo struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description,omitempty"`
}

// CLIInfo holds settings for the command-line surface.
type CLIInfo struct {
	Bin     string      `toml:"bin"`
	Dirname string      `toml:"dirname,omitempty"`
	Update  *UpdateInfo `toml:"update,omitempty"`
}

// UpdateInfo configures update checks and self-update.
type UpdateInfo struct {
	Registry         string `toml:"registry,omitempty"`          // Package index queried for newer versions
	Slug             string `toml:"slug,omitempty"`              // owner/repo hosting release binaries
	FrequencyMinutes int    `toml:"frequency_minutes,omitempty"` // Minimum interval between registry queries
	TimeoutSeconds   int    `toml:"timeout_seconds,omitempty"`
}

// NewMetadata creates and returns a Metadata instance with initialized sections.
func NewMetadata() *Metadata {
	return &Metadata{
		Package: &PackageInfo{},
		CLI:     &CLIInfo{Update: &UpdateInfo{}},
	}
}

// Normalize fills in nil sections so callers can walk the tree freely.
func (m *Metadata) Normalize() {
	if m.Package == nil {
		m.Package = &PackageInfo{}
	}
	if m.CLI == nil {
		m.CLI = &CLIInfo{}
	}
	if m.CLI.Update == nil {
		m.CLI.Update = &UpdateInfo{}
	}
}
