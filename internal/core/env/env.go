// Package env provides typed access to the environment variables that
// govern update behavior and install mode.
package env

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// Recognized variable names.
const (
	// AutoupdateDisable is the legacy spelling of the autoupdate-disabled flag.
	AutoupdateDisable = "SF_AUTOUPDATE_DISABLE"
	// DisableAutoupdate is the canonical autoupdate-disabled flag.
	DisableAutoupdate  = "SF_DISABLE_AUTOUPDATE"
	Mode               = "SF_ENV"
	Installer          = "SF_INSTALLER"
	NpmRegistry        = "SF_NPM_REGISTRY"
	UpdateInstructions = "SF_UPDATE_INSTRUCTIONS"
	SkipVersionCheck   = "SF_SKIP_NEW_VERSION_CHECK"
)

const defaultMode = "production"

// Store is a key/value namespace backing an Env.
type Store interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Keys() []string
}

// ProcessStore reads and writes the process environment.
type ProcessStore struct{}

func (ProcessStore) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

func (ProcessStore) Set(key, value string) error { return os.Setenv(key, value) }

func (ProcessStore) Keys() []string {
	environ := os.Environ()
	keys := make([]string, 0, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i > 0 {
			keys = append(keys, kv[:i])
		}
	}
	return keys
}

// MapStore is an in-memory Store. The zero value is not usable; use NewMapStore.
type MapStore struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapStore returns a MapStore seeded with a copy of vars.
func NewMapStore(vars map[string]string) *MapStore {
	m := &MapStore{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

func (m *MapStore) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *MapStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

func (m *MapStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.vars))
	for k := range m.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Env is a typed view over a Store.
type Env struct {
	store Store
}

// New wraps store. A nil store means the process environment.
func New(store Store) *Env {
	if store == nil {
		store = ProcessStore{}
	}
	return &Env{store: store}
}

// Process returns an Env over the process environment.
func Process() *Env {
	return New(ProcessStore{})
}

// Keys lists every variable name present in the underlying store.
func (e *Env) Keys() []string {
	return e.store.Keys()
}

// GetString returns the value of key, or def when it is unset or empty.
func (e *Env) GetString(key, def string) string {
	if v, ok := e.store.Lookup(key); ok && v != "" {
		return v
	}
	return def
}

// GetBoolean reports whether key holds "true" (any case) or "1".
func (e *Env) GetBoolean(key string) bool {
	return parseBool(e.GetString(key, "false"))
}

// SetString writes key. Write failures on the process environment are
// dropped: flag writes are best effort and only consulted by this process.
func (e *Env) SetString(key, value string) {
	_ = e.store.Set(key, value)
}

func (e *Env) SetBoolean(key string, value bool) {
	if value {
		e.SetString(key, "true")
		return
	}
	e.SetString(key, "false")
}

// IsAutoupdateDisabled reports whether either disabled flag is true.
func (e *Env) IsAutoupdateDisabled() bool {
	return e.GetBoolean(AutoupdateDisable) || e.GetBoolean(DisableAutoupdate)
}

// IsAutoupdateDisabledSet reports whether either disabled flag carries any value.
func (e *Env) IsAutoupdateDisabledSet() bool {
	return e.GetString(AutoupdateDisable, "") != "" || e.GetString(DisableAutoupdate, "") != ""
}

// SetAutoupdateDisabled writes both the legacy and the canonical flag.
func (e *Env) SetAutoupdateDisabled(value bool) {
	e.SetBoolean(AutoupdateDisable, value)
	e.SetBoolean(DisableAutoupdate, value)
}

// NormalizeAutoupdateDisabled makes a true legacy flag imply the canonical
// flag and vice versa. False or missing flags are left as they are.
func (e *Env) NormalizeAutoupdateDisabled() {
	if e.GetBoolean(AutoupdateDisable) {
		e.SetBoolean(DisableAutoupdate, true)
	} else if e.GetBoolean(DisableAutoupdate) {
		e.SetBoolean(AutoupdateDisable, true)
	}
}

func (e *Env) SetUpdateInstructions(msg string) {
	e.SetString(UpdateInstructions, msg)
}

func (e *Env) UpdateInstructions() string {
	return e.GetString(UpdateInstructions, "")
}

// IsDemoMode reports whether SF_ENV selects demo mode.
func (e *Env) IsDemoMode() bool {
	return strings.EqualFold(e.GetString(Mode, defaultMode), "demo")
}

func (e *Env) IsInstaller() bool {
	return e.GetBoolean(Installer)
}

// NpmRegistryOverride returns the alternate registry URL, or "" when none is set.
func (e *Env) NpmRegistryOverride() string {
	return e.GetString(NpmRegistry, "")
}

func (e *Env) SkipNewVersionCheck() bool {
	return e.GetBoolean(SkipVersionCheck)
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1"
}
