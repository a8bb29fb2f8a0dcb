package bootstrap

import "github.com/nightconcept/sfcli/internal/core/env"

// Update-disabled explanations shown to users, one per policy.
const (
	UpdateDisabledInstaller = `Manual and automatic CLI updates have been disabled by setting "SF_AUTOUPDATE_DISABLE=true". ` +
		"To check for a new version, unset that environment variable."
	UpdateDisabledNpm  = `Use "npm update --global @salesforce/cli" to update npm-based installations.`
	UpdateDisabledDemo = "Manual and automatic CLI updates have been disabled in DEMO mode. " +
		"To check for a new version, unset the environment variable SF_ENV."
)

// Policy is the autoupdate branch selected for a run.
type Policy int

const (
	// PolicyDefault applies to package-manager installs and local development.
	PolicyDefault Policy = iota
	// PolicyDemo disables updates unconditionally.
	PolicyDemo
	// PolicyInstaller reports a disabled state set by the user but never disables on its own.
	PolicyInstaller
)

func (p Policy) String() string {
	switch p {
	case PolicyDemo:
		return "demo"
	case PolicyInstaller:
		return "installer"
	default:
		return "default"
	}
}

// DecidePolicy picks the autoupdate policy. Demo mode wins over installer
// mode, which wins over the default.
func DecidePolicy(e *env.Env) Policy {
	switch {
	case e.IsDemoMode():
		return PolicyDemo
	case e.IsInstaller():
		return PolicyInstaller
	default:
		return PolicyDefault
	}
}

// ApplyPolicy records p's effect on the autoupdate flags and instructions.
func ApplyPolicy(e *env.Env, p Policy) {
	switch p {
	case PolicyDemo:
		e.SetAutoupdateDisabled(true)
		e.SetUpdateInstructions(UpdateDisabledDemo)
	case PolicyInstaller:
		e.NormalizeAutoupdateDisabled()
		if e.IsAutoupdateDisabled() {
			e.SetUpdateInstructions(UpdateDisabledInstaller)
		}
	default:
		// Unset means disabled; an explicit false keeps updates on.
		if !e.IsAutoupdateDisabledSet() {
			e.SetAutoupdateDisabled(true)
		}
		if e.IsAutoupdateDisabled() {
			e.SetUpdateInstructions(UpdateDisabledNpm)
		}
	}
}

// ConfigureAutoUpdate decides and applies the autoupdate policy.
func ConfigureAutoUpdate(e *env.Env) Policy {
	p := DecidePolicy(e)
	ApplyPolicy(e, p)
	return p
}
