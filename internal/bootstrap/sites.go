package bootstrap

import (
	"github.com/nightconcept/sfcli/internal/core/config"
	"github.com/nightconcept/sfcli/internal/core/env"
)

// ConfigureUpdateSites points the update check at SF_NPM_REGISTRY when it is set.
func ConfigureUpdateSites(cfg *config.Config, e *env.Env) {
	if registry := e.NpmRegistryOverride(); registry != "" {
		cfg.SetUpdateRegistry(registry)
	}
}
