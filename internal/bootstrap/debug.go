package bootstrap

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nightconcept/sfcli/internal/core/config"
	"github.com/nightconcept/sfcli/internal/core/env"
)

const (
	debugPad = 25
	notSet   = "<not set>"
)

// debugEnvVars are always listed in the ENV section, after any SF_/SFDX_ variables.
var debugEnvVars = []string{
	"GODEBUG",
	"NODE_OPTIONS",
	env.AutoupdateDisable,
	"SF_BINPATH",
	"SF_COMPILE_CACHE",
	env.DisableAutoupdate,
	env.Mode,
	env.Installer,
	env.NpmRegistry,
	"SF_REDIRECTED",
	env.UpdateInstructions,
}

type debugItem struct {
	name  string
	value string
}

// LogCLIInfo writes the diagnostic snapshot at debug level. It does nothing
// when debug logging is disabled.
func LogCLIInfo(log *zap.SugaredLogger, version, channel string, e *env.Env, cfg *config.Config, argv []string) {
	if log == nil || !log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		return
	}

	section := func(name string, items []debugItem) {
		log.Debugf("%s:", padStart(name))
		for _, it := range items {
			log.Debugf("%s: %s", padStart(it.name), it.value)
		}
	}

	section("OS", []debugItem{
		{"platform", runtime.GOOS},
		{"architecture", runtime.GOARCH},
		{"release", osRelease()},
		{"shell", cfg.Shell},
	})
	section("GO", []debugItem{{"version", runtime.Version()}})
	section("CLI", []debugItem{
		{"version", version},
		{"channel", channel},
		{"bin", cfg.Bin},
		{"data", cfg.DataDir},
		{"cache", cfg.CacheDir},
		{"config", cfg.ConfigDir},
	})

	keys := envKeys(e)
	envItems := make([]debugItem, 0, len(keys))
	for _, k := range keys {
		envItems = append(envItems, debugItem{k, e.GetString(k, notSet)})
	}
	section("ENV", envItems)

	args := make([]debugItem, 0, len(argv))
	for i, a := range argv {
		args = append(args, debugItem{strconv.Itoa(i), a})
	}
	section("ARGS", args)
}

// envKeys returns SF_/SFDX_ variables present in e, sorted, followed by the
// fixed list, without duplicates.
func envKeys(e *env.Env) []string {
	var prefixed []string
	for _, k := range e.Keys() {
		if strings.HasPrefix(k, "SF_") || strings.HasPrefix(k, "SFDX_") {
			prefixed = append(prefixed, k)
		}
	}
	sort.Strings(prefixed)

	seen := make(map[string]struct{}, len(prefixed)+len(debugEnvVars))
	keys := make([]string, 0, len(prefixed)+len(debugEnvVars))
	for _, k := range append(prefixed, debugEnvVars...) {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func padStart(s string) string {
	return fmt.Sprintf("%*s", debugPad, s)
}
