// Package providers assembles the catalog adapter registry.
package providers

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/fyxsky/songfetch/internal/config"
	httpx "github.com/fyxsky/songfetch/internal/http"
	"github.com/fyxsky/songfetch/internal/provider"
	"github.com/fyxsky/songfetch/internal/providers/kugou"
	"github.com/fyxsky/songfetch/internal/providers/netease"
	"github.com/fyxsky/songfetch/internal/providers/qq"
)

// BuildRegistry registers the configured catalogs in the configured
// priority order. Unknown source names are skipped; a source list with
// no known names falls back to every catalog in the default order.
func BuildRegistry(client *httpx.Client, settings *config.Settings, logger *log.Logger) *provider.Registry {
	timeout := time.Duration(settings.ProviderTimeoutSec * float64(time.Second))
	registry := provider.NewRegistry(client, timeout, logger)

	available := map[string]provider.Provider{
		"netease": netease.New(client),
		"qq":      qq.New(client),
		"kugou":   kugou.New(client),
	}

	registered := make(map[string]bool)
	for _, name := range settings.Sources {
		if p, ok := available[name]; ok && !registered[name] {
			registry.Register(p)
			registered[name] = true
		}
	}
	if len(registered) == 0 {
		for _, name := range []string{"qq", "kugou", "netease"} {
			registry.Register(available[name])
		}
	}
	return registry
}
