package ratelimit

import (
	"strings"
)

// unlimitedRoutes are never limited, keyed by "METHOD path". CORS preflights
// are unlimited on every path.
var unlimitedRoutes = map[string]bool{
	"GET /health":    true,
	"GET /platforms": true,
}

// unlimited is the config returned for unlimitedRoutes.
var unlimited = EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// A config path ending in "/" matches every path below it (e.g. "/api/" matches "/api/logs").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimitedRoutes[method+" "+path] || method == "OPTIONS" {
		cfg := unlimited
		return &cfg
	}

	// Exact match wins over prefix match
	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Method == method && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			return cfg
		}
	}

	return nil
}
