package source

import "strings"

// Config holds configuration for the source catalog API.
type Config struct {
	// BaseURL is the root URL of the source catalog API.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8081"`
	// ApiKey authenticates requests against the source catalog.
	ApiKey string `mapstructure:"api_key" default:""`
	// ApiKeyHeader is the header the key is sent in.
	ApiKeyHeader string `mapstructure:"api_key_header" default:"X-API-Key"`
	// Scopes lists the scopes to mirror, comma separated.
	Scopes string `mapstructure:"scopes" default:"default"`
	// TimeoutSeconds is the per-request timeout in seconds. Full listings can
	// be large, so this defaults higher than the catalog client.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
}

// ScopeList splits the configured scopes into a trimmed slice.
func (c Config) ScopeList() []string {
	var scopes []string
	for _, s := range strings.Split(c.Scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
