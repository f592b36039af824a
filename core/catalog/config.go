package catalog

// Config holds configuration for the downstream catalog API.
type Config struct {
	// BaseURL is the root URL of the catalog API.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8090"`
	// ApiKey authenticates requests against the catalog.
	ApiKey string `mapstructure:"api_key" default:""`
	// ApiKeyHeader is the header the key is sent in.
	ApiKeyHeader string `mapstructure:"api_key_header" default:"X-API-Key"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
