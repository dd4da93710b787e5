package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// An empty key disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies (batch export requests).
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"4"`
	// ExportTimeoutSeconds bounds one export request, conversion included.
	ExportTimeoutSeconds int `mapstructure:"export_timeout_seconds" default:"600"`
}

const (
	// DefaultBodyLimitMB is used when BodyLimitMB is unset or invalid.
	DefaultBodyLimitMB = 4
	// DefaultExportTimeoutSeconds is used when ExportTimeoutSeconds is unset or invalid.
	DefaultExportTimeoutSeconds = 600
)

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return DefaultBodyLimitMB * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// ExportTimeout returns the per-request export deadline in seconds.
func (c Config) ExportTimeout() int {
	if c.ExportTimeoutSeconds <= 0 {
		return DefaultExportTimeoutSeconds
	}
	return c.ExportTimeoutSeconds
}
