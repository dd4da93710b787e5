package records

import "time"

// Config holds record store settings.
type Config struct {
	// IndexTTLSeconds is how long the name index is reused; 0 disables caching.
	IndexTTLSeconds int `mapstructure:"index_ttl_seconds" default:"300"`
}

// IndexTTL returns the name index lifetime.
func (c Config) IndexTTL() time.Duration {
	if c.IndexTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.IndexTTLSeconds) * time.Second
}
