// internal/workers/matching/find-business-matches/config.go
package findbusinessmatches

import "time"

type Config struct {
	// Timeout is the job activation timeout; the handler deadline is derived from it.
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		MaxRetries: 3,
	}
}
