// internal/workers/matching/compute-match-score/config.go
package computematchscore

import "time"

type Config struct {
	// Timeout is the job activation timeout; the handler deadline is derived from it.
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	}
}
