// internal/matching/options.go
package matching

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultLimit    = 20
	DefaultMinScore = 0.3
	MaxLimit        = 100
)

var (
	ErrInvalidOptions = errors.New("invalid match options")
	ErrStoreQuery     = errors.New("profile store query failed")
)

// Options tune a single match request.
type Options struct {
	Limit              int
	MinScore           float64
	IncludeUnavailable bool
}

func DefaultOptions() Options {
	return Options{
		Limit:    DefaultLimit,
		MinScore: DefaultMinScore,
	}
}

// Validate rejects options before any store access.
func (o Options) Validate() error {
	if o.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidOptions, o.Limit)
	}
	if math.IsNaN(o.MinScore) || o.MinScore < 0 || o.MinScore > 1 {
		return fmt.Errorf("%w: minScore must be within [0,1], got %v", ErrInvalidOptions, o.MinScore)
	}
	return nil
}

func (o Options) capped(maxLimit int) Options {
	if maxLimit > 0 && o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	return o
}
