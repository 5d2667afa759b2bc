// internal/workers/matching/find-influencer-matches/models.go
package findinfluencermatches

import (
	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

// Input names the business either by ID or inline. An inline profile wins.
type Input struct {
	BusinessID         string                  `json:"businessId,omitempty"`
	Business           *models.BusinessProfile `json:"business,omitempty"`
	Limit              *int                    `json:"limit,omitempty"`
	MinScore           *float64                `json:"minScore,omitempty"`
	IncludeUnavailable bool                    `json:"includeUnavailable,omitempty"`
}

// Options overlays the caller's settings on the engine defaults.
func (in *Input) Options() matching.Options {
	opts := matching.DefaultOptions()
	if in.Limit != nil {
		opts.Limit = *in.Limit
	}
	if in.MinScore != nil {
		opts.MinScore = *in.MinScore
	}
	opts.IncludeUnavailable = in.IncludeUnavailable
	return opts
}

type Output struct {
	RequestID     string            `json:"requestId"`
	BusinessID    string            `json:"businessId"`
	Matches       []InfluencerMatch `json:"matches"`
	PoolSize      int               `json:"poolSize"`
	TotalEligible int64             `json:"totalEligible"`
	DurationMs    int64             `json:"durationMs"`
}

type InfluencerMatch struct {
	InfluencerID string                   `json:"influencerId"`
	Score        float64                  `json:"score"`
	Breakdown    models.Breakdown         `json:"breakdown"`
	Influencer   models.InfluencerProfile `json:"influencer"`
}
