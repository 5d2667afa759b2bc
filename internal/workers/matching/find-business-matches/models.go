// internal/workers/matching/find-business-matches/models.go
package findbusinessmatches

import (
	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

// Input names the influencer either by ID or inline. An inline profile wins.
type Input struct {
	InfluencerID string                    `json:"influencerId,omitempty"`
	Influencer   *models.InfluencerProfile `json:"influencer,omitempty"`
	Limit        *int                      `json:"limit,omitempty"`
	MinScore     *float64                  `json:"minScore,omitempty"`
}

func (in *Input) Options() matching.Options {
	opts := matching.DefaultOptions()
	if in.Limit != nil {
		opts.Limit = *in.Limit
	}
	if in.MinScore != nil {
		opts.MinScore = *in.MinScore
	}
	return opts
}

type Output struct {
	RequestID     string          `json:"requestId"`
	InfluencerID  string          `json:"influencerId"`
	Matches       []BusinessMatch `json:"matches"`
	PoolSize      int             `json:"poolSize"`
	TotalEligible int64           `json:"totalEligible"`
	DurationMs    int64           `json:"durationMs"`
}

type BusinessMatch struct {
	BusinessID string                 `json:"businessId"`
	Score      float64                `json:"score"`
	Breakdown  models.Breakdown       `json:"breakdown"`
	Business   models.BusinessProfile `json:"business"`
}
