// internal/workers/matching/compute-match-score/models.go
package computematchscore

import "influencer-matching/internal/models"

// Input names each side of the pair by ID or inline. Inline profiles win.
type Input struct {
	BusinessID   string                    `json:"businessId,omitempty"`
	Business     *models.BusinessProfile   `json:"business,omitempty"`
	InfluencerID string                    `json:"influencerId,omitempty"`
	Influencer   *models.InfluencerProfile `json:"influencer,omitempty"`
}

type Output struct {
	BusinessID   string           `json:"businessId"`
	InfluencerID string           `json:"influencerId"`
	Score        float64          `json:"score"`
	Breakdown    models.Breakdown `json:"breakdown"`
}
