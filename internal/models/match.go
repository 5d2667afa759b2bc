// internal/models/match.go
package models

// Factor names one of the six scoring components.
type Factor string

const (
	FactorNiche      Factor = "niche"
	FactorAudience   Factor = "audience"
	FactorFollowers  Factor = "followers"
	FactorEngagement Factor = "engagement"
	FactorLocation   Factor = "location"
	FactorPlatform   Factor = "platform"
)

// Factors lists every scoring component in weight order.
var Factors = []Factor{
	FactorNiche,
	FactorAudience,
	FactorFollowers,
	FactorEngagement,
	FactorLocation,
	FactorPlatform,
}

// Breakdown holds the per-factor sub-scores, each in [0,1].
type Breakdown map[Factor]float64

// MatchScore is the result of scoring one business against one influencer.
// It is computed per request and never stored.
type MatchScore struct {
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}
