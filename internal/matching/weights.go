// internal/matching/weights.go
package matching

import "influencer-matching/internal/models"

// Weights are kept in basis points so the table sums to exactly 10000 (1.0).
const basisPointsTotal = 10000

var weightBasisPoints = map[models.Factor]int{
	models.FactorNiche:      3000,
	models.FactorAudience:   2500,
	models.FactorFollowers:  1500,
	models.FactorEngagement: 1500,
	models.FactorLocation:   1000,
	models.FactorPlatform:   500,
}

// Weight returns the composite weight of a factor as a fraction of 1.0.
func Weight(f models.Factor) float64 {
	return float64(weightBasisPoints[f]) / basisPointsTotal
}

// Weights returns a copy of the weight table keyed by factor.
func Weights() map[models.Factor]float64 {
	out := make(map[models.Factor]float64, len(weightBasisPoints))
	for f := range weightBasisPoints {
		out[f] = Weight(f)
	}
	return out
}
