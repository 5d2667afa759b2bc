// internal/matching/filter.go
package matching

import "influencer-matching/internal/models"

// InfluencerPredicate is the coarse pre-filter applied by the profile store
// before scoring. Nil bounds impose no constraint.
type InfluencerPredicate struct {
	RequireActive     bool
	RequireComplete   bool
	RequireAvailable  bool
	MinFollowers      *int64
	MaxFollowers      *int64
	MinEngagementRate *float64
	VerifiedOnly      bool
}

// BusinessPredicate selects businesses eligible for reverse lookups.
type BusinessPredicate struct {
	RequireActive    bool
	RequireComplete  bool
	RequireAutoMatch bool
}

// BuildInfluencerPredicate translates a business's matching criteria into a
// store predicate. Active and complete profiles are always required.
func BuildInfluencerPredicate(criteria models.MatchingCriteria, includeUnavailable bool) InfluencerPredicate {
	return InfluencerPredicate{
		RequireActive:     true,
		RequireComplete:   true,
		RequireAvailable:  !includeUnavailable,
		MinFollowers:      copyInt64(criteria.MinFollowers),
		MaxFollowers:      copyInt64(criteria.MaxFollowers),
		MinEngagementRate: copyFloat64(criteria.MinEngagementRate),
		VerifiedOnly:      criteria.VerifiedOnly,
	}
}

// BuildBusinessPredicate returns the fixed predicate for influencer-initiated lookups.
func BuildBusinessPredicate() BusinessPredicate {
	return BusinessPredicate{
		RequireActive:    true,
		RequireComplete:  true,
		RequireAutoMatch: true,
	}
}

// CandidatePoolSize is how many candidates are fetched for a result limit.
func CandidatePoolSize(limit int) int {
	return 2 * limit
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat64(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
