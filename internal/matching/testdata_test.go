// internal/matching/testdata_test.go
package matching

import "influencer-matching/internal/models"

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func fitnessBusiness() *models.BusinessProfile {
	return &models.BusinessProfile{
		ID:          "biz-1",
		CompanyName: "Peak Outdoor Co",
		TargetAudience: &models.TargetAudience{
			Demographics: models.TargetDemographics{Interests: []string{"fitness", "travel"}},
			Platforms:    []string{"instagram"},
		},
		Preferences: models.BusinessPreferences{Matching: models.MatchingPreferences{
			AutoMatch: true,
			MatchingCriteria: models.MatchingCriteria{
				MinFollowers:      int64Ptr(5000),
				MinEngagementRate: float64Ptr(3),
			},
		}},
		Location:          models.Location{Country: "US"},
		IsProfileComplete: true,
		IsActive:          true,
	}
}

func fitnessInfluencer() *models.InfluencerProfile {
	return &models.InfluencerProfile{
		ID:     "inf-1",
		Niches: []string{"fitness", "food"},
		Stats: &models.InfluencerStats{
			TotalFollowers:        10000,
			AverageEngagementRate: 4,
		},
		Location: models.Location{Country: "US"},
		SocialLinks: []models.SocialLink{
			{Platform: "instagram", IsPrimary: true, Followers: 10000},
		},
		Availability:      models.Availability{Status: models.AvailabilityAvailable},
		IsProfileComplete: true,
		IsActive:          true,
	}
}
