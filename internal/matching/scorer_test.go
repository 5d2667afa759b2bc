// internal/matching/scorer_test.go
package matching

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influencer-matching/internal/models"
)

// ==========================
// Composite score
// ==========================

func TestScore_EndToEndScenario(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})

	result, err := scorer.Score(fitnessBusiness(), fitnessInfluencer())
	require.NoError(t, err)

	b := result.Breakdown
	assert.InDelta(t, 0.7, b[models.FactorNiche], 1e-9)
	assert.InDelta(t, 0.5, b[models.FactorAudience], 1e-9)
	assert.InDelta(t, 1-(0.5-5000.0/995000.0), b[models.FactorFollowers], 1e-9)
	assert.InDelta(t, 0.8, b[models.FactorEngagement], 1e-9)
	assert.InDelta(t, 1.0, b[models.FactorLocation], 1e-9)
	assert.InDelta(t, 1.0, b[models.FactorPlatform], 1e-9)
	assert.Equal(t, 0.68, result.Score)
}

func TestScore_Idempotent(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})
	business, influencer := fitnessBusiness(), fitnessInfluencer()

	first, err := scorer.Score(business, influencer)
	require.NoError(t, err)
	second, err := scorer.Score(business, influencer)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScore_IntegrityViolations(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})

	influencer := fitnessInfluencer()
	influencer.Stats = nil
	_, err := scorer.Score(fitnessBusiness(), influencer)
	assert.ErrorIs(t, err, models.ErrProfileIntegrity)

	business := fitnessBusiness()
	business.TargetAudience = nil
	_, err = scorer.Score(business, fitnessInfluencer())
	assert.ErrorIs(t, err, models.ErrProfileIntegrity)
}

func TestScore_IncompleteProfilesScoreNeutrally(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})

	business := &models.BusinessProfile{ID: "b"}
	influencer := &models.InfluencerProfile{ID: "i"}

	result, err := scorer.Score(business, influencer)
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Breakdown[models.FactorNiche])
	assert.Equal(t, 0.5, result.Breakdown[models.FactorAudience])
	assert.Equal(t, 0.5, result.Breakdown[models.FactorFollowers])
	assert.Equal(t, 0.7, result.Breakdown[models.FactorEngagement])
	assert.Equal(t, 0.3, result.Breakdown[models.FactorLocation])
	assert.Equal(t, 0.5, result.Breakdown[models.FactorPlatform])
}

func TestScore_ConfiguredMaxFollowers(t *testing.T) {
	business := fitnessBusiness()
	influencer := fitnessInfluencer()
	influencer.Stats.TotalFollowers = 7500

	result, err := NewScorer(ScorerConfig{DefaultMaxFollowers: 10000}).Score(business, influencer)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Breakdown[models.FactorFollowers], 1e-9)
}

func TestScore_BoundsFuzz(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scorer := NewScorer(ScorerConfig{})
	tags := []string{"fitness", "travel", "food", "tech", "", " Fitness "}
	platforms := []string{"instagram", "tiktok", "youtube", ""}
	countries := []string{"US", "GB", "", "us"}

	pick := func(pool []string) []string {
		n := rng.Intn(len(pool) + 1)
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, pool[rng.Intn(len(pool))])
		}
		return out
	}

	for i := 0; i < 500; i++ {
		criteria := models.MatchingCriteria{}
		if rng.Intn(2) == 0 {
			criteria.MinFollowers = int64Ptr(rng.Int63n(10000))
		}
		if rng.Intn(2) == 0 {
			criteria.MaxFollowers = int64Ptr(rng.Int63n(100000))
		}
		if rng.Intn(2) == 0 {
			criteria.MinEngagementRate = float64Ptr(rng.Float64() * 10)
		}

		business := &models.BusinessProfile{
			ID: "b",
			TargetAudience: &models.TargetAudience{
				Demographics: models.TargetDemographics{
					Interests: pick(tags),
					AgeRanges: pick([]string{"18-24", "25-34"}),
					Genders:   pick([]string{"male", "female", "other"}),
				},
				Geography: models.TargetGeography{Countries: pick(countries)},
				Platforms: pick(platforms),
			},
			Preferences:       models.BusinessPreferences{Matching: models.MatchingPreferences{MatchingCriteria: criteria}},
			Location:          models.Location{Country: countries[rng.Intn(len(countries))]},
			IsProfileComplete: true,
		}

		var links []models.SocialLink
		for _, p := range pick(platforms) {
			links = append(links, models.SocialLink{Platform: p, IsPrimary: rng.Intn(3) == 0})
		}
		influencer := &models.InfluencerProfile{
			ID:     "i",
			Niches: pick(tags),
			Demographics: &models.AudienceDemographics{
				GenderSplit:     &models.GenderSplit{Male: rng.Float64() * 100, Female: rng.Float64() * 100},
				AgeDistribution: []models.AgeBucket{{AgeRange: "18-24", Percentage: rng.Float64() * 100}},
				TopCountries:    []models.CountryShare{{Country: "US", Percentage: rng.Float64() * 150}},
			},
			Stats: &models.InfluencerStats{
				TotalFollowers:        rng.Int63n(2_000_000),
				AverageEngagementRate: rng.Float64() * 20,
			},
			Location:          models.Location{Country: countries[rng.Intn(len(countries))]},
			SocialLinks:       links,
			IsProfileComplete: true,
		}

		result, err := scorer.Score(business, influencer)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 1.0)
		for _, f := range models.Factors {
			assert.GreaterOrEqual(t, result.Breakdown[f], 0.0, "factor %s", f)
			assert.LessOrEqual(t, result.Breakdown[f], 1.0, "factor %s", f)
		}
	}
}

// ==========================
// Sub-scores
// ==========================

func TestNicheScore(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		niches    []string
		want      float64
	}{
		{"empty interests", nil, []string{"fitness"}, 0.5},
		{"empty niches", []string{"fitness"}, nil, 0.5},
		{"no overlap", []string{"fitness"}, []string{"food"}, 0},
		{"half overlap", []string{"fitness", "travel"}, []string{"fitness", "food"}, 0.7},
		{"full overlap capped", []string{"fitness"}, []string{"fitness"}, 1.0},
		{"case and duplicates", []string{"Fitness", "fitness "}, []string{"FITNESS"}, 1.0},
		{"larger side divides", []string{"a", "b", "c", "d"}, []string{"a"}, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NicheScore(tt.interests, tt.niches), 1e-9)
		})
	}
}

func TestFollowerScore(t *testing.T) {
	bounded := models.MatchingCriteria{MinFollowers: int64Ptr(1000), MaxFollowers: int64Ptr(5000)}

	tests := []struct {
		name      string
		followers int64
		criteria  models.MatchingCriteria
		want      float64
	}{
		{"midpoint", 3000, bounded, 1.0},
		{"at min", 1000, bounded, 0.5},
		{"at max", 5000, bounded, 0.5},
		{"below min", 500, bounded, 0.5},
		{"far below min", 0, bounded, 0},
		{"above max", 7500, bounded, 0.5},
		{"far above max", 20000, bounded, 0},
		{"no bounds", 123456, models.MatchingCriteria{}, 0.5},
		{"degenerate range", 2000, models.MatchingCriteria{MinFollowers: int64Ptr(2000), MaxFollowers: int64Ptr(2000)}, 1.0},
		{"zero max", 10, models.MatchingCriteria{MaxFollowers: int64Ptr(0)}, 0},
		{"only max", 250, models.MatchingCriteria{MaxFollowers: int64Ptr(500)}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FollowerScore(tt.followers, tt.criteria, DefaultMaxFollowers), 1e-9)
		})
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		floor *float64
		want  float64
	}{
		{"bonus capped", 5, float64Ptr(2), 1.0},
		{"small bonus", 4, float64Ptr(3), 0.8},
		{"no floor", 0, nil, 0.7},
		{"no floor high rate", 10, nil, 1.0},
		{"zero floor", 1, float64Ptr(0), 0.8},
		{"below floor", 2, float64Ptr(4), 0.2},
		{"far below floor", 0, float64Ptr(4), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria := models.MatchingCriteria{MinEngagementRate: tt.floor}
			assert.InDelta(t, tt.want, EngagementScore(tt.rate, criteria), 1e-9)
		})
	}
}

func TestLocationScore(t *testing.T) {
	business := func(country string, targets ...string) *models.BusinessProfile {
		return &models.BusinessProfile{
			Location:       models.Location{Country: country},
			TargetAudience: &models.TargetAudience{Geography: models.TargetGeography{Countries: targets}},
		}
	}
	influencer := func(country string, audience ...models.CountryShare) *models.InfluencerProfile {
		p := &models.InfluencerProfile{Location: models.Location{Country: country}}
		if len(audience) > 0 {
			p.Demographics = &models.AudienceDemographics{TopCountries: audience}
		}
		return p
	}

	tests := []struct {
		name       string
		business   *models.BusinessProfile
		influencer *models.InfluencerProfile
		want       float64
	}{
		{"same country", business("US"), influencer("us"), 1.0},
		{"targeted country", business("US", "GB"), influencer("GB"), 0.8},
		{"audience reach", business("US"), influencer("CA", models.CountryShare{Country: "US", Percentage: 50}), 0.75},
		{"audience reach capped", business("US"), influencer("CA", models.CountryShare{Country: "US", Percentage: 250}), 0.9},
		{"no relation", business("US"), influencer("CA"), 0.3},
		{"both empty", business(""), influencer(""), 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LocationScore(tt.business, tt.influencer), 1e-9)
		})
	}
}

func TestPlatformScore(t *testing.T) {
	links := func(primary string, others ...string) *models.InfluencerProfile {
		p := &models.InfluencerProfile{}
		if primary != "" {
			p.SocialLinks = append(p.SocialLinks, models.SocialLink{Platform: primary, IsPrimary: true})
		}
		for _, o := range others {
			p.SocialLinks = append(p.SocialLinks, models.SocialLink{Platform: o})
		}
		return p
	}

	tests := []struct {
		name       string
		platforms  []string
		influencer *models.InfluencerProfile
		want       float64
	}{
		{"no target platforms", nil, links("instagram"), 0.5},
		{"primary targeted capped", []string{"instagram"}, links("instagram"), 1.0},
		{"half coverage with primary", []string{"instagram", "tiktok"}, links("instagram"), 0.7},
		{"covered but not primary", []string{"instagram", "tiktok"}, links("youtube", "tiktok"), 0.5},
		{"first link is primary fallback", []string{"tiktok", "youtube"}, links("", "tiktok"), 0.7},
		{"no links", []string{"instagram"}, links(""), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PlatformScore(tt.platforms, tt.influencer), 1e-9)
		})
	}
}

func TestAudienceScore(t *testing.T) {
	demographics := &models.AudienceDemographics{
		GenderSplit: &models.GenderSplit{Male: 40, Female: 55, Other: 5},
		AgeDistribution: []models.AgeBucket{
			{AgeRange: "18-24", Percentage: 30},
			{AgeRange: "25-34", Percentage: 50},
		},
		TopCountries: []models.CountryShare{{Country: "US", Percentage: 60}},
	}

	tests := []struct {
		name   string
		target *models.TargetAudience
		demo   *models.AudienceDemographics
		want   float64
	}{
		{"nil target", nil, demographics, 0.5},
		{"nothing targeted", &models.TargetAudience{}, demographics, 0.5},
		{"age only", &models.TargetAudience{Demographics: models.TargetDemographics{AgeRanges: []string{"25-34"}}}, demographics, 0.5},
		{"gender only", &models.TargetAudience{Demographics: models.TargetDemographics{Genders: []string{"Female"}}}, demographics, 0.55},
		{"age and country", &models.TargetAudience{
			Demographics: models.TargetDemographics{AgeRanges: []string{"18-24", "25-34"}},
			Geography:    models.TargetGeography{Countries: []string{"us"}},
		}, demographics, 0.7},
		{"targeted without demographics", &models.TargetAudience{Demographics: models.TargetDemographics{Genders: []string{"male"}}}, nil, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AudienceScore(tt.target, tt.demo), 1e-9)
		})
	}
}
