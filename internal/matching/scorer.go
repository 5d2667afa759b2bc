// internal/matching/scorer.go
package matching

import (
	"math"
	"strings"

	"influencer-matching/internal/models"
)

const (
	// DefaultMaxFollowers is the upper follower bound assumed when a business
	// only sets a minimum.
	DefaultMaxFollowers int64 = 1_000_000

	neutralScore = 0.5

	overlapBonus        = 0.2
	engagementBaseline  = 0.7
	engagementBonusCap  = 0.3
	engagementBonusStep = 10.0

	locationExactCountry  = 1.0
	locationTargetCountry = 0.8
	locationAudienceBase  = 0.6
	locationAudienceSpan  = 0.3
	locationDefault       = 0.3
)

type ScorerConfig struct {
	DefaultMaxFollowers int64
}

// Scorer computes the weighted composite match score between a business and
// an influencer. It is safe for concurrent use.
type Scorer struct {
	defaultMaxFollowers int64
}

func NewScorer(cfg ScorerConfig) *Scorer {
	maxFollowers := cfg.DefaultMaxFollowers
	if maxFollowers <= 0 {
		maxFollowers = DefaultMaxFollowers
	}
	return &Scorer{defaultMaxFollowers: maxFollowers}
}

// Score returns the composite score rounded to two decimals together with
// the unrounded sub-scores it was computed from.
func (s *Scorer) Score(business *models.BusinessProfile, influencer *models.InfluencerProfile) (models.MatchScore, error) {
	if err := models.ValidateBusinessIntegrity(business); err != nil {
		return models.MatchScore{}, err
	}
	if err := models.ValidateInfluencerIntegrity(influencer); err != nil {
		return models.MatchScore{}, err
	}

	target := business.TargetAudience
	if target == nil {
		target = &models.TargetAudience{}
	}
	stats := models.InfluencerStats{}
	if influencer.Stats != nil {
		stats = *influencer.Stats
	}
	criteria := business.Criteria()

	breakdown := models.Breakdown{
		models.FactorNiche:      NicheScore(target.Demographics.Interests, influencer.Niches),
		models.FactorAudience:   AudienceScore(target, influencer.Demographics),
		models.FactorFollowers:  FollowerScore(stats.TotalFollowers, criteria, s.defaultMaxFollowers),
		models.FactorEngagement: EngagementScore(stats.AverageEngagementRate, criteria),
		models.FactorLocation:   LocationScore(business, influencer),
		models.FactorPlatform:   PlatformScore(target.Platforms, influencer),
	}

	return models.MatchScore{
		Score:     composite(breakdown),
		Breakdown: breakdown,
	}, nil
}

func composite(breakdown models.Breakdown) float64 {
	total := 0.0
	for _, f := range models.Factors {
		total += float64(weightBasisPoints[f]) * breakdown[f]
	}
	return round2(clamp01(total / basisPointsTotal))
}

// NicheScore compares business target interests with influencer niches.
func NicheScore(interests, niches []string) float64 {
	b, i := toSet(interests), toSet(niches)
	if len(b) == 0 || len(i) == 0 {
		return neutralScore
	}
	common := intersectionSize(b, i)
	score := float64(common) / float64(max(len(b), len(i)))
	if common > 0 {
		score += overlapBonus
	}
	return clamp01(math.Min(score, 1.0))
}

// AudienceScore averages the age, gender and geography alignments the
// business targets. Untargeted dimensions are skipped.
func AudienceScore(target *models.TargetAudience, demographics *models.AudienceDemographics) float64 {
	if target == nil {
		return neutralScore
	}

	var parts []float64
	if ranges := toSet(target.Demographics.AgeRanges); len(ranges) > 0 {
		parts = append(parts, ageAlignment(ranges, demographics))
	}
	if genders := toSet(target.Demographics.Genders); len(genders) > 0 {
		parts = append(parts, genderAlignment(genders, demographics))
	}
	if countries := toSet(target.Geography.Countries); len(countries) > 0 {
		parts = append(parts, geographyAlignment(countries, demographics))
	}
	if len(parts) == 0 {
		return neutralScore
	}

	sum := 0.0
	for _, p := range parts {
		sum += p
	}
	return clamp01(sum / float64(len(parts)))
}

func ageAlignment(ranges map[string]struct{}, d *models.AudienceDemographics) float64 {
	if d == nil || len(d.AgeDistribution) == 0 {
		return neutralScore
	}
	mass := 0.0
	for _, bucket := range d.AgeDistribution {
		if _, ok := ranges[normalize(bucket.AgeRange)]; ok {
			mass += bucket.Percentage
		}
	}
	return clamp01(mass / 100)
}

func genderAlignment(genders map[string]struct{}, d *models.AudienceDemographics) float64 {
	if d == nil || d.GenderSplit == nil {
		return neutralScore
	}
	mass := 0.0
	for g := range genders {
		if share, ok := d.GenderSplit.Share(g); ok {
			mass += share
		}
	}
	return clamp01(mass / 100)
}

func geographyAlignment(countries map[string]struct{}, d *models.AudienceDemographics) float64 {
	if d == nil || len(d.TopCountries) == 0 {
		return neutralScore
	}
	mass := 0.0
	for _, c := range d.TopCountries {
		if _, ok := countries[normalize(c.Country)]; ok {
			mass += c.Percentage
		}
	}
	return clamp01(mass / 100)
}

// FollowerScore peaks at the middle of the business's follower range and
// decays linearly outside it.
func FollowerScore(followers int64, criteria models.MatchingCriteria, defaultMax int64) float64 {
	if !criteria.HasFollowerBounds() {
		return neutralScore
	}

	lo, hi := 0.0, float64(defaultMax)
	if criteria.MinFollowers != nil {
		lo = float64(*criteria.MinFollowers)
	}
	if criteria.MaxFollowers != nil {
		hi = float64(*criteria.MaxFollowers)
	}
	count := float64(followers)

	switch {
	case count >= lo && count <= hi:
		if hi == lo {
			return 1.0
		}
		position := (count - lo) / (hi - lo)
		return clamp01(1 - math.Abs(position-0.5))
	case count < lo:
		if lo <= 0 {
			return 0
		}
		return clamp01(math.Max(0, 1-(lo-count)/lo))
	default:
		if hi <= 0 {
			return 0
		}
		return clamp01(math.Max(0, 1-(count-hi)/hi))
	}
}

// EngagementScore rewards meeting the business's engagement floor and
// penalises falling short of it proportionally.
func EngagementScore(rate float64, criteria models.MatchingCriteria) float64 {
	floor := 0.0
	if criteria.MinEngagementRate != nil {
		floor = *criteria.MinEngagementRate
	}

	if floor <= 0 || rate >= floor {
		bonus := math.Min((rate-floor)/engagementBonusStep, engagementBonusCap)
		return clamp01(math.Min(engagementBaseline+bonus, 1.0))
	}
	return clamp01(math.Max(0, engagementBaseline-(floor-rate)/floor))
}

// LocationScore prefers same-country pairs, then influencers in a targeted
// country, then influencers whose audience reaches the business's country.
func LocationScore(business *models.BusinessProfile, influencer *models.InfluencerProfile) float64 {
	businessCountry := normalize(business.Location.Country)
	influencerCountry := normalize(influencer.Location.Country)

	if businessCountry != "" && businessCountry == influencerCountry {
		return locationExactCountry
	}

	if influencerCountry != "" && business.TargetAudience != nil {
		if _, ok := toSet(business.TargetAudience.Geography.Countries)[influencerCountry]; ok {
			return locationTargetCountry
		}
	}

	if businessCountry != "" && influencer.Demographics != nil {
		for _, c := range influencer.Demographics.TopCountries {
			if normalize(c.Country) == businessCountry {
				return clamp01(locationAudienceBase + clamp01(c.Percentage/100)*locationAudienceSpan)
			}
		}
	}

	return locationDefault
}

// PlatformScore measures how many of the business's platforms the
// influencer covers, with a bonus when the primary platform is targeted.
func PlatformScore(platforms []string, influencer *models.InfluencerProfile) float64 {
	p := toSet(platforms)
	if len(p) == 0 {
		return neutralScore
	}

	common := intersectionSize(p, toSet(influencer.Platforms()))
	score := float64(common) / float64(len(p))
	if primary, ok := influencer.PrimaryPlatform(); ok {
		if _, targeted := p[normalize(primary)]; targeted {
			score += overlapBonus
		}
	}
	return clamp01(math.Min(score, 1.0))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func intersectionSize(a, b map[string]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
