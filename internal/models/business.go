// internal/models/business.go
package models

type BusinessProfile struct {
	ID                string              `json:"id"`
	CompanyName       string              `json:"companyName,omitempty"`
	Industry          string              `json:"industry,omitempty"`
	TargetAudience    *TargetAudience     `json:"targetAudience,omitempty"`
	Preferences       BusinessPreferences `json:"preferences"`
	Location          Location            `json:"location"`
	IsProfileComplete bool                `json:"isProfileComplete"`
	IsActive          bool                `json:"isActive"`
}

type TargetAudience struct {
	Demographics TargetDemographics `json:"demographics"`
	Geography    TargetGeography    `json:"geography"`
	Platforms    []string           `json:"platforms"`
}

type TargetDemographics struct {
	AgeRanges []string `json:"ageRanges"`
	Genders   []string `json:"genders"`
	Interests []string `json:"interests"`
}

type TargetGeography struct {
	Countries []string `json:"countries"`
	Languages []string `json:"languages,omitempty"`
}

type BusinessPreferences struct {
	Matching MatchingPreferences `json:"matching"`
}

type MatchingPreferences struct {
	AutoMatch        bool             `json:"autoMatch"`
	MatchingCriteria MatchingCriteria `json:"matchingCriteria"`
}

// MatchingCriteria are the hard constraints a business puts on candidates.
// Nil bounds mean the range is open on that side.
type MatchingCriteria struct {
	MinFollowers      *int64   `json:"minFollowers,omitempty"`
	MaxFollowers      *int64   `json:"maxFollowers,omitempty"`
	MinEngagementRate *float64 `json:"minEngagementRate,omitempty"`
	VerifiedOnly      bool     `json:"verifiedOnly"`
}

// HasFollowerBounds reports whether either follower bound is set.
func (c MatchingCriteria) HasFollowerBounds() bool {
	return c.MinFollowers != nil || c.MaxFollowers != nil
}

// Criteria is a shortcut for the nested matching criteria.
func (b *BusinessProfile) Criteria() MatchingCriteria {
	return b.Preferences.Matching.MatchingCriteria
}
