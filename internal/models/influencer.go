// internal/models/influencer.go
package models

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityBusy        AvailabilityStatus = "busy"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

type InfluencerProfile struct {
	ID                 string                `json:"id"`
	DisplayName        string                `json:"displayName,omitempty"`
	Niches             []string              `json:"niches"`
	Demographics       *AudienceDemographics `json:"demographics,omitempty"`
	Stats              *InfluencerStats      `json:"stats,omitempty"`
	Location           Location              `json:"location"`
	SocialLinks        []SocialLink          `json:"socialLinks"`
	Availability       Availability          `json:"availability"`
	VerificationStatus VerificationStatus    `json:"verificationStatus"`
	IsProfileComplete  bool                  `json:"isProfileComplete"`
	IsActive           bool                  `json:"isActive"`
}

// AudienceDemographics describes who follows the influencer. Percentages are 0-100.
type AudienceDemographics struct {
	GenderSplit     *GenderSplit   `json:"genderSplit,omitempty"`
	AgeDistribution []AgeBucket    `json:"ageDistribution,omitempty"`
	TopCountries    []CountryShare `json:"topCountries,omitempty"`
}

type GenderSplit struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
	Other  float64 `json:"other"`
}

// Share returns the percentage for a gender key ("male", "female", "other").
func (g GenderSplit) Share(gender string) (float64, bool) {
	switch gender {
	case "male":
		return g.Male, true
	case "female":
		return g.Female, true
	case "other":
		return g.Other, true
	}
	return 0, false
}

type AgeBucket struct {
	AgeRange   string  `json:"ageRange"`
	Percentage float64 `json:"percentage"`
}

type CountryShare struct {
	Country    string  `json:"country"`
	Percentage float64 `json:"percentage"`
}

type InfluencerStats struct {
	TotalFollowers        int64   `json:"totalFollowers"`
	AverageEngagementRate float64 `json:"averageEngagementRate"`
}

type Location struct {
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

type SocialLink struct {
	Platform  string `json:"platform"`
	URL       string `json:"url,omitempty"`
	Handle    string `json:"handle,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	Followers int64  `json:"followers"`
}

type Availability struct {
	Status AvailabilityStatus `json:"status"`
}

type VerificationStatus struct {
	IsVerified bool `json:"isVerified"`
}

// PrimaryPlatform returns the platform flagged primary, falling back to the
// first listed link. The second value is false when there are no links.
func (p *InfluencerProfile) PrimaryPlatform() (string, bool) {
	if len(p.SocialLinks) == 0 {
		return "", false
	}
	for _, link := range p.SocialLinks {
		if link.IsPrimary {
			return link.Platform, true
		}
	}
	return p.SocialLinks[0].Platform, true
}

// Platforms lists the distinct platforms of the influencer's social links.
func (p *InfluencerProfile) Platforms() []string {
	seen := make(map[string]bool, len(p.SocialLinks))
	out := make([]string, 0, len(p.SocialLinks))
	for _, link := range p.SocialLinks {
		if link.Platform == "" || seen[link.Platform] {
			continue
		}
		seen[link.Platform] = true
		out = append(out, link.Platform)
	}
	return out
}
