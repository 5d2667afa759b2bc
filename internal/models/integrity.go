// internal/models/integrity.go
package models

import (
	"errors"
	"fmt"
)

// ErrProfileIntegrity marks a profile flagged complete that lacks a required structure.
var ErrProfileIntegrity = errors.New("profile integrity violation")

// IntegrityError names the profile and the structure that is missing.
type IntegrityError struct {
	Kind      string
	ProfileID string
	Field     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s profile %q is marked complete but has no %s", e.Kind, e.ProfileID, e.Field)
}

func (e *IntegrityError) Unwrap() error {
	return ErrProfileIntegrity
}

// ValidateInfluencerIntegrity checks the nested structures a complete influencer profile must carry.
// Incomplete profiles pass; they are excluded by the candidate filter instead.
func ValidateInfluencerIntegrity(p *InfluencerProfile) error {
	if p == nil {
		return &IntegrityError{Kind: "influencer", Field: "profile"}
	}
	if !p.IsProfileComplete {
		return nil
	}
	if p.Stats == nil {
		return &IntegrityError{Kind: "influencer", ProfileID: p.ID, Field: "stats"}
	}
	return nil
}

// ValidateBusinessIntegrity is the business counterpart of ValidateInfluencerIntegrity.
func ValidateBusinessIntegrity(p *BusinessProfile) error {
	if p == nil {
		return &IntegrityError{Kind: "business", Field: "profile"}
	}
	if !p.IsProfileComplete {
		return nil
	}
	if p.TargetAudience == nil {
		return &IntegrityError{Kind: "business", ProfileID: p.ID, Field: "targetAudience"}
	}
	return nil
}
