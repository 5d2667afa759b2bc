// internal/models/profile.go
package models

import "errors"

// ErrProfileNotFound is returned by profile readers when no row or document matches an ID.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileKind distinguishes the two sides of a match.
type ProfileKind string

const (
	KindInfluencer ProfileKind = "influencer"
	KindBusiness   ProfileKind = "business"
)
