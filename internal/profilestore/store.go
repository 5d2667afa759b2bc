// Package profilestore holds the concrete profile stores the matching engine
// reads from.
package profilestore

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

const tracerName = "influencer-matching/profilestore"

// ProfileReader resolves a single profile by ID.
type ProfileReader interface {
	GetInfluencer(ctx context.Context, id string) (*models.InfluencerProfile, error)
	GetBusiness(ctx context.Context, id string) (*models.BusinessProfile, error)
}

// Store is a full profile store: bulk candidate reads for the engine plus
// single-profile reads for request resolution.
type Store interface {
	matching.ProfileStore
	ProfileReader
}

func notFound(kind models.ProfileKind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, models.ErrProfileNotFound)
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func availabilityOrDefault(s models.AvailabilityStatus) models.AvailabilityStatus {
	if s == "" {
		return models.AvailabilityAvailable
	}
	return s
}
