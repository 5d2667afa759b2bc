// internal/matching/engine.go
package matching

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"influencer-matching/internal/common/logger"
	"influencer-matching/internal/models"
)

const tracerName = "influencer-matching/matching"

// ProfileStore is the read side of the profile database the engine needs.
// Each query is a single bulk read.
type ProfileStore interface {
	QueryInfluencers(ctx context.Context, pred InfluencerPredicate, limit int) ([]models.InfluencerProfile, error)
	QueryBusinesses(ctx context.Context, pred BusinessPredicate, limit int) ([]models.BusinessProfile, error)
	CountInfluencers(ctx context.Context, pred InfluencerPredicate) (int64, error)
	CountBusinesses(ctx context.Context, pred BusinessPredicate) (int64, error)
}

// MatchSet is the ranked outcome of one match request.
type MatchSet[T any] struct {
	Matches []Match[T]
	// PoolSize is the number of candidates scored.
	PoolSize int
	// TotalEligible is how many profiles pass the pre-filter overall.
	TotalEligible int64
}

type EngineConfig struct {
	MaxLimit int
}

// Engine runs candidate filtering, scoring and ranking against a ProfileStore.
// It keeps no per-request state.
type Engine struct {
	store    ProfileStore
	scorer   *Scorer
	maxLimit int
	logger   logger.Logger
	tracer   trace.Tracer
}

func NewEngine(cfg EngineConfig, store ProfileStore, scorer *Scorer, log logger.Logger) *Engine {
	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	return &Engine{
		store:    store,
		scorer:   scorer,
		maxLimit: maxLimit,
		logger:   log.WithFields(map[string]interface{}{"component": "matching-engine"}),
		tracer:   otel.Tracer(tracerName),
	}
}

// ComputeScore scores a single business/influencer pair.
func (e *Engine) ComputeScore(business *models.BusinessProfile, influencer *models.InfluencerProfile) (models.MatchScore, error) {
	return e.scorer.Score(business, influencer)
}

// FindInfluencerMatches ranks influencers for a business.
func (e *Engine) FindInfluencerMatches(ctx context.Context, business *models.BusinessProfile, opts Options) (*MatchSet[models.InfluencerProfile], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateBusinessIntegrity(business); err != nil {
		return nil, err
	}
	opts = opts.capped(e.maxLimit)

	ctx, span := e.tracer.Start(ctx, "matching.FindInfluencerMatches", trace.WithAttributes(
		attribute.String("business.id", business.ID),
		attribute.Int("limit", opts.Limit),
	))
	defer span.End()

	start := time.Now()
	pred := BuildInfluencerPredicate(business.Criteria(), opts.IncludeUnavailable)

	candidates, err := e.store.QueryInfluencers(ctx, pred, CandidatePoolSize(opts.Limit))
	if err != nil {
		return nil, e.storeFailure(span, "query influencers", err)
	}
	total, err := e.store.CountInfluencers(ctx, pred)
	if err != nil {
		return nil, e.storeFailure(span, "count influencers", err)
	}

	matches, err := Rank(candidates, func(c *models.InfluencerProfile) (models.MatchScore, error) {
		return e.scorer.Score(business, c)
	}, opts.MinScore, opts.Limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("pool.size", len(candidates)), attribute.Int("matches", len(matches)))
	e.logger.Debug("influencer matches ranked", map[string]interface{}{
		"businessId": business.ID,
		"poolSize":   len(candidates),
		"matches":    len(matches),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &MatchSet[models.InfluencerProfile]{
		Matches:       matches,
		PoolSize:      len(candidates),
		TotalEligible: total,
	}, nil
}

// FindBusinessMatches ranks auto-matching businesses for an influencer. The
// pair is scored exactly as in the forward direction.
func (e *Engine) FindBusinessMatches(ctx context.Context, influencer *models.InfluencerProfile, opts Options) (*MatchSet[models.BusinessProfile], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateInfluencerIntegrity(influencer); err != nil {
		return nil, err
	}
	opts = opts.capped(e.maxLimit)

	ctx, span := e.tracer.Start(ctx, "matching.FindBusinessMatches", trace.WithAttributes(
		attribute.String("influencer.id", influencer.ID),
		attribute.Int("limit", opts.Limit),
	))
	defer span.End()

	start := time.Now()
	pred := BuildBusinessPredicate()

	candidates, err := e.store.QueryBusinesses(ctx, pred, CandidatePoolSize(opts.Limit))
	if err != nil {
		return nil, e.storeFailure(span, "query businesses", err)
	}
	total, err := e.store.CountBusinesses(ctx, pred)
	if err != nil {
		return nil, e.storeFailure(span, "count businesses", err)
	}

	matches, err := Rank(candidates, func(c *models.BusinessProfile) (models.MatchScore, error) {
		return e.scorer.Score(c, influencer)
	}, opts.MinScore, opts.Limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("pool.size", len(candidates)), attribute.Int("matches", len(matches)))
	e.logger.Debug("business matches ranked", map[string]interface{}{
		"influencerId": influencer.ID,
		"poolSize":     len(candidates),
		"matches":      len(matches),
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return &MatchSet[models.BusinessProfile]{
		Matches:       matches,
		PoolSize:      len(candidates),
		TotalEligible: total,
	}, nil
}

func (e *Engine) storeFailure(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	return fmt.Errorf("%w: %s: %w", ErrStoreQuery, op, err)
}
