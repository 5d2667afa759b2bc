// internal/workers/matching/find-business-matches/handler.go
package findbusinessmatches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"influencer-matching/internal/common/camunda"
	apperrors "influencer-matching/internal/common/errors"
	"influencer-matching/internal/common/logger"
	"influencer-matching/internal/common/metrics"
	"influencer-matching/internal/common/observability"
	"influencer-matching/internal/common/validation"
	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
	"influencer-matching/internal/profilestore"
)

const (
	TaskType = "find-business-matches"
)

type Handler struct {
	config    *Config
	engine    *matching.Engine
	profiles  profilestore.ProfileReader
	validator *validation.SchemaValidator
	obs       *observability.Observability
	runner    *camunda.JobRunner
	logger    logger.Logger
}

func NewHandler(
	config *Config,
	engine *matching.Engine,
	profiles profilestore.ProfileReader,
	validator *validation.SchemaValidator,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		engine:    engine,
		profiles:  profiles,
		validator: validator,
		obs:       obs,
		runner:    camunda.NewJobRunner(TaskType, config.Timeout, config.MaxRetries, obs, log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables string) (interface{}, error) {
		return h.Process(ctx, variables)
	})
}

func (h *Handler) Process(ctx context.Context, variables string) (*Output, error) {
	if h.validator != nil {
		if err := h.validator.ValidateInput(TaskType, variables); err != nil {
			return nil, err
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidMatchRequestError(fmt.Sprintf("parse input: %v", err))
	}
	return h.Execute(ctx, &input)
}

// Execute ranks businesses with auto-matching enabled for the influencer.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	requestID := uuid.NewString()
	opts := input.Options()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	influencer, err := h.resolveInfluencer(ctx, input)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	set, err := h.engine.FindBusinessMatches(ctx, influencer, opts)
	elapsed := time.Since(start)
	if err != nil {
		h.obs.RecordMatchRun(ctx, metrics.DirectionBusinesses, elapsed, "failed")
		return nil, err
	}
	h.obs.RecordMatchRun(ctx, metrics.DirectionBusinesses, elapsed, "success")
	metrics.ObserveMatchRun(metrics.DirectionBusinesses, set.PoolSize, len(set.Matches))

	matches := make([]BusinessMatch, 0, len(set.Matches))
	for _, m := range set.Matches {
		matches = append(matches, BusinessMatch{
			BusinessID: m.Candidate.ID,
			Score:      m.Score,
			Breakdown:  m.Breakdown,
			Business:   m.Candidate,
		})
	}

	h.logger.Info("business matches found", map[string]interface{}{
		"requestId":     requestID,
		"influencerId":  influencer.ID,
		"poolSize":      set.PoolSize,
		"totalEligible": set.TotalEligible,
		"matches":       len(matches),
	})

	return &Output{
		RequestID:     requestID,
		InfluencerID:  influencer.ID,
		Matches:       matches,
		PoolSize:      set.PoolSize,
		TotalEligible: set.TotalEligible,
		DurationMs:    elapsed.Milliseconds(),
	}, nil
}

func (h *Handler) resolveInfluencer(ctx context.Context, input *Input) (*models.InfluencerProfile, error) {
	if input.Influencer != nil {
		return input.Influencer, nil
	}
	if input.InfluencerID == "" {
		return nil, apperrors.NewInvalidMatchRequestError("influencerId or influencer is required")
	}
	influencer, err := h.profiles.GetInfluencer(ctx, input.InfluencerID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return nil, apperrors.NewProfileNotFoundError(string(models.KindInfluencer), input.InfluencerID)
		}
		return nil, fmt.Errorf("%w: get influencer: %w", matching.ErrStoreQuery, err)
	}
	return influencer, nil
}
