// internal/workers/matching/find-influencer-matches/handler.go
package findinfluencermatches

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
	TaskType = "find-influencer-matches"
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

// Process validates and decodes raw job variables, then runs Execute.
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	requestID := uuid.NewString()
	opts := input.Options()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	business, err := h.resolveBusiness(ctx, input)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	set, err := h.engine.FindInfluencerMatches(ctx, business, opts)
	elapsed := time.Since(start)
	if err != nil {
		h.obs.RecordMatchRun(ctx, metrics.DirectionInfluencers, elapsed, "failed")
		return nil, err
	}
	h.obs.RecordMatchRun(ctx, metrics.DirectionInfluencers, elapsed, "success")
	metrics.ObserveMatchRun(metrics.DirectionInfluencers, set.PoolSize, len(set.Matches))

	matches := make([]InfluencerMatch, 0, len(set.Matches))
	for _, m := range set.Matches {
		matches = append(matches, InfluencerMatch{
			InfluencerID: m.Candidate.ID,
			Score:        m.Score,
			Breakdown:    m.Breakdown,
			Influencer:   m.Candidate,
		})
	}

	h.logger.Info("influencer matches found", map[string]interface{}{
		"requestId":     requestID,
		"businessId":    business.ID,
		"poolSize":      set.PoolSize,
		"totalEligible": set.TotalEligible,
		"matches":       len(matches),
	})

	return &Output{
		RequestID:     requestID,
		BusinessID:    business.ID,
		Matches:       matches,
		PoolSize:      set.PoolSize,
		TotalEligible: set.TotalEligible,
		DurationMs:    elapsed.Milliseconds(),
	}, nil
}

func (h *Handler) resolveBusiness(ctx context.Context, input *Input) (*models.BusinessProfile, error) {
	if input.Business != nil {
		return input.Business, nil
	}
	if input.BusinessID == "" {
		return nil, apperrors.NewInvalidMatchRequestError("businessId or business is required")
	}
	business, err := h.profiles.GetBusiness(ctx, input.BusinessID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return nil, apperrors.NewProfileNotFoundError(string(models.KindBusiness), input.BusinessID)
		}
		return nil, fmt.Errorf("%w: get business: %w", matching.ErrStoreQuery, err)
	}
	return business, nil
}
