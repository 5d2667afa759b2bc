// internal/workers/matching/compute-match-score/handler.go
package computematchscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"influencer-matching/internal/common/camunda"
	apperrors "influencer-matching/internal/common/errors"
	"influencer-matching/internal/common/logger"
	"influencer-matching/internal/common/observability"
	"influencer-matching/internal/common/validation"
	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
	"influencer-matching/internal/profilestore"
)

const (
	TaskType = "compute-match-score"
)

type Handler struct {
	config    *Config
	engine    *matching.Engine
	profiles  profilestore.ProfileReader
	validator *validation.SchemaValidator
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

// Execute scores one pair. No candidate query is made.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	business, err := h.resolveBusiness(ctx, input)
	if err != nil {
		return nil, err
	}
	influencer, err := h.resolveInfluencer(ctx, input)
	if err != nil {
		return nil, err
	}

	score, err := h.engine.ComputeScore(business, influencer)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("pair scored", map[string]interface{}{
		"businessId":   business.ID,
		"influencerId": influencer.ID,
		"score":        score.Score,
	})

	return &Output{
		BusinessID:   business.ID,
		InfluencerID: influencer.ID,
		Score:        score.Score,
		Breakdown:    score.Breakdown,
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
		return nil, lookupError(models.KindBusiness, input.BusinessID, err)
	}
	return business, nil
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
		return nil, lookupError(models.KindInfluencer, input.InfluencerID, err)
	}
	return influencer, nil
}

func lookupError(kind models.ProfileKind, id string, err error) error {
	if errors.Is(err, models.ErrProfileNotFound) {
		return apperrors.NewProfileNotFoundError(string(kind), id)
	}
	return fmt.Errorf("%w: get %s: %w", matching.ErrStoreQuery, kind, err)
}
