package computematchscore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "influencer-matching/internal/common/errors"
	"influencer-matching/internal/common/logger"
	"influencer-matching/internal/common/validation"
	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
	"influencer-matching/pkg/registry"
)

// The engine never touches its store when scoring a single pair.
type unusedStore struct {
	matching.ProfileStore
}

type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetInfluencer(ctx context.Context, id string) (*models.InfluencerProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.InfluencerProfile)
	return p, args.Error(1)
}

func (m *mockReader) GetBusiness(ctx context.Context, id string) (*models.BusinessProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.BusinessProfile)
	return p, args.Error(1)
}

func int64Ptr(v int64) *int64 { return &v }

func testBusiness() *models.BusinessProfile {
	return &models.BusinessProfile{
		ID: "biz-1",
		TargetAudience: &models.TargetAudience{
			Demographics: models.TargetDemographics{Interests: []string{"fitness"}},
			Platforms:    []string{"instagram"},
		},
		Preferences: models.BusinessPreferences{Matching: models.MatchingPreferences{
			AutoMatch:        true,
			MatchingCriteria: models.MatchingCriteria{MinFollowers: int64Ptr(5000)},
		}},
		Location:          models.Location{Country: "US"},
		IsProfileComplete: true,
		IsActive:          true,
	}
}

func testInfluencer() *models.InfluencerProfile {
	return &models.InfluencerProfile{
		ID:     "inf-1",
		Niches: []string{"fitness"},
		Stats: &models.InfluencerStats{
			TotalFollowers:        20000,
			AverageEngagementRate: 5,
		},
		Location: models.Location{Country: "US"},
		SocialLinks: []models.SocialLink{
			{Platform: "instagram", IsPrimary: true, Followers: 20000},
		},
		Availability:      models.Availability{Status: models.AvailabilityAvailable},
		IsProfileComplete: true,
		IsActive:          true,
	}
}

func newTestHandler(t *testing.T, reader *mockReader) *Handler {
	reg, err := registry.Default()
	require.NoError(t, err)
	validator, err := validation.NewSchemaValidator(reg)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	engine := matching.NewEngine(matching.EngineConfig{}, unusedStore{}, matching.NewScorer(matching.ScorerConfig{}), log)
	return NewHandler(LoadConfig(), engine, reader, validator, nil, log)
}

func TestHandler_ProcessByIDs(t *testing.T) {
	reader := new(mockReader)
	reader.On("GetBusiness", mock.Anything, "biz-1").Return(testBusiness(), nil)
	reader.On("GetInfluencer", mock.Anything, "inf-1").Return(testInfluencer(), nil)

	out, err := newTestHandler(t, reader).Process(context.Background(), `{"businessId": "biz-1", "influencerId": "inf-1"}`)
	require.NoError(t, err)

	want, err := matching.NewScorer(matching.ScorerConfig{}).Score(testBusiness(), testInfluencer())
	require.NoError(t, err)

	assert.Equal(t, "biz-1", out.BusinessID)
	assert.Equal(t, "inf-1", out.InfluencerID)
	assert.Equal(t, want.Score, out.Score)
	assert.Len(t, out.Breakdown, len(models.Factors))
	assert.Equal(t, 1.0, out.Breakdown[models.FactorNiche])
	assert.Equal(t, 1.0, out.Breakdown[models.FactorLocation])
	reader.AssertExpectations(t)
}

func TestHandler_MixedInlineAndID(t *testing.T) {
	reader := new(mockReader)
	reader.On("GetInfluencer", mock.Anything, "inf-1").Return(testInfluencer(), nil)

	out, err := newTestHandler(t, reader).Execute(context.Background(), &Input{
		Business:     testBusiness(),
		InfluencerID: "inf-1",
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.Score, 0.0)
	assert.LessOrEqual(t, out.Score, 1.0)
	reader.AssertNotCalled(t, "GetBusiness", mock.Anything, mock.Anything)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		setup     func(reader *mockReader)
		wantCode  apperrors.ErrorCode
	}{
		{
			name:      "missing influencer",
			variables: `{"businessId": "biz-1"}`,
			wantCode:  apperrors.ErrCodeInputSchemaViolation,
		},
		{
			name:      "unknown influencer",
			variables: `{"businessId": "biz-1", "influencerId": "nope"}`,
			setup: func(reader *mockReader) {
				reader.On("GetBusiness", mock.Anything, "biz-1").Return(testBusiness(), nil)
				reader.On("GetInfluencer", mock.Anything, "nope").
					Return(nil, fmt.Errorf("influencer %q: %w", "nope", models.ErrProfileNotFound))
			},
			wantCode: apperrors.ErrCodeProfileNotFound,
		},
		{
			name:      "store timeout",
			variables: `{"businessId": "biz-1", "influencerId": "inf-1"}`,
			setup: func(reader *mockReader) {
				reader.On("GetBusiness", mock.Anything, "biz-1").Return(nil, context.DeadlineExceeded)
			},
			wantCode: apperrors.ErrCodeProfileStoreTimeout,
		},
		{
			name:      "store failure",
			variables: `{"businessId": "biz-1", "influencerId": "inf-1"}`,
			setup: func(reader *mockReader) {
				reader.On("GetBusiness", mock.Anything, "biz-1").Return(nil, errors.New("broken pipe"))
			},
			wantCode: apperrors.ErrCodeProfileStoreQueryFailed,
		},
		{
			name:      "complete influencer without stats",
			variables: `{"business": {"id": "biz-1"}, "influencer": {"id": "inf-2", "isProfileComplete": true}}`,
			wantCode:  apperrors.ErrCodeProfileIntegrityViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(mockReader)
			if tt.setup != nil {
				tt.setup(reader)
			}

			_, err := newTestHandler(t, reader).Process(context.Background(), tt.variables)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.FromError(err).Code)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, 5*time.Second, LoadConfig().Timeout)
}
