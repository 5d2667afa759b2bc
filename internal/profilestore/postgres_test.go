package profilestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestInfluencerQuery(t *testing.T) {
	tests := []struct {
		name      string
		pred      matching.InfluencerPredicate
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "open bounds",
			pred:      matching.BuildInfluencerPredicate(models.MatchingCriteria{}, true),
			wantQuery: "SELECT document FROM influencer_profiles WHERE is_active = TRUE AND is_profile_complete = TRUE ORDER BY id LIMIT $1",
			wantArgs:  []interface{}{40},
		},
		{
			name: "all bounds",
			pred: matching.BuildInfluencerPredicate(models.MatchingCriteria{
				MinFollowers:      int64Ptr(1000),
				MaxFollowers:      int64Ptr(50000),
				MinEngagementRate: float64Ptr(2.5),
				VerifiedOnly:      true,
			}, false),
			wantQuery: "SELECT document FROM influencer_profiles WHERE is_active = TRUE AND is_profile_complete = TRUE AND availability_status = $1 AND total_followers >= $2 AND total_followers <= $3 AND average_engagement_rate >= $4 AND is_verified = TRUE ORDER BY id LIMIT $5",
			wantArgs:  []interface{}{"available", int64(1000), int64(50000), 2.5, 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := InfluencerQuery(tt.pred, 40)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBusinessQuery(t *testing.T) {
	query, args := BusinessQuery(matching.BuildBusinessPredicate(), 10)
	assert.Equal(t, "SELECT document FROM business_profiles WHERE is_active = TRUE AND is_profile_complete = TRUE AND auto_match = TRUE ORDER BY id LIMIT $1", query)
	assert.Equal(t, []interface{}{10}, args)
}

func TestPostgresStore_QueryInfluencers(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	a := sampleInfluencer("inf-a")
	b := sampleInfluencer("inf-b")
	pred := matching.BuildInfluencerPredicate(models.MatchingCriteria{MinFollowers: int64Ptr(5000)}, false)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM influencer_profiles WHERE")).
		WithArgs("available", int64(5000), 40).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).
			AddRow(mustJSON(t, a)).
			AddRow(mustJSON(t, b)))

	got, err := store.QueryInfluencers(context.Background(), pred, 40)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "inf-a", got[0].ID)
	assert.Equal(t, int64(10000), got[1].Stats.TotalFollowers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_QueryInfluencers_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	mock.ExpectQuery("SELECT document FROM influencer_profiles").
		WillReturnError(errors.New("connection refused"))

	got, err := store.QueryInfluencers(context.Background(), matching.InfluencerPredicate{}, 10)
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "connection refused")
}

func TestPostgresStore_QueryInfluencers_BadDocument(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	mock.ExpectQuery("SELECT document FROM influencer_profiles").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte(`{"niches": 7}`)))

	_, err := store.QueryInfluencers(context.Background(), matching.InfluencerPredicate{}, 10)
	assert.ErrorContains(t, err, "decode influencer profile")
}

func TestPostgresStore_QueryBusinesses(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM business_profiles WHERE is_active = TRUE")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(mustJSON(t, sampleBusiness("biz-1"))))

	got, err := store.QueryBusinesses(context.Background(), matching.BuildBusinessPredicate(), 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"instagram"}, got[0].TargetAudience.Platforms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM influencer_profiles WHERE is_active = TRUE AND is_profile_complete = TRUE AND is_verified = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM business_profiles WHERE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := store.CountInfluencers(context.Background(), matching.BuildInfluencerPredicate(models.MatchingCriteria{VerifiedOnly: true}, true))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = store.CountBusinesses(context.Background(), matching.BuildBusinessPredicate())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetInfluencer(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM influencer_profiles WHERE id = $1")).
		WithArgs("inf-a").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(mustJSON(t, sampleInfluencer("inf-a"))))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM influencer_profiles WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	p, err := store.GetInfluencer(context.Background(), "inf-a")
	require.NoError(t, err)
	assert.Equal(t, "inf-a", p.ID)

	_, err = store.GetInfluencer(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetBusiness_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM business_profiles WHERE id = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	_, err := store.GetBusiness(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestPostgresStore_UpsertInfluencer(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	p := sampleInfluencer("inf-a")
	p.Availability.Status = ""

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO influencer_profiles")).
		WithArgs("inf-a", sqlmock.AnyArg(), true, true, "available", false, int64(10000), 4.0,
			pq.Array([]string{"fitness", "food"}), "US").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpsertInfluencer(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertBusiness(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO business_profiles")).
		WithArgs("biz-1", sqlmock.AnyArg(), true, true, true, "US").
		WillReturnError(errors.New("disk full"))

	err := store.UpsertBusiness(context.Background(), sampleBusiness("biz-1"))
	assert.ErrorContains(t, err, "disk full")
}
