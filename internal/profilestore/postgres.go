package profilestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

// PostgresStore keeps each profile as a jsonb document next to the columns
// the candidate filter needs.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) addFixed(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func influencerWhere(pred matching.InfluencerPredicate) *whereBuilder {
	w := &whereBuilder{}
	if pred.RequireActive {
		w.addFixed("is_active = TRUE")
	}
	if pred.RequireComplete {
		w.addFixed("is_profile_complete = TRUE")
	}
	if pred.RequireAvailable {
		w.add("availability_status = $%d", string(models.AvailabilityAvailable))
	}
	if pred.MinFollowers != nil {
		w.add("total_followers >= $%d", *pred.MinFollowers)
	}
	if pred.MaxFollowers != nil {
		w.add("total_followers <= $%d", *pred.MaxFollowers)
	}
	if pred.MinEngagementRate != nil {
		w.add("average_engagement_rate >= $%d", *pred.MinEngagementRate)
	}
	if pred.VerifiedOnly {
		w.addFixed("is_verified = TRUE")
	}
	return w
}

func businessWhere(pred matching.BusinessPredicate) *whereBuilder {
	w := &whereBuilder{}
	if pred.RequireActive {
		w.addFixed("is_active = TRUE")
	}
	if pred.RequireComplete {
		w.addFixed("is_profile_complete = TRUE")
	}
	if pred.RequireAutoMatch {
		w.addFixed("auto_match = TRUE")
	}
	return w
}

// InfluencerQuery renders the candidate query for a predicate and pool size.
func InfluencerQuery(pred matching.InfluencerPredicate, limit int) (string, []interface{}) {
	w := influencerWhere(pred)
	args := append(w.args, limit)
	return fmt.Sprintf("SELECT document FROM influencer_profiles%s ORDER BY id LIMIT $%d", w.sql(), len(args)), args
}

// BusinessQuery renders the reverse-lookup candidate query.
func BusinessQuery(pred matching.BusinessPredicate, limit int) (string, []interface{}) {
	w := businessWhere(pred)
	args := append(w.args, limit)
	return fmt.Sprintf("SELECT document FROM business_profiles%s ORDER BY id LIMIT $%d", w.sql(), len(args)), args
}

func (s *PostgresStore) QueryInfluencers(ctx context.Context, pred matching.InfluencerPredicate, limit int) (out []models.InfluencerProfile, err error) {
	ctx, span := startSpan(ctx, "profilestore.postgres.QueryInfluencers")
	defer func() { endSpan(span, err) }()

	query, args := InfluencerQuery(pred, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query influencer profiles: %w", err)
	}
	defer rows.Close()

	out = make([]models.InfluencerProfile, 0, limit)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan influencer profile: %w", err)
		}
		var p models.InfluencerProfile
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode influencer profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate influencer profiles: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) QueryBusinesses(ctx context.Context, pred matching.BusinessPredicate, limit int) (out []models.BusinessProfile, err error) {
	ctx, span := startSpan(ctx, "profilestore.postgres.QueryBusinesses")
	defer func() { endSpan(span, err) }()

	query, args := BusinessQuery(pred, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query business profiles: %w", err)
	}
	defer rows.Close()

	out = make([]models.BusinessProfile, 0, limit)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan business profile: %w", err)
		}
		var p models.BusinessProfile
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode business profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business profiles: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountInfluencers(ctx context.Context, pred matching.InfluencerPredicate) (int64, error) {
	w := influencerWhere(pred)
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM influencer_profiles"+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count influencer profiles: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountBusinesses(ctx context.Context, pred matching.BusinessPredicate) (int64, error) {
	w := businessWhere(pred)
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM business_profiles"+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count business profiles: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) GetInfluencer(ctx context.Context, id string) (*models.InfluencerProfile, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, "SELECT document FROM influencer_profiles WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(models.KindInfluencer, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get influencer %q: %w", id, err)
	}

	var p models.InfluencerProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode influencer %q: %w", id, err)
	}
	return &p, nil
}

func (s *PostgresStore) GetBusiness(ctx context.Context, id string) (*models.BusinessProfile, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, "SELECT document FROM business_profiles WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(models.KindBusiness, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get business %q: %w", id, err)
	}

	var p models.BusinessProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode business %q: %w", id, err)
	}
	return &p, nil
}

const upsertInfluencerSQL = `
INSERT INTO influencer_profiles (
	id, document, is_active, is_profile_complete, availability_status, is_verified,
	total_followers, average_engagement_rate, niches, country, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
ON CONFLICT (id) DO UPDATE SET
	document = EXCLUDED.document,
	is_active = EXCLUDED.is_active,
	is_profile_complete = EXCLUDED.is_profile_complete,
	availability_status = EXCLUDED.availability_status,
	is_verified = EXCLUDED.is_verified,
	total_followers = EXCLUDED.total_followers,
	average_engagement_rate = EXCLUDED.average_engagement_rate,
	niches = EXCLUDED.niches,
	country = EXCLUDED.country,
	updated_at = NOW()`

// UpsertInfluencer writes the document and refreshes the filter columns.
func (s *PostgresStore) UpsertInfluencer(ctx context.Context, p *models.InfluencerProfile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode influencer %q: %w", p.ID, err)
	}

	var followers int64
	var engagement float64
	if p.Stats != nil {
		followers = p.Stats.TotalFollowers
		engagement = p.Stats.AverageEngagementRate
	}

	_, err = s.db.ExecContext(ctx, upsertInfluencerSQL,
		p.ID,
		doc,
		p.IsActive,
		p.IsProfileComplete,
		string(availabilityOrDefault(p.Availability.Status)),
		p.VerificationStatus.IsVerified,
		followers,
		engagement,
		pq.Array(p.Niches),
		p.Location.Country,
	)
	if err != nil {
		return fmt.Errorf("upsert influencer %q: %w", p.ID, err)
	}
	return nil
}

const upsertBusinessSQL = `
INSERT INTO business_profiles (
	id, document, is_active, is_profile_complete, auto_match, country, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (id) DO UPDATE SET
	document = EXCLUDED.document,
	is_active = EXCLUDED.is_active,
	is_profile_complete = EXCLUDED.is_profile_complete,
	auto_match = EXCLUDED.auto_match,
	country = EXCLUDED.country,
	updated_at = NOW()`

// UpsertBusiness writes the document and refreshes the filter columns.
func (s *PostgresStore) UpsertBusiness(ctx context.Context, p *models.BusinessProfile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode business %q: %w", p.ID, err)
	}

	_, err = s.db.ExecContext(ctx, upsertBusinessSQL,
		p.ID,
		doc,
		p.IsActive,
		p.IsProfileComplete,
		p.Preferences.Matching.AutoMatch,
		p.Location.Country,
	)
	if err != nil {
		return fmt.Errorf("upsert business %q: %w", p.ID, err)
	}
	return nil
}
