package profilestore

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"influencer-matching/internal/matching"
	"influencer-matching/internal/models"
)

//go:embed mappings/*.json
var mappingFS embed.FS

// ElasticsearchStore reads profiles indexed with the same camelCase document
// shape the models marshal to.
type ElasticsearchStore struct {
	client          *elasticsearch.Client
	influencerIndex string
	businessIndex   string
}

func NewElasticsearchStore(client *elasticsearch.Client, influencerIndex, businessIndex string) *ElasticsearchStore {
	return &ElasticsearchStore{
		client:          client,
		influencerIndex: influencerIndex,
		businessIndex:   businessIndex,
	}
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"term": map[string]interface{}{field: value}}
}

func rangeFilter(field string, bounds map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"range": map[string]interface{}{field: bounds}}
}

func boolFilter(filters []interface{}) map[string]interface{} {
	return map[string]interface{}{"bool": map[string]interface{}{"filter": filters}}
}

// availableFilter matches an available status and, like the Postgres
// upsert, a missing or empty one.
func availableFilter() map[string]interface{} {
	return map[string]interface{}{"bool": map[string]interface{}{
		"should": []interface{}{
			map[string]interface{}{"terms": map[string]interface{}{
				"availability.status": []string{string(models.AvailabilityAvailable), ""},
			}},
			map[string]interface{}{"bool": map[string]interface{}{
				"must_not": map[string]interface{}{"exists": map[string]interface{}{"field": "availability.status"}},
			}},
		},
		"minimum_should_match": 1,
	}}
}

// InfluencerFilterQuery compiles the predicate into a bool filter query.
func InfluencerFilterQuery(pred matching.InfluencerPredicate) map[string]interface{} {
	filters := []interface{}{}
	if pred.RequireActive {
		filters = append(filters, term("isActive", true))
	}
	if pred.RequireComplete {
		filters = append(filters, term("isProfileComplete", true))
	}
	if pred.RequireAvailable {
		filters = append(filters, availableFilter())
	}

	followers := map[string]interface{}{}
	if pred.MinFollowers != nil {
		followers["gte"] = *pred.MinFollowers
	}
	if pred.MaxFollowers != nil {
		followers["lte"] = *pred.MaxFollowers
	}
	if len(followers) > 0 {
		filters = append(filters, rangeFilter("stats.totalFollowers", followers))
	}
	if pred.MinEngagementRate != nil {
		filters = append(filters, rangeFilter("stats.averageEngagementRate", map[string]interface{}{"gte": *pred.MinEngagementRate}))
	}
	if pred.VerifiedOnly {
		filters = append(filters, term("verificationStatus.isVerified", true))
	}
	return boolFilter(filters)
}

// BusinessFilterQuery compiles the reverse-lookup predicate.
func BusinessFilterQuery(pred matching.BusinessPredicate) map[string]interface{} {
	filters := []interface{}{}
	if pred.RequireActive {
		filters = append(filters, term("isActive", true))
	}
	if pred.RequireComplete {
		filters = append(filters, term("isProfileComplete", true))
	}
	if pred.RequireAutoMatch {
		filters = append(filters, term("preferences.matching.autoMatch", true))
	}
	return boolFilter(filters)
}

// sortField is mapped as a keyword by the index mappings EnsureIndices applies.
const sortField = "id"

func searchBody(query map[string]interface{}, size int) map[string]interface{} {
	return map[string]interface{}{
		"query": query,
		"size":  size,
		"sort":  []interface{}{map[string]interface{}{sortField: "asc"}},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

func encode(body interface{}) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return &buf, nil
}

func decodeResponse(res *esapi.Response, op string, into interface{}) error {
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%s: elasticsearch error: %s", op, res.Status())
	}
	if err := json.NewDecoder(res.Body).Decode(into); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (s *ElasticsearchStore) search(ctx context.Context, index string, query map[string]interface{}, size int) (*searchResponse, error) {
	body, err := encode(searchBody(query, size))
	if err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}

	var out searchResponse
	if err := decodeResponse(res, "search "+index, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ElasticsearchStore) count(ctx context.Context, index string, query map[string]interface{}) (int64, error) {
	body, err := encode(map[string]interface{}{"query": query})
	if err != nil {
		return 0, err
	}

	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(index),
		s.client.Count.WithBody(body),
	)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", index, err)
	}

	var out countResponse
	if err := decodeResponse(res, "count "+index, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// get returns the document source, or nil when the document does not exist.
func (s *ElasticsearchStore) get(ctx context.Context, index, id string) (json.RawMessage, error) {
	res, err := s.client.Get(index, id, s.client.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", index, id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil, nil
	}

	var out getResponse
	if err := decodeResponse(res, "get "+index, &out); err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, nil
	}
	return out.Source, nil
}

// EnsureIndices creates each missing profile index with its embedded mapping
// and returns the names it created. An existing index must map the sort field
// as a keyword; dynamically mapped text ids cannot be sorted on.
func (s *ElasticsearchStore) EnsureIndices(ctx context.Context) ([]string, error) {
	targets := []struct{ index, mapping string }{
		{s.influencerIndex, "mappings/influencer_profiles.json"},
		{s.businessIndex, "mappings/business_profiles.json"},
	}

	var created []string
	for _, t := range targets {
		exists, err := s.indexExists(ctx, t.index)
		if err != nil {
			return created, err
		}
		if exists {
			if err := s.checkSortField(ctx, t.index); err != nil {
				return created, err
			}
			continue
		}

		body, err := mappingFS.ReadFile(t.mapping)
		if err != nil {
			return created, fmt.Errorf("read mapping %s: %w", t.mapping, err)
		}
		res, err := s.client.Indices.Create(t.index,
			s.client.Indices.Create.WithContext(ctx),
			s.client.Indices.Create.WithBody(bytes.NewReader(body)),
		)
		if err != nil {
			return created, fmt.Errorf("create index %s: %w", t.index, err)
		}
		var ack struct {
			Acknowledged bool `json:"acknowledged"`
		}
		if err := decodeResponse(res, "create index "+t.index, &ack); err != nil {
			return created, err
		}
		created = append(created, t.index)
	}
	return created, nil
}

func (s *ElasticsearchStore) indexExists(ctx context.Context, index string) (bool, error) {
	res, err := s.client.Indices.Exists([]string{index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check index %s: elasticsearch error: %s", index, res.Status())
	}
}

type fieldMappingResponse map[string]struct {
	Mappings map[string]struct {
		Mapping map[string]struct {
			Type string `json:"type"`
		} `json:"mapping"`
	} `json:"mappings"`
}

func (s *ElasticsearchStore) checkSortField(ctx context.Context, index string) error {
	res, err := s.client.Indices.GetFieldMapping([]string{sortField},
		s.client.Indices.GetFieldMapping.WithContext(ctx),
		s.client.Indices.GetFieldMapping.WithIndex(index),
	)
	if err != nil {
		return fmt.Errorf("get %s mapping of %s: %w", sortField, index, err)
	}

	var out fieldMappingResponse
	if err := decodeResponse(res, "get mapping "+index, &out); err != nil {
		return err
	}
	for name, idx := range out {
		typ := idx.Mappings[sortField].Mapping[sortField].Type
		if typ != "keyword" {
			return fmt.Errorf("index %s maps %q as %q, want keyword; reindex with the profile mappings", name, sortField, typ)
		}
	}
	return nil
}

func (s *ElasticsearchStore) QueryInfluencers(ctx context.Context, pred matching.InfluencerPredicate, limit int) (out []models.InfluencerProfile, err error) {
	ctx, span := startSpan(ctx, "profilestore.elasticsearch.QueryInfluencers")
	defer func() { endSpan(span, err) }()

	res, err := s.search(ctx, s.influencerIndex, InfluencerFilterQuery(pred), limit)
	if err != nil {
		return nil, err
	}

	out = make([]models.InfluencerProfile, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p models.InfluencerProfile
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			return nil, fmt.Errorf("decode influencer profile: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *ElasticsearchStore) QueryBusinesses(ctx context.Context, pred matching.BusinessPredicate, limit int) (out []models.BusinessProfile, err error) {
	ctx, span := startSpan(ctx, "profilestore.elasticsearch.QueryBusinesses")
	defer func() { endSpan(span, err) }()

	res, err := s.search(ctx, s.businessIndex, BusinessFilterQuery(pred), limit)
	if err != nil {
		return nil, err
	}

	out = make([]models.BusinessProfile, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p models.BusinessProfile
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			return nil, fmt.Errorf("decode business profile: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *ElasticsearchStore) CountInfluencers(ctx context.Context, pred matching.InfluencerPredicate) (int64, error) {
	return s.count(ctx, s.influencerIndex, InfluencerFilterQuery(pred))
}

func (s *ElasticsearchStore) CountBusinesses(ctx context.Context, pred matching.BusinessPredicate) (int64, error) {
	return s.count(ctx, s.businessIndex, BusinessFilterQuery(pred))
}

func (s *ElasticsearchStore) GetInfluencer(ctx context.Context, id string) (*models.InfluencerProfile, error) {
	src, err := s.get(ctx, s.influencerIndex, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, notFound(models.KindInfluencer, id)
	}

	var p models.InfluencerProfile
	if err := json.Unmarshal(src, &p); err != nil {
		return nil, fmt.Errorf("decode influencer %q: %w", id, err)
	}
	return &p, nil
}

func (s *ElasticsearchStore) GetBusiness(ctx context.Context, id string) (*models.BusinessProfile, error) {
	src, err := s.get(ctx, s.businessIndex, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, notFound(models.KindBusiness, id)
	}

	var p models.BusinessProfile
	if err := json.Unmarshal(src, &p); err != nil {
		return nil, fmt.Errorf("decode business %q: %w", id, err)
	}
	return &p, nil
}
