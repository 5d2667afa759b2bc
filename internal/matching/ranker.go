// internal/matching/ranker.go
package matching

import (
	"sort"

	"influencer-matching/internal/models"
)

// Match pairs a candidate with its score.
type Match[T any] struct {
	Candidate T
	models.MatchScore
}

// ScoreFunc scores a single candidate.
type ScoreFunc[T any] func(candidate *T) (models.MatchScore, error)

// Rank scores every candidate, drops those below minScore, sorts the rest by
// score descending (ties keep the input order) and truncates to limit.
// A scoring error aborts the ranking and no partial list is returned.
func Rank[T any](candidates []T, score ScoreFunc[T], minScore float64, limit int) ([]Match[T], error) {
	ranked := make([]Match[T], 0, len(candidates))
	for i := range candidates {
		s, err := score(&candidates[i])
		if err != nil {
			return nil, err
		}
		if s.Score < minScore {
			continue
		}
		ranked = append(ranked, Match[T]{Candidate: candidates[i], MatchScore: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
