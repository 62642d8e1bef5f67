package usecase

import (
	"sort"
	"strings"

	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/normalize"
)

// maxRankedResults caps the list returned to callers.
const maxRankedResults = 10

// Scoring bonuses. Each check is applied independently, so an exact name
// match also collects the contains and prefix bonuses.
const (
	scoreNameExact      = 20
	scoreBrandExact     = 15
	scoreNameContains   = 10
	scoreBrandContains  = 8
	scoreNamePrefix     = 5
	scoreBrandPrefix    = 4
	scoreHasImage       = 2
	scoreHasNutriments  = 2
	scoreHasGradeTag    = 1
	scoreHasIngredients = 1
	scoreRegional       = 3
)

type rankedProduct struct {
	product domain.Product
	score   int
	latin   bool
}

// RankResults scores a merged, unordered candidate list against the query,
// deduplicates by code (falling back to normalized name), and returns the
// top candidates by descending score. Nameless candidates are dropped
// before scoring since nothing can be displayed or compared for them.
//
// The function is pure: the same candidates and query always produce the
// same ordered output. Ties sort Latin-script names first, then keep the
// original relative order.
func RankResults(query string, candidates []domain.Product) []domain.Product {
	normQuery := normalize.Normalize(query)

	ranked := make([]rankedProduct, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate.Name) == "" {
			continue
		}
		ranked = append(ranked, rankedProduct{
			product: candidate,
			score:   scoreCandidate(normQuery, candidate),
			latin:   normalize.LooksLatinScript(candidate.Name),
		})
	}

	ranked = deduplicate(ranked)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].latin && !ranked[j].latin
	})

	if len(ranked) > maxRankedResults {
		ranked = ranked[:maxRankedResults]
	}

	results := make([]domain.Product, len(ranked))
	for i, r := range ranked {
		results[i] = r.product
	}
	return results
}

// scoreCandidate accumulates the independent relevance bonuses for one
// candidate against the normalized query.
func scoreCandidate(normQuery string, candidate domain.Product) int {
	name := normalize.Normalize(candidate.Name)
	brand := normalize.Normalize(candidate.Brands)

	score := 0

	if normQuery != "" {
		if name == normQuery {
			score += scoreNameExact
		}
		if brand != "" && brand == normQuery {
			score += scoreBrandExact
		}
		if strings.Contains(name, normQuery) {
			score += scoreNameContains
		}
		if brand != "" && strings.Contains(brand, normQuery) {
			score += scoreBrandContains
		}
		if strings.HasPrefix(name, normQuery) {
			score += scoreNamePrefix
		}
		if brand != "" && strings.HasPrefix(brand, normQuery) {
			score += scoreBrandPrefix
		}
	}

	if candidate.ImageURL != "" {
		score += scoreHasImage
	}
	if len(candidate.Nutriments) > 0 {
		score += scoreHasNutriments
	}
	if candidate.IngredientsText != "" {
		score += scoreHasIngredients
	}
	if candidate.Source == domain.SourceRegional {
		score += scoreRegional
	}
	if len(candidate.NutritionGrades) > 0 {
		score += scoreHasGradeTag
	}

	return score
}

// deduplicate collapses candidates sharing a key (code when present,
// normalized name otherwise), keeping the strictly higher-scored one.
// Ties keep the first encountered. Relative order of survivors follows
// their first appearance.
func deduplicate(ranked []rankedProduct) []rankedProduct {
	type slot struct {
		index int
		entry rankedProduct
	}
	byKey := make(map[string]slot, len(ranked))
	order := make([]string, 0, len(ranked))

	for _, r := range ranked {
		key := r.product.Code
		if key == "" {
			key = normalize.Normalize(r.product.Name)
		}

		existing, seen := byKey[key]
		if !seen {
			byKey[key] = slot{index: len(order), entry: r}
			order = append(order, key)
			continue
		}
		if r.score > existing.entry.score {
			byKey[key] = slot{index: existing.index, entry: r}
		}
	}

	out := make([]rankedProduct, len(order))
	for _, key := range order {
		s := byKey[key]
		out[s.index] = s.entry
	}
	return out
}
