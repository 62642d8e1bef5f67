package usecase

import (
	"fmt"
	"testing"

	"github.com/foodscan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankResults_ExactMatchBeatsContainsMatch(t *testing.T) {
	candidates := []domain.Product{
		{Name: "Milk", Source: domain.SourceRegional},
		{Name: "Milk", Source: domain.SourceGlobal},
		{Name: "Soy Milk Drink", Source: domain.SourceGlobal},
	}

	results := RankResults("milk", candidates)

	// The two nameless-code "Milk" candidates share the normalized-name key,
	// so they collapse to the higher-scored regional one.
	require.Len(t, results, 2)
	assert.Equal(t, "Milk", results[0].Name)
	assert.Equal(t, domain.SourceRegional, results[0].Source)
	assert.Equal(t, "Soy Milk Drink", results[1].Name)
}

func TestRankResults_Deterministic(t *testing.T) {
	candidates := []domain.Product{
		{Name: "Milk Chocolate", Code: "1", Source: domain.SourceGlobal},
		{Name: "Chocolate Milk", Code: "2", Source: domain.SourceRegional},
		{Name: "Choco Crispies", Code: "3", Source: domain.SourceGlobal},
		{Name: "Dark Chocolate", Code: "4", Source: domain.SourceRegional, ImageURL: "https://img.example/4.jpg"},
	}

	first := RankResults("chocolate", candidates)
	for i := 0; i < 5; i++ {
		again := RankResults("chocolate", candidates)
		require.Equal(t, first, again, "rank order changed between invocations")
	}
}

func TestRankResults_ScoreAccumulation(t *testing.T) {
	// Exact name match also collects the contains and prefix bonuses.
	rich := domain.Product{
		Name:            "Milk",
		Brands:          "Amul",
		Code:            "100",
		ImageURL:        "https://img.example/milk.jpg",
		Nutriments:      map[string]any{"energy-kcal_100g": 64.0},
		IngredientsText: "milk",
		NutritionGrades: []string{"b"},
		Source:          domain.SourceRegional,
	}
	// 20 + 10 + 5 (name) + 2 + 2 + 1 + 3 + 1 = 44
	assert.Equal(t, 44, scoreCandidate("milk", rich))

	bare := domain.Product{Name: "Milk Powder", Code: "101", Source: domain.SourceGlobal}
	// contains 10 + prefix 5 = 15
	assert.Equal(t, 15, scoreCandidate("milk", bare))

	brandHit := domain.Product{Name: "Taaza Toned", Brands: "Milk Co", Code: "102", Source: domain.SourceGlobal}
	// brand contains 8 + brand prefix 4 = 12
	assert.Equal(t, 12, scoreCandidate("milk", brandHit))
}

func TestRankResults_DeduplicatesByCode(t *testing.T) {
	candidates := []domain.Product{
		{Name: "Oat Drink", Code: "737628064502", Source: domain.SourceGlobal},
		{Name: "Oat Drink", Code: "737628064502", Source: domain.SourceRegional, ImageURL: "https://img.example/oat.jpg"},
	}

	results := RankResults("oat drink", candidates)

	require.Len(t, results, 1)
	// The regional duplicate scores strictly higher (+3 regional, +2 image)
	// and must survive.
	assert.Equal(t, domain.SourceRegional, results[0].Source)
}

func TestRankResults_DeduplicationTieKeepsFirst(t *testing.T) {
	candidates := []domain.Product{
		{Name: "Peanut Butter", Code: "555", Brands: "FirstBrand", Source: domain.SourceGlobal},
		{Name: "Peanut Butter", Code: "555", Brands: "SecondBrand", Source: domain.SourceGlobal},
	}

	results := RankResults("peanut butter", candidates)

	require.Len(t, results, 1)
	assert.Equal(t, "FirstBrand", results[0].Brands)
}

func TestRankResults_ExcludesNamelessCandidates(t *testing.T) {
	candidates := []domain.Product{
		{Name: "", Code: "900", Source: domain.SourceRegional},
		{Name: "   ", Code: "901", Source: domain.SourceRegional},
		{Name: "Apple Juice", Code: "902", Source: domain.SourceGlobal},
	}

	results := RankResults("apple", candidates)

	require.Len(t, results, 1)
	assert.Equal(t, "Apple Juice", results[0].Name)
}

func TestRankResults_TruncatesToTopTen(t *testing.T) {
	var candidates []domain.Product
	for i := 0; i < 15; i++ {
		candidates = append(candidates, domain.Product{
			Name:   fmt.Sprintf("Granola Bar %d", i),
			Code:   fmt.Sprintf("%d", 1000+i),
			Source: domain.SourceGlobal,
		})
	}

	results := RankResults("granola", candidates)
	assert.Len(t, results, 10)
}

func TestRankResults_StableOrderOnTies(t *testing.T) {
	// Equal scores, both Latin-script: input order must be preserved.
	candidates := []domain.Product{
		{Name: "Green Tea Alpha", Code: "1", Source: domain.SourceGlobal},
		{Name: "Green Tea Beta", Code: "2", Source: domain.SourceGlobal},
	}

	results := RankResults("green tea", candidates)

	require.Len(t, results, 2)
	assert.Equal(t, "Green Tea Alpha", results[0].Name)
	assert.Equal(t, "Green Tea Beta", results[1].Name)
}

func TestRankResults_LatinScriptBreaksTies(t *testing.T) {
	// Same score either way; the Latin-script name ranks first even though
	// it appears second in the input.
	candidates := []domain.Product{
		{Name: "दूध पाउडर प्रीमियम", Code: "1", Source: domain.SourceGlobal},
		{Name: "Milk Powder Premium", Code: "2", Source: domain.SourceGlobal},
	}

	results := RankResults("zzz", candidates)

	require.Len(t, results, 2)
	assert.Equal(t, "Milk Powder Premium", results[0].Name)
}

func TestRankResults_EmptyInput(t *testing.T) {
	assert.Empty(t, RankResults("milk", nil))
	assert.Empty(t, RankResults("milk", []domain.Product{}))
}
