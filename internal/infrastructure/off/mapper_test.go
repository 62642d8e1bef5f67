package off

import (
	"encoding/json"
	"testing"

	"github.com/foodscan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireProduct_UnmarshalPreservesExtraFields(t *testing.T) {
	raw := `{
		"code": "3017620422003",
		"product_name": "Nutella",
		"brands": "Ferrero",
		"nutriments": {"sugars_100g": 56.3},
		"ecoscore_grade": "d",
		"categories_tags": ["en:spreads"],
		"quantity": "400 g"
	}`

	var w wireProduct
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	assert.Equal(t, "Nutella", w.ProductName)
	assert.Equal(t, "Ferrero", w.Brands)

	// Unknown upstream fields survive untouched.
	require.Contains(t, w.Extra, "ecoscore_grade")
	require.Contains(t, w.Extra, "categories_tags")
	require.Contains(t, w.Extra, "quantity")
	assert.NotContains(t, w.Extra, "product_name")
	assert.NotContains(t, w.Extra, "nutriments")

	var grade string
	require.NoError(t, json.Unmarshal(w.Extra["ecoscore_grade"], &grade))
	assert.Equal(t, "d", grade)
}

func TestWireProduct_UnmarshalNoExtras(t *testing.T) {
	var w wireProduct
	require.NoError(t, json.Unmarshal([]byte(`{"code": "1", "product_name": "Milk"}`), &w))
	assert.Nil(t, w.Extra)
}

func TestMapProduct(t *testing.T) {
	t.Run("maps core fields and source", func(t *testing.T) {
		w := &wireProduct{
			ProductName:         "  Whole Milk  ",
			Brands:              " Amul ",
			Code:                "8901030895555",
			ImageURL:            "https://images.example/milk.jpg",
			Nutriments:          map[string]any{"fat_100g": 3.5},
			IngredientsText:     "milk ",
			NutritionGradesTags: []string{"b", " "},
		}

		p := mapProduct(w, domain.SourceRegional)

		require.NotNil(t, p)
		assert.Equal(t, "Whole Milk", p.Name)
		assert.Equal(t, "Amul", p.Brands)
		assert.Equal(t, "8901030895555", p.Code)
		assert.Equal(t, "milk", p.IngredientsText)
		assert.Equal(t, []string{"b"}, p.NutritionGrades, "blank grade tags are dropped")
		assert.Equal(t, domain.SourceRegional, p.Source)
	})

	t.Run("falls back to _id when code is absent", func(t *testing.T) {
		w := &wireProduct{ProductName: "Juice", ID: "4001234567890"}
		p := mapProduct(w, domain.SourceGlobal)

		require.NotNil(t, p)
		assert.Equal(t, "4001234567890", p.Code)
	})

	t.Run("falls back to front image", func(t *testing.T) {
		w := &wireProduct{ProductName: "Juice", Code: "1", ImageFrontURL: "https://images.example/front.jpg"}
		p := mapProduct(w, domain.SourceGlobal)

		require.NotNil(t, p)
		assert.Equal(t, "https://images.example/front.jpg", p.ImageURL)
	})

	t.Run("rejects candidates with neither name nor code", func(t *testing.T) {
		assert.Nil(t, mapProduct(&wireProduct{ProductName: "   "}, domain.SourceGlobal))
		assert.Nil(t, mapProduct(nil, domain.SourceGlobal))
	})

	t.Run("keeps nameless candidate when code is present", func(t *testing.T) {
		p := mapProduct(&wireProduct{Code: "12345678"}, domain.SourceGlobal)
		require.NotNil(t, p)
		assert.Empty(t, p.Name)
	})
}
