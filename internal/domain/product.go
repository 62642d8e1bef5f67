package domain

import "encoding/json"

// SourceRegion identifies which upstream product database a product came from.
type SourceRegion string

const (
	SourceRegional SourceRegion = "regional"
	SourceGlobal   SourceRegion = "global"
)

// Product is one catalog item as returned by an upstream product database.
// Only the core fields are decoded; everything else the upstream sent is
// preserved opaquely in Extra because the schema is externally owned and
// only partially stable.
type Product struct {
	Name            string                     `json:"name"`
	Brands          string                     `json:"brands,omitempty"`
	Code            string                     `json:"code,omitempty"`
	ImageURL        string                     `json:"imageUrl,omitempty"`
	Nutriments      map[string]any             `json:"nutriments,omitempty"`
	IngredientsText string                     `json:"ingredientsText,omitempty"`
	NutritionGrades []string                   `json:"nutritionGrades,omitempty"`
	Source          SourceRegion               `json:"source"`
	Extra           map[string]json.RawMessage `json:"-"`
}
