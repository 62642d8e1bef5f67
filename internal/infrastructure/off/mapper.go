package off

import (
	"encoding/json"
	"strings"

	"github.com/foodscan/backend/internal/domain"
)

// productResponse is the wire shape of a barcode lookup:
// {"status": 1|0, "product": {...}}
type productResponse struct {
	Status  int          `json:"status"`
	Product *wireProduct `json:"product"`
}

// searchResponse is the wire shape of a text search: {"products": [...]}
type searchResponse struct {
	Products []wireProduct `json:"products"`
}

// wireProduct decodes the core fields the search pipeline depends on and
// keeps every other upstream field untouched in Extra.
type wireProduct struct {
	ProductName         string                     `json:"product_name"`
	Brands              string                     `json:"brands"`
	Code                string                     `json:"code"`
	ID                  string                     `json:"_id"`
	ImageURL            string                     `json:"image_url"`
	ImageFrontURL       string                     `json:"image_front_url"`
	Nutriments          map[string]any             `json:"nutriments"`
	IngredientsText     string                     `json:"ingredients_text"`
	NutritionGradesTags []string                   `json:"nutrition_grades_tags"`
	Extra               map[string]json.RawMessage `json:"-"`
}

// knownProductFields are the keys UnmarshalJSON decodes into typed fields;
// everything else lands in Extra.
var knownProductFields = map[string]bool{
	"product_name":          true,
	"brands":                true,
	"code":                  true,
	"_id":                   true,
	"image_url":             true,
	"image_front_url":       true,
	"nutriments":            true,
	"ingredients_text":      true,
	"nutrition_grades_tags": true,
}

func (p *wireProduct) UnmarshalJSON(data []byte) error {
	type alias wireProduct
	var core alias
	if err := json.Unmarshal(data, &core); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if knownProductFields[key] {
			delete(raw, key)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}

	*p = wireProduct(core)
	p.Extra = raw
	return nil
}

// mapProduct converts a wire product into the domain model, tagging it with
// the source it came from. Returns nil for candidates that carry neither a
// name nor a code, since nothing downstream can rank or display them.
func mapProduct(w *wireProduct, source domain.SourceRegion) *domain.Product {
	if w == nil {
		return nil
	}

	name := strings.TrimSpace(w.ProductName)
	code := w.Code
	if code == "" {
		code = w.ID
	}
	if name == "" && code == "" {
		return nil
	}

	imageURL := w.ImageURL
	if imageURL == "" {
		imageURL = w.ImageFrontURL
	}

	grades := make([]string, 0, len(w.NutritionGradesTags))
	for _, g := range w.NutritionGradesTags {
		if g = strings.TrimSpace(g); g != "" {
			grades = append(grades, g)
		}
	}
	if len(grades) == 0 {
		grades = nil
	}

	return &domain.Product{
		Name:            name,
		Brands:          strings.TrimSpace(w.Brands),
		Code:            code,
		ImageURL:        imageURL,
		Nutriments:      w.Nutriments,
		IngredientsText: strings.TrimSpace(w.IngredientsText),
		NutritionGrades: grades,
		Source:          source,
		Extra:           w.Extra,
	}
}
