package domain

import "context"

// ProductSource defines the interface for upstream product databases.
// Implementations absorb network variability: SearchByText never returns an
// error, and FetchByIdentifier reports "not found" only after every source
// has been tried.
type ProductSource interface {
	// FetchByIdentifier looks up a single product by barcode, trying the
	// regional source first and falling through to the global one.
	FetchByIdentifier(ctx context.Context, code string) (*Product, error)

	// SearchByText queries one named source with a free-text query.
	// Failures of any kind yield an empty slice.
	SearchByText(ctx context.Context, query string, source SourceRegion) []Product
}

// ResultCache defines the interface for caching resolved search results,
// keyed by normalized query string.
type ResultCache interface {
	Get(key string) ([]Product, bool)
	Set(key string, value []Product)
	Clear()
}
