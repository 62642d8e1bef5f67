package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/normalize"
	"golang.org/x/sync/errgroup"
)

// SearchServiceConfig holds configuration for the search orchestrator.
type SearchServiceConfig struct {
	EnableDebugLogging bool
}

// SearchService is the public entry point of the search pipeline. It
// decides barcode vs text mode, fans out to the sources, ranks, and caches.
type SearchService struct {
	source domain.ProductSource
	cache  domain.ResultCache
	debug  bool
}

// NewSearchService creates a search orchestrator over the given source and
// cache. The cache may be nil to disable result caching.
func NewSearchService(source domain.ProductSource, cache domain.ResultCache, config SearchServiceConfig) *SearchService {
	return &SearchService{
		source: source,
		cache:  cache,
		debug:  config.EnableDebugLogging,
	}
}

// Search resolves raw user input to a ranked, deduplicated product list.
// The only failure signal is an empty list: source outages, timeouts and
// malformed payloads are absorbed upstream, and a fully failed barcode
// lookup yields no results rather than an error.
func (s *SearchService) Search(ctx context.Context, rawInput string) []domain.Product {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return []domain.Product{}
	}

	cacheKey := normalize.Normalize(trimmed)

	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if s.debug {
				log.Printf("[SEARCH] cache hit for %q", cacheKey)
			}
			return cached
		}
	}

	var results []domain.Product
	if normalize.LooksLikeIdentifier(trimmed) {
		results = s.searchBarcode(ctx, trimmed)
	} else {
		results = s.searchText(ctx, trimmed)
	}

	if s.cache != nil && ctx.Err() == nil {
		// Empty results are cached too, so repeated identical failing
		// queries do not hammer the sources.
		s.cache.Set(cacheKey, results)
	}
	return results
}

// searchBarcode resolves a single authoritative product; ranking is
// bypassed in this mode.
func (s *SearchService) searchBarcode(ctx context.Context, code string) []domain.Product {
	product, err := s.source.FetchByIdentifier(ctx, code)
	if err != nil || product == nil {
		if s.debug {
			log.Printf("[SEARCH] barcode %q: no result (%v)", code, err)
		}
		return []domain.Product{}
	}
	return []domain.Product{*product}
}

// searchText fans out to both sources concurrently, merges regional results
// ahead of global ones, and ranks the combined list. Partial results from
// one source are never surfaced independently; the ranker always sees the
// complete merged list for one invocation.
func (s *SearchService) searchText(ctx context.Context, query string) []domain.Product {
	var regional, global []domain.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		regional = s.source.SearchByText(gctx, query, domain.SourceRegional)
		return nil
	})
	g.Go(func() error {
		global = s.source.SearchByText(gctx, query, domain.SourceGlobal)
		return nil
	})
	// SearchByText never fails, so Wait only synchronizes the fan-out.
	_ = g.Wait()

	merged := make([]domain.Product, 0, len(regional)+len(global))
	merged = append(merged, regional...)
	merged = append(merged, global...)

	if s.debug {
		log.Printf("[SEARCH] text %q: %d regional + %d global candidates", query, len(regional), len(global))
	}
	return RankResults(query, merged)
}
