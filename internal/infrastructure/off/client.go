// Package off implements the upstream product-source client for the two
// Open Food Facts style databases (a regional instance and the global one).
// All network variability is absorbed here: callers see either products or
// nothing, never transport errors.
package off

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/foodscan/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultAttemptTimeout = 2 * time.Second
	defaultPageSize       = 15
)

// ResponseCache memoizes raw upstream responses by request URL. Optional;
// a nil cache disables memoization.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte)
}

// Client queries the regional and global product databases.
type Client struct {
	httpClient     *http.Client
	regionalBase   string
	globalBase     string
	attemptTimeout time.Duration
	pageSize       int
	rateLimiter    *rate.Limiter
	respCache      ResponseCache
	debug          bool
}

// Option configures a Client.
type Option func(*Client)

// WithAttemptTimeout overrides the per-attempt timeout (default 2s).
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

// WithPageSize overrides the text-search page size (default 15).
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithResponseCache enables raw response memoization.
func WithResponseCache(rc ResponseCache) Option {
	return func(c *Client) { c.respCache = rc }
}

// NewClient creates a client for the given regional and global base URLs.
func NewClient(regionalBase, globalBase string, opts ...Option) *Client {
	// Open Food Facts asks for at most ~10 req/min on search endpoints;
	// allow short bursts for the two-source fan-out.
	limiter := rate.NewLimiter(rate.Limit(2), 6)

	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		regionalBase:   regionalBase,
		globalBase:     globalBase,
		attemptTimeout: defaultAttemptTimeout,
		pageSize:       defaultPageSize,
		rateLimiter:    limiter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDebug toggles verbose request logging.
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

func (c *Client) baseFor(source domain.SourceRegion) string {
	if source == domain.SourceRegional {
		return c.regionalBase
	}
	return c.globalBase
}

// FetchByIdentifier looks up a product by barcode. The regional source is
// tried first; any failure there (non-2xx, timeout, parse error, or a
// well-formed "not found") falls through silently to the global source.
// ErrProductNotFound is returned only when both sources came up empty.
func (c *Client) FetchByIdentifier(ctx context.Context, code string) (*domain.Product, error) {
	for _, source := range []domain.SourceRegion{domain.SourceRegional, domain.SourceGlobal} {
		product, err := c.fetchFromSource(ctx, code, source)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if c.debug {
				log.Printf("[OFF] barcode %s: %s lookup failed: %v", code, source, err)
			}
			continue
		}
		return product, nil
	}
	return nil, domain.ErrProductNotFound
}

// fetchFromSource performs one barcode lookup against one source with its
// own timeout.
func (c *Client) fetchFromSource(ctx context.Context, code string, source domain.SourceRegion) (*domain.Product, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseFor(source), url.PathEscape(code))

	body, err := c.doGet(attemptCtx, reqURL)
	if err != nil {
		return nil, err
	}

	var payload productResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode product response: %w", err)
	}
	if payload.Status != 1 || payload.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	product := mapProduct(payload.Product, source)
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// SearchByText queries one source with the raw query. It never fails
// outward: timeouts, bad statuses and malformed payloads all yield an
// empty slice, so a degraded source contributes zero results instead of
// aborting the other source's request.
func (c *Client) SearchByText(ctx context.Context, query string, source domain.SourceRegion) []domain.Product {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", fmt.Sprintf("%d", c.pageSize))
	params.Set("sort_by", "unique_scans_n")

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseFor(source), params.Encode())

	body, err := c.doGet(attemptCtx, reqURL)
	if err != nil {
		if ctx.Err() == nil && c.debug {
			log.Printf("[OFF] text search %q on %s failed: %v", query, source, err)
		}
		return nil
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if c.debug {
			log.Printf("[OFF] text search %q on %s: malformed payload: %v", query, source, err)
		}
		return nil
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for i := range payload.Products {
		if p := mapProduct(&payload.Products[i], source); p != nil {
			products = append(products, *p)
		}
	}
	if c.debug {
		log.Printf("[OFF] text search %q on %s: %d products", query, source, len(products))
	}
	return products
}

// doGet executes one GET with rate limiting and optional response
// memoization, returning the body of a 200 response.
func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, error) {
	if c.respCache != nil {
		if body, ok := c.respCache.Get(reqURL); ok {
			return body, nil
		}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "FoodScan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.respCache != nil {
		c.respCache.Set(reqURL, body)
	}
	return body, nil
}
