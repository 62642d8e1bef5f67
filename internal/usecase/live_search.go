package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/foodscan/backend/internal/domain"
	"github.com/foodscan/backend/internal/normalize"
)

// Searcher is what LiveSearch needs from the orchestrator.
type Searcher interface {
	Search(ctx context.Context, rawInput string) []domain.Product
}

// LiveSearchConfig holds tunables for an interactive search session.
// Zero values fall back to the defaults below.
type LiveSearchConfig struct {
	Debounce           time.Duration
	MinQueryLength     int
	BarcodeTTL         time.Duration
	TextTTL            time.Duration
	SweepInterval      time.Duration
	SweepMaxAge        time.Duration
	EnableDebugLogging bool
}

const (
	defaultDebounce       = 150 * time.Millisecond
	defaultMinQueryLength = 2
	defaultBarcodeTTL     = 10 * time.Minute
	defaultTextTTL        = 5 * time.Minute
	defaultSweepInterval  = time.Minute
	defaultSweepMaxAge    = 5 * time.Minute
)

type liveCacheEntry struct {
	products  []domain.Product
	timestamp time.Time
	ttl       time.Duration
}

// LiveSearch adapts the orchestrator to a live text input: debounced
// fire-and-forget searches, cancellation of superseded requests, wholesale
// suggestion replacement, and a short-lived per-session result cache.
//
// Each search attempt carries a generation token captured at request start;
// a response whose token is no longer current is discarded, so a slow
// response to an old query can never overwrite a newer one.
type LiveSearch struct {
	searcher Searcher

	debounce    time.Duration
	minQueryLen int
	barcodeTTL  time.Duration
	textTTL     time.Duration
	sweepMaxAge time.Duration
	debug       bool

	mu          sync.Mutex
	suggestions []domain.Product
	searching   bool
	generation  uint64
	timer       *time.Timer
	cancel      context.CancelFunc
	results     map[string]liveCacheEntry

	done      chan struct{}
	closeOnce sync.Once
}

// NewLiveSearch creates an interactive session over the given searcher.
// Call Cleanup when the session ends to stop the background sweep.
func NewLiveSearch(searcher Searcher, config LiveSearchConfig) *LiveSearch {
	debounce := config.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	minLen := config.MinQueryLength
	if minLen <= 0 {
		minLen = defaultMinQueryLength
	}
	barcodeTTL := config.BarcodeTTL
	if barcodeTTL <= 0 {
		barcodeTTL = defaultBarcodeTTL
	}
	textTTL := config.TextTTL
	if textTTL <= 0 {
		textTTL = defaultTextTTL
	}
	sweepInterval := config.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	sweepMaxAge := config.SweepMaxAge
	if sweepMaxAge <= 0 {
		sweepMaxAge = defaultSweepMaxAge
	}

	ls := &LiveSearch{
		searcher:    searcher,
		debounce:    debounce,
		minQueryLen: minLen,
		barcodeTTL:  barcodeTTL,
		textTTL:     textTTL,
		sweepMaxAge: sweepMaxAge,
		debug:       config.EnableDebugLogging,
		results:     make(map[string]liveCacheEntry),
		done:        make(chan struct{}),
	}
	go ls.sweepLoop(sweepInterval)
	return ls
}

// Search schedules a debounced search for query. Each call resets the
// timer, so only the final call in a burst of keystrokes executes. Input
// shorter than the minimum query length clears the suggestions without
// touching the network.
func (ls *LiveSearch) Search(query string) {
	trimmed := normalize.Normalize(query)

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.timer != nil {
		ls.timer.Stop()
		ls.timer = nil
	}

	if len([]rune(trimmed)) < ls.minQueryLen {
		ls.abortInFlightLocked()
		ls.suggestions = nil
		ls.searching = false
		return
	}

	ls.searching = true
	ls.timer = time.AfterFunc(ls.debounce, func() {
		ls.execute(query)
	})
}

// execute runs one debounced search attempt.
func (ls *LiveSearch) execute(query string) {
	key := normalize.Normalize(query)

	ls.mu.Lock()
	ls.abortInFlightLocked()
	ls.generation++
	token := ls.generation

	if entry, ok := ls.results[key]; ok && time.Since(entry.timestamp) <= entry.ttl {
		ls.suggestions = entry.products
		ls.searching = false
		ls.mu.Unlock()
		if ls.debug {
			log.Printf("[LIVE] cache hit for %q", key)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ls.cancel = cancel
	ls.mu.Unlock()

	found := ls.searcher.Search(ctx, query)

	ls.mu.Lock()
	defer ls.mu.Unlock()

	// A superseded or aborted request must never overwrite suggestions.
	if token != ls.generation || ctx.Err() != nil {
		if ls.debug {
			log.Printf("[LIVE] discarding stale response for %q", key)
		}
		return
	}

	ls.suggestions = found
	ls.searching = false
	ls.cancel = nil

	ttl := ls.textTTL
	if normalize.LooksLikeIdentifier(query) {
		ttl = ls.barcodeTTL
	}
	ls.results[key] = liveCacheEntry{products: found, timestamp: time.Now(), ttl: ttl}
}

// Suggestions returns the current best-known results. The slice is replaced
// wholesale on each resolved search, never merged partially.
func (ls *LiveSearch) Suggestions() []domain.Product {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	out := make([]domain.Product, len(ls.suggestions))
	copy(out, ls.suggestions)
	return out
}

// IsSearching reports whether a search is pending or in flight.
func (ls *LiveSearch) IsSearching() bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.searching
}

// Clear cancels any pending or in-flight search and empties the
// suggestions.
func (ls *LiveSearch) Clear() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.timer != nil {
		ls.timer.Stop()
		ls.timer = nil
	}
	ls.abortInFlightLocked()
	ls.suggestions = nil
	ls.searching = false
}

// Cleanup tears the session down: cancels outstanding work, drops the
// result cache, and stops the background sweep. The session must not be
// used afterwards.
func (ls *LiveSearch) Cleanup() {
	ls.Clear()

	ls.mu.Lock()
	ls.results = make(map[string]liveCacheEntry)
	ls.mu.Unlock()

	ls.closeOnce.Do(func() { close(ls.done) })
}

// abortInFlightLocked invalidates the current request, if any. Callers must
// hold ls.mu.
func (ls *LiveSearch) abortInFlightLocked() {
	ls.generation++
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
}

// sweepLoop bounds the result cache by evicting entries older than the
// sweep age, regardless of their own TTL.
func (ls *LiveSearch) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ls.done:
			return
		case <-ticker.C:
			ls.mu.Lock()
			now := time.Now()
			for key, entry := range ls.results {
				if now.Sub(entry.timestamp) > ls.sweepMaxAge {
					delete(ls.results, key)
				}
			}
			ls.mu.Unlock()
		}
	}
}
