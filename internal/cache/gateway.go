// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jeranaias/fintrack-tui/internal/api"
	"github.com/jeranaias/fintrack-tui/internal/storage"
)

// Resource keys used by the dashboard widgets.
const (
	KeyBalance       = "balance"
	KeyAccounts      = "accounts"
	KeyTransactions  = "transactions"
	KeyBudget        = "budget"
	KeySavings       = "savings"
	KeyNotifications = "notifications"
)

// ErrNoData indicates a fetch failed and no previous entry was available
// to serve stale.
var ErrNoData = errors.New("no cached data available")

// =============================================================================
// GATEWAY
// =============================================================================

// entry is the in-memory copy of a cached resource.
type entry struct {
	payload   []byte
	fetchedAt time.Time
	forced    bool // set by Invalidate: next read bypasses freshness
}

// Gateway is the process-wide resource cache.
type Gateway struct {
	mu      sync.Mutex
	entries map[string]*entry
	seq     map[string]uint64

	flight  singleflight.Group
	store   *storage.Store // optional durable layer, may be nil
	limiter *rate.Limiter
	now     func() time.Time
	onAuth  func(error)

	// Statistics
	hits   int
	misses int
}

// New creates a gateway over an optional durable store.
// A nil store keeps the cache memory-only.
func New(store *storage.Store) *Gateway {
	return &Gateway{
		entries: make(map[string]*entry),
		seq:     make(map[string]uint64),
		store:   store,
		// Manual refreshes: 1/s sustained, small burst. Holding the
		// refresh key must not stampede the backend.
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (g *Gateway) WithClock(now func() time.Time) *Gateway {
	g.now = now
	return g
}

// WithAuthHook sets a callback invoked whenever a fetch fails with an auth
// error. The session manager hooks this to force re-evaluation instead of
// leaving a dead token installed.
func (g *Gateway) WithAuthHook(fn func(error)) *Gateway {
	g.onAuth = fn
	return g
}

// AllowRefresh reports whether a manual refresh may proceed right now.
func (g *Gateway) AllowRefresh() bool {
	return g.limiter.Allow()
}

// =============================================================================
// TYPED OPERATIONS
// =============================================================================

// Result carries a typed payload out of a Read.
type Result[T any] struct {
	Payload   T
	FetchedAt time.Time
	// Stale marks a payload served past its freshness window because the
	// refresh attempt failed.
	Stale bool
}

// Read returns the cached payload for key if it is fresher than window,
// otherwise fetches, caches and returns. On fetch failure with a previous
// entry the entry is returned with Stale set alongside the error; with no
// previous entry the error alone is returned.
func Read[T any](ctx context.Context, g *Gateway, key string, window time.Duration, fetch func(context.Context) (T, error)) (Result[T], error) {
	raw, err := g.read(ctx, key, window, func(ctx context.Context) ([]byte, error) {
		v, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		data, marshalErr := json.Marshal(v)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", key, marshalErr)
		}
		return data, nil
	})

	var result Result[T]
	if raw.payload == nil {
		return result, err
	}
	if decodeErr := json.Unmarshal(raw.payload, &result.Payload); decodeErr != nil {
		// A cached payload that no longer decodes is useless; drop it.
		g.drop(key)
		if err == nil {
			err = fmt.Errorf("failed to decode cached %s payload: %w", key, decodeErr)
		}
		return Result[T]{}, err
	}
	result.FetchedAt = raw.fetchedAt
	result.Stale = raw.stale
	return result, err
}

// Write populates the cache for key directly, bypassing any fetch. Used
// after mutations so dependent widgets see updated data without waiting
// for the freshness window to expire.
func Write[T any](g *Gateway, key string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", key, err)
	}
	g.commitDirect(key, data)
	return nil
}

// =============================================================================
// CORE READ PATH
// =============================================================================

// rawResult is the untyped payload handed back to the generic wrapper.
type rawResult struct {
	payload   []byte
	fetchedAt time.Time
	stale     bool
}

func (g *Gateway) read(ctx context.Context, key string, window time.Duration, fetch func(context.Context) ([]byte, error)) (rawResult, error) {
	now := g.now()

	g.mu.Lock()
	ent := g.lookupLocked(key)
	startSeq := g.seq[key]
	if ent != nil && !ent.forced && now.Sub(ent.fetchedAt) < window {
		g.hits++
		res := rawResult{payload: ent.payload, fetchedAt: ent.fetchedAt}
		g.mu.Unlock()
		return res, nil
	}
	g.misses++
	var prev *entry
	if ent != nil {
		prev = ent
	}
	g.mu.Unlock()

	// Share one in-flight fetch per key. DoChan rather than Do so a caller
	// whose context dies stops waiting; the flight itself finishes and
	// commits for the surviving callers.
	ch := g.flight.DoChan(key, func() (any, error) {
		data, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		g.commit(key, startSeq, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return rawResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if g.onAuth != nil && api.IsAuth(res.Err) {
				g.onAuth(res.Err)
			}
			if prev != nil {
				// Serve-stale-on-error: the previous entry stays intact.
				return rawResult{payload: prev.payload, fetchedAt: prev.fetchedAt, stale: true}, res.Err
			}
			return rawResult{}, res.Err
		}
		data := res.Val.([]byte)
		return rawResult{payload: data, fetchedAt: g.now()}, nil
	}
}

// lookupLocked returns the in-memory entry for key, falling back to the
// durable store once per process. Must hold g.mu.
func (g *Gateway) lookupLocked(key string) *entry {
	if ent, ok := g.entries[key]; ok {
		return ent
	}
	if g.store == nil {
		return nil
	}
	stored, err := g.store.Get(key)
	if err != nil {
		// Missing or corrupt rows are cache misses, never failures.
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cache store read failed for %s: %v", key, err)
		}
		return nil
	}
	ent := &entry{payload: stored.Payload, fetchedAt: stored.FetchedAt}
	g.entries[key] = ent
	return ent
}

// commit installs a fetched payload unless the key was superseded while
// the fetch was in flight.
func (g *Gateway) commit(key string, startSeq uint64, payload []byte) {
	now := g.now()

	g.mu.Lock()
	if g.seq[key] != startSeq {
		// Invalidate or Write happened after this fetch started; the
		// newer state wins and this response is discarded.
		g.mu.Unlock()
		return
	}
	g.entries[key] = &entry{payload: payload, fetchedAt: now}
	g.mu.Unlock()

	g.persist(key, payload, now)
}

// commitDirect installs a payload unconditionally and supersedes any
// in-flight fetch for the key.
func (g *Gateway) commitDirect(key string, payload []byte) {
	now := g.now()

	g.mu.Lock()
	g.seq[key]++
	g.entries[key] = &entry{payload: payload, fetchedAt: now}
	g.mu.Unlock()

	g.persist(key, payload, now)
}

func (g *Gateway) persist(key string, payload []byte, fetchedAt time.Time) {
	if g.store == nil {
		return
	}
	if err := g.store.Put(key, payload, fetchedAt); err != nil {
		// Durable layer failures degrade to memory-only caching.
		log.Printf("cache store write failed for %s: %v", key, err)
	}
}

func (g *Gateway) drop(key string) {
	g.mu.Lock()
	delete(g.entries, key)
	g.seq[key]++
	g.mu.Unlock()
	if g.store != nil {
		if err := g.store.Delete(key); err != nil {
			log.Printf("cache store delete failed for %s: %v", key, err)
		}
	}
}

// =============================================================================
// INVALIDATION
// =============================================================================

// Invalidate forces the next Read of key to bypass the freshness check.
// The existing payload is kept for serve-stale, not evicted.
func (g *Gateway) Invalidate(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq[key]++
	if ent, ok := g.entries[key]; ok {
		ent.forced = true
	}
}

// Clear empties the cache, memory and durable store both. Called on logout:
// cached financial data must not outlive the session that fetched it.
func (g *Gateway) Clear() {
	g.mu.Lock()
	for key := range g.entries {
		g.seq[key]++
	}
	g.entries = make(map[string]*entry)
	g.mu.Unlock()

	if g.store != nil {
		if err := g.store.Purge(); err != nil {
			log.Printf("cache store purge failed: %v", err)
		}
	}
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats holds cache statistics for the status bar.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
	HitRate float64
}

// Stats returns current cache statistics.
func (g *Gateway) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	hitRate := 0.0
	if total := g.hits + g.misses; total > 0 {
		hitRate = float64(g.hits) / float64(total)
	}
	return Stats{
		Hits:    g.hits,
		Misses:  g.misses,
		Entries: len(g.entries),
		HitRate: hitRate,
	}
}
