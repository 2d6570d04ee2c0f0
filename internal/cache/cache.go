// Package cache is a pull-based query cache with manual invalidation. Each Query holds
// the last result of one named fetch; mutations invalidate the queries they affect and
// the next Get re-fetches.
package cache

import (
	"context"
	"sync"
	"time"
)

// Status is the state of a cache entry.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is a snapshot of a query.
type Entry[T any] struct {
	Data          T
	Status        Status
	Err           error
	LastFetchedAt time.Time
	Stale         bool
}

// FetchFunc loads the data of a query.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Query caches the result of one fetch. A failed fetch keeps the previous data: the last
// successful fetch wins.
type Query[T any] struct {
	key   string
	fetch FetchFunc[T]
	now   func() time.Time

	mu    sync.Mutex
	entry Entry[T]
	// gen counts invalidations; a fetch that overlaps one lands stale.
	gen uint64
}

// NewQuery creates an idle query.
func NewQuery[T any](key string, fetch FetchFunc[T]) *Query[T] {
	return &Query[T]{
		key:   key,
		fetch: fetch,
		now:   time.Now,
		entry: Entry[T]{Status: StatusIdle},
	}
}

// Key returns the query name.
func (q *Query[T]) Key() string {
	return q.key
}

// Get returns the cached data, fetching it when the query has never succeeded or was
// invalidated.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	q.mu.Lock()
	if q.entry.Status == StatusSuccess && !q.entry.Stale {
		data := q.entry.Data
		q.mu.Unlock()
		return data, nil
	}
	q.mu.Unlock()
	return q.Refresh(ctx)
}

// Refresh fetches unconditionally. On failure the previous data is kept in the entry and
// the error is returned. Data from a fetch that was running when the query was
// invalidated is stored as stale.
func (q *Query[T]) Refresh(ctx context.Context) (T, error) {
	q.mu.Lock()
	q.entry.Status = StatusLoading
	started := q.gen
	q.mu.Unlock()

	data, err := q.fetch(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.entry.Status = StatusError
		q.entry.Err = err
		var zero T
		return zero, err
	}
	q.entry = Entry[T]{
		Data:          data,
		Status:        StatusSuccess,
		LastFetchedAt: q.now(),
		Stale:         q.gen != started,
	}
	return data, nil
}

// Peek returns the current entry without fetching.
func (q *Query[T]) Peek() Entry[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entry
}

// Update rewrites the cached data in place, e.g. to append a created record. It does
// nothing when the query holds no successful data.
func (q *Query[T]) Update(fn func(T) T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.entry.Status != StatusSuccess && q.entry.LastFetchedAt.IsZero() {
		return
	}
	q.entry.Data = fn(q.entry.Data)
}

// Invalidate marks the data stale so the next Get re-fetches. The stale data stays
// readable through Peek.
func (q *Query[T]) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	q.entry.Stale = true
}

// Invalidator is a query that can be invalidated by name.
type Invalidator interface {
	Key() string
	Invalidate()
}

// Registry indexes queries by name.
type Registry struct {
	mu      sync.RWMutex
	queries map[string]Invalidator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{queries: make(map[string]Invalidator)}
}

// Register adds queries to the registry, replacing any with the same key.
func (r *Registry) Register(qs ...Invalidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range qs {
		r.queries[q.Key()] = q
	}
}

// Invalidate invalidates the named queries. Unknown names are ignored.
func (r *Registry) Invalidate(keys ...string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range keys {
		if q, ok := r.queries[k]; ok {
			q.Invalidate()
		}
	}
}
