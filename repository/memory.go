package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"capstack/domain"
)

type loanEntry struct {
	input  domain.LoanInput
	result domain.LoanResult
}

// LoanRepositoryMemory is an in-memory implementation of LoanRepository.
type LoanRepositoryMemory struct {
	mu   sync.Mutex
	data []loanEntry
}

func NewLoanRepositoryMemory() *LoanRepositoryMemory {
	return &LoanRepositoryMemory{}
}

func (r *LoanRepositoryMemory) Save(
	_ context.Context,
	input domain.LoanInput,
	result domain.LoanResult,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, loanEntry{input: input, result: result})
	return nil
}

// Len reports how many calculations have been stored.
func (r *LoanRepositoryMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// ScoreRepositoryMemory is an in-memory implementation of ScoreRepository.
type ScoreRepositoryMemory struct {
	mu      sync.RWMutex
	records map[string]domain.ScoreRecord
}

func NewScoreRepositoryMemory() *ScoreRepositoryMemory {
	return &ScoreRepositoryMemory{records: make(map[string]domain.ScoreRecord)}
}

func (r *ScoreRepositoryMemory) Save(_ context.Context, rec domain.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = rec
	return nil
}

func (r *ScoreRepositoryMemory) Get(_ context.Context, id string) (domain.ScoreRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.ScoreRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *ScoreRepositoryMemory) List(_ context.Context, limit, offset int) ([]domain.ScoreRecord, error) {
	r.mu.RLock()
	out := make([]domain.ScoreRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []domain.ScoreRecord{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// DefaultMemoryCacheEntries bounds a MemoryCache.
const DefaultMemoryCacheEntries = 10_000

type cacheEntry struct {
	value     string
	expiresAt time.Time // zero never expires
}

// MemoryCache is a process-local CacheRepository. Entries expire after ttl
// and the cache never holds more than maxEntries values.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache returns an empty cache. A zero ttl keeps entries until they
// are evicted to make room.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		data:       make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: DefaultMemoryCacheEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok || m.expired(e, m.now()) {
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.evict(now)
	}

	e := cacheEntry{value: value}
	if m.ttl > 0 {
		e.expiresAt = now.Add(m.ttl)
	}
	m.data[key] = e
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCache) expired(e cacheEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// evict drops expired entries; when none have expired it drops the entry
// that would expire soonest. Callers hold mu.
func (m *MemoryCache) evict(now time.Time) {
	var (
		victim  string
		soonest time.Time
		found   bool
	)
	for k, e := range m.data {
		if m.expired(e, now) {
			delete(m.data, k)
			continue
		}
		if !found || (!e.expiresAt.IsZero() && (soonest.IsZero() || e.expiresAt.Before(soonest))) {
			victim, soonest, found = k, e.expiresAt, true
		}
	}
	if found && len(m.data) >= m.maxEntries {
		delete(m.data, victim)
	}
}
