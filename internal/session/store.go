// internal/session/store.go
//
// In-memory store of per-visitor contact forms.
//
// Context
// -------
// Every visitor gets one *form.Form, created on first hit and kept until it
// has been idle longer than IdleTTL or is pushed out by LRU pressure.  Entries
// are serialised with a mutex so each form sees one event at a time, the same
// single-threaded model a browser-side component would have.
//
// Concurrent first hits that present the same stale cookie are collapsed
// with singleflight, so a burst of parallel requests lands on one new form.
//
// Notes
// -----
// • Forms are never persisted; a restart forgets every visitor.
// • Oxford commas, two spaces after periods.

package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/AdeptTravel/adept-contact/internal/cache"
	"github.com/AdeptTravel/adept-contact/internal/form"
	"github.com/AdeptTravel/adept-contact/internal/metrics"
)

// Static defaults.  Override through config.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 10_000
	EvictInterval = time.Minute
)

// ErrNotFound is returned when an ID is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Options tunes a Store.  Zero fields take the package defaults.
type Options struct {
	IdleTTL       time.Duration
	MaxEntries    int
	EvictInterval time.Duration
}

// Entry holds one visitor's form.
type Entry struct {
	id       string
	mu       sync.Mutex
	form     *form.Form
	lastSeen atomic.Int64 // unix nanos
}

// ID returns the session ID.
func (e *Entry) ID() string { return e.id }

// Do runs fn with exclusive access to the form.
func (e *Entry) Do(fn func(*form.Form)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.form)
}

func (e *Entry) touch(now time.Time) { e.lastSeen.Store(now.UnixNano()) }

// Store maps session IDs to entries.  Zero value is unusable; use NewStore.
type Store struct {
	mu  sync.Mutex
	lru *cache.LRU
	sfg singleflight.Group

	idleTTL       time.Duration
	evictInterval time.Duration
	now           func() time.Time
}

// NewStore returns an empty store.  Call Run to start idle eviction.
func NewStore(opts Options) *Store {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = IdleTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = MaxEntries
	}
	if opts.EvictInterval <= 0 {
		opts.EvictInterval = EvictInterval
	}

	s := &Store{
		lru:           cache.New(opts.MaxEntries),
		idleTTL:       opts.IdleTTL,
		evictInterval: opts.EvictInterval,
		now:           time.Now,
	}
	s.lru.OnEvict(func(key, _ any) {
		zap.S().Debugw("session evicted (LRU pressure)", "session", key)
		metrics.SessionEvictTotal.Inc()
		metrics.ActiveSessions.Dec()
	})
	return s
}

// Lookup returns the live entry for id and marks it used.
func (s *Store) Lookup(id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.lru.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	ent := v.(*Entry)
	now := s.now()
	if s.expired(ent, now) {
		s.drop(id)
		return nil, ErrNotFound
	}
	ent.touch(now)
	return ent, nil
}

// Acquire returns the entry for id, creating a fresh one when id is empty,
// malformed, unknown, or expired.  The returned entry's ID may differ from id;
// callers must write it back to the cookie.
func (s *Store) Acquire(id string) *Entry {
	if _, err := uuid.Parse(id); err != nil {
		return s.create()
	}
	if ent, err := s.Lookup(id); err == nil {
		return ent
	}

	v, _, _ := s.sfg.Do(id, func() (any, error) {
		return s.create(), nil
	})
	return v.(*Entry)
}

// Delete removes id.  Missing IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(id)
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *Store) create() *Entry {
	ent := &Entry{id: uuid.NewString(), form: form.New()}
	ent.touch(s.now())

	s.mu.Lock()
	s.lru.Add(ent.id, ent)
	s.mu.Unlock()

	metrics.ActiveSessions.Inc()
	zap.S().Debugw("session created", "session", ent.id)
	return ent
}

// drop removes id; caller holds s.mu.
func (s *Store) drop(id string) {
	if s.lru.Remove(id) {
		metrics.ActiveSessions.Dec()
	}
}

func (s *Store) expired(ent *Entry, now time.Time) bool {
	return now.Sub(time.Unix(0, ent.lastSeen.Load())) > s.idleTTL
}
