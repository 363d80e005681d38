// Package store holds the single in-memory trip collection and keeps it in
// step with a durable key-value slot. Every applied mutation re-serializes
// the whole collection and overwrites the slot.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/backend/internal/domain"
	"github.com/pkordes/itinerary/backend/internal/repo"
)

// DefaultKey is the slot the trip collection is stored under.
const DefaultKey = "SavedTrips"

// TripStore is the source of truth for all trips. Construct one with New and
// pass it explicitly to whatever needs it.
//
// All methods are safe for concurrent use: a single mutex serializes each
// read-modify-persist sequence. Index- and id-addressed mutations never fail;
// a stale reference yields an Ignored* outcome and leaves state untouched.
type TripStore struct {
	mu    sync.Mutex
	trips []domain.Trip

	kv      repo.KVRepo
	key     string
	log     *slog.Logger
	lastErr error

	// loadErr is set when the slot could not be read or decoded at load.
	// Until a mutation is applied, memory does not reflect durable state and
	// Flush refuses to write over it.
	loadErr error
}

// Option configures a TripStore.
type Option func(*TripStore)

// WithKey overrides the slot name (default DefaultKey).
func WithKey(key string) Option {
	return func(s *TripStore) { s.key = key }
}

// WithLogger sets the logger used for swallowed persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *TripStore) { s.log = l }
}

// New constructs a TripStore and loads the persisted collection once.
// A missing slot or undecodable bytes yield an empty collection.
func New(ctx context.Context, kv repo.KVRepo, opts ...Option) *TripStore {
	s := &TripStore{
		kv:    kv,
		key:   DefaultKey,
		log:   slog.Default(),
		trips: []domain.Trip{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *TripStore) load(ctx context.Context) {
	b, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "trip store load failed; starting empty", "key", s.key, "error", err)
			s.loadErr = err
		}
		return
	}
	trips, err := decodeTrips(b)
	if err != nil {
		s.log.WarnContext(ctx, "trip store snapshot unreadable; starting empty", "key", s.key, "error", err)
		s.loadErr = err
		return
	}
	s.trips = trips
}

// persist writes the whole collection. Failures are logged and remembered
// but never returned; memory stays authoritative. Caller holds s.mu.
func (s *TripStore) persist(ctx context.Context) {
	s.lastErr = s.write(ctx)
	if s.lastErr != nil {
		s.log.WarnContext(ctx, "trip store persist failed", "key", s.key, "error", s.lastErr)
	}
}

func (s *TripStore) write(ctx context.Context) error {
	b, err := encodeTrips(s.trips)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, s.key, b)
}

// apply runs fn under the lock and persists when it reports Applied.
func (s *TripStore) apply(ctx context.Context, fn func() domain.Outcome) domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := fn()
	if out.Applied() {
		s.loadErr = nil
		s.persist(ctx)
	}
	return out
}

// Trips returns a snapshot of the whole collection in insertion order.
func (s *TripStore) Trips() []domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Trip, len(s.trips))
	for i, t := range s.trips {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of trips.
func (s *TripStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trips)
}

// AddTrip appends trip to the end of the collection.
func (s *TripStore) AddTrip(ctx context.Context, trip domain.Trip) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		s.trips = append(s.trips, trip.Clone())
		return domain.Applied
	})
}

// DeleteTrip removes the trip at index.
func (s *TripStore) DeleteTrip(ctx context.Context, index int) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		if index < 0 || index >= len(s.trips) {
			return domain.IgnoredOutOfRange
		}
		s.trips = slices.Delete(s.trips, index, index+1)
		return domain.Applied
	})
}

// UpdateTrip replaces the trip at index with trip.
func (s *TripStore) UpdateTrip(ctx context.Context, index int, trip domain.Trip) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		if index < 0 || index >= len(s.trips) {
			return domain.IgnoredOutOfRange
		}
		s.trips[index] = trip.Clone()
		return domain.Applied
	})
}

// RemoveTrip removes the first trip with the given id. It is DeleteTrip with
// the id resolved under the same lock, so a concurrent delete cannot shift
// the index in between.
func (s *TripStore) RemoveTrip(ctx context.Context, id uuid.UUID) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		i := s.indexOf(id)
		if i < 0 {
			return domain.IgnoredNotFound
		}
		s.trips = slices.Delete(s.trips, i, i+1)
		return domain.Applied
	})
}

// EditTrip applies fn to the first trip with the given id and persists.
// fn must not change the trip's ID.
func (s *TripStore) EditTrip(ctx context.Context, id uuid.UUID, fn func(*domain.Trip)) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		i := s.indexOf(id)
		if i < 0 {
			return domain.IgnoredNotFound
		}
		fn(&s.trips[i])
		return domain.Applied
	})
}

// GetTrip returns the current state of the first trip with the given id.
func (s *TripStore) GetTrip(id uuid.UUID) (domain.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Trip{}, false
	}
	return s.trips[i].Clone(), true
}

// GetTripIndex returns the index of the first trip with the given id.
func (s *TripStore) GetTripIndex(id uuid.UUID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	return i, i >= 0
}

func (s *TripStore) indexOf(id uuid.UUID) int {
	for i := range s.trips {
		if s.trips[i].ID == id {
			return i
		}
	}
	return -1
}

// AddActivity inserts a into the trip with the given id, keeping time order.
func (s *TripStore) AddActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		i := s.indexOf(tripID)
		if i < 0 {
			return domain.IgnoredNotFound
		}
		s.trips[i].AddActivity(cloneActivity(a))
		return domain.Applied
	})
}

// DeleteActivity removes the activity at index from the trip with the given id.
func (s *TripStore) DeleteActivity(ctx context.Context, tripID uuid.UUID, index int) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		i := s.indexOf(tripID)
		if i < 0 {
			return domain.IgnoredNotFound
		}
		return s.trips[i].RemoveActivity(index)
	})
}

// UpdateActivity replaces the activity at index in the trip with the given
// id and re-sorts. The replacement may land at a different index.
func (s *TripStore) UpdateActivity(ctx context.Context, tripID uuid.UUID, index int, a domain.Activity) domain.Outcome {
	return s.apply(ctx, func() domain.Outcome {
		i := s.indexOf(tripID)
		if i < 0 {
			return domain.IgnoredNotFound
		}
		return s.trips[i].UpdateActivity(index, cloneActivity(a))
	})
}

// ErrNotLoaded is returned by Flush when the persisted collection could not
// be loaded and no mutation has been applied since.
var ErrNotLoaded = errors.New("trip store: persisted collection was not loaded")

// Flush synchronously writes the whole collection and returns any error.
// After a failed load it writes nothing until a mutation is applied, so an
// empty in-memory collection never replaces trips it could not read.
func (s *TripStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx)
}

func (s *TripStore) flush(ctx context.Context) error {
	if s.loadErr != nil {
		return fmt.Errorf("store.TripStore.Flush: %w: %w", ErrNotLoaded, s.loadErr)
	}
	s.lastErr = s.write(ctx)
	return s.lastErr
}

// LastPersistError returns the error from the most recent write, or nil.
func (s *TripStore) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close retries an outstanding failed write, then closes the underlying repo.
// A session whose writes all succeeded, or that made none, writes nothing.
func (s *TripStore) Close(ctx context.Context) error {
	s.mu.Lock()
	var flushErr error
	if s.lastErr != nil {
		flushErr = s.flush(ctx)
	}
	s.mu.Unlock()

	closeErr := s.kv.Close()
	return errors.Join(flushErr, closeErr)
}

func cloneActivity(a domain.Activity) domain.Activity {
	if a.Duration != nil {
		d := *a.Duration
		a.Duration = &d
	}
	return a
}
