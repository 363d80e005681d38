package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary/backend/internal/domain"
	"github.com/pkordes/itinerary/backend/internal/repo"
	"github.com/pkordes/itinerary/backend/internal/store"
)

// mockKVRepo is a hand-written test double for repo.KVRepo.
// Each method is a function field; set only the ones your test needs.
type mockKVRepo struct {
	get   func(ctx context.Context, key string) ([]byte, error)
	put   func(ctx context.Context, key string, value []byte) error
	close func() error
}

func (m *mockKVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	return m.get(ctx, key)
}
func (m *mockKVRepo) Put(ctx context.Context, key string, value []byte) error {
	return m.put(ctx, key, value)
}
func (m *mockKVRepo) Close() error {
	return m.close()
}

// compile-time check: mockKVRepo must satisfy repo.KVRepo.
var _ repo.KVRepo = (*mockKVRepo)(nil)

// countingRepo wraps a KVRepo and counts Put calls.
type countingRepo struct {
	repo.KVRepo
	mu   sync.Mutex
	puts int
}

func (c *countingRepo) Put(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.puts++
	c.mu.Unlock()
	return c.KVRepo.Put(ctx, key, value)
}

func (c *countingRepo) Puts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}

// ---- helpers ---------------------------------------------------------------

func at(d, h int) time.Time {
	return time.Date(2025, 8, d, h, 0, 0, 0, time.UTC)
}

func japan() domain.Trip {
	return domain.NewTrip("Japan", at(1, 0), at(10, 0))
}

func newStore(t *testing.T) (*store.TripStore, repo.KVRepo) {
	t.Helper()
	kv := repo.NewMemoryKVRepo()
	return store.New(context.Background(), kv), kv
}

func snapshot(t *testing.T, kv repo.KVRepo) []byte {
	t.Helper()
	b, err := kv.Get(context.Background(), store.DefaultKey)
	require.NoError(t, err)
	return b
}

func persistedTrips(t *testing.T, kv repo.KVRepo) []domain.Trip {
	t.Helper()
	var trips []domain.Trip
	require.NoError(t, json.Unmarshal(snapshot(t, kv), &trips))
	return trips
}

func activityTitles(trip domain.Trip) []string {
	out := make([]string, len(trip.Activities))
	for i, a := range trip.Activities {
		out[i] = a.Title
	}
	return out
}

// ---- New / load ------------------------------------------------------------

func TestNew_EmptyWhenSlotMissing(t *testing.T) {
	s, _ := newStore(t)

	assert.NotNil(t, s.Trips())
	assert.Empty(t, s.Trips())
}

func TestNew_EmptyWhenSnapshotCorrupt(t *testing.T) {
	kv := repo.NewMemoryKVRepo()
	require.NoError(t, kv.Put(context.Background(), store.DefaultKey, []byte("{not json")))

	s := store.New(context.Background(), kv)

	assert.Empty(t, s.Trips())
}

func TestNew_EmptyWhenGetFails(t *testing.T) {
	kv := &mockKVRepo{
		get: func(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") },
	}

	s := store.New(context.Background(), kv)

	assert.Empty(t, s.Trips())
}

func TestNew_UsesCustomKey(t *testing.T) {
	kv := repo.NewMemoryKVRepo()
	s := store.New(context.Background(), kv, store.WithKey("OtherTrips"))

	s.AddTrip(context.Background(), japan())

	_, err := kv.Get(context.Background(), store.DefaultKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = kv.Get(context.Background(), "OtherTrips")
	assert.NoError(t, err)
}

// ---- round trip ------------------------------------------------------------

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	trip := japan()
	s.AddTrip(ctx, trip)
	s.AddTrip(ctx, domain.NewTrip("Iceland", at(20, 0), at(25, 0)))
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 9), "Flight", "Airport", domain.ActivityTransport, "2 hours"))
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 7), "Taxi", "Home", domain.ActivityTransport, ""))

	reloaded := store.New(ctx, kv)

	assert.Equal(t, s.Trips(), reloaded.Trips())
}

// ---- trip operations -------------------------------------------------------

func TestAddTrip_AppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	first, second := japan(), domain.NewTrip("Iceland", at(20, 0), at(25, 0))

	assert.Equal(t, domain.Applied, s.AddTrip(ctx, first))
	assert.Equal(t, domain.Applied, s.AddTrip(ctx, second))

	trips := s.Trips()
	require.Len(t, trips, 2)
	assert.Equal(t, first.ID, trips[0].ID, "collection keeps insertion order")
	assert.Equal(t, second.ID, trips[1].ID)
	assert.Len(t, persistedTrips(t, kv), 2)
}

func TestDeleteTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	first, second := japan(), domain.NewTrip("Iceland", at(20, 0), at(25, 0))
	s.AddTrip(ctx, first)
	s.AddTrip(ctx, second)

	got := s.DeleteTrip(ctx, 0)

	assert.Equal(t, domain.Applied, got)
	trips := s.Trips()
	require.Len(t, trips, 1)
	assert.Equal(t, second.ID, trips[0].ID)
	assert.Len(t, persistedTrips(t, kv), 1)
}

func TestDeleteTrip_OutOfRange(t *testing.T) {
	ctx := context.Background()
	kv := &countingRepo{KVRepo: repo.NewMemoryKVRepo()}
	s := store.New(ctx, kv)
	s.AddTrip(ctx, japan())
	before := snapshot(t, kv)
	puts := kv.Puts()

	for _, i := range []int{-1, 1, 42} {
		assert.Equal(t, domain.IgnoredOutOfRange, s.DeleteTrip(ctx, i), "index %d", i)
	}

	assert.Equal(t, before, snapshot(t, kv), "persisted collection must be byte-for-byte unchanged")
	assert.Equal(t, puts, kv.Puts(), "ignored calls do not write")
	assert.Equal(t, 1, s.Len())
}

func TestUpdateTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)

	renamed := trip
	renamed.Title = "Japan & Korea"
	got := s.UpdateTrip(ctx, 0, renamed)

	assert.Equal(t, domain.Applied, got)
	current, ok := s.GetTrip(trip.ID)
	require.True(t, ok)
	assert.Equal(t, "Japan & Korea", current.Title)
	assert.Equal(t, "Japan & Korea", persistedTrips(t, kv)[0].Title)
}

func TestUpdateTrip_OutOfRange(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	s.AddTrip(ctx, japan())
	before := snapshot(t, kv)

	got := s.UpdateTrip(ctx, 3, domain.NewTrip("ghost", at(1, 0), at(2, 0)))

	assert.Equal(t, domain.IgnoredOutOfRange, got)
	assert.Equal(t, before, snapshot(t, kv))
	assert.Equal(t, "Japan", s.Trips()[0].Title)
}

func TestGetTrip_NotFound(t *testing.T) {
	s, _ := newStore(t)
	s.AddTrip(context.Background(), japan())

	_, ok := s.GetTrip(uuid.New())

	assert.False(t, ok)
}

func TestGetTripIndex(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	first, second := japan(), domain.NewTrip("Iceland", at(20, 0), at(25, 0))
	s.AddTrip(ctx, first)
	s.AddTrip(ctx, second)

	i, ok := s.GetTripIndex(second.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.GetTripIndex(uuid.New())
	assert.False(t, ok)
}

func TestGetTrip_ReturnsCurrentStateNotAlias(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)

	got, ok := s.GetTrip(trip.ID)
	require.True(t, ok)
	got.Title = "mutated by caller"
	got.Activities = append(got.Activities, domain.NewActivity(at(2, 1), "x", "y", domain.ActivityOther, ""))

	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(3, 9), "Museum", "Ueno", domain.ActivityActivity, ""))

	current, ok := s.GetTrip(trip.ID)
	require.True(t, ok)
	assert.Equal(t, "Japan", current.Title)
	assert.Equal(t, []string{"Museum"}, activityTitles(current))
}

// ---- activity operations ---------------------------------------------------

func TestAddActivity_EndToEnd(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)

	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 9), "Flight", "Airport", domain.ActivityTransport, ""))
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 7), "Taxi", "Home", domain.ActivityTransport, ""))

	got, ok := s.GetTrip(trip.ID)
	require.True(t, ok)
	require.Len(t, got.Activities, 2)
	assert.Equal(t, "Taxi", got.Activities[0].Title)
	assert.True(t, got.Activities[0].Time.Equal(at(2, 7)))
	assert.Equal(t, "Flight", got.Activities[1].Title)
	assert.True(t, got.Activities[1].Time.Equal(at(2, 9)))
}

func TestAddActivity_UnknownTrip(t *testing.T) {
	ctx := context.Background()
	kv := &countingRepo{KVRepo: repo.NewMemoryKVRepo()}
	s := store.New(ctx, kv)
	trip := japan()
	s.AddTrip(ctx, trip)
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 9), "Flight", "Airport", domain.ActivityTransport, ""))
	puts := kv.Puts()

	got := s.AddActivity(ctx, uuid.New(), domain.NewActivity(at(3, 9), "Lost", "Nowhere", domain.ActivityOther, ""))

	assert.Equal(t, domain.IgnoredNotFound, got)
	trips := s.Trips()
	require.Len(t, trips, 1)
	assert.Len(t, trips[0].Activities, 1)
	assert.Equal(t, puts, kv.Puts())
}

func TestDeleteActivity(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 7), "Taxi", "Home", domain.ActivityTransport, ""))
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 9), "Flight", "Airport", domain.ActivityTransport, ""))

	assert.Equal(t, domain.Applied, s.DeleteActivity(ctx, trip.ID, 0))

	got, _ := s.GetTrip(trip.ID)
	assert.Equal(t, []string{"Flight"}, activityTitles(got))
	assert.Len(t, persistedTrips(t, kv)[0].Activities, 1)
}

func TestDeleteActivity_Ignored(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 7), "Taxi", "Home", domain.ActivityTransport, ""))

	assert.Equal(t, domain.IgnoredNotFound, s.DeleteActivity(ctx, uuid.New(), 0))
	assert.Equal(t, domain.IgnoredOutOfRange, s.DeleteActivity(ctx, trip.ID, 1))
	assert.Equal(t, domain.IgnoredOutOfRange, s.DeleteActivity(ctx, trip.ID, -1))

	got, _ := s.GetTrip(trip.ID)
	assert.Equal(t, []string{"Taxi"}, activityTitles(got))
}

func TestUpdateActivity(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 7), "Taxi", "Home", domain.ActivityTransport, ""))
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 9), "Flight", "Airport", domain.ActivityTransport, ""))
	replacement := domain.NewActivity(at(2, 22), "Hotel", "Shinjuku", domain.ActivityAccommodation, "3 nights")

	got := s.UpdateActivity(ctx, trip.ID, 0, replacement)

	require.Equal(t, domain.Applied, got)
	current, _ := s.GetTrip(trip.ID)
	assert.Equal(t, []string{"Flight", "Hotel"}, activityTitles(current), "replacement is re-sorted")
	assert.Contains(t, current.Activities, replacement)
	for _, a := range current.Activities {
		assert.NotEqual(t, "Taxi", a.Title, "replaced activity is gone")
	}
}

func TestUpdateActivity_Ignored(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)
	s.AddActivity(ctx, trip.ID, domain.NewActivity(at(2, 7), "Taxi", "Home", domain.ActivityTransport, ""))
	before := snapshot(t, kv)
	a := domain.NewActivity(at(2, 8), "ghost", "x", domain.ActivityOther, "")

	assert.Equal(t, domain.IgnoredNotFound, s.UpdateActivity(ctx, uuid.New(), 0, a))
	assert.Equal(t, domain.IgnoredOutOfRange, s.UpdateActivity(ctx, trip.ID, 5, a))
	assert.Equal(t, before, snapshot(t, kv))
}

// ---- persistence failures --------------------------------------------------

func TestPersistFailure_IsSwallowed(t *testing.T) {
	ctx := context.Background()
	writeErr := errors.New("disk full")
	kv := &mockKVRepo{
		get: func(context.Context, string) ([]byte, error) { return nil, domain.ErrNotFound },
		put: func(context.Context, string, []byte) error { return writeErr },
	}
	s := store.New(ctx, kv)

	got := s.AddTrip(ctx, japan())

	assert.Equal(t, domain.Applied, got, "memory stays authoritative")
	assert.Equal(t, 1, s.Len())
	assert.ErrorIs(t, s.LastPersistError(), writeErr)
	assert.ErrorIs(t, s.Flush(ctx), writeErr, "explicit flush surfaces the error")
}

func TestPersistFailure_ClearedByNextSuccess(t *testing.T) {
	ctx := context.Background()
	fail := true
	mem := repo.NewMemoryKVRepo()
	kv := &mockKVRepo{
		get: mem.Get,
		put: func(ctx context.Context, k string, v []byte) error {
			if fail {
				return errors.New("transient")
			}
			return mem.Put(ctx, k, v)
		},
	}
	s := store.New(ctx, kv)
	s.AddTrip(ctx, japan())
	require.Error(t, s.LastPersistError())

	fail = false
	s.AddTrip(ctx, domain.NewTrip("Iceland", at(20, 0), at(25, 0)))

	assert.NoError(t, s.LastPersistError())
	assert.Len(t, persistedTrips(t, mem), 2, "next successful write catches durable state up")
}

// ---- Flush / Close ---------------------------------------------------------

func TestFlush_WritesEmptyCollection(t *testing.T) {
	s, kv := newStore(t)

	require.NoError(t, s.Flush(context.Background()))

	assert.JSONEq(t, "[]", string(snapshot(t, kv)))
}

func TestClose_FlushesAndClosesRepo(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemoryKVRepo()
	closed := false
	kv := &mockKVRepo{
		get:   mem.Get,
		put:   mem.Put,
		close: func() error { closed = true; return nil },
	}
	s := store.New(ctx, kv)
	s.AddTrip(ctx, japan())

	require.NoError(t, s.Close(ctx))

	assert.True(t, closed)
	assert.Len(t, persistedTrips(t, mem), 1)
}

func TestClose_ReadOnlySessionWritesNothing(t *testing.T) {
	ctx := context.Background()
	kv := &countingRepo{KVRepo: repo.NewMemoryKVRepo()}
	s := store.New(ctx, kv)
	s.AddTrip(ctx, japan())
	require.Equal(t, 1, kv.Puts())

	reopened := store.New(ctx, kv)
	reopened.Trips()
	require.NoError(t, reopened.Close(ctx))

	assert.Equal(t, 1, kv.Puts())
}

func TestClose_RetriesFailedWrite(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemoryKVRepo()
	fail := true
	kv := &mockKVRepo{
		get: mem.Get,
		put: func(ctx context.Context, k string, v []byte) error {
			if fail {
				return errors.New("transient")
			}
			return mem.Put(ctx, k, v)
		},
		close: func() error { return nil },
	}
	s := store.New(ctx, kv)
	s.AddTrip(ctx, japan())
	require.Error(t, s.LastPersistError())

	fail = false
	require.NoError(t, s.Close(ctx))

	assert.Len(t, persistedTrips(t, mem), 1)
}

// lockedOnReopen serves the first store normally and then fails every Get,
// the way a shared SQLite file reports "database is locked".
func lockedOnReopen(mem repo.KVRepo) *mockKVRepo {
	return &mockKVRepo{
		get: func(context.Context, string) ([]byte, error) {
			return nil, errors.New("database is locked")
		},
		put:   mem.Put,
		close: func() error { return nil },
	}
}

func TestClose_AfterFailedLoadKeepsPersistedTrips(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemoryKVRepo()
	store.New(ctx, mem).AddTrip(ctx, japan())

	s := store.New(ctx, lockedOnReopen(mem))
	assert.Empty(t, s.Trips())
	require.NoError(t, s.Close(ctx))

	trips := persistedTrips(t, mem)
	require.Len(t, trips, 1)
	assert.Equal(t, "Japan", trips[0].Title)
}

func TestFlush_RefusesAfterFailedLoad(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemoryKVRepo()
	store.New(ctx, mem).AddTrip(ctx, japan())

	s := store.New(ctx, lockedOnReopen(mem))
	err := s.Flush(ctx)

	assert.ErrorIs(t, err, store.ErrNotLoaded)
	assert.Len(t, persistedTrips(t, mem), 1)
}

func TestFlush_AllowedAfterMutationFollowingFailedLoad(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemoryKVRepo()
	s := store.New(ctx, lockedOnReopen(mem))

	assert.Equal(t, domain.Applied, s.AddTrip(ctx, japan()))

	require.NoError(t, s.Flush(ctx))
	assert.Len(t, persistedTrips(t, mem), 1)
}

// ---- concurrency -----------------------------------------------------------

func TestStore_ConcurrentAddActivity(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := domain.NewActivity(at(1+i%9, i%24), fmt.Sprintf("a%d", i), "x", domain.ActivityOther, "")
			s.AddActivity(ctx, trip.ID, a)
		}(i)
	}
	wg.Wait()

	got, _ := s.GetTrip(trip.ID)
	assert.Len(t, got.Activities, n)
	for i := 1; i < len(got.Activities); i++ {
		assert.False(t, got.Activities[i].Time.Before(got.Activities[i-1].Time))
	}
	assert.Len(t, persistedTrips(t, kv)[0].Activities, n, "last write wins with the full collection")
}

// ---- id-addressed helpers --------------------------------------------------

func TestRemoveTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	first, second := japan(), domain.NewTrip("Iceland", at(20, 0), at(25, 0))
	s.AddTrip(ctx, first)
	s.AddTrip(ctx, second)

	assert.Equal(t, domain.Applied, s.RemoveTrip(ctx, first.ID))
	assert.Equal(t, domain.IgnoredNotFound, s.RemoveTrip(ctx, first.ID))

	trips := persistedTrips(t, kv)
	require.Len(t, trips, 1)
	assert.Equal(t, second.ID, trips[0].ID)
}

func TestEditTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	trip := japan()
	s.AddTrip(ctx, trip)

	got := s.EditTrip(ctx, trip.ID, func(tr *domain.Trip) { tr.Title = "Kyoto" })

	assert.Equal(t, domain.Applied, got)
	assert.Equal(t, "Kyoto", persistedTrips(t, kv)[0].Title)

	called := false
	got = s.EditTrip(ctx, uuid.New(), func(*domain.Trip) { called = true })
	assert.Equal(t, domain.IgnoredNotFound, got)
	assert.False(t, called)
}
