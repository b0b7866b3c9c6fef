package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
	"github.com/colinruark1/ocean-cleaning/internal/service"
)

var (
	alice = service.Organizer{ID: "u-1", Username: "alice"}
	bob   = service.Organizer{ID: "u-2", Username: "bob"}
)

func newEventInput(title, date string, max int) service.EventInput {
	return service.EventInput{
		Title:           title,
		Location:        "Ocean Beach",
		Latitude:        37.7594,
		Longitude:       -122.5107,
		Date:            date,
		Time:            "09:00",
		MaxParticipants: max,
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	svc := service.NewEventService(newMemEvents(), nil)

	e, err := svc.Create(ctx, alice, newEventInput("  Sunrise sweep ", "2026-05-01", 10))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Sunrise sweep", e.Title)
	assert.Equal(t, 1, e.Participants)
	assert.Equal(t, "alice", e.Organizer)
	assert.Equal(t, "u-1", e.OrganizerID)
	assert.Equal(t, "Easy", e.Difficulty)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = svc.Create(ctx, alice, newEventInput(" ", "2026-05-01", 10))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.Create(ctx, alice, newEventInput("x", "2026-05-01", 0))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestEventService_JoinLeave(t *testing.T) {
	ctx := context.Background()
	svc := service.NewEventService(newMemEvents(), nil)
	e, err := svc.Create(ctx, alice, newEventInput("Small crew", "2026-05-01", 2))
	require.NoError(t, err)

	e, err = svc.Join(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Participants)

	_, err = svc.Join(ctx, e.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	for _, want := range []int{1, 0, 0} {
		e, err = svc.Leave(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, want, e.Participants)
	}

	_, err = svc.Join(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestEventService_ConcurrentJoins(t *testing.T) {
	ctx := context.Background()
	store, err := repo.OpenSQL(ctx, repo.DialectSQLite, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Users.Create(ctx, dom.User{ID: alice.ID, Username: alice.Username,
		Email: "alice@x.com", PasswordHash: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}))

	svc := service.NewEventService(store.Events, nil)
	e, err := svc.Create(ctx, alice, newEventInput("Pair", "2026-05-01", 2))
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Join(ctx, e.ID)
			if err == nil {
				mu.Lock()
				joined++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, service.ErrConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, joined)
	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Participants)
}

func TestEventService_OrganizerOnly(t *testing.T) {
	ctx := context.Background()
	svc := service.NewEventService(newMemEvents(), nil)
	e, err := svc.Create(ctx, alice, newEventInput("Mine", "2026-05-01", 5))
	require.NoError(t, err)

	_, err = svc.SetParticipants(ctx, bob.ID, e.ID, 3)
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = svc.SetParticipants(ctx, alice.ID, e.ID, 6)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.SetParticipants(ctx, alice.ID, e.ID, -1)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	e, err = svc.SetParticipants(ctx, alice.ID, e.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, e.Participants)

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, e.ID), service.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, alice.ID, e.ID))
	assert.ErrorIs(t, svc.Delete(ctx, alice.ID, e.ID), service.ErrNotFound)
}

func TestEventService_ListFilters(t *testing.T) {
	ctx := context.Background()
	svc := service.NewEventService(newMemEvents(), nil)

	sf, err := svc.Create(ctx, alice, newEventInput("SF", "2026-05-02", 5))
	require.NoError(t, err)
	la := newEventInput("LA", "2026-05-01", 5)
	la.Latitude, la.Longitude = 34.0095, -118.4971
	_, err = svc.Create(ctx, bob, la)
	require.NoError(t, err)

	all, err := svc.List(ctx, dom.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "LA", all[0].Title, "ordered by date")

	mine, err := svc.List(ctx, dom.EventFilter{OrganizerID: alice.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, sf.ID, mine[0].ID)

	// Golden Gate Park is a few km from Ocean Beach and ~550 km from Santa Monica.
	near, err := svc.List(ctx, dom.EventFilter{Near: &dom.GeoRadius{Latitude: 37.7694, Longitude: -122.4862, RadiusKM: 25}})
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "SF", near[0].Title)
}

func TestEventService_Cache(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	events := newMemEvents()
	c := &memCache[dom.Event]{}
	svc := service.NewEventService(events, c)

	_, err := svc.Create(ctx, alice, newEventInput("One", "2026-05-01", 5))
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidated)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := svc.List(ctx, dom.EventFilter{})
			assert.NoError(t, err)
			assert.Len(t, list, 1)
		}()
	}
	wg.Wait()
	_, err = svc.List(ctx, dom.EventFilter{})
	require.NoError(t, err)
	assert.LessOrEqual(t, events.lists, 8)
	listsBefore := events.lists

	_, err = svc.List(ctx, dom.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, listsBefore, events.lists, "served from cache")

	_, err = svc.Create(ctx, bob, newEventInput("Two", "2026-05-02", 5))
	require.NoError(t, err)
	list, err := svc.List(ctx, dom.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2, "write invalidates")
}
