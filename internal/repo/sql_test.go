package repo_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

func openSQLite(t *testing.T) *repo.Store {
	t.Helper()
	store, err := repo.OpenSQL(context.Background(), repo.DialectSQLite, "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newUser(id, username, email string) dom.User {
	now := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.UTC)
	return dom.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Bio:          "hello",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSQLUserRepo(t *testing.T) {
	ctx := context.Background()
	users := openSQLite(t).Users

	alice := newUser("u-1", "alice", "alice@x.com")
	require.NoError(t, users.Create(ctx, alice))

	for name, get := range map[string]func() (dom.User, error){
		"id":       func() (dom.User, error) { return users.GetByID(ctx, "u-1") },
		"email":    func() (dom.User, error) { return users.GetByEmail(ctx, "alice@x.com") },
		"username": func() (dom.User, error) { return users.GetByUsername(ctx, "alice") },
	} {
		t.Run(name, func(t *testing.T) {
			got, err := get()
			require.NoError(t, err)
			assert.Equal(t, alice, got)
		})
	}

	_, err := users.GetByEmail(ctx, "ALICE@x.com")
	assert.ErrorIs(t, err, repo.ErrNotFound, "lookups are case-sensitive")
	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSQLUserRepo_Duplicates(t *testing.T) {
	ctx := context.Background()
	users := openSQLite(t).Users
	require.NoError(t, users.Create(ctx, newUser("u-1", "alice", "alice@x.com")))
	require.NoError(t, users.Create(ctx, newUser("u-2", "bob", "bob@x.com")))

	assert.ErrorIs(t, users.Create(ctx, newUser("u-3", "carol", "alice@x.com")), repo.ErrDuplicate)
	assert.ErrorIs(t, users.Create(ctx, newUser("u-3", "alice", "carol@x.com")), repo.ErrDuplicate)
	assert.ErrorIs(t, users.Create(ctx, newUser("u-1", "carol", "carol@x.com")), repo.ErrDuplicate)

	bob, err := users.GetByID(ctx, "u-2")
	require.NoError(t, err)
	bob.Username = "alice"
	assert.ErrorIs(t, users.Update(ctx, bob), repo.ErrDuplicate)
}

func TestSQLUserRepo_Update(t *testing.T) {
	ctx := context.Background()
	users := openSQLite(t).Users
	u := newUser("u-1", "alice", "alice@x.com")
	require.NoError(t, users.Create(ctx, u))

	u.Username = "alicia"
	u.DisplayName = "Alicia"
	u.Location = "Santa Cruz"
	u.ProfilePictureURL = "https://img/a.png"
	u.UpdatedAt = u.UpdatedAt.Add(time.Hour)
	require.NoError(t, users.Update(ctx, u))

	got, err := users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	assert.ErrorIs(t, users.Update(ctx, newUser("missing", "x", "x@x.com")), repo.ErrNotFound)
}

func TestSQLEventRepo(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Users.Create(ctx, newUser("u-1", "alice", "alice@x.com")))

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := dom.Event{ID: "e-1", Title: "Later", Date: "2026-06-01", Time: "09:00", Participants: 1,
		MaxParticipants: 10, Organizer: "alice", OrganizerID: "u-1", Difficulty: "Easy",
		Latitude: 36.96, Longitude: -122.02, CreatedAt: created}
	sooner := later
	sooner.ID, sooner.Title, sooner.Date = "e-2", "Sooner", "2026-05-01"

	require.NoError(t, store.Events.Create(ctx, later))
	require.NoError(t, store.Events.Create(ctx, sooner))

	got, err := store.Events.GetByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, later, got)

	list, err := store.Events.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e-2", list[0].ID)

	n, err := store.Events.CountByOrganizer(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Events.SetParticipants(ctx, "e-1", 7))
	got, err = store.Events.GetByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Participants)
	assert.ErrorIs(t, store.Events.SetParticipants(ctx, "missing", 1), repo.ErrNotFound)

	require.NoError(t, store.Events.Delete(ctx, "e-1"))
	_, err = store.Events.GetByID(ctx, "e-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, store.Events.Delete(ctx, "e-1"), repo.ErrNotFound)
}

func TestSQLEventRepo_AdjustParticipants(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Users.Create(ctx, newUser("u-1", "alice", "alice@x.com")))
	require.NoError(t, store.Events.Create(ctx, dom.Event{ID: "e-1", Title: "Pair", Date: "2026-06-01",
		Participants: 1, MaxParticipants: 2, OrganizerID: "u-1", CreatedAt: time.Now()}))

	e, err := store.Events.AdjustParticipants(ctx, "e-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Participants)
	assert.Equal(t, "Pair", e.Title)

	_, err = store.Events.AdjustParticipants(ctx, "e-1", 1)
	assert.ErrorIs(t, err, repo.ErrFull)

	for _, want := range []int{1, 0, 0} {
		e, err = store.Events.AdjustParticipants(ctx, "e-1", -1)
		require.NoError(t, err)
		assert.Equal(t, want, e.Participants)
	}

	_, err = store.Events.AdjustParticipants(ctx, "missing", 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = store.Events.AdjustParticipants(ctx, "missing", -1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSQLEventRepo_ConcurrentJoinsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Users.Create(ctx, newUser("u-1", "alice", "alice@x.com")))
	require.NoError(t, store.Events.Create(ctx, dom.Event{ID: "e-1", Title: "Pair", Date: "2026-06-01",
		Participants: 1, MaxParticipants: 2, OrganizerID: "u-1", CreatedAt: time.Now()}))

	var (
		wg         sync.WaitGroup
		joined     atomic.Int32
		full       atomic.Int32
		unexpected atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Events.AdjustParticipants(ctx, "e-1", 1)
			switch {
			case err == nil:
				joined.Add(1)
			case errors.Is(err, repo.ErrFull):
				full.Add(1)
			default:
				unexpected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), joined.Load())
	assert.Equal(t, int32(9), full.Load())
	assert.Zero(t, unexpected.Load())
	got, err := store.Events.GetByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Participants)
}

func TestSQLPostRepo_ConcurrentUpvotes(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Users.Create(ctx, newUser("u-1", "alice", "alice@x.com")))
	require.NoError(t, store.Posts.Create(ctx, dom.Post{ID: "p-1", UserID: "u-1", Username: "alice",
		Caption: "x", CreatedAt: time.Now()}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Posts.IncrementUpvotes(ctx, "p-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Posts.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.Upvotes)
}

func TestSQLEventRepo_EmptyList(t *testing.T) {
	list, err := openSQLite(t).Events.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSQLPostRepo(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)
	require.NoError(t, store.Users.Create(ctx, newUser("u-1", "alice", "alice@x.com")))

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := dom.Post{ID: "p-1", UserID: "u-1", Username: "alice", Caption: "older",
		TrashCollected: "5 lbs", CreatedAt: base}
	// a whole second apart and a fraction apart must still order correctly as text
	newer := dom.Post{ID: "p-2", UserID: "u-1", Username: "alice", Caption: "newer",
		CreatedAt: base.Add(time.Second)}
	newest := dom.Post{ID: "p-3", UserID: "u-1", Username: "alice", Caption: "newest",
		CreatedAt: base.Add(time.Second + 500*time.Millisecond)}
	for _, p := range []dom.Post{older, newest, newer} {
		require.NoError(t, store.Posts.Create(ctx, p))
	}

	list, err := store.Posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"p-3", "p-2", "p-1"}, []string{list[0].ID, list[1].ID, list[2].ID})

	for i := 0; i < 3; i++ {
		_, err = store.Posts.IncrementUpvotes(ctx, "p-1")
		require.NoError(t, err)
	}
	got, err := store.Posts.GetByID(ctx, "p-1")
	require.NoError(t, err)
	older.Upvotes = 3
	assert.Equal(t, older, got)

	_, err = store.Posts.IncrementUpvotes(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = store.Posts.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSQLPostRepo_ForeignKey(t *testing.T) {
	err := openSQLite(t).Posts.Create(context.Background(), dom.Post{
		ID: "p-1", UserID: "ghost", Username: "ghost", Caption: "x", CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}
