package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]dom.User
	err  error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]dom.User{}} }

func (m *memUsers) Create(_ context.Context, u dom.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, other := range m.byID {
		if other.Email == u.Email || other.Username == u.Username {
			return repo.ErrDuplicate
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) find(match func(dom.User) bool) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return dom.User{}, m.err
	}
	for _, u := range m.byID {
		if match(u) {
			return u, nil
		}
	}
	return dom.User{}, repo.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (dom.User, error) {
	return m.find(func(u dom.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (dom.User, error) {
	return m.find(func(u dom.User) bool { return u.Email == email })
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (dom.User, error) {
	return m.find(func(u dom.User) bool { return u.Username == username })
}

func (m *memUsers) Update(_ context.Context, u dom.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memEvents struct {
	mu    sync.Mutex
	byID  map[string]dom.Event
	lists int
}

func newMemEvents() *memEvents { return &memEvents{byID: map[string]dom.Event{}} }

func (m *memEvents) Create(_ context.Context, e dom.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[e.ID] = e
	return nil
}

func (m *memEvents) GetByID(_ context.Context, id string) (dom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return dom.Event{}, repo.ErrNotFound
	}
	return e, nil
}

func (m *memEvents) List(context.Context) ([]dom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := make([]dom.Event, 0, len(m.byID))
	for _, e := range m.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memEvents) CountByOrganizer(_ context.Context, organizerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.byID {
		if e.OrganizerID == organizerID {
			n++
		}
	}
	return n, nil
}

func (m *memEvents) SetParticipants(_ context.Context, id string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	e.Participants = n
	m.byID[id] = e
	return nil
}

func (m *memEvents) AdjustParticipants(_ context.Context, id string, delta int) (dom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return dom.Event{}, repo.ErrNotFound
	}
	n := e.Participants + delta
	switch {
	case delta > 0 && n > e.MaxParticipants:
		return dom.Event{}, repo.ErrFull
	case n < 0:
		n = 0
	}
	e.Participants = n
	m.byID[id] = e
	return e, nil
}

func (m *memEvents) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memPosts struct {
	mu   sync.Mutex
	byID map[string]dom.Post
	err  error
}

func newMemPosts() *memPosts { return &memPosts{byID: map[string]dom.Post{}} }

func (m *memPosts) Create(_ context.Context, p dom.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = p
	return nil
}

func (m *memPosts) GetByID(_ context.Context, id string) (dom.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return dom.Post{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memPosts) List(context.Context) ([]dom.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]dom.Post, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPosts) IncrementUpvotes(_ context.Context, id string) (dom.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return dom.Post{}, repo.ErrNotFound
	}
	p.Upvotes++
	m.byID[id] = p
	return p, nil
}

// memCache is an in-process ListCache.
type memCache[T any] struct {
	mu          sync.Mutex
	list        []T
	invalidated int
}

func (c *memCache[T]) Get(context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list, nil
}

func (c *memCache[T]) Set(_ context.Context, list []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if list == nil {
		list = []T{}
	}
	c.list = list
	return nil
}

func (c *memCache[T]) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
	c.invalidated++
	return nil
}

var errStoreDown = errors.New("store down")
