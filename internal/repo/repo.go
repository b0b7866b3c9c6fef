package repo

import (
	"context"
	"errors"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrFull is returned when a join would exceed an event's capacity.
	ErrFull = errors.New("capacity reached")
)

// UserRepo provides account persistence.
type UserRepo interface {
	Create(ctx context.Context, u dom.User) error
	GetByID(ctx context.Context, id string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	Update(ctx context.Context, u dom.User) error
}

// EventRepo provides cleanup event persistence.
type EventRepo interface {
	Create(ctx context.Context, e dom.Event) error
	GetByID(ctx context.Context, id string) (dom.Event, error)
	// List returns all events ordered by date, then time.
	List(ctx context.Context) ([]dom.Event, error)
	CountByOrganizer(ctx context.Context, organizerID string) (int, error)
	SetParticipants(ctx context.Context, id string, participants int) error
	// AdjustParticipants adds delta to the participant count in one step and
	// returns the updated event. A positive delta that would pass
	// maxParticipants fails with ErrFull; a negative one stops at zero.
	AdjustParticipants(ctx context.Context, id string, delta int) (dom.Event, error)
	Delete(ctx context.Context, id string) error
}

// PostRepo provides feed post persistence.
type PostRepo interface {
	Create(ctx context.Context, p dom.Post) error
	GetByID(ctx context.Context, id string) (dom.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]dom.Post, error)
	// IncrementUpvotes adds one upvote in one step and returns the updated post.
	IncrementUpvotes(ctx context.Context, id string) (dom.Post, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users  UserRepo
	Events EventRepo
	Posts  PostRepo

	closeFn func() error
}

// NewStore returns a Store. closeFn may be nil.
func NewStore(users UserRepo, events EventRepo, posts PostRepo, closeFn func() error) *Store {
	return &Store{Users: users, Events: events, Posts: posts, closeFn: closeFn}
}

// Close releases the backend's resources.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
