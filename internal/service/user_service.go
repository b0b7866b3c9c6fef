package service

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

// Profile is a user together with derived counters.
type Profile struct {
	User            dom.User
	EventsOrganized int
}

// UserService handles profile reads and edits.
type UserService struct {
	users  repo.UserRepo
	events repo.EventRepo
	now    func() time.Time
}

// NewUserService returns a new UserService.
func NewUserService(users repo.UserRepo, events repo.EventRepo) *UserService {
	return &UserService{users: users, events: events, now: time.Now}
}

// Get returns the profile of user id.
func (s *UserService) Get(ctx context.Context, id string) (Profile, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	n, err := s.events.CountByOrganizer(ctx, id)
	if err != nil {
		return Profile{}, oops.Code("STORE_FAILED").With("operation", "count organized events").With("user_id", id).Wrap(err)
	}
	return Profile{User: u, EventsOrganized: n}, nil
}

// Update applies patch to user id and returns the updated user.
func (s *UserService) Update(ctx context.Context, id string, patch dom.UserPatch) (dom.User, error) {
	if patch.Username != nil {
		name, err := normalizeUsername(*patch.Username)
		if err != nil {
			return dom.User{}, err
		}
		patch.Username = &name
	}
	if patch.Empty() {
		return dom.User{}, errNoFieldsToUpdate
	}

	u, err := s.getUser(ctx, id)
	if err != nil {
		return dom.User{}, err
	}

	if patch.Username != nil && *patch.Username != u.Username {
		other, err := s.users.GetByUsername(ctx, *patch.Username)
		switch {
		case err == nil && other.ID != id:
			return dom.User{}, errUsernameTaken
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return dom.User{}, oops.Code("STORE_FAILED").With("operation", "get user by username").Wrap(err)
		}
	}

	patch.Apply(&u)
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return dom.User{}, errUsernameTaken
		case errors.Is(err, repo.ErrNotFound):
			return dom.User{}, errUserNotFound
		}
		return dom.User{}, oops.Code("STORE_FAILED").With("operation", "update user").With("user_id", id).Wrap(err)
	}
	return u, nil
}

func (s *UserService) getUser(ctx context.Context, id string) (dom.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, errUserNotFound
		}
		return dom.User{}, oops.Code("STORE_FAILED").With("operation", "get user").With("user_id", id).Wrap(err)
	}
	return u, nil
}
