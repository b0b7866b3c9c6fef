package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"golang.org/x/sync/singleflight"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

const defaultDifficulty = "Easy"

// Organizer identifies the caller creating or managing an event.
type Organizer struct {
	ID       string
	Username string
}

// EventInput carries the fields of a new event.
type EventInput struct {
	Title           string
	Location        string
	Latitude        float64
	Longitude       float64
	Date            string
	Time            string
	MaxParticipants int
	Description     string
	Difficulty      string
	ImageURL        string
}

type EventService struct {
	repo  repo.EventRepo
	cache ListCache[dom.Event]
	sf    singleflight.Group
	now   func() time.Time
}

// NewEventService creates an EventService. If c is nil, caching is disabled.
func NewEventService(r repo.EventRepo, c ListCache[dom.Event]) *EventService {
	return &EventService{repo: r, cache: c, now: time.Now}
}

// List returns events ordered by date, narrowed by f.
func (s *EventService) List(ctx context.Context, f dom.EventFilter) ([]dom.Event, error) {
	all, err := cachedList(ctx, &s.sf, "events", s.cache, s.repo.List)
	if err != nil {
		return nil, oops.Code("STORE_FAILED").With("operation", "list events").Wrap(err)
	}
	out := make([]dom.Event, 0, len(all))
	for _, e := range all {
		if f.OrganizerID != "" && e.OrganizerID != f.OrganizerID {
			continue
		}
		if f.Near != nil && distanceKM(f.Near.Latitude, f.Near.Longitude, e.Latitude, e.Longitude) > f.Near.RadiusKM {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Create stores a new event organized by o. The organizer counts as the first participant.
func (s *EventService) Create(ctx context.Context, o Organizer, in EventInput) (dom.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return dom.Event{}, newError(ErrInvalidInput, "Title is required")
	}
	if in.MaxParticipants < 1 {
		return dom.Event{}, newError(ErrInvalidInput, "maxParticipants must be at least 1")
	}
	if in.Difficulty == "" {
		in.Difficulty = defaultDifficulty
	}

	e := dom.Event{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Location:        strings.TrimSpace(in.Location),
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Date:            in.Date,
		Time:            in.Time,
		Participants:    1,
		MaxParticipants: in.MaxParticipants,
		Description:     strings.TrimSpace(in.Description),
		Organizer:       o.Username,
		OrganizerID:     o.ID,
		Difficulty:      in.Difficulty,
		ImageURL:        in.ImageURL,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return dom.Event{}, oops.Code("STORE_FAILED").With("operation", "create event").Wrap(err)
	}
	invalidate(ctx, s.cache)
	return e, nil
}

func (s *EventService) Get(ctx context.Context, id string) (dom.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Event{}, errEventNotFound
		}
		return dom.Event{}, oops.Code("STORE_FAILED").With("operation", "get event").With("event_id", id).Wrap(err)
	}
	return e, nil
}

// Join adds one participant. A full event is a conflict.
func (s *EventService) Join(ctx context.Context, id string) (dom.Event, error) {
	return s.adjustParticipants(ctx, id, 1)
}

// Leave removes one participant, never going below zero.
func (s *EventService) Leave(ctx context.Context, id string) (dom.Event, error) {
	return s.adjustParticipants(ctx, id, -1)
}

// SetParticipants overwrites the participant count. Only the organizer may do this.
func (s *EventService) SetParticipants(ctx context.Context, callerID, id string, n int) (dom.Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return dom.Event{}, err
	}
	if e.OrganizerID != callerID {
		return dom.Event{}, errNotOrganizer
	}
	if n < 0 || n > e.MaxParticipants {
		return dom.Event{}, newError(ErrInvalidInput, "participants must be between 0 and maxParticipants")
	}
	return s.setParticipants(ctx, e, n)
}

// Delete removes an event. Only the organizer may do this.
func (s *EventService) Delete(ctx context.Context, callerID, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.OrganizerID != callerID {
		return newError(ErrForbidden, "Only the event organizer can delete this event")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errEventNotFound
		}
		return oops.Code("STORE_FAILED").With("operation", "delete event").With("event_id", id).Wrap(err)
	}
	invalidate(ctx, s.cache)
	return nil
}

func (s *EventService) adjustParticipants(ctx context.Context, id string, delta int) (dom.Event, error) {
	e, err := s.repo.AdjustParticipants(ctx, id, delta)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrFull):
			return dom.Event{}, errEventFull
		case errors.Is(err, repo.ErrNotFound):
			return dom.Event{}, errEventNotFound
		}
		return dom.Event{}, oops.Code("STORE_FAILED").With("operation", "adjust participants").With("event_id", id).Wrap(err)
	}
	invalidate(ctx, s.cache)
	return e, nil
}

func (s *EventService) setParticipants(ctx context.Context, e dom.Event, n int) (dom.Event, error) {
	if err := s.repo.SetParticipants(ctx, e.ID, n); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Event{}, errEventNotFound
		}
		return dom.Event{}, oops.Code("STORE_FAILED").With("operation", "set participants").With("event_id", e.ID).Wrap(err)
	}
	invalidate(ctx, s.cache)
	e.Participants = n
	return e, nil
}
