package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

var eventHeader = []string{
	"id", "title", "location", "coordinates", "date", "time", "participants", "maxParticipants",
	"description", "organizer", "difficulty", "imageUrl", "timestamp", "organizerId",
}

const (
	eventColParticipants = 6
	eventColOrganizerID  = 13
)

type coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EventRepo implements repo.EventRepo on the events sheet.
type EventRepo struct {
	c *client
}

func (r *EventRepo) Create(ctx context.Context, e dom.Event) error {
	ctx, done := r.c.begin(ctx)
	defer done()

	if _, err := r.c.events.byID(ctx, e.ID); err == nil {
		return repo.ErrDuplicate
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return r.c.events.append(ctx, eventRow(e))
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (dom.Event, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	rec, err := r.c.events.byID(ctx, id)
	if err != nil {
		return dom.Event{}, err
	}
	return eventFromRecord(rec), nil
}

func (r *EventRepo) List(ctx context.Context) ([]dom.Event, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	recs, err := r.c.events.records(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]dom.Event, 0, len(recs))
	for _, rec := range recs {
		list = append(list, eventFromRecord(rec))
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return list, nil
}

func (r *EventRepo) CountByOrganizer(ctx context.Context, organizerID string) (int, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	recs, err := r.c.events.records(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range recs {
		if rec.col(eventColOrganizerID) == organizerID {
			n++
		}
	}
	return n, nil
}

func (r *EventRepo) SetParticipants(ctx context.Context, id string, participants int) error {
	ctx, done := r.c.begin(ctx)
	defer done()

	rec, err := r.c.events.byID(ctx, id)
	if err != nil {
		return err
	}
	return r.c.events.updateCell(ctx, rec.row, eventColParticipants, participants)
}

// AdjustParticipants reads and writes the count under one lock.
func (r *EventRepo) AdjustParticipants(ctx context.Context, id string, delta int) (dom.Event, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	rec, err := r.c.events.byID(ctx, id)
	if err != nil {
		return dom.Event{}, err
	}
	e := eventFromRecord(rec)
	n := e.Participants + delta
	switch {
	case delta > 0 && n > e.MaxParticipants:
		return dom.Event{}, repo.ErrFull
	case n < 0:
		n = 0
	}
	if n == e.Participants {
		return e, nil
	}
	if err := r.c.events.updateCell(ctx, rec.row, eventColParticipants, n); err != nil {
		return dom.Event{}, err
	}
	e.Participants = n
	return e, nil
}

// Delete blanks the event's row. Blank rows are skipped on read.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	ctx, done := r.c.begin(ctx)
	defer done()

	rec, err := r.c.events.byID(ctx, id)
	if err != nil {
		return err
	}
	return r.c.events.clearRow(ctx, rec.row)
}

func eventRow(e dom.Event) []any {
	coords, _ := json.Marshal(coordinates{Lat: e.Latitude, Lng: e.Longitude})
	return []any{
		e.ID, e.Title, e.Location, string(coords), e.Date, e.Time, e.Participants, e.MaxParticipants,
		e.Description, e.Organizer, e.Difficulty, e.ImageURL, formatTime(e.CreatedAt), e.OrganizerID,
	}
}

func eventFromRecord(rec record) dom.Event {
	var coords coordinates
	_ = json.Unmarshal([]byte(rec.col(3)), &coords)
	return dom.Event{
		ID:              rec.col(0),
		Title:           rec.col(1),
		Location:        rec.col(2),
		Latitude:        coords.Lat,
		Longitude:       coords.Lng,
		Date:            rec.col(4),
		Time:            rec.col(5),
		Participants:    rec.intCol(6),
		MaxParticipants: rec.intCol(7),
		Description:     rec.col(8),
		Organizer:       rec.col(9),
		Difficulty:      rec.col(10),
		ImageURL:        rec.col(11),
		CreatedAt:       rec.timeCol(12),
		OrganizerID:     rec.col(13),
	}
}
