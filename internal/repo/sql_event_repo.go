package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
)

const eventColumns = `id, title, location, latitude, longitude, event_date, event_time, participants,
	max_participants, description, organizer, organizer_id, difficulty, image_url, created_at`

// SQLEventRepo implements EventRepo over database/sql.
type SQLEventRepo struct {
	db      DBTX
	dialect Dialect
}

func NewSQLEventRepo(db DBTX, d Dialect) *SQLEventRepo {
	return &SQLEventRepo{db: db, dialect: d}
}

func (r *SQLEventRepo) Create(ctx context.Context, e dom.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, query),
		e.ID, e.Title, e.Location, e.Latitude, e.Longitude, e.Date, e.Time, e.Participants,
		e.MaxParticipants, e.Description, e.Organizer, e.OrganizerID, e.Difficulty, e.ImageURL,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLEventRepo) GetByID(ctx context.Context, id string) (dom.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, rebind(r.dialect, query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Event{}, ErrNotFound
		}
		return dom.Event{}, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLEventRepo) List(ctx context.Context) ([]dom.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC, event_time ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []dom.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *SQLEventRepo) CountByOrganizer(ctx context.Context, organizerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		rebind(r.dialect, `SELECT COUNT(*) FROM events WHERE organizer_id = ?`), organizerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLEventRepo) SetParticipants(ctx context.Context, id string, participants int) error {
	res, err := r.db.ExecContext(ctx,
		rebind(r.dialect, `UPDATE events SET participants = ? WHERE id = ?`), participants, id,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectOne(res)
}

func (r *SQLEventRepo) AdjustParticipants(ctx context.Context, id string, delta int) (dom.Event, error) {
	query := `
		UPDATE events SET participants = participants + ?
		WHERE id = ? AND participants + ? <= max_participants
		RETURNING ` + eventColumns
	args := []any{delta, id, delta}
	if delta < 0 {
		query = `
			UPDATE events SET participants = CASE WHEN participants + ? < 0 THEN 0 ELSE participants + ? END
			WHERE id = ?
			RETURNING ` + eventColumns
		args = []any{delta, delta, id}
	}

	e, err := scanEvent(r.db.QueryRowContext(ctx, rebind(r.dialect, query), args...))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return dom.Event{}, fmt.Errorf("db error: %w", err)
	}
	// no row updated: either the event is missing or the guard rejected it
	if _, err := r.GetByID(ctx, id); err != nil {
		return dom.Event{}, err
	}
	return dom.Event{}, ErrFull
}

func (r *SQLEventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, rebind(r.dialect, `DELETE FROM events WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectOne(res)
}

func scanEvent(s scanner) (dom.Event, error) {
	var (
		e       dom.Event
		created string
		err     error
	)
	if err = s.Scan(&e.ID, &e.Title, &e.Location, &e.Latitude, &e.Longitude, &e.Date, &e.Time,
		&e.Participants, &e.MaxParticipants, &e.Description, &e.Organizer, &e.OrganizerID,
		&e.Difficulty, &e.ImageURL, &created); err != nil {
		return dom.Event{}, err
	}
	if e.CreatedAt, err = parseTime(created); err != nil {
		return dom.Event{}, err
	}
	return e, nil
}
