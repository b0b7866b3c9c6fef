package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
)

const postColumns = `id, user_id, username, location, post_date, image_url, caption, trash_collected, upvotes, created_at`

// SQLPostRepo implements PostRepo over database/sql.
type SQLPostRepo struct {
	db      DBTX
	dialect Dialect
}

func NewSQLPostRepo(db DBTX, d Dialect) *SQLPostRepo {
	return &SQLPostRepo{db: db, dialect: d}
}

func (r *SQLPostRepo) Create(ctx context.Context, p dom.Post) error {
	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, query),
		p.ID, p.UserID, p.Username, p.Location, p.Date, p.ImageURL, p.Caption, p.TrashCollected,
		p.Upvotes, formatTime(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLPostRepo) GetByID(ctx context.Context, id string) (dom.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	p, err := scanPost(r.db.QueryRowContext(ctx, rebind(r.dialect, query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Post{}, ErrNotFound
		}
		return dom.Post{}, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLPostRepo) List(ctx context.Context) ([]dom.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []dom.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *SQLPostRepo) IncrementUpvotes(ctx context.Context, id string) (dom.Post, error) {
	query := `UPDATE posts SET upvotes = upvotes + 1 WHERE id = ? RETURNING ` + postColumns
	p, err := scanPost(r.db.QueryRowContext(ctx, rebind(r.dialect, query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Post{}, ErrNotFound
		}
		return dom.Post{}, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func scanPost(s scanner) (dom.Post, error) {
	var (
		p       dom.Post
		created string
		err     error
	)
	if err = s.Scan(&p.ID, &p.UserID, &p.Username, &p.Location, &p.Date, &p.ImageURL, &p.Caption,
		&p.TrashCollected, &p.Upvotes, &created); err != nil {
		return dom.Post{}, err
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return dom.Post{}, err
	}
	return p, nil
}
