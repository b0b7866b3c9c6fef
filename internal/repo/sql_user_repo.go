package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
)

const userColumns = `id, username, email, password_hash, display_name, bio, location, profile_picture_url, created_at, updated_at`

// SQLUserRepo implements UserRepo over database/sql.
type SQLUserRepo struct {
	db      DBTX
	dialect Dialect
}

func NewSQLUserRepo(db DBTX, d Dialect) *SQLUserRepo {
	return &SQLUserRepo{db: db, dialect: d}
}

func (r *SQLUserRepo) Create(ctx context.Context, u dom.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, query),
		u.ID, u.Username, u.Email, u.PasswordHash, u.DisplayName, u.Bio, u.Location,
		u.ProfilePictureURL, formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *SQLUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *SQLUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return r.getBy(ctx, "username", username)
}

// Update overwrites the profile fields and updated_at of u.ID.
func (r *SQLUserRepo) Update(ctx context.Context, u dom.User) error {
	query := `
		UPDATE users
		SET username = ?, display_name = ?, bio = ?, location = ?, profile_picture_url = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, rebind(r.dialect, query),
		u.Username, u.DisplayName, u.Bio, u.Location, u.ProfilePictureURL, formatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return affectOne(res)
}

// getBy looks a user up by one of its unique columns. column is never user input.
func (r *SQLUserRepo) getBy(ctx context.Context, column, value string) (dom.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`
	u, err := scanUser(r.db.QueryRowContext(ctx, rebind(r.dialect, query), value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func scanUser(s scanner) (dom.User, error) {
	var (
		u                dom.User
		created, updated string
		err              error
	)
	if err = s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Bio,
		&u.Location, &u.ProfilePictureURL, &created, &updated); err != nil {
		return dom.User{}, err
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return dom.User{}, err
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return dom.User{}, err
	}
	return u, nil
}
