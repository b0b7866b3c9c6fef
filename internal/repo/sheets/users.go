package sheets

import (
	"context"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

var userHeader = []string{
	"id", "username", "email", "passwordHash", "displayName", "bio", "location",
	"profilePictureUrl", "createdAt", "updatedAt",
}

const (
	userColUsername = 1
	userColEmail    = 2
)

// UserRepo implements repo.UserRepo on the users sheet.
type UserRepo struct {
	c *client
}

func (r *UserRepo) Create(ctx context.Context, u dom.User) error {
	ctx, done := r.c.begin(ctx)
	defer done()

	recs, err := r.c.users.records(ctx)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.col(0) == u.ID || rec.col(userColUsername) == u.Username || rec.col(userColEmail) == u.Email {
			return repo.ErrDuplicate
		}
	}
	return r.c.users.append(ctx, userRow(u))
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	return r.getBy(ctx, 0, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return r.getBy(ctx, userColEmail, email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	return r.getBy(ctx, userColUsername, username)
}

func (r *UserRepo) Update(ctx context.Context, u dom.User) error {
	ctx, done := r.c.begin(ctx)
	defer done()

	recs, err := r.c.users.records(ctx)
	if err != nil {
		return err
	}
	var target *record
	for i := range recs {
		switch {
		case recs[i].col(0) == u.ID:
			target = &recs[i]
		case recs[i].col(userColUsername) == u.Username:
			return repo.ErrDuplicate
		}
	}
	if target == nil {
		return repo.ErrNotFound
	}
	// email, password hash and createdAt are not editable
	cur := userFromRecord(*target)
	u.Email, u.PasswordHash, u.CreatedAt = cur.Email, cur.PasswordHash, cur.CreatedAt
	return r.c.users.updateRow(ctx, target.row, userRow(u))
}

func (r *UserRepo) getBy(ctx context.Context, col int, value string) (dom.User, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	rec, err := r.c.users.find(ctx, func(rec record) bool { return rec.col(col) == value })
	if err != nil {
		return dom.User{}, err
	}
	return userFromRecord(rec), nil
}

func userRow(u dom.User) []any {
	return []any{
		u.ID, u.Username, u.Email, u.PasswordHash, u.DisplayName, u.Bio, u.Location,
		u.ProfilePictureURL, formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	}
}

func userFromRecord(rec record) dom.User {
	return dom.User{
		ID:                rec.col(0),
		Username:          rec.col(1),
		Email:             rec.col(2),
		PasswordHash:      rec.col(3),
		DisplayName:       rec.col(4),
		Bio:               rec.col(5),
		Location:          rec.col(6),
		ProfilePictureURL: rec.col(7),
		CreatedAt:         rec.timeCol(8),
		UpdatedAt:         rec.timeCol(9),
	}
}
