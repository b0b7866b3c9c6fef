package sheets

import (
	"context"
	"errors"
	"sort"

	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

// Columns A-I follow the layout the web client has always used; userId was added as J.
var postHeader = []string{
	"id", "username", "location", "date", "imageUrl", "caption", "trashCollected", "upvotes",
	"timestamp", "userId",
}

const postColUpvotes = 7

// PostRepo implements repo.PostRepo on the posts sheet.
type PostRepo struct {
	c *client
}

func (r *PostRepo) Create(ctx context.Context, p dom.Post) error {
	ctx, done := r.c.begin(ctx)
	defer done()

	if _, err := r.c.posts.byID(ctx, p.ID); err == nil {
		return repo.ErrDuplicate
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return r.c.posts.append(ctx, []any{
		p.ID, p.Username, p.Location, p.Date, p.ImageURL, p.Caption, p.TrashCollected, p.Upvotes,
		formatTime(p.CreatedAt), p.UserID,
	})
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (dom.Post, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	rec, err := r.c.posts.byID(ctx, id)
	if err != nil {
		return dom.Post{}, err
	}
	return postFromRecord(rec), nil
}

func (r *PostRepo) List(ctx context.Context) ([]dom.Post, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	recs, err := r.c.posts.records(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]dom.Post, 0, len(recs))
	for _, rec := range recs {
		list = append(list, postFromRecord(rec))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *PostRepo) IncrementUpvotes(ctx context.Context, id string) (dom.Post, error) {
	ctx, done := r.c.begin(ctx)
	defer done()

	rec, err := r.c.posts.byID(ctx, id)
	if err != nil {
		return dom.Post{}, err
	}
	p := postFromRecord(rec)
	p.Upvotes++
	if err := r.c.posts.updateCell(ctx, rec.row, postColUpvotes, p.Upvotes); err != nil {
		return dom.Post{}, err
	}
	return p, nil
}

func postFromRecord(rec record) dom.Post {
	return dom.Post{
		ID:             rec.col(0),
		Username:       rec.col(1),
		Location:       rec.col(2),
		Date:           rec.col(3),
		ImageURL:       rec.col(4),
		Caption:        rec.col(5),
		TrashCollected: rec.col(6),
		Upvotes:        rec.intCol(7),
		CreatedAt:      rec.timeCol(8),
		UserID:         rec.col(9),
	}
}
