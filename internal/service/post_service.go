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

// Author identifies the caller creating a post.
type Author struct {
	ID       string
	Username string
}

// PostInput carries the fields of a new post.
type PostInput struct {
	Location       string
	Date           string
	ImageURL       string
	Caption        string
	TrashCollected string
}

type PostService struct {
	repo  repo.PostRepo
	cache ListCache[dom.Post]
	sf    singleflight.Group
	now   func() time.Time
}

// NewPostService creates a PostService. If c is nil, caching is disabled.
func NewPostService(r repo.PostRepo, c ListCache[dom.Post]) *PostService {
	return &PostService{repo: r, cache: c, now: time.Now}
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]dom.Post, error) {
	list, err := cachedList(ctx, &s.sf, "posts", s.cache, s.repo.List)
	if err != nil {
		return nil, oops.Code("STORE_FAILED").With("operation", "list posts").Wrap(err)
	}
	return list, nil
}

// Create stores a new post by a with zero upvotes.
func (s *PostService) Create(ctx context.Context, a Author, in PostInput) (dom.Post, error) {
	in.Caption = strings.TrimSpace(in.Caption)
	if in.Caption == "" {
		return dom.Post{}, newError(ErrInvalidInput, "Caption is required")
	}
	p := dom.Post{
		ID:             uuid.NewString(),
		UserID:         a.ID,
		Username:       a.Username,
		Location:       strings.TrimSpace(in.Location),
		Date:           in.Date,
		ImageURL:       in.ImageURL,
		Caption:        in.Caption,
		TrashCollected: strings.TrimSpace(in.TrashCollected),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return dom.Post{}, oops.Code("STORE_FAILED").With("operation", "create post").Wrap(err)
	}
	invalidate(ctx, s.cache)
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (dom.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Post{}, errPostNotFound
		}
		return dom.Post{}, oops.Code("STORE_FAILED").With("operation", "get post").With("post_id", id).Wrap(err)
	}
	return p, nil
}

// Upvote adds one upvote and returns the updated post.
func (s *PostService) Upvote(ctx context.Context, id string) (dom.Post, error) {
	p, err := s.repo.IncrementUpvotes(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Post{}, errPostNotFound
		}
		return dom.Post{}, oops.Code("STORE_FAILED").With("operation", "increment upvotes").With("post_id", id).Wrap(err)
	}
	invalidate(ctx, s.cache)
	return p, nil
}
