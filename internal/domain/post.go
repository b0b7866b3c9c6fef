package domain

import "time"

// Post is a cleanup report shared to the feed.
type Post struct {
	ID             string
	UserID         string
	Username       string
	Location       string
	Date           string
	ImageURL       string
	Caption        string
	TrashCollected string
	Upvotes        int
	CreatedAt      time.Time
}
