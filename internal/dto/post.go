package dto

import "time"

type CreatePostRequest struct {
	Location       string `json:"location" binding:"max=200"`
	Date           string `json:"date"`
	ImageURL       string `json:"imageUrl" binding:"max=2048"`
	Caption        string `json:"caption" binding:"required,max=2000"`
	TrashCollected string `json:"trashCollected" binding:"max=100"`
}

type PostResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	Location       string    `json:"location"`
	Date           string    `json:"date"`
	ImageURL       string    `json:"imageUrl"`
	Caption        string    `json:"caption"`
	TrashCollected string    `json:"trashCollected"`
	Upvotes        int       `json:"upvotes"`
	Timestamp      time.Time `json:"timestamp"`
	// IsMine is only set for authenticated callers.
	IsMine *bool `json:"isMine,omitempty"`
}
