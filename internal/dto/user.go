package dto

import "time"

// UserResponse is an account as its owner sees it. The password hash is never serialized.
type UserResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"displayName"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ProfileResponse is returned by GET /users/me and GET /users/{userId}.
// Email is only filled for the caller's own profile.
type ProfileResponse struct {
	UserID            string    `json:"userId"`
	Username          string    `json:"username"`
	Email             string    `json:"email,omitempty"`
	DisplayName       string    `json:"displayName"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	EventsOrganized   int       `json:"eventsOrganized"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UpdateUserRequest is the JSON body for PATCH /users/me. Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Username          *string `json:"username" binding:"omitempty,min=3,max=50"`
	DisplayName       *string `json:"displayName" binding:"omitempty,max=100"`
	Bio               *string `json:"bio" binding:"omitempty,max=500"`
	Location          *string `json:"location" binding:"omitempty,max=200"`
	ProfilePictureURL *string `json:"profilePictureUrl" binding:"omitempty,max=2048"`
}
