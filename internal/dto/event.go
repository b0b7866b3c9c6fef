package dto

import "time"

// Coordinates is a map position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CreateEventRequest struct {
	Title           string      `json:"title" binding:"required,min=1,max=200"`
	Location        string      `json:"location" binding:"max=200"`
	Coordinates     Coordinates `json:"coordinates"`
	Date            string      `json:"date" binding:"required"`
	Time            string      `json:"time"`
	MaxParticipants int         `json:"maxParticipants" binding:"required,min=1"`
	Description     string      `json:"description" binding:"max=2000"`
	Difficulty      string      `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	ImageURL        string      `json:"imageUrl" binding:"max=2048"`
}

// SetParticipantsRequest is the JSON body for PUT /events/{eventId}/participants.
// A pointer so an explicit 0 is accepted and a missing field is not.
type SetParticipantsRequest struct {
	Participants *int `json:"participants" binding:"required,min=0"`
}

type EventResponse struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Location        string      `json:"location"`
	Coordinates     Coordinates `json:"coordinates"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	Participants    int         `json:"participants"`
	MaxParticipants int         `json:"maxParticipants"`
	Description     string      `json:"description"`
	Organizer       string      `json:"organizer"`
	OrganizerID     string      `json:"organizerId"`
	Difficulty      string      `json:"difficulty"`
	ImageURL        string      `json:"imageUrl"`
	Timestamp       time.Time   `json:"timestamp"`
	// IsOrganizer is only set for authenticated callers.
	IsOrganizer *bool `json:"isOrganizer,omitempty"`
}
