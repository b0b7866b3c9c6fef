package domain

import "time"

// Event is a scheduled cleanup.
type Event struct {
	ID              string
	Title           string
	Location        string
	Latitude        float64
	Longitude       float64
	Date            string
	Time            string
	Participants    int
	MaxParticipants int
	Description     string
	Organizer       string
	OrganizerID     string
	Difficulty      string
	ImageURL        string
	CreatedAt       time.Time
}

// EventFilter narrows an event listing. Zero values mean no filter.
type EventFilter struct {
	OrganizerID string
	Near        *GeoRadius
}

// GeoRadius selects events within RadiusKM of a point.
type GeoRadius struct {
	Latitude  float64
	Longitude float64
	RadiusKM  float64
}
