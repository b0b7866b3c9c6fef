package domain

import "time"

// User is the domain entity for an account.
type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	DisplayName       string
	Bio               string
	Location          string
	ProfilePictureURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UserPatch holds optional profile changes. Nil fields are left as they are.
type UserPatch struct {
	Username          *string
	DisplayName       *string
	Bio               *string
	Location          *string
	ProfilePictureURL *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.DisplayName == nil && p.Bio == nil &&
		p.Location == nil && p.ProfilePictureURL == nil
}

// Apply copies the set fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.ProfilePictureURL != nil {
		u.ProfilePictureURL = *p.ProfilePictureURL
	}
}
