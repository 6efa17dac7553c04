// Package credentials keeps the bearer token and the cached profile of the
// signed-in user. The two are written and cleared together.
package credentials

import (
	"errors"
	"time"
)

// Durable keys, shared with the web client.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
)

var (
	// ErrNoCredential is returned when no user is signed in.
	ErrNoCredential = errors.New("no credential stored")
	// ErrEmptyToken is returned when saving a credential without a token.
	ErrEmptyToken = errors.New("credential token is empty")
	// ErrNotFound is returned by backends for absent keys.
	ErrNotFound = errors.New("credential key not found")
)

// Avatar is the hosted profile image.
type Avatar struct {
	PublicID string `json:"public_id,omitempty" yaml:"public_id,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// UserProfile is the minimal profile cached alongside the token.
type UserProfile struct {
	ID        string    `json:"_id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Role      string    `json:"role" yaml:"role"`
	Avatar    Avatar    `json:"avatar,omitzero" yaml:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"created_at,omitempty"`
}

// Credential is the bearer token plus the optional cached profile.
type Credential struct {
	Token string
	User  *UserProfile
}

func (c Credential) clone() Credential {
	if c.User != nil {
		u := *c.User
		c.User = &u
	}
	return c
}
