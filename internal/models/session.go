package models

import "time"

// User is the identity resolved from the auth provider.
type User struct {
	ID    string
	Email string
}

// Session is the bearer credential issued by the auth provider at sign-in.
// The access token is structurally self-describing: its claims segment
// carries the expiry, decodable without contacting the backend.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         User
	ExpiresAt    time.Time
}
