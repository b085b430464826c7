package domain

import "time"

type AuthEvent string

const (
	AuthEventSignedIn       AuthEvent = "SIGNED_IN"
	AuthEventSignedOut      AuthEvent = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthSession is what the auth API hands out after a successful sign-in.
type AuthSession struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
