package auth

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Session is an authenticated bearer-token session. Tokens are opaque and
// held in memory only, so a restart logs everyone out.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// service backs accounts with the users table and keeps sessions in memory.
type service struct {
	db *sql.DB

	mu       sync.RWMutex
	sessions map[string]*Session

	ttl time.Duration
}
