package auth

// AuthService manages user accounts and bearer-token sessions.
type AuthService interface {
	// Register creates a new user account and returns a fresh session.
	Register(username, password string) (*Session, error)

	// Login verifies credentials and returns a fresh session.
	Login(username, password string) (*Session, error)

	// ValidateToken resolves a bearer token to its session, pruning it
	// when expired.
	ValidateToken(token string) (*Session, error)

	// Logout discards the session for the given token, if any.
	Logout(token string)
}
