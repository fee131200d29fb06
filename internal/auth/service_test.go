package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vossvolley/tracker/internal/auth"
	"github.com/vossvolley/tracker/internal/database"
	"github.com/vossvolley/tracker/internal/volley"
)

func setupAuth(t *testing.T, ttl time.Duration) auth.AuthService {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return auth.New(db, ttl)
}

func TestRegister(t *testing.T) {
	svc := setupAuth(t, time.Hour)

	session, err := svc.Register("anna", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "anna", session.Username)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register("anna", "other")
		var conflict *volley.ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := svc.Register("", "pw")
		var validation *volley.ValidationError
		require.ErrorAs(t, err, &validation)

		_, err = svc.Register("bob", "")
		require.ErrorAs(t, err, &validation)
	})
}

func TestLogin(t *testing.T) {
	svc := setupAuth(t, time.Hour)

	_, err := svc.Register("anna", "hunter2")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		session, err := svc.Login("anna", "hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("anna", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login("nobody", "pw")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestValidateToken(t *testing.T) {
	svc := setupAuth(t, time.Hour)

	session, err := svc.Register("anna", "hunter2")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		got, err := svc.ValidateToken(session.Token)
		require.NoError(t, err)
		assert.Equal(t, session.UserID, got.UserID)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.ValidateToken("garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("logout invalidates", func(t *testing.T) {
		svc.Logout(session.Token)
		_, err := svc.ValidateToken(session.Token)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})
}

func TestSessionExpiry(t *testing.T) {
	svc := setupAuth(t, time.Millisecond)

	session, err := svc.Register("anna", "hunter2")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.ValidateToken(session.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}
