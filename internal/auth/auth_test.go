package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/results"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := results.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, results.Migrate(context.Background(), db, assets.FS, assets.MigrationsDir))
	s := NewService(db, "test-secret", time.Hour)
	s.cost = bcrypt.MinCost
	return s
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	u, err := s.Signup(ctx, "  alice_1 ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice_1", u.Username)
	assert.NotEmpty(t, u.ID)

	got, err := s.Login(ctx, "ALICE_1", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Login(ctx, "alice_1", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Login(ctx, "bob", "password123")
	assert.ErrorIs(t, err, ErrBadCredentials)

	found, err := s.Find(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice_1", found.Username)
	_, err = s.Find(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSignupRules(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	_, err := s.Signup(ctx, "alice", "password123")
	require.NoError(t, err)
	_, err = s.Signup(ctx, "Alice", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	for _, tc := range []struct{ user, pw string }{
		{"al", "password123"},
		{"this_name_is_far_too_long", "password123"},
		{"bad name", "password123"},
		{"carol", "short"},
	} {
		_, err := s.Signup(ctx, tc.user, tc.pw)
		assert.ErrorIs(t, err, ErrInvalidSignup, tc.user)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := newService(t)
	u := User{ID: "u1", Username: "alice"}
	tok, exp, err := s.Sign(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	c, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "alice", c.Username)
}

func TestTokenRejected(t *testing.T) {
	s := newService(t)
	tok, _, err := s.Sign(User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	other := NewService(nil, "another-secret", time.Hour)
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
