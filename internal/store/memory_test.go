package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func TestSaveGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g, err := game.New(game.Options{})
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, &Session{ID: g.ID, Kind: KindGame, Game: g}))
	s, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, s.Game)
	assert.False(t, s.Created.IsZero())
	assert.Equal(t, 1, st.Len())

	_, err = st.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, st.Save(ctx, &Session{}))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Save(ctx, &Session{ID: "a", Kind: KindSolver}))
	require.NoError(t, st.Delete(ctx, "a"))
	require.NoError(t, st.Delete(ctx, "a"))
	_, err := st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepKeepsTouchedSessions(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := &memory{sessions: map[string]*Session{}, now: func() time.Time { return clock }}

	require.NoError(t, m.Save(ctx, &Session{ID: "old"}))
	require.NoError(t, m.Save(ctx, &Session{ID: "busy"}))
	clock = clock.Add(time.Hour)
	_, err := m.Get(ctx, "busy")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(ctx, clock.Add(-time.Minute)))
	assert.Equal(t, 1, m.Len())
	_, err = m.Get(ctx, "busy")
	assert.NoError(t, err)
}
