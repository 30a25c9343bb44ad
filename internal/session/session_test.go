package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestSessionStartsAnonymous(t *testing.T) {
	s, err := New(context.Background(), newTestStore(t))
	require.NoError(t, err)

	_, ok := s.UserID()
	assert.False(t, ok)
}

func TestSessionPersistsIdentity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s, err := New(ctx, store)
	require.NoError(t, err)
	require.NoError(t, s.SetUserID(ctx, 42))

	// A fresh session over the same store sees the persisted id.
	again, err := New(ctx, store)
	require.NoError(t, err)
	id, ok := again.UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestSessionClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s, err := New(ctx, store)
	require.NoError(t, err)
	require.NoError(t, s.SetUserID(ctx, 42))
	require.NoError(t, s.Clear(ctx))

	_, ok := s.UserID()
	assert.False(t, ok)

	again, err := New(ctx, store)
	require.NoError(t, err)
	_, ok = again.UserID()
	assert.False(t, ok)
}

func TestSessionLastWriterWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s, err := New(ctx, store)
	require.NoError(t, err)
	require.NoError(t, s.SetUserID(ctx, 1))
	require.NoError(t, s.SetUserID(ctx, 2))

	id, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestSessionNotifiesSubscribers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s, err := New(ctx, store)
	require.NoError(t, err)

	type change struct {
		id int64
		ok bool
	}
	var seen []change
	s.Subscribe(func(id int64, ok bool) { seen = append(seen, change{id, ok}) })

	require.NoError(t, s.SetUserID(ctx, 7))
	require.NoError(t, s.Clear(ctx))

	require.Len(t, seen, 2)
	assert.Equal(t, change{7, true}, seen[0])
	assert.Equal(t, change{0, false}, seen[1])
}

func TestSessionIgnoresGarbageValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "current_user_id", "not-a-number"))

	s, err := New(ctx, store)
	require.NoError(t, err)
	_, ok := s.UserID()
	assert.False(t, ok)
}
