package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// userKey is the fixed key the identity lives under.
const userKey = "current_user_id"

// Session is the shared identity container. The stored value is read once at
// construction; every change is written through synchronously and announced
// to subscribers. Last writer wins.
type Session struct {
	store *Store

	mu     sync.Mutex
	userID int64
	known  bool
	subs   []func(userID int64, ok bool)
}

// New reads the persisted identity, if any. A value that does not parse as an
// integer is treated as anonymous rather than an error.
func New(ctx context.Context, store *Store) (*Session, error) {
	s := &Session{store: store}
	value, err := store.Get(ctx, userKey)
	switch {
	case errors.Is(err, ErrNotFound):
		return s, nil
	case err != nil:
		return nil, err
	}
	if id, perr := strconv.ParseInt(value, 10, 64); perr == nil {
		s.userID, s.known = id, true
	}
	return s, nil
}

// UserID returns the current identity; ok is false while anonymous.
func (s *Session) UserID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.known
}

func (s *Session) SetUserID(ctx context.Context, id int64) error {
	if err := s.store.Set(ctx, userKey, strconv.FormatInt(id, 10)); err != nil {
		return err
	}
	s.mu.Lock()
	s.userID, s.known = id, true
	subs := append([]func(int64, bool){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(id, true)
	}
	return nil
}

// Clear logs the user out, returning the session to anonymous.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, userKey); err != nil {
		return err
	}
	s.mu.Lock()
	s.userID, s.known = 0, false
	subs := append([]func(int64, bool){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(0, false)
	}
	return nil
}

// Subscribe registers fn to run after every identity change.
func (s *Session) Subscribe(fn func(userID int64, ok bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
