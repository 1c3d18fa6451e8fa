package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
)

// SessionKey is where the signed-in session is persisted.
const SessionKey = "cashflow_session"

// SessionStore keeps the current session in the local store.
type SessionStore struct {
	store localstore.Store
}

// NewSessionStore returns a SessionStore backed by store.
func NewSessionStore(store localstore.Store) *SessionStore {
	return &SessionStore{store: store}
}

// Load returns the stored session. A missing or unreadable session is
// reported as ErrNotSignedIn.
func (s *SessionStore) Load(ctx context.Context) (*Session, error) {
	raw, err := s.store.Get(ctx, SessionKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.AccessToken == "" {
		return nil, ErrNotSignedIn
	}
	return &sess, nil
}

// Save persists sess, replacing any previous session.
func (s *SessionStore) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.store.Set(ctx, SessionKey, string(raw))
}

// Clear signs out locally.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, SessionKey)
}
