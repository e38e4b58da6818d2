package core

import (
	"context"
	"log/slog"
	"time"

	"gymledger/internal/codec"
	"gymledger/pkg/domain"
)

// SessionStore persists the singleton login flag.
type SessionStore struct {
	s   *Store
	key string
}

// Login marks the session authenticated as of now.
func (r *SessionStore) Login(ctx context.Context) (state domain.AuthSession, err error) {
	defer r.s.observe("session.login", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	at := r.s.now()
	state = domain.AuthSession{IsAuthenticated: true, LoginTime: &at}
	if err := codec.SaveRecord(ctx, r.s.codec, r.key, state); err != nil {
		return domain.AuthSession{}, err
	}
	r.s.log.InfoContext(ctx, "session login",
		slog.String("entity", string(domain.EntitySession)),
		slog.Time("login_time", at),
	)
	return state, nil
}

// Logout clears the flag and the login time.
func (r *SessionStore) Logout(ctx context.Context) (err error) {
	defer r.s.observe("session.logout", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := codec.SaveRecord(ctx, r.s.codec, r.key, domain.AuthSession{}); err != nil {
		return err
	}
	r.s.log.InfoContext(ctx, "session logout", slog.String("entity", string(domain.EntitySession)))
	return nil
}

// State returns the stored session. An absent or corrupt record reads as
// logged out.
func (r *SessionStore) State(ctx context.Context) (state domain.AuthSession, err error) {
	defer r.s.observe("session.state", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	state, _, err = codec.LoadRecord[domain.AuthSession](ctx, r.s.codec, r.key)
	if err != nil {
		return domain.AuthSession{}, err
	}
	return state, nil
}
