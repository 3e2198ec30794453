// Package session owns the authenticated identity and bearer token. The
// store is a two-state machine: Anonymous (no identity, no token) and
// Authenticated (both present). It is the single writer of the session
// partition.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/model"
	"github.com/NicolasArtemio/frontend-basv1/internal/storage"
)

// persistedState is the session partition blob.
type persistedState struct {
	Identity      *model.Identity `json:"identity"`
	Token         string          `json:"token"`
	Authenticated bool            `json:"authenticated"`
}

type Store struct {
	store storage.Store
	log   *zap.Logger

	mu sync.Mutex

	// onEnd subscribers run after logout completes; navigation to the
	// login entry point lives there, not in the store.
	onEnd []func()

	identity *model.Identity
	token    string
}

func New(store storage.Store, log *zap.Logger) *Store {
	return &Store{store: store, log: log}
}

// OnEnd registers a subscriber notified whenever the session ends.
// Register before any request traffic can trigger a logout.
func (s *Store) OnEnd(fn func()) {
	s.onEnd = append(s.onEnd, fn)
}

// Rehydrate restores the last persisted session. A missing or corrupt
// blob leaves the store Anonymous; it never fails.
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, storage.SessionPartition)
	if err != nil {
		s.log.Warn("failed to read persisted session, starting anonymous", zap.Error(err))
		return
	}
	if data == nil {
		return
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Warn("corrupt persisted session, starting anonymous", zap.Error(err))
		return
	}

	// Authenticated only when both halves survived the round trip.
	if state.Identity == nil || state.Identity.Email == "" || state.Token == "" {
		return
	}

	s.identity = state.Identity
	s.token = state.Token
}

// Login moves the store to Authenticated, overwriting any previous
// session, and persists the new state. It never fails: a persistence
// error only means the session will not survive a restart.
func (s *Store) Login(ctx context.Context, identity model.Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = &identity
	s.token = token

	s.persist(ctx)
	s.log.Info("session started", zap.String("email", identity.Email))
}

// Logout moves the store to Anonymous from any state. Cleanup order:
// reset in-memory state, wipe every storage partition (clean slate, the
// cart included), then notify OnEnd subscribers. Storage failures are
// logged and do not stop the transition.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.token = ""

	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn("failed to clear storage on logout", zap.Error(err))
	}
	s.mu.Unlock()

	s.log.Info("session ended")

	// Outside the lock: subscribers are free to read the store.
	for _, fn := range s.onEnd {
		fn()
	}
}

// Token returns the current bearer token, or "" when Anonymous. The read
// is against in-memory state and never blocks.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns the authenticated identity, if any.
func (s *Store) Identity() (model.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return model.Identity{}, false
	}
	return *s.identity, true
}

// Authenticated reports whether both identity and token are present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil && s.token != ""
}

func (s *Store) persist(ctx context.Context) {
	state := persistedState{
		Identity:      s.identity,
		Token:         s.token,
		Authenticated: s.identity != nil && s.token != "",
	}

	data, err := json.Marshal(state)
	if err != nil {
		s.log.Warn("failed to encode session", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, storage.SessionPartition, data); err != nil {
		s.log.Warn("failed to persist session", zap.Error(err))
	}
}
