//go:generate mockgen -source ./store.go -destination=./mocks/store.go -package=mock_session
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ecom-labs/storefront/internal/api"
	"github.com/ecom-labs/storefront/internal/metrics"
	"github.com/ecom-labs/storefront/internal/model"
	"github.com/ecom-labs/storefront/internal/storage"
)

// AuthAPI is the slice of the HTTP client the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error)
	ResetUnauthorized()
}

// Connection is the live realtime subscription torn down on logout.
type Connection interface {
	Disconnect() error
}

// State is a snapshot of the session. Authenticated always equals
// (User != nil && Token != ""). Loading and Err are transient and are
// never persisted.
type State struct {
	User          *model.User
	Token         string
	Authenticated bool
	Loading       bool
	Err           string
}

// persistedState is the subset of State that survives a restart.
type persistedState struct {
	User          *model.User `json:"user"`
	Token         string      `json:"token"`
	Authenticated bool        `json:"authenticated"`
}

// Store holds the authenticated-session state machine: anonymous,
// authenticating, authenticated, plus a transient error field that
// leaves the underlying session untouched.
//
// Transitions are individually atomic (one mutex) but their ordering is
// not guarded: a logout racing an in-flight login resolves to whichever
// finishes last. That race is accepted, not prevented.
type Store struct {
	api      AuthAPI
	store    storage.Store
	conn     Connection
	logger   *zap.Logger
	demoMode bool

	mu    sync.Mutex
	state State
}

type Option func(*Store)

// WithDemoMode lets a login that failed because the backend is
// unreachable fabricate a local offline session. Development
// convenience only; never enable in production.
func WithDemoMode() Option {
	return func(s *Store) { s.demoMode = true }
}

// New builds the store and rehydrates user/token/authenticated from
// durable storage. Loading and Err always start false/empty no matter
// what was persisted.
func New(authAPI AuthAPI, store storage.Store, conn Connection, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		api:    authAPI,
		store:  store,
		conn:   conn,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	raw, err := s.store.Get(storage.KeySession)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("failed to read persisted session", zap.Error(err))
		}
		return
	}

	var persisted persistedState
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		s.logger.Warn("discarding unreadable persisted session", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.state.User = persisted.User
	s.state.Token = persisted.Token
	s.state.Authenticated = persisted.User != nil && persisted.Token != ""
	s.mu.Unlock()
}

// State returns a copy of the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login authenticates against the backend. On success the session is
// persisted and the full auth payload returned. On failure the prior
// session (in memory and on disk) is left intact, the error field is
// populated with a displayable message, and the failure is returned.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	s.setLoading()

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		if s.demoMode && errors.Is(err, api.ErrNetworkUnavailable) {
			s.logger.Warn("backend unreachable, falling back to offline demo session")
			metrics.LoginsTotal.WithLabelValues("demo").Inc()
			return s.establish(demoResponse(creds))
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.setError(displayMessage(err))
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.establish(resp)
}

// Register has the same contract as Login against the registration
// endpoint.
func (s *Store) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	s.setLoading()

	resp, err := s.api.Register(ctx, reg)
	if err != nil {
		s.setError(displayMessage(err))
		return nil, err
	}

	return s.establish(resp)
}

// Logout disconnects the realtime subscription, clears durable storage
// and resets the session to anonymous. Idempotent: calling it from the
// anonymous state is a no-op with the same effects.
func (s *Store) Logout() {
	if err := s.conn.Disconnect(); err != nil {
		s.logger.Warn("failed to disconnect realtime connection", zap.Error(err))
	}

	for _, key := range []string{storage.KeyToken, storage.KeyUser, storage.KeySession} {
		if err := s.store.Delete(key); err != nil {
			s.logger.Warn("failed to clear persisted session key",
				zap.String("key", key), zap.Error(err))
		}
	}

	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	s.logger.Info("session cleared")
}

// ClearError clears only the error field.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Err = ""
	s.mu.Unlock()
}

func (s *Store) setLoading() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Err = ""
	s.mu.Unlock()
}

func (s *Store) setError(message string) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Err = message
	s.mu.Unlock()
}

// establish persists the session and moves to authenticated. The three
// writes are last-write-wins with no transaction across them; a crash
// in between leaves a repairable inconsistency, acceptable here.
func (s *Store) establish(resp *model.AuthResponse) (*model.AuthResponse, error) {
	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		s.setError("failed to store session")
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	sessionJSON, err := json.Marshal(persistedState{
		User:          resp.User,
		Token:         resp.Token,
		Authenticated: true,
	})
	if err != nil {
		s.setError("failed to store session")
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.store.Set(storage.KeyToken, resp.Token); err != nil {
		s.setError("failed to store session")
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.store.Set(storage.KeyUser, string(userJSON)); err != nil {
		s.setError("failed to store session")
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}
	if err := s.store.Set(storage.KeySession, string(sessionJSON)); err != nil {
		s.setError("failed to store session")
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.state = State{
		User:          resp.User,
		Token:         resp.Token,
		Authenticated: true,
	}
	s.mu.Unlock()

	// A fresh session re-arms the one-shot 401 handling.
	s.api.ResetUnauthorized()

	s.logger.Info("session established", zap.String("user_id", resp.User.ID))
	return resp, nil
}

// displayMessage turns a failure into text fit for an inline
// notification: the backend's message when there is one, otherwise a
// fallback naming what went wrong.
func displayMessage(err error) string {
	if apiErr, ok := api.AsAPIError(err); ok {
		return apiErr.Message
	}
	if errors.Is(err, api.ErrNetworkUnavailable) {
		return "unable to reach the server"
	}
	return err.Error()
}

func demoResponse(creds model.Credentials) *model.AuthResponse {
	return &model.AuthResponse{
		User: &model.User{
			ID:    "demo",
			Email: creds.Email,
			Name:  "Demo User",
			Role:  "customer",
		},
		Token: "demo-token",
	}
}
