package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/manhhung3004/Gentsshop/logger"
)

// Store is the only writer of credential state. Reads are served from
// memory after the first load; writes go to the backend under the write lock
// so readers never observe a token without its matching profile.
type Store struct {
	backend Backend
	logger  logger.Logger

	mu     sync.RWMutex
	loaded bool
	cred   *Credential
}

var _ oauth2.TokenSource = (*Store)(nil)

// NewStore creates a store over backend. A nil backend keeps state in memory.
func NewStore(backend Backend, log logger.Logger) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{backend: backend, logger: log}
}

// Get returns a copy of the current credential or ErrNoCredential.
func (s *Store) Get(ctx context.Context) (Credential, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.current()
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err := s.load(ctx); err != nil {
			return Credential{}, err
		}
	}
	return s.current()
}

// Token implements oauth2.TokenSource for the bearer transform.
func (s *Store) Token() (*oauth2.Token, error) {
	cred, err := s.Get(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: cred.Token, TokenType: "Bearer"}, nil
}

// Set replaces token and profile together. A nil profile removes any
// cached one.
func (s *Store) Set(ctx context.Context, cred Credential) error {
	if cred.Token == "" {
		return ErrEmptyToken
	}

	values := map[string][]byte{KeyAuthToken: []byte(cred.Token), KeyUserData: nil}
	if cred.User != nil {
		raw, err := json.Marshal(cred.User)
		if err != nil {
			return fmt.Errorf("encode user profile: %w", err)
		}
		values[KeyUserData] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Write(ctx, values); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	c := cred.clone()
	s.cred, s.loaded = &c, true
	return nil
}

// SetUser refreshes the cached profile, keeping the token. It returns
// ErrNoCredential when the credential was cleared before the profile
// arrived, and never writes the token back.
func (s *Store) SetUser(ctx context.Context, user UserProfile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.load(ctx); err != nil {
			return err
		}
	}
	if s.cred == nil {
		return ErrNoCredential
	}

	if err := s.backend.Write(ctx, map[string][]byte{KeyUserData: raw}); err != nil {
		return fmt.Errorf("save user profile: %w", err)
	}
	u := user
	s.cred.User = &u
	return nil
}

// Clear removes token and profile. Memory state is dropped even when the
// backend fails, so no further request carries the stale token.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred, s.loaded = nil, true
	if err := s.backend.Write(ctx, map[string][]byte{KeyAuthToken: nil, KeyUserData: nil}); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.logger.Debug().Msg("Credential cleared")
	return nil
}

// Reload discards the in-memory copy so the next read hits the backend.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded, s.cred = false, nil
}

func (s *Store) current() (Credential, error) {
	if s.cred == nil {
		return Credential{}, ErrNoCredential
	}
	return s.cred.clone(), nil
}

// load reads both keys; the caller holds the write lock.
func (s *Store) load(ctx context.Context) error {
	token, err := s.backend.Read(ctx, KeyAuthToken)
	switch {
	case errors.Is(err, ErrNotFound):
		s.cred, s.loaded = nil, true
		return nil
	case err != nil:
		return fmt.Errorf("load credential: %w", err)
	}

	cred := &Credential{Token: string(token)}
	raw, err := s.backend.Read(ctx, KeyUserData)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return fmt.Errorf("load user profile: %w", err)
	default:
		var user UserProfile
		if err := json.Unmarshal(raw, &user); err != nil {
			s.logger.Warn().Err(err).Msg("Ignoring unreadable cached user profile")
		} else {
			cred.User = &user
		}
	}

	if cred.Token == "" {
		cred = nil
	}
	s.cred, s.loaded = cred, true
	return nil
}
