// Package session drives the credential lifecycle: it signs users in and
// out through the auth endpoints and keeps the credential store in step.
package session

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/manhhung3004/Gentsshop/api"
	"github.com/manhhung3004/Gentsshop/credentials"
	"github.com/manhhung3004/Gentsshop/httpclient"
	"github.com/manhhung3004/Gentsshop/logger"
	"github.com/manhhung3004/Gentsshop/resilience"
)

const loadUserKey = "load-user"

// Manager coordinates auth calls with the credential store.
type Manager struct {
	auth   *api.Auth
	store  *credentials.Store
	logger logger.Logger
	retry  []resilience.Option
	sfg    singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithRetry retries profile loads, which are safe to repeat. Only network
// failures and 5xx answers are retried. Without it a load is tried once.
func WithRetry(opts ...resilience.Option) Option {
	return func(m *Manager) {
		m.retry = append([]resilience.Option{resilience.WithRetryIf(httpclient.Retryable)}, opts...)
	}
}

// NewManager creates a manager over the auth module and store.
func NewManager(auth *api.Auth, store *credentials.Store, log logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{auth: auth, store: store, logger: log, retry: []resilience.Option{resilience.WithMaxAttempts(1)}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login signs in and stores the issued credential.
func (m *Manager) Login(ctx context.Context, email, password string) (*api.User, error) {
	res, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.save(ctx, res, "Signed in")
}

// Signup registers an account and signs it in.
func (m *Manager) Signup(ctx context.Context, req api.SignupRequest) (*api.User, error) {
	res, err := m.auth.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.save(ctx, res, "Account created")
}

// UpdatePassword changes the password and stores the reissued token.
func (m *Manager) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	res, err := m.auth.UpdatePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return err
	}
	_, err = m.save(ctx, res, "Password updated")
	return err
}

// ResetPassword completes a reset and signs the user in.
func (m *Manager) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*api.User, error) {
	res, err := m.auth.ResetPassword(ctx, token, password, confirmPassword)
	if err != nil {
		return nil, err
	}
	return m.save(ctx, res, "Password reset")
}

// Logout ends the server session and clears the local credential. The local
// credential is cleared even when the server call fails; an expired session
// (401) is not reported as an error.
func (m *Manager) Logout(ctx context.Context) error {
	remoteErr := m.auth.Logout(ctx)
	if errors.Is(remoteErr, httpclient.ErrUnauthorized) {
		remoteErr = nil
	}
	if remoteErr != nil {
		m.logger.Warn().Err(remoteErr).Msg("Server logout failed, clearing local credential")
	}

	if err := m.store.Clear(ctx); err != nil {
		return errors.Join(remoteErr, err)
	}
	m.logger.Info().Msg("Signed out")
	return remoteErr
}

// LoadUser refreshes the cached profile from the server. Concurrent calls
// share one request, which is not tied to any single caller's cancellation;
// a caller whose ctx ends stops waiting and gets ctx.Err().
func (m *Manager) LoadUser(ctx context.Context) (*api.User, error) {
	if _, err := m.store.Get(ctx); err != nil {
		return nil, err
	}

	shared := context.WithoutCancel(ctx)
	ch := m.sfg.DoChan(loadUserKey, func() (any, error) {
		user, err := resilience.Retry(shared, m.auth.LoadUser, m.retry...)
		if err != nil {
			return nil, err
		}
		if err := m.store.SetUser(shared, *user); err != nil {
			return nil, err
		}
		return user, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	user := *res.Val.(*api.User)
	m.logger.Debug().Bool("shared", res.Shared).Str("user_id", user.ID).Msg("Profile loaded")
	return &user, nil
}

// Current returns the stored credential without a network call.
func (m *Manager) Current(ctx context.Context) (credentials.Credential, error) {
	return m.store.Get(ctx)
}

// Authenticated reports whether a credential is stored.
func (m *Manager) Authenticated(ctx context.Context) bool {
	_, err := m.store.Get(ctx)
	return err == nil
}

// HasRole reports whether the cached profile has one of roles.
func (m *Manager) HasRole(ctx context.Context, roles ...string) bool {
	cred, err := m.store.Get(ctx)
	if err != nil || cred.User == nil {
		return false
	}
	return api.HasPermission(cred.User.Role, roles...)
}

func (m *Manager) save(ctx context.Context, res *api.AuthResult, msg string) (*api.User, error) {
	if err := m.store.Set(ctx, res.Credential()); err != nil {
		return nil, err
	}
	m.logger.Info().Str("user_id", res.User.ID).Str("role", res.User.Role).Msg(msg)
	user := res.User
	return &user, nil
}
