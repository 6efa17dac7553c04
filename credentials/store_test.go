package credentials

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = UserProfile{
	ID:        "u1",
	Name:      "Ann",
	Email:     "ann@example.com",
	Role:      "user",
	Avatar:    Avatar{PublicID: "avatars/ann", URL: "https://img.example/ann.png"},
	CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
}

type failingBackend struct {
	readErr, writeErr error
}

func (f failingBackend) Read(context.Context, string) ([]byte, error) { return nil, f.readErr }
func (f failingBackend) Write(context.Context, map[string][]byte) error {
	return f.writeErr
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore(nil, nil)

	_, err := s.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)

	tok, err := s.Token()
	assert.Nil(t, tok)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestStoreSetGetClear(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewStore(backend, nil)

	user := testUser
	require.NoError(t, s.Set(ctx, Credential{Token: "t1", User: &user}))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
	require.NotNil(t, got.User)
	assert.Equal(t, testUser, *got.User)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "t1", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())

	raw, err := backend.Read(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", string(raw))
	_, err = backend.Read(ctx, KeyUserData)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Get(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
	_, err = backend.Read(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.Read(ctx, KeyUserData)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, nil)

	user := testUser
	require.NoError(t, s.Set(ctx, Credential{Token: "t1", User: &user}))
	user.Name = "mutated by caller"

	got, err := s.Get(ctx)
	require.NoError(t, err)
	got.User.Name = "mutated by reader"

	again, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.User.Name)
}

func TestStoreSetWithoutUserDropsProfile(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewStore(backend, nil)

	user := testUser
	require.NoError(t, s.Set(ctx, Credential{Token: "t1", User: &user}))
	require.NoError(t, s.Set(ctx, Credential{Token: "t2"}))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Token)
	assert.Nil(t, got.User)
	_, err = backend.Read(ctx, KeyUserData)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	s := NewStore(nil, nil)
	assert.ErrorIs(t, s.Set(context.Background(), Credential{}), ErrEmptyToken)
}

func TestStoreSetUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, nil)

	assert.ErrorIs(t, s.SetUser(ctx, testUser), ErrNoCredential)

	require.NoError(t, s.Set(ctx, Credential{Token: "t1"}))
	require.NoError(t, s.SetUser(ctx, testUser))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
	assert.Equal(t, "Ann", got.User.Name)
}

func TestStoreSetUserAfterClearKeepsTokenGone(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewStore(backend, nil)

	require.NoError(t, s.Set(ctx, Credential{Token: "t1"}))
	require.NoError(t, s.Clear(ctx))
	assert.ErrorIs(t, s.SetUser(ctx, testUser), ErrNoCredential)

	_, err := backend.Read(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.Read(ctx, KeyUserData)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreClearWinsOverConcurrentSetUser(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewStore(backend, nil)

	for range 200 {
		require.NoError(t, s.Set(ctx, Credential{Token: "t1"}))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SetUser(ctx, testUser)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Clear(ctx))
		}()
		wg.Wait()

		_, err := s.Get(ctx)
		require.ErrorIs(t, err, ErrNoCredential)
		_, err = backend.Read(ctx, KeyAuthToken)
		require.ErrorIs(t, err, ErrNotFound)
	}
}

func TestStoreLoadsFromBackend(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Write(ctx, map[string][]byte{
		KeyAuthToken: []byte("persisted"),
		KeyUserData:  []byte(`{"_id":"u1","name":"Ann","email":"ann@example.com","role":"admin"}`),
	}))

	s := NewStore(backend, nil)
	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Token)
	assert.Equal(t, "admin", got.User.Role)
}

func TestStoreIgnoresCorruptProfile(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Write(ctx, map[string][]byte{
		KeyAuthToken: []byte("persisted"),
		KeyUserData:  []byte(`{not json`),
	}))

	got, err := NewStore(backend, nil).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Token)
	assert.Nil(t, got.User)
}

func TestStoreReload(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewStore(backend, nil)

	_, err := s.Get(ctx)
	require.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, backend.Write(ctx, map[string][]byte{KeyAuthToken: []byte("from-elsewhere")}))
	_, err = s.Get(ctx)
	assert.ErrorIs(t, err, ErrNoCredential, "cached state is served until reload")

	s.Reload()
	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-elsewhere", got.Token)
}

func TestStoreBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend down")

	s := NewStore(failingBackend{readErr: boom}, nil)
	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, boom)

	s = NewStore(failingBackend{readErr: ErrNotFound, writeErr: boom}, nil)
	assert.ErrorIs(t, s.Set(ctx, Credential{Token: "t"}), boom)
	assert.ErrorIs(t, s.Clear(ctx), boom)
	_, err = s.Get(ctx)
	assert.ErrorIs(t, err, ErrNoCredential, "memory state is cleared even when the backend fails")
}

func TestStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			user := testUser
			user.ID = string(rune('a' + i))
			_ = s.Set(ctx, Credential{Token: "tok-" + user.ID, User: &user})
		}()
		go func() {
			defer wg.Done()
			if cred, err := s.Get(ctx); err == nil && cred.User != nil {
				assert.Equal(t, "tok-"+cred.User.ID, cred.Token)
			}
		}()
	}
	wg.Wait()
}
