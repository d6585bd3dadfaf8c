package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/jacksmith/mkt/internal/api"
	"github.com/jacksmith/mkt/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuth returns a canned login result.
type stubAuth struct {
	token string
	user  string
	err   error
	calls int
}

func (s *stubAuth) Login(ctx context.Context, creds api.Credentials) (string, json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return "", nil, s.err
	}
	var user json.RawMessage
	if s.user != "" {
		user = json.RawMessage(s.user)
	}
	return s.token, user, nil
}

// flakyStore fails Set for one key.
type flakyStore struct {
	storage.Store
	failKey string
}

func (f *flakyStore) Set(key, value string) error {
	if key == f.failKey {
		return errors.New("write failed")
	}
	return f.Store.Set(key, value)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func snapshot(t *testing.T, s storage.Store) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, k := range []string{storage.KeyAccessToken, storage.KeyUserData} {
		v, ok, err := s.Get(k)
		require.NoError(t, err)
		if ok {
			out[k] = v
		}
	}
	return out
}

func TestLogin(t *testing.T) {
	t.Run("success persists and exposes session", func(t *testing.T) {
		store := storage.NewMemoryStore()
		p := New(store, &stubAuth{token: "tok", user: `{"id":1,"email":"a@b.test"}`}, quietLogger())

		s, err := p.Login(context.Background(), api.Credentials{Email: "a@b.test", Password: "pw"})
		require.NoError(t, err)

		assert.Equal(t, "tok", s.Token)
		assert.Equal(t, "a@b.test", s.User.Email())
		assert.True(t, p.IsAuthenticated())
		assert.Equal(t, "tok", p.Token())
		assert.Equal(t, map[string]string{
			storage.KeyAccessToken: "tok",
			storage.KeyUserData:    `{"id":1,"email":"a@b.test"}`,
		}, snapshot(t, store))
	})

	malformed := []struct {
		name string
		auth *stubAuth
	}{
		{"missing token", &stubAuth{user: `{"id":1}`}},
		{"missing user", &stubAuth{token: "tok"}},
		{"user not an object", &stubAuth{token: "tok", user: `"bob"`}},
		{"missing both", &stubAuth{}},
	}
	for _, tt := range malformed {
		t.Run(tt.name+" changes nothing", func(t *testing.T) {
			store := storage.NewMemoryStore()
			p := New(store, &stubAuth{token: "old", user: `{"id":0}`}, quietLogger())
			_, err := p.Login(context.Background(), api.Credentials{})
			require.NoError(t, err)

			beforeStore := snapshot(t, store)
			beforeSession := p.Current()

			p.auth = tt.auth
			_, err = p.Login(context.Background(), api.Credentials{})
			assert.ErrorIs(t, err, ErrInvalidCredentials)

			assert.Equal(t, beforeStore, snapshot(t, store))
			assert.Equal(t, beforeSession, p.Current())
		})
	}

	t.Run("malformed response when signed out stays signed out", func(t *testing.T) {
		store := storage.NewMemoryStore()
		p := New(store, &stubAuth{token: "tok"}, quietLogger())

		_, err := p.Login(context.Background(), api.Credentials{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.False(t, p.IsAuthenticated())
		assert.Nil(t, p.Current())
		assert.Empty(t, snapshot(t, store))
	})

	t.Run("authenticator error is returned unchanged", func(t *testing.T) {
		boom := errors.New("network down")
		p := New(storage.NewMemoryStore(), &stubAuth{err: boom}, quietLogger())

		_, err := p.Login(context.Background(), api.Credentials{})
		assert.ErrorIs(t, err, boom)
		assert.False(t, p.IsAuthenticated())
	})

	for _, failKey := range []string{storage.KeyUserData, storage.KeyAccessToken} {
		t.Run("failed write of "+failKey+" rolls back", func(t *testing.T) {
			mem := storage.NewMemoryStore()
			p := New(mem, &stubAuth{token: "old", user: `{"id":0}`}, quietLogger())
			_, err := p.Login(context.Background(), api.Credentials{})
			require.NoError(t, err)
			before := snapshot(t, mem)

			p.store = &flakyStore{Store: mem, failKey: failKey}
			p.auth = &stubAuth{token: "new", user: `{"id":1}`}

			_, err = p.Login(context.Background(), api.Credentials{})
			require.Error(t, err)
			assert.Equal(t, before, snapshot(t, mem))
			assert.Equal(t, "old", p.Token())
		})
	}
}

func TestLogout(t *testing.T) {
	t.Run("clears memory and both keys", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(storage.KeyBackendURL, "https://keep.example.com"))
		p := New(store, &stubAuth{token: "tok", user: `{"id":1}`}, quietLogger())
		_, err := p.Login(context.Background(), api.Credentials{})
		require.NoError(t, err)

		p.Logout()

		assert.False(t, p.IsAuthenticated())
		assert.Nil(t, p.Current())
		assert.Empty(t, snapshot(t, store))
		v, ok, _ := store.Get(storage.KeyBackendURL)
		assert.True(t, ok)
		assert.Equal(t, "https://keep.example.com", v)
	})

	t.Run("logout when signed out is fine", func(t *testing.T) {
		p := New(storage.NewMemoryStore(), &stubAuth{}, quietLogger())
		p.Logout()
		assert.False(t, p.IsAuthenticated())
	})
}

func TestLoad(t *testing.T) {
	t.Run("restores a persisted session across restart", func(t *testing.T) {
		dir := t.TempDir()
		fs, err := storage.Init(dir)
		require.NoError(t, err)
		p := New(fs, &stubAuth{token: "tok", user: `{"id":1,"name":"Acme"}`}, quietLogger())
		_, err = p.Login(context.Background(), api.Credentials{})
		require.NoError(t, err)

		reopened, err := storage.Open(dir)
		require.NoError(t, err)
		fresh := New(reopened, nil, quietLogger())
		require.NoError(t, fresh.Load())

		require.NotNil(t, fresh.Current())
		assert.Equal(t, "tok", fresh.Token())
		assert.Equal(t, "Acme", fresh.Current().User.Name())
	})

	t.Run("empty store is signed out", func(t *testing.T) {
		p := New(storage.NewMemoryStore(), nil, quietLogger())
		require.NoError(t, p.Load())
		assert.False(t, p.IsAuthenticated())
	})

	half := []struct {
		name   string
		values map[string]string
	}{
		{"token without user", map[string]string{storage.KeyAccessToken: "tok"}},
		{"user without token", map[string]string{storage.KeyUserData: `{"id":1}`}},
		{"corrupt user data", map[string]string{storage.KeyAccessToken: "tok", storage.KeyUserData: "{nope"}},
		{"empty token", map[string]string{storage.KeyAccessToken: "", storage.KeyUserData: `{"id":1}`}},
	}
	for _, tt := range half {
		t.Run(tt.name+" is discarded", func(t *testing.T) {
			store := storage.NewMemoryStore()
			for k, v := range tt.values {
				require.NoError(t, store.Set(k, v))
			}
			p := New(store, nil, quietLogger())
			require.NoError(t, p.Load())

			assert.False(t, p.IsAuthenticated())
			assert.Empty(t, snapshot(t, store))
		})
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	p := New(storage.NewMemoryStore(), &stubAuth{token: "tok", user: `{"id":1}`}, quietLogger())
	_, err := p.Login(context.Background(), api.Credentials{})
	require.NoError(t, err)

	s := p.Current()
	s.Token = "mutated"
	assert.Equal(t, "tok", p.Token())
}
