package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal marketplace backend.
type fakeBackend struct {
	*httptest.Server
	loginBody string

	mu         sync.Mutex
	lastAuth   string
	lastReqID  string
	loginCreds Credentials
}

func (fb *fakeBackend) seen() (auth, reqID string, creds Credentials) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.lastAuth, fb.lastReqID, fb.loginCreds
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		loginBody: `{"token":"tok-123","user":{"id":1,"name":"Acme"}}`,
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fb.mu.Lock()
			fb.lastAuth = req.Header.Get("Authorization")
			fb.lastReqID = req.Header.Get("X-Request-ID")
			fb.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var creds Credentials
		_ = json.NewDecoder(req.Body).Decode(&creds)
		fb.mu.Lock()
		fb.loginCreds = creds
		fb.mu.Unlock()
		w.Write([]byte(fb.loginBody))
	})
	r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"data":[{"id":"p1","name":"Tea","image":"/uploads/tea.png"},{"id":"p2","name":"Coffee"}]}`))
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		if id != "p1" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Product not found"}`))
			return
		}
		w.Write([]byte(`{"data":{"id":"p1","name":"Tea"}}`))
	})
	r.Get("/orders", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	})
	r.Get("/customers", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})
	r.Get("/checkout-settings", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"currency":"EUR","minimumOrder":10}`))
	})
	r.Get("/supplier/profile", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"data":{"businessName":"Acme","logo":"/uploads/logo.png"}}`))
	})
	r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-req.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	fb.Server = httptest.NewServer(r)
	t.Cleanup(fb.Close)
	return fb
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(base func() string, token func() string) *Client {
	return New(Options{BaseURL: base, Token: token, Logger: quietLogger()})
}

func TestLogin(t *testing.T) {
	t.Run("returns token and user", func(t *testing.T) {
		fb := newFakeBackend(t)
		c := newTestClient(func() string { return fb.URL }, nil)

		tok, user, err := c.Login(context.Background(), Credentials{Email: "a@b.test", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "tok-123", tok)
		assert.JSONEq(t, `{"id":1,"name":"Acme"}`, string(user))
		_, _, creds := fb.seen()
		assert.Equal(t, "a@b.test", creds.Email)
		assert.Equal(t, "pw", creds.Password)
	})

	t.Run("uses base URL current at call time", func(t *testing.T) {
		fb := newFakeBackend(t)
		base := "http://127.0.0.1:1"
		c := newTestClient(func() string { return base }, nil)

		base = fb.URL + "/"
		_, _, err := c.Login(context.Background(), Credentials{})
		require.NoError(t, err)
	})

	t.Run("no base URL", func(t *testing.T) {
		c := newTestClient(func() string { return "  " }, nil)
		_, _, err := c.Login(context.Background(), Credentials{})
		assert.ErrorIs(t, err, ErrNoBackend)
	})
}

func TestParseLogin(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		token   string
		wantErr bool
	}{
		{"flat", `{"token":"a","user":{"id":1}}`, "a", false},
		{"camel access token", `{"accessToken":"b","user":{"id":1}}`, "b", false},
		{"snake access token", `{"access_token":"c","user":{"id":1}}`, "c", false},
		{"data envelope", `{"data":{"token":"d","user":{"id":1}}}`, "d", false},
		{"missing token", `{"user":{"id":1}}`, "", true},
		{"empty token", `{"token":"","user":{"id":1}}`, "", true},
		{"missing user", `{"token":"e"}`, "", true},
		{"user not object", `{"token":"e","user":"bob"}`, "", true},
		{"user null", `{"token":"e","user":null}`, "", true},
		{"missing both", `{"success":false}`, "", true},
		{"not json", `Unauthorized`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, user, err := parseLogin([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				assert.Empty(t, tok)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, tok)
			assert.NotNil(t, user)
		})
	}
}

func TestList(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestClient(func() string { return fb.URL }, func() string { return "tok-123" })

	t.Run("sends bearer token and request id", func(t *testing.T) {
		records, err := c.List(context.Background(), Products)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "p1", records[0].ID())
		auth, reqID, _ := fb.seen()
		assert.Equal(t, "Bearer tok-123", auth)
		assert.Len(t, reqID, 36)
	})

	t.Run("unauthorized is recognisable", func(t *testing.T) {
		_, err := c.List(context.Background(), Orders)
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.Contains(t, err.Error(), "token expired")
	})

	t.Run("non-JSON error body is kept", func(t *testing.T) {
		_, err := c.List(context.Background(), Customers)
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
		assert.Equal(t, "<html>bad gateway</html>", apiErr.Message)
		assert.NotEmpty(t, apiErr.RequestID)
	})

	t.Run("unknown resource", func(t *testing.T) {
		_, err := c.List(context.Background(), "widgets")
		var unk *UnknownResourceError
		require.True(t, errors.As(err, &unk))
		assert.Equal(t, "widgets", unk.Name)
	})
}

func TestGet(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestClient(func() string { return fb.URL }, nil)

	t.Run("found", func(t *testing.T) {
		r, err := c.Get(context.Background(), Products, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Tea", r.Title())
		auth, _, _ := fb.seen()
		assert.Empty(t, auth)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.Get(context.Background(), Products, "nope")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "backend returned 404: Product not found", err.Error())
	})
}

func TestSingleObjects(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestClient(func() string { return fb.URL }, nil)

	settings, err := c.CheckoutSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "EUR", settings.Get("currency").String())

	profile, err := c.SupplierProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/uploads/logo.png", profile.ImagePath())
}

func TestCancellation(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestClient(func() string { return fb.URL }, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.do(ctx, http.MethodGet, "/slow", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRateLimit(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(Options{BaseURL: func() string { return fb.URL }, RateLimit: 1, Logger: quietLogger()})

	// Burst of 1: the second call must wait for a token, so a short deadline fails.
	_, err := c.List(context.Background(), Products)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = c.List(ctx, Products)
	require.Error(t, err)
}

func TestResourceNames(t *testing.T) {
	assert.Equal(t, []string{"collections", "customers", "inventory", "orders", "products", "services", "taxes"}, ResourceNames())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "backend returned 500 Internal Server Error", newError(500, []byte(`{}`), "").Error())
	assert.Equal(t, "backend returned 400: bad sku", newError(400, []byte(`{"error":{"message":"bad sku"}}`), "").Error())
}
