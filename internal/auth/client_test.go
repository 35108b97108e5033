package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wander-travel/wander-companion/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Login(t *testing.T) {
	t.Run("success returns the backend user id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/login", r.URL.Path)

			var req types.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "wanderer", req.Username)

			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
			_, _ = w.Write([]byte(`{"message":"Login successful","userId":"user-42"}`))
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, srv.Client(), testLogger())
		require.NoError(t, err)

		resp, err := c.Login(context.Background(), types.LoginRequest{
			Username: "wanderer",
			Password: "secret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-42", resp.UserID)
	})

	t.Run("invalid payload never reaches the backend", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, srv.Client(), testLogger())
		require.NoError(t, err)

		_, err = c.Login(context.Background(), types.LoginRequest{Username: "", Password: ""})
		require.Error(t, err)
		assert.Zero(t, calls.Load())
	})

	t.Run("bad credentials surface the backend error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid username or password"}`))
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, srv.Client(), testLogger())
		require.NoError(t, err)

		_, err = c.Login(context.Background(), types.LoginRequest{Username: "wanderer", Password: "wrong-pass"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid username or password")
	})
}

func TestClient_Register(t *testing.T) {
	t.Run("success accepts 201", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/register", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Registration successful","userId":"user-43"}`))
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, srv.Client(), testLogger())
		require.NoError(t, err)

		resp, err := c.Register(context.Background(), types.RegisterRequest{
			Username: "newuser",
			Email:    "new@example.com",
			Password: "secret-pass",
			Name:     "New User",
			Phone:    "+911234567890",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-43", resp.UserID)
	})

	t.Run("validation rejects malformed email and short password", func(t *testing.T) {
		c, err := NewClient("http://unused", nil, testLogger())
		require.NoError(t, err)

		_, err = c.Register(context.Background(), types.RegisterRequest{
			Username: "newuser",
			Email:    "not-an-email",
			Password: "secret-pass",
			Name:     "New User",
			Phone:    "+911234567890",
		})
		assert.Error(t, err)

		_, err = c.Register(context.Background(), types.RegisterRequest{
			Username: "newuser",
			Email:    "new@example.com",
			Password: "shrt",
			Name:     "New User",
			Phone:    "+911234567890",
		})
		assert.Error(t, err)
	})
}

func TestClient_SessionCookiePersistsAcrossCalls(t *testing.T) {
	var sawCookie atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
			_, _ = w.Write([]byte(`{"message":"ok","userId":"user-42"}`))
		default:
			if c, err := r.Cookie("session"); err == nil && c.Value == "abc" {
				sawCookie.Store(true)
			}
			_, _ = w.Write([]byte(`{"message":"ok","userId":"user-42"}`))
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client(), testLogger())
	require.NoError(t, err)

	_, err = c.Login(context.Background(), types.LoginRequest{Username: "wanderer", Password: "secret-pass"})
	require.NoError(t, err)

	_, err = c.post(context.Background(), "/whoami", struct{}{})
	require.NoError(t, err)
	assert.True(t, sawCookie.Load(), "the jar must carry the backend's session cookie")
}
