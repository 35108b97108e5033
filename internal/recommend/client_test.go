package recommend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wander-travel/wander-companion/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Nearby(t *testing.T) {
	t.Run("success preserves backend ordering", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/give_user_response_api", r.URL.Path)
			assert.Equal(t, "28.6129", r.URL.Query().Get("latitude"))
			assert.Equal(t, "77.2295", r.URL.Query().Get("longitude"))
			_, _ = w.Write([]byte(`[
				{"name":"India Gate","type":"monument","city":"Delhi","description":"A war memorial.","latitude":28.6129,"longitude":77.2295,"distance":0.1},
				{"name":"Qutub Minar","type":"monument","city":"Delhi","description":"A minaret.","latitude":28.5245,"longitude":77.1855,"distance":10.9}
			]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client(), testLogger(), nil)
		recs, err := c.Nearby(context.Background(), types.Coordinates{Latitude: 28.6129, Longitude: 77.2295})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "India Gate", recs[0].Name)
		assert.Equal(t, "Qutub Minar", recs[1].Name)
		assert.Equal(t, 10.9, recs[1].DistanceKm)
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client(), testLogger(), nil)
		recs, err := c.Nearby(context.Background(), types.Coordinates{})
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("upstream error body is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"recommendation model offline"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client(), testLogger(), nil)
		_, err := c.Nearby(context.Background(), types.Coordinates{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recommendation model offline")
	})
}

func TestClient_SaveLocation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/save_location", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var req saveLocationRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "user-42", req.UserID)
			assert.Equal(t, 28.6129, req.Latitude)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client(), testLogger(), nil)
		err := c.SaveLocation(context.Background(), "user-42", types.Coordinates{Latitude: 28.6129, Longitude: 77.2295})
		assert.NoError(t, err)
	})

	t.Run("failure surfaces upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"not logged in"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client(), testLogger(), nil)
		err := c.SaveLocation(context.Background(), "user-42", types.Coordinates{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not logged in")
	})
}
