package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wander-travel/wander-companion/internal/types"
)

func TestStaticLocator(t *testing.T) {
	l := &StaticLocator{At: types.Coordinates{Latitude: 18.9220, Longitude: 72.8347}}

	at, err := l.Locate(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 18.9220, at.Latitude)
	assert.Equal(t, 72.8347, at.Longitude)
}

func TestHTTPLocator_Locate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"latitude":28.6129,"longitude":77.2295}`))
		}))
		defer srv.Close()

		l := &HTTPLocator{URL: srv.URL, HTTP: srv.Client()}
		at, err := l.Locate(context.Background(), Options{})
		require.NoError(t, err)
		assert.Equal(t, 28.6129, at.Latitude)
		assert.Equal(t, 77.2295, at.Longitude)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		l := &HTTPLocator{URL: srv.URL, HTTP: srv.Client()}
		_, err := l.Locate(context.Background(), Options{})
		assert.Error(t, err)
	})

	t.Run("timeout aborts a slow lookup", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		l := &HTTPLocator{URL: srv.URL, HTTP: srv.Client()}
		start := time.Now()
		_, err := l.Locate(context.Background(), Options{Timeout: 50 * time.Millisecond})
		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})
}
