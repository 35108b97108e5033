package translate

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
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPTranslator_Translate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/translate", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var req translateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Hello!", req.Text)
			assert.Equal(t, "hi", req.TargetLanguage)

			_, _ = w.Write([]byte(`{"translated_text":"नमस्ते!"}`))
		}))
		defer srv.Close()

		tr := NewHTTPTranslator(srv.URL, "en", srv.Client(), testLogger())
		out, err := tr.Translate(context.Background(), "Hello!", "hi")
		require.NoError(t, err)
		assert.Equal(t, "नमस्ते!", out)
	})

	t.Run("default language is identity without a round trip", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		tr := NewHTTPTranslator(srv.URL, "en", srv.Client(), testLogger())

		out, err := tr.Translate(context.Background(), "Hello!", "en")
		require.NoError(t, err)
		assert.Equal(t, "Hello!", out)

		out, err = tr.Translate(context.Background(), "Hello!", "")
		require.NoError(t, err)
		assert.Equal(t, "Hello!", out)

		assert.Zero(t, calls.Load())
	})

	t.Run("upstream error body is surfaced", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"model unavailable"}`))
		}))
		defer srv.Close()

		tr := NewHTTPTranslator(srv.URL, "en", srv.Client(), testLogger())
		_, err := tr.Translate(context.Background(), "Hello!", "fr")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model unavailable")
	})

	t.Run("empty translation is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"translated_text":""}`))
		}))
		defer srv.Close()

		tr := NewHTTPTranslator(srv.URL, "en", srv.Client(), testLogger())
		_, err := tr.Translate(context.Background(), "Hello!", "fr")
		assert.Error(t, err)
	})
}
