package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/wander-travel/wander-companion/internal/types"
)

// Options mirror the single-shot position query knobs of the original
// geolocation collaborator.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
}

// Locator answers a single-shot "where is the user" query.
type Locator interface {
	Locate(ctx context.Context, opts Options) (types.Coordinates, error)
}

// StaticLocator returns fixed coordinates, used as the configured fallback
// when no live position source is available.
type StaticLocator struct {
	At types.Coordinates
}

var _ Locator = (*StaticLocator)(nil)

func (s *StaticLocator) Locate(context.Context, Options) (types.Coordinates, error) {
	return s.At, nil
}

// HTTPLocator queries a position lookup service expected to return
// {"latitude": .., "longitude": ..}.
type HTTPLocator struct {
	URL    string
	HTTP   *http.Client
	Logger *slog.Logger
}

var _ Locator = (*HTTPLocator)(nil)

func (h *HTTPLocator) Locate(ctx context.Context, opts Options) (types.Coordinates, error) {
	ctx, span := otel.Tracer("Locator").Start(ctx, "Locate")
	defer span.End()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	client := h.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geolocation request failed")
		return types.Coordinates{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Coordinates{}, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("failed to read geolocation response: %w", err)
	}

	var at types.Coordinates
	if err := json.Unmarshal(body, &at); err != nil {
		return types.Coordinates{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if h.Logger != nil {
		h.Logger.DebugContext(ctx, "Located user",
			slog.Float64("latitude", at.Latitude), slog.Float64("longitude", at.Longitude))
	}
	return at, nil
}
