package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appmetrics "github.com/wander-travel/wander-companion/app/observability/metrics"
	"github.com/wander-travel/wander-companion/internal/types"
)

// Client talks to the recommendation collaborator: nearby points of
// interest for a position, and the fire-and-forget location save.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *appmetrics.AppMetrics
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, metrics *appmetrics.AppMetrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
		metrics: metrics,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Nearby returns the recommended points for a position, nearest first, as
// the backend ordered them.
func (c *Client) Nearby(ctx context.Context, at types.Coordinates) ([]types.Recommendation, error) {
	ctx, span := otel.Tracer("RecommendClient").Start(ctx, "Nearby")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("latitude", at.Latitude),
		attribute.Float64("longitude", at.Longitude),
	)

	if c.metrics != nil {
		c.metrics.RecommendationFetchesTotal.Add(ctx, 1)
	}

	endpoint := fmt.Sprintf("%s/give_user_response_api?latitude=%s&longitude=%s",
		c.baseURL,
		strconv.FormatFloat(at.Latitude, 'f', -1, 64),
		strconv.FormatFloat(at.Longitude, 'f', -1, 64),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendations request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Recommendations request failed")
		return nil, fmt.Errorf("recommendations request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendations response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var parsed errorBody
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			return nil, fmt.Errorf("recommendation service: %s", parsed.Error)
		}
		return nil, fmt.Errorf("recommendation service returned status %d", resp.StatusCode)
	}

	var recs []types.Recommendation
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	c.logger.InfoContext(ctx, "Fetched nearby recommendations", slog.Int("count", len(recs)))
	return recs, nil
}

type saveLocationRequest struct {
	UserID    string  `json:"userId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SaveLocation records the user's last-known position with the backend.
func (c *Client) SaveLocation(ctx context.Context, userID string, at types.Coordinates) error {
	ctx, span := otel.Tracer("RecommendClient").Start(ctx, "SaveLocation")
	defer span.End()

	payload, err := json.Marshal(saveLocationRequest{UserID: userID, Latitude: at.Latitude, Longitude: at.Longitude})
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/save_location", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build save-location request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save-location request failed")
		return fmt.Errorf("save-location request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		var parsed errorBody
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			return fmt.Errorf("save-location: %s", parsed.Error)
		}
		return fmt.Errorf("save-location returned status %d", resp.StatusCode)
	}

	c.logger.DebugContext(ctx, "Saved user location", slog.String("user_id", userID))
	return nil
}
