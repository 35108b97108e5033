package wiki

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

// Client fetches open-ended monument detail text from the extraction
// collaborator (GET /extract_more_info). Identical concurrent fetches are
// collapsed into one upstream call and results are cached for a short TTL,
// so a double-triggered "tell me more" costs one request.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	cache   *gocache.Cache
	group   singleflight.Group
}

type extractResponse struct {
	ExtractedText string `json:"extracted_text"`
	Error         string `json:"error"`
}

func NewClient(baseURL string, httpClient *http.Client, cacheTTL time.Duration, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// ExtractMoreInfo returns the extracted detail text for a monument.
// Upstream failures surface the collaborator's error body when present.
func (c *Client) ExtractMoreInfo(ctx context.Context, monumentName string) (string, error) {
	ctx, span := otel.Tracer("WikiClient").Start(ctx, "ExtractMoreInfo")
	defer span.End()
	span.SetAttributes(attribute.String("monument", monumentName))

	key := strings.ToLower(strings.TrimSpace(monumentName))
	if key == "" {
		return "", fmt.Errorf("monument name must not be empty")
	}

	if cached, ok := c.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached.(string), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		text, err := c.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		c.cache.SetDefault(key, text)
		return text, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Extraction failed")
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetch(ctx context.Context, monumentName string) (string, error) {
	endpoint := fmt.Sprintf("%s/extract_more_info?monument_name=%s", c.baseURL, url.QueryEscape(monumentName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build extraction request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read extraction response: %w", err)
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to decode extraction response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("%s", parsed.Error)
		}
		return "", fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}
	if parsed.ExtractedText == "" {
		return "", fmt.Errorf("extraction service returned no text for %q", monumentName)
	}

	c.logger.DebugContext(ctx, "Fetched monument details",
		slog.String("monument", monumentName), slog.Int("length", len(parsed.ExtractedText)))
	return parsed.ExtractedText, nil
}
