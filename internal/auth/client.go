package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/wander-travel/wander-companion/internal/types"
)

// Client handles login and registration against the backend. Session
// identity is cookie-based; the client's jar carries whatever the backend
// sets, their semantics stay server-side.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	validate *validator.Validate
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		logger:   logger,
		validate: validator.New(),
	}, nil
}

type errorBody struct {
	Error string `json:"error"`
}

// Login authenticates and returns the backend's user ID.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthClient").Start(ctx, "Login")
	defer span.End()

	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	resp, err := c.post(ctx, "/login", req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login failed")
		return nil, err
	}

	c.logger.InfoContext(ctx, "Logged in", slog.String("user_id", resp.UserID))
	return resp, nil
}

// Register creates an account and returns the backend's user ID.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthClient").Start(ctx, "Register")
	defer span.End()

	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration request: %w", err)
	}

	resp, err := c.post(ctx, "/register", req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		return nil, err
	}

	c.logger.InfoContext(ctx, "Registered", slog.String("user_id", resp.UserID))
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*types.AuthResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var parsed errorBody
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error != "" {
			return nil, fmt.Errorf("auth service: %s", parsed.Error)
		}
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var out types.AuthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	return &out, nil
}
