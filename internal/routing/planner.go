package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appmetrics "github.com/wander-travel/wander-companion/app/observability/metrics"
	"github.com/wander-travel/wander-companion/internal/types"
)

// ErrSuperseded is returned to a Plan caller whose request was replaced by
// a newer one before it finished.
var ErrSuperseded = errors.New("route request superseded by a newer one")

// ErrNoWaypoints is returned when a request has fewer than two stops.
var ErrNoWaypoints = errors.New("route request needs at least two waypoints")

// Router computes a route for an ordered waypoint sequence.
type Router interface {
	Route(ctx context.Context, req types.RouteRequest) (*types.Route, error)
}

// Planner enforces the stale-route invariant: at most one active route per
// session. Issuing a new plan cancels the in-flight request and clears the
// previously rendered route before the new one is drawn.
type Planner struct {
	router  Router
	logger  *slog.Logger
	metrics *appmetrics.AppMetrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	gen     int
	current *types.Route
}

func NewPlanner(router Router, logger *slog.Logger, metrics *appmetrics.AppMetrics) *Planner {
	return &Planner{router: router, logger: logger, metrics: metrics}
}

// Current returns the most recently completed route, or nil when none is
// rendered.
func (p *Planner) Current() *types.Route {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Clear removes the rendered route and cancels any in-flight request.
func (p *Planner) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.current = nil
	p.gen++
}

// Plan recomputes the route whenever the location or the recommendation
// list changes. The previous route is cleared before the new request goes
// out; a caller whose request got replaced mid-flight receives
// ErrSuperseded.
func (p *Planner) Plan(ctx context.Context, req types.RouteRequest) (*types.Route, error) {
	if len(req.Waypoints) < 2 {
		return nil, ErrNoWaypoints
	}

	ctx, span := otel.Tracer("RoutePlanner").Start(ctx, "Plan")
	defer span.End()
	span.SetAttributes(
		attribute.Int("waypoints", len(req.Waypoints)),
		attribute.String("profile", req.Profile),
	)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.current = nil
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RoutePlansTotal.Add(ctx, 1)
	}

	route, err := p.router.Route(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.RoutePlanErrorsTotal.Add(context.WithoutCancel(ctx), 1)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Route computation failed")
		p.logger.WarnContext(context.WithoutCancel(ctx), "Route computation failed", slog.Any("error", err))
		return nil, err
	}
	p.current = route
	p.cancel = nil
	return route, nil
}

// OSRMRouter calls an OSRM-compatible routing service
// (GET /route/v1/{profile}/{lon,lat;lon,lat;...}).
type OSRMRouter struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ Router = (*OSRMRouter)(nil)

func NewOSRMRouter(baseURL string, httpClient *http.Client, logger *slog.Logger) *OSRMRouter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &OSRMRouter{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
	Message string `json:"message"`
}

func (r *OSRMRouter) Route(ctx context.Context, req types.RouteRequest) (*types.Route, error) {
	if len(req.Waypoints) < 2 {
		return nil, ErrNoWaypoints
	}
	profile := req.Profile
	if profile == "" {
		profile = "driving"
	}

	coords := make([]string, len(req.Waypoints))
	for i, wp := range req.Waypoints {
		coords[i] = strconv.FormatFloat(wp.At.Longitude, 'f', 6, 64) + "," +
			strconv.FormatFloat(wp.At.Latitude, 'f', 6, 64)
	}
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?overview=full", r.baseURL, profile, strings.Join(coords, ";"))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build route request: %w", err)
	}

	resp, err := r.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read route response: %w", err)
	}

	var parsed osrmResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode route response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		if parsed.Message != "" {
			return nil, fmt.Errorf("routing service: %s", parsed.Message)
		}
		return nil, fmt.Errorf("routing service returned code %q with %d routes", parsed.Code, len(parsed.Routes))
	}

	best := parsed.Routes[0]
	return &types.Route{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Geometry:        best.Geometry,
	}, nil
}
