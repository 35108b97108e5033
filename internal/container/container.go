package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	appmetrics "github.com/wander-travel/wander-companion/app/observability/metrics"
	"github.com/wander-travel/wander-companion/config"
	"github.com/wander-travel/wander-companion/internal/assistant"
	"github.com/wander-travel/wander-companion/internal/auth"
	"github.com/wander-travel/wander-companion/internal/geo"
	"github.com/wander-travel/wander-companion/internal/recommend"
	"github.com/wander-travel/wander-companion/internal/routing"
	"github.com/wander-travel/wander-companion/internal/speech"
	"github.com/wander-travel/wander-companion/internal/translate"
	"github.com/wander-travel/wander-companion/internal/types"
	"github.com/wander-travel/wander-companion/internal/wiki"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *appmetrics.AppMetrics

	Lexicon    *assistant.Lexicon
	Translator translate.Translator
	Wiki       *wiki.Client
	Recommend  *recommend.Client
	Auth       *auth.Client
	Locator    geo.Locator
	Speech     *speech.Controller
	Planner    *routing.Planner
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	appmetrics.InitAppMetrics()
	m := appmetrics.Get()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	// One client, one jar: the auth collaborator's session cookie rides
	// along on every backend call.
	httpClient := &http.Client{
		Timeout: cfg.Collaborators.Timeout,
		Jar:     jar,
	}

	var translator translate.Translator
	switch cfg.Assistant.Translator {
	case "gemini":
		translator, err = translate.NewGeminiTranslator(ctx, cfg.Assistant.DefaultLanguage, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini translator: %w", err)
		}
	default:
		translator = translate.NewHTTPTranslator(cfg.Collaborators.BackendURL, cfg.Assistant.DefaultLanguage, httpClient, logger)
	}

	wikiClient := wiki.NewClient(cfg.Collaborators.BackendURL, httpClient, cfg.Assistant.DetailCacheTTL, logger)
	recommendClient := recommend.NewClient(cfg.Collaborators.BackendURL, httpClient, logger, m)
	authClient, err := auth.NewClient(cfg.Collaborators.BackendURL, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth client: %w", err)
	}

	var locator geo.Locator
	if cfg.Collaborators.GeolocURL != "" {
		locator = &geo.HTTPLocator{URL: cfg.Collaborators.GeolocURL, HTTP: httpClient, Logger: logger}
	} else {
		locator = &geo.StaticLocator{At: types.Coordinates{
			Latitude:  cfg.Location.FallbackLatitude,
			Longitude: cfg.Location.FallbackLongitude,
		}}
	}

	var synth speech.Synthesizer
	if cfg.Speech.Enabled && cfg.Speech.PlayerCommand != "" {
		synth = speech.NewCommandSynthesizer(cfg.Speech.PlayerCommand, cfg.Speech.PlayerArgs)
	} else {
		synth = speech.Unsupported()
	}
	speechController := speech.NewController(synth, logger, m)

	router := routing.NewOSRMRouter(cfg.Collaborators.RoutingURL, httpClient, logger)
	planner := routing.NewPlanner(router, logger, m)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
		Lexicon:    assistant.DefaultLexicon(),
		Translator: translator,
		Wiki:       wikiClient,
		Recommend:  recommendClient,
		Auth:       authClient,
		Locator:    locator,
		Speech:     speechController,
		Planner:    planner,
	}, nil
}

// NewSession builds a dialogue session wired to the container's
// collaborators.
func (c *Container) NewSession() *assistant.Session {
	return assistant.NewSession(assistant.SessionParams{
		Lexicon:         c.Lexicon,
		Translator:      c.Translator,
		Details:         c.Wiki,
		Speech:          c.Speech,
		Logger:          c.Logger,
		Metrics:         c.Metrics,
		DefaultLanguage: c.Config.Assistant.DefaultLanguage,
		TargetLanguage:  c.Config.Assistant.TargetLanguage,
		ThinkingDelay:   c.Config.Assistant.ThinkingDelay,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Speech != nil {
		c.Speech.Stop()
	}
	if c.Planner != nil {
		c.Planner.Clear()
	}
}
