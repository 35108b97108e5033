package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appLogger "github.com/wander-travel/wander-companion/app/logger"
	"github.com/wander-travel/wander-companion/app/tracer"
	"github.com/wander-travel/wander-companion/config"
	"github.com/wander-travel/wander-companion/internal/assistant"
	"github.com/wander-travel/wander-companion/internal/container"
	"github.com/wander-travel/wander-companion/internal/geo"
	"github.com/wander-travel/wander-companion/internal/routing"
	"github.com/wander-travel/wander-companion/internal/speech"
	"github.com/wander-travel/wander-companion/internal/types"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := appLogger.Setup()
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	var obsSrv interface{ Shutdown(context.Context) error }
	if cfg.Observability.Enabled {
		srv, err := tracer.InitTracingAndMetrics(cfg.Observability.Port, logger)
		if err != nil {
			logger.Error("Failed to start observability", slog.Any("error", err))
			os.Exit(1)
		}
		obsSrv = srv
	}

	// --- Dependency Injection ---
	deps, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize container", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Close()

	// --- Location & Recommendations ---
	userAt, err := deps.Locator.Locate(ctx, geo.Options{
		HighAccuracy: cfg.Location.HighAccuracy,
		Timeout:      cfg.Location.Timeout,
	})
	if err != nil {
		logger.Warn("Geolocation unavailable, using fallback coordinates", slog.Any("error", err))
		userAt = types.Coordinates{
			Latitude:  cfg.Location.FallbackLatitude,
			Longitude: cfg.Location.FallbackLongitude,
		}
	}

	// --- Optional backend sign-in ---
	// Anonymous sessions still chat; signing in lets the backend remember
	// the user's last position.
	var userID string
	if u, p := os.Getenv("WANDER_USERNAME"), os.Getenv("WANDER_PASSWORD"); u != "" && p != "" {
		resp, err := deps.Auth.Login(ctx, types.LoginRequest{Username: u, Password: p})
		if err != nil {
			logger.Warn("Backend login failed, continuing anonymously", slog.Any("error", err))
		} else {
			userID = resp.UserID
		}
	}
	if userID != "" {
		if err := deps.Recommend.SaveLocation(ctx, userID, userAt); err != nil {
			logger.Warn("Could not save location", slog.Any("error", err))
		}
	}

	recs, err := deps.Recommend.Nearby(ctx, userAt)
	if err != nil {
		logger.Warn("Could not fetch nearby recommendations", slog.Any("error", err))
	}
	for _, rec := range recs {
		deps.Lexicon.AddEntity(rec)
	}

	// --- Dialogue Session ---
	session := deps.NewSession()
	defer session.Close()
	if err := session.Start(ctx, "", ""); err != nil {
		logger.Error("Failed to start session", slog.Any("error", err))
		os.Exit(1)
	}
	printTurns(session.Transcript())

	if !deps.Speech.Available() {
		fmt.Println("(speech playback is unavailable in this runtime; /play and /stop are disabled)")
	}

	// --- Chat Loop ---
	go runChatLoop(ctx, cancel, deps, session, userAt, recs)

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if obsSrv != nil {
		if err := obsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Observability listener shutdown failed", slog.Any("error", err))
		}
	}
	logger.Info("Application shut down complete.")
}

func runChatLoop(ctx context.Context, cancel context.CancelFunc, deps *container.Container, session *assistant.Session, userAt types.Coordinates, recs []types.Recommendation) {
	defer cancel()

	fmt.Println(`Type something to start chatting! Try "Who created the Taj Mahal?" then "When was it created?".`)
	fmt.Println("Commands: /lang <code>, /play, /stop, /nearby, /route, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleCommand(ctx, line, deps, session, userAt, recs); quit {
				return
			}
			continue
		}

		turns, err := session.Send(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			slog.Error("Turn failed", slog.Any("error", err))
			continue
		}
		printTurns(turns)
	}
}

// handleCommand executes one slash command; it returns true on /quit.
func handleCommand(ctx context.Context, line string, deps *container.Container, session *assistant.Session, userAt types.Coordinates, recs []types.Recommendation) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/lang":
		if len(fields) < 2 {
			fmt.Println("usage: /lang <code> (en, hi, mr, fr, es, it)")
			return false
		}
		// Changing the language is a full reinitialization of the session.
		if err := session.SetLanguage(ctx, fields[1]); err != nil {
			slog.Error("Language change failed", slog.Any("error", err))
			return false
		}
		printTurns(session.Transcript())

	case "/play":
		// Playback is opt-in and binds the latest bot turn.
		var last *types.Turn
		for _, t := range session.Transcript() {
			if t.Speaker == types.SpeakerBot {
				turn := t
				last = &turn
			}
		}
		if last == nil {
			fmt.Println("nothing to play yet")
			return false
		}
		tag := speech.LanguageTag(session.TargetLanguage())
		if err := deps.Speech.Play(ctx, last.DisplayText, tag); err != nil {
			if errors.Is(err, speech.ErrUnsupported) {
				fmt.Println("speech playback is unavailable in this runtime")
			} else {
				slog.Warn("Playback failed", slog.Any("error", err))
			}
		}

	case "/stop":
		deps.Speech.Stop()

	case "/nearby":
		if len(recs) == 0 {
			fmt.Println("no nearby recommendations available")
			return false
		}
		distances := routing.DistancesFrom(userAt, recs)
		for i, rec := range recs {
			fmt.Printf("%d. %s (%s, %s) — %.2f km away\n", i+1, rec.Name, rec.Type, rec.City, distances[i])
		}

	case "/route":
		if len(recs) == 0 {
			fmt.Println("no nearby recommendations to route through")
			return false
		}
		req := types.RouteRequest{
			Profile:   deps.Config.Routing.Profile,
			Waypoints: routing.BuildWaypoints(userAt, recs, deps.Config.Routing.MaxWaypoints),
		}
		route, err := deps.Planner.Plan(ctx, req)
		if err != nil {
			slog.Warn("Route planning failed", slog.Any("error", err))
			return false
		}
		fmt.Printf("route: %.1f km, about %s\n",
			route.DistanceMeters/1000, (time.Duration(route.DurationSeconds) * time.Second).Round(time.Minute))

	default:
		fmt.Println("unknown command:", fields[0])
	}
	return false
}

func printTurns(turns []types.Turn) {
	for _, t := range turns {
		switch t.Speaker {
		case types.SpeakerBot:
			fmt.Printf("bot> %s\n", t.DisplayText)
		default:
			fmt.Printf("you> %s\n", t.DisplayText)
		}
	}
}
