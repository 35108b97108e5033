package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	TurnsTotal                 metric.Int64Counter
	ResolveDurationSeconds     metric.Float64Histogram
	DetailFetchesTotal         metric.Int64Counter
	DetailFetchErrorsTotal     metric.Int64Counter
	TranslationErrorsTotal     metric.Int64Counter
	SpeechPlaybacksTotal       metric.Int64Counter
	RoutePlansTotal            metric.Int64Counter
	RoutePlanErrorsTotal       metric.Int64Counter
	RecommendationFetchesTotal metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("WanderCompanion")
		var err error
		m := &AppMetrics{}

		m.TurnsTotal, err = meter.Int64Counter(
			"assistant_turns_total",
			metric.WithDescription("Total number of conversation turns appended"),
			metric.WithUnit("{turn}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_turns_total: %v", err)
		}

		m.ResolveDurationSeconds, err = meter.Float64Histogram(
			"assistant_resolve_duration_seconds",
			metric.WithDescription("Duration of intent resolution in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_resolve_duration_seconds: %v", err)
		}

		m.DetailFetchesTotal, err = meter.Int64Counter(
			"detail_fetches_total",
			metric.WithDescription("Total number of monument detail fetches"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create detail_fetches_total: %v", err)
		}

		m.DetailFetchErrorsTotal, err = meter.Int64Counter(
			"detail_fetch_errors_total",
			metric.WithDescription("Total number of failed monument detail fetches"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create detail_fetch_errors_total: %v", err)
		}

		m.TranslationErrorsTotal, err = meter.Int64Counter(
			"translation_errors_total",
			metric.WithDescription("Total number of failed translation calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create translation_errors_total: %v", err)
		}

		m.SpeechPlaybacksTotal, err = meter.Int64Counter(
			"speech_playbacks_total",
			metric.WithDescription("Total number of speech playbacks started"),
			metric.WithUnit("{playback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create speech_playbacks_total: %v", err)
		}

		m.RoutePlansTotal, err = meter.Int64Counter(
			"route_plans_total",
			metric.WithDescription("Total number of route plans requested"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create route_plans_total: %v", err)
		}

		m.RoutePlanErrorsTotal, err = meter.Int64Counter(
			"route_plan_errors_total",
			metric.WithDescription("Total number of failed route plans"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create route_plan_errors_total: %v", err)
		}

		m.RecommendationFetchesTotal, err = meter.Int64Counter(
			"recommendation_fetches_total",
			metric.WithDescription("Total number of nearby recommendation fetches"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendation_fetches_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		// This indicates a programming error - InitAppMetrics must be called at startup.
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
