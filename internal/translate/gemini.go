package translate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiTranslator is an alternative Translator for deployments without the
// backend's /translate service, backed by the Gemini API.
type GeminiTranslator struct {
	client      *genai.Client
	model       string
	logger      *slog.Logger
	defaultLang string
}

var _ Translator = (*GeminiTranslator)(nil)

func NewGeminiTranslator(ctx context.Context, defaultLang string, logger *slog.Logger) (*GeminiTranslator, error) {
	ctx, span := otel.Tracer("Translator").Start(ctx, "NewGeminiTranslator")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if defaultLang == "" {
		defaultLang = "en"
	}
	return &GeminiTranslator{
		client:      client,
		model:       defaultGeminiModel,
		logger:      logger,
		defaultLang: defaultLang,
	}, nil
}

func (t *GeminiTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if targetLanguage == "" || targetLanguage == t.defaultLang {
		return text, nil
	}

	ctx, span := otel.Tracer("Translator").Start(ctx, "GeminiTranslate")
	defer span.End()
	span.SetAttributes(attribute.String("target_language", targetLanguage))

	prompt := fmt.Sprintf(
		"Translate the following text into the language with ISO 639-1 code %q. Reply with the translation only, no preamble:\n\n%s",
		targetLanguage, text,
	)

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Gemini generation failed")
		return "", fmt.Errorf("gemini translation failed: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("gemini returned an empty translation")
	}

	t.logger.DebugContext(ctx, "Translated text via Gemini",
		slog.String("target_language", targetLanguage), slog.Int("length", len(out)))
	return out, nil
}
