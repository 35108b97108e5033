package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Translator renders text in a target language. Implementations must be
// identity for the default language so untranslated sessions never pay a
// network round trip.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// HTTPTranslator calls the backend's POST /translate endpoint.
type HTTPTranslator struct {
	baseURL     string
	http        *http.Client
	logger      *slog.Logger
	defaultLang string
}

var _ Translator = (*HTTPTranslator)(nil)

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	Error          string `json:"error"`
}

func NewHTTPTranslator(baseURL, defaultLang string, httpClient *http.Client, logger *slog.Logger) *HTTPTranslator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &HTTPTranslator{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        httpClient,
		logger:      logger,
		defaultLang: defaultLang,
	}
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if targetLanguage == "" || targetLanguage == t.defaultLang {
		return text, nil
	}

	ctx, span := otel.Tracer("Translator").Start(ctx, "Translate")
	defer span.End()
	span.SetAttributes(attribute.String("target_language", targetLanguage))

	payload, err := json.Marshal(translateRequest{Text: text, TargetLanguage: targetLanguage})
	if err != nil {
		return "", fmt.Errorf("failed to marshal translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Translation request failed")
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("translation service: %s", parsed.Error)
		}
		return "", fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}
	if parsed.TranslatedText == "" {
		return "", fmt.Errorf("translation service returned empty text")
	}

	t.logger.DebugContext(ctx, "Translated text",
		slog.String("target_language", targetLanguage), slog.Int("length", len(parsed.TranslatedText)))
	return parsed.TranslatedText, nil
}
