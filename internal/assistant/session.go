package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appmetrics "github.com/wander-travel/wander-companion/app/observability/metrics"
	"github.com/wander-travel/wander-companion/internal/types"
)

// Translator renders bot text in the session's target language. Implementations
// must treat the default language as identity.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// DetailFetcher fetches open-ended detail text about a monument from the
// extraction collaborator.
type DetailFetcher interface {
	ExtractMoreInfo(ctx context.Context, monumentName string) (string, error)
}

// SpeechInterrupter silences any active playback. New input always
// interrupts audio.
type SpeechInterrupter interface {
	Stop()
}

// Session owns one conversation: the ordered transcript, the carried
// context, and the orchestration of resolver, translator, detail fetcher
// and speech for each turn. Turn handling is serialized so bot turns land
// in send order even when callers overlap.
type Session struct {
	ID uuid.UUID

	logger     *slog.Logger
	metrics    *appmetrics.AppMetrics
	lexicon    *Lexicon
	resolver   *Resolver
	translator Translator
	details    DetailFetcher
	speech     SpeechInterrupter

	defaultLang string
	thinkDelay  time.Duration

	lifetime context.Context
	cancel   context.CancelFunc

	// turnMu serializes the whole resolve/translate/append pipeline.
	turnMu sync.Mutex
	// mu guards the fields below for readers outside the pipeline.
	mu           sync.RWMutex
	turns        []types.Turn
	convCtx      types.ConversationContext
	targetLang   string
	subject      string
	preExtracted string
}

// SessionParams bundles the collaborators a session needs.
type SessionParams struct {
	Lexicon    *Lexicon
	Translator Translator
	Details    DetailFetcher
	Speech     SpeechInterrupter
	Logger     *slog.Logger
	Metrics    *appmetrics.AppMetrics

	DefaultLanguage string
	TargetLanguage  string
	ThinkingDelay   time.Duration
}

func NewSession(p SessionParams) *Session {
	if p.Lexicon == nil {
		p.Lexicon = DefaultLexicon()
	}
	if p.DefaultLanguage == "" {
		p.DefaultLanguage = "en"
	}
	if p.TargetLanguage == "" {
		p.TargetLanguage = p.DefaultLanguage
	}
	if p.ThinkingDelay <= 0 {
		p.ThinkingDelay = 500 * time.Millisecond
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	lifetime, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:          uuid.New(),
		logger:      p.Logger,
		metrics:     p.Metrics,
		lexicon:     p.Lexicon,
		resolver:    NewResolver(p.Lexicon),
		translator:  p.Translator,
		details:     p.Details,
		speech:      p.Speech,
		defaultLang: p.DefaultLanguage,
		targetLang:  p.TargetLanguage,
		thinkDelay:  p.ThinkingDelay,
		lifetime:    lifetime,
		cancel:      cancel,
	}
}

// Close tears the session down: active speech is silenced and every
// in-flight collaborator call derived from the session is cancelled.
func (s *Session) Close() {
	s.cancel()
	if s.speech != nil {
		s.speech.Stop()
	}
}

// Transcript returns a copy of the turns appended so far.
func (s *Session) Transcript() []types.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Context returns the current conversation context.
func (s *Session) Context() types.ConversationContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.convCtx
}

// TargetLanguage returns the language bot turns are rendered in.
func (s *Session) TargetLanguage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targetLang
}

// Start fully reinitializes the session for a subject: the transcript is
// cleared, speech silenced, context reseeded, and the greeting/briefing
// turns re-emitted. preExtracted, when non-empty, is shown directly instead
// of fetching.
func (s *Session) Start(ctx context.Context, monumentName, preExtracted string) error {
	ctx, cancel := s.turnContext(ctx)
	defer cancel()
	ctx, span := otel.Tracer("DialogueSession").Start(ctx, "Start")
	defer span.End()

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	if s.speech != nil {
		s.speech.Stop()
	}
	s.mu.Lock()
	s.turns = nil
	s.convCtx = types.ConversationContext{}
	s.subject = monumentName
	s.preExtracted = preExtracted
	s.mu.Unlock()

	if monumentName == "" {
		greeting := "Hello! I'm your tourist chatbot. How can I assist you today?"
		s.appendBotTurn(ctx, greeting)
		return nil
	}

	key := strings.ToLower(monumentName)
	s.mu.Lock()
	s.convCtx.LastEntityKey = key
	s.mu.Unlock()

	if preExtracted != "" {
		// Seed the lexicon so follow-up questions about the subject resolve.
		if _, ok := s.lexicon.Get(key); !ok {
			s.lexicon.Add(Entry{Key: key, Kind: KindEntity, Description: preExtracted})
		}
		s.appendBotTurn(ctx, fmt.Sprintf("Hello! Here's some information about **%s**:\n%s", monumentName, preExtracted))
		return nil
	}

	s.appendBotTurn(ctx, fmt.Sprintf("Hello! You wanted to know more about **%s**? Please wait while I fetch more details...", monumentName))

	text, err := s.details.ExtractMoreInfo(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Detail fetch failed")
		s.logger.WarnContext(ctx, "Initial detail fetch failed",
			slog.String("monument", monumentName), slog.Any("error", err))
		s.appendBotTurn(ctx, fmt.Sprintf("Sorry, I couldn't fetch more details about %s at this time. Error: %s", monumentName, err))
		return nil
	}
	if _, ok := s.lexicon.Get(key); !ok {
		s.lexicon.Add(Entry{Key: key, Kind: KindEntity, Description: text})
	}
	s.appendBotTurn(ctx, fmt.Sprintf("Here's more information about %s: %s", monumentName, text))
	return nil
}

// SetLanguage changes the rendering language. Per the session contract this
// is a full reinitialization, not an incremental update.
func (s *Session) SetLanguage(ctx context.Context, lang string) error {
	s.mu.Lock()
	s.targetLang = lang
	subject, pre := s.subject, s.preExtracted
	s.mu.Unlock()
	return s.Start(ctx, subject, pre)
}

// Send runs one full turn: append the user's utterance, interrupt speech,
// think, resolve, translate, and append the bot turn(s). The appended bot
// turns are returned for rendering and opt-in playback.
func (s *Session) Send(ctx context.Context, text string) ([]types.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	ctx, cancel := s.turnContext(ctx)
	defer cancel()
	ctx, span := otel.Tracer("DialogueSession").Start(ctx, "Send")
	defer span.End()

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.appendTurn(types.SpeakerUser, text, text)
	if s.speech != nil {
		s.speech.Stop()
	}

	if err := s.think(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	s.mu.RLock()
	convCtx := s.convCtx
	s.mu.RUnlock()
	outcome, newCtx := s.resolver.Resolve(text, convCtx)
	s.mu.Lock()
	s.convCtx = newCtx
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ResolveDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}
	span.SetAttributes(attribute.String("outcome", string(outcome.Kind)))

	switch outcome.Kind {
	case types.OutcomeNeedsExternalFetch:
		return s.fetchDetail(ctx, outcome.EntityKey)
	default:
		// Reply and NoMatch both render a single translated bot turn.
		turn := s.appendBotTurn(ctx, outcome.Text)
		return []types.Turn{turn}, nil
	}
}

// fetchDetail handles the NeedsExternalFetch branch: a "fetching" turn goes
// out immediately, then either the fetched text or an explicit failure
// message embedding the upstream error.
func (s *Session) fetchDetail(ctx context.Context, entityKey string) ([]types.Turn, error) {
	ctx, span := otel.Tracer("DialogueSession").Start(ctx, "fetchDetail")
	defer span.End()
	span.SetAttributes(attribute.String("entity", entityKey))

	loading := s.appendBotTurn(ctx, fmt.Sprintf("Fetching more details about %s...", entityKey))

	if s.metrics != nil {
		s.metrics.DetailFetchesTotal.Add(ctx, 1)
	}
	text, err := s.details.ExtractMoreInfo(ctx, entityKey)
	if err != nil {
		if s.metrics != nil {
			s.metrics.DetailFetchErrorsTotal.Add(ctx, 1)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Detail fetch failed")
		s.logger.WarnContext(ctx, "Detail fetch failed",
			slog.String("entity", entityKey), slog.Any("error", err))
		failure := s.appendBotTurn(ctx, fmt.Sprintf("Sorry, I couldn't fetch more details about %s at this time. Error: %s", entityKey, err))
		return []types.Turn{loading, failure}, nil
	}

	result := s.appendBotTurn(ctx, fmt.Sprintf("Here's some more information about %s: %s", entityKey, text))
	return []types.Turn{loading, result}, nil
}

// think models the "bot is thinking" pause. It is context-aware so teardown
// aborts a pending turn.
func (s *Session) think(ctx context.Context) error {
	timer := time.NewTimer(s.thinkDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// appendBotTurn translates text for display and appends the bot turn.
// Translation failures never drop the turn: the display text is wrapped as
// a translation error and the original still renders.
func (s *Session) appendBotTurn(ctx context.Context, text string) types.Turn {
	display := text
	s.mu.RLock()
	target := s.targetLang
	s.mu.RUnlock()

	if target != s.defaultLang && s.translator != nil {
		translated, err := s.translator.Translate(ctx, text, target)
		if err != nil {
			if s.metrics != nil {
				s.metrics.TranslationErrorsTotal.Add(ctx, 1)
			}
			s.logger.WarnContext(ctx, "Translation failed, rendering original",
				slog.String("target_language", target), slog.Any("error", err))
			display = fmt.Sprintf("[Translation Error: %s]", text)
		} else {
			display = translated
		}
	}
	return s.appendTurn(types.SpeakerBot, text, display)
}

func (s *Session) appendTurn(speaker types.Speaker, original, display string) types.Turn {
	turn := types.Turn{
		ID:           uuid.New(),
		Speaker:      speaker,
		OriginalText: original,
		DisplayText:  display,
		Timestamp:    time.Now(),
	}
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.TurnsTotal.Add(context.Background(), 1)
	}
	return turn
}

// turnContext derives a context cancelled when either the caller gives up
// or the session is closed, so teardown aborts in-flight stages cleanly.
func (s *Session) turnContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
