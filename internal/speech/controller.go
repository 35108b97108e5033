package speech

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	appmetrics "github.com/wander-travel/wander-companion/app/observability/metrics"
	"github.com/wander-travel/wander-companion/internal/types"
)

// ErrUnsupported is returned when the runtime has no speech capability.
// Callers degrade to a disabled control, never a crash.
var ErrUnsupported = errors.New("speech synthesis not supported in this runtime")

// Synthesizer abstracts the runtime's text-to-speech capability.
type Synthesizer interface {
	Available() bool
	// Speak starts playback of text in the given language tag and returns
	// a handle for pause/resume/cancel. Completion or playback failure is
	// delivered once on the handle's Done channel.
	Speak(ctx context.Context, text, languageTag string) (Utterance, error)
}

// Utterance is a single in-flight playback.
type Utterance interface {
	Pause() error
	Resume() error
	Cancel()
	Done() <-chan error
}

// Controller is the play/pause/stop state machine for the session's single
// active utterance slot. Exactly one utterance may be bound at a time;
// starting a new one forcibly stops the prior. Natural completion and
// playback errors both return the controller to Idle.
type Controller struct {
	logger  *slog.Logger
	metrics *appmetrics.AppMetrics
	synth   Synthesizer

	mu    sync.Mutex
	state types.SpeechState
	text  string
	utt   Utterance
	gen   int // invalidates completion watchers of stopped utterances
}

func NewController(synth Synthesizer, logger *slog.Logger, metrics *appmetrics.AppMetrics) *Controller {
	return &Controller{
		logger:  logger,
		metrics: metrics,
		synth:   synth,
		state:   types.SpeechIdle,
	}
}

// Available reports whether playback controls should be enabled at all.
func (c *Controller) Available() bool {
	return c.synth != nil && c.synth.Available()
}

// State returns the current playback state and the bound text.
func (c *Controller) State() (types.SpeechState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.text
}

// Play is the play-button action for a turn's text:
//   - Idle: start speaking the text.
//   - Speaking the same text: pause.
//   - Paused on the same text: resume.
//   - Speaking/Paused on different text: stop it and start the new one.
func (c *Controller) Play(ctx context.Context, text, languageTag string) error {
	if text == "" {
		return nil
	}
	if !c.Available() {
		return ErrUnsupported
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != types.SpeechIdle && c.text == text {
		switch c.state {
		case types.SpeechSpeaking:
			if err := c.utt.Pause(); err != nil {
				c.logger.Warn("Pause failed, stopping playback", slog.Any("error", err))
				c.stopLocked()
				return err
			}
			c.state = types.SpeechPaused
			return nil
		case types.SpeechPaused:
			if err := c.utt.Resume(); err != nil {
				c.logger.Warn("Resume failed, stopping playback", slog.Any("error", err))
				c.stopLocked()
				return err
			}
			c.state = types.SpeechSpeaking
			return nil
		}
	}

	// New utterance: no queueing, no mixing.
	c.stopLocked()

	utt, err := c.synth.Speak(ctx, text, languageTag)
	if err != nil {
		return err
	}
	c.utt = utt
	c.text = text
	c.state = types.SpeechSpeaking
	c.gen++
	if c.metrics != nil {
		c.metrics.SpeechPlaybacksTotal.Add(ctx, 1)
	}
	go c.watch(utt, c.gen)
	return nil
}

// Stop cancels any active playback, detaches the bound text and returns to
// Idle from any state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.utt != nil {
		c.utt.Cancel()
	}
	c.utt = nil
	c.text = ""
	c.state = types.SpeechIdle
	c.gen++
}

// watch returns the controller to Idle when the utterance finishes on its
// own or the player fails.
func (c *Controller) watch(utt Utterance, gen int) {
	err := <-utt.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// A newer utterance or an explicit stop already owns the slot.
		return
	}
	if err != nil && c.logger != nil {
		c.logger.Warn("Playback ended with error", slog.Any("error", err))
	}
	c.utt = nil
	c.text = ""
	c.state = types.SpeechIdle
}

// LanguageTag maps the assistant's language codes to synthesis language
// tags for better pronunciation.
func LanguageTag(code string) string {
	switch code {
	case "en":
		return "en-US"
	case "hi":
		return "hi-IN"
	case "mr":
		return "mr-IN"
	case "fr":
		return "fr-FR"
	case "es":
		return "es-ES"
	case "it":
		return "it-IT"
	default:
		return code
	}
}
