package types

import (
	"time"

	"github.com/google/uuid"
)

// Speaker identifies which side of the conversation produced a turn.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Turn is one message in the transcript. DisplayText equals OriginalText
// for the user; for the bot it is the (possibly translated) rendering.
// Turns are never mutated after creation and only removed on session reset.
type Turn struct {
	ID           uuid.UUID `json:"id"`
	Speaker      Speaker   `json:"speaker"`
	OriginalText string    `json:"original_text"`
	DisplayText  string    `json:"display_text"`
	Timestamp    time.Time `json:"timestamp"`
}

// ConversationContext carries the single most-recently-discussed entity
// across turns. It is a value: the resolver takes the current context and
// returns the updated one, nothing mutates it in place.
type ConversationContext struct {
	LastEntityKey string `json:"last_entity_key,omitempty"`
}

// OutcomeKind discriminates the resolver's decision for a turn.
type OutcomeKind string

const (
	// OutcomeReply carries a direct textual reply.
	OutcomeReply OutcomeKind = "reply"
	// OutcomeNeedsExternalFetch signals that the caller must fetch detail
	// text for EntityKey and synthesize its own messages.
	OutcomeNeedsExternalFetch OutcomeKind = "needs_external_fetch"
	// OutcomeNoMatch means nothing in the lexicon applied.
	OutcomeNoMatch OutcomeKind = "no_match"
)

// Outcome is the resolver's decision for one utterance.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	Text      string      `json:"text,omitempty"`
	EntityKey string      `json:"entity_key,omitempty"`
}

// SpeechState is the playback state of the single active utterance slot.
type SpeechState string

const (
	SpeechIdle     SpeechState = "idle"
	SpeechSpeaking SpeechState = "speaking"
	SpeechPaused   SpeechState = "paused"
)
