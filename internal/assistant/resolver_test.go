package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wander-travel/wander-companion/internal/types"
)

func TestResolver_EntityMatchUpdatesContext(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	t.Run("entity substring sets last entity", func(t *testing.T) {
		outcome, ctx := r.Resolve("Tell me about the Taj Mahal please", types.ConversationContext{})
		assert.Equal(t, "taj mahal", ctx.LastEntityKey)
		assert.Equal(t, types.OutcomeReply, outcome.Kind)
		assert.Contains(t, outcome.Text, "ivory-white marble mausoleum")
	})

	t.Run("context updates even when a question pattern also matches", func(t *testing.T) {
		_, ctx := r.Resolve("Who created the Gateway of India?", types.ConversationContext{})
		assert.Equal(t, "gateway of india", ctx.LastEntityKey)
	})

	t.Run("new entity replaces carried context", func(t *testing.T) {
		_, ctx := r.Resolve("what about paris", types.ConversationContext{LastEntityKey: "taj mahal"})
		assert.Equal(t, "paris", ctx.LastEntityKey)
	})
}

func TestResolver_CreatorQuestions(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	t.Run("creator known", func(t *testing.T) {
		outcome, _ := r.Resolve("who created the taj mahal?", types.ConversationContext{})
		require.Equal(t, types.OutcomeReply, outcome.Kind)
		assert.Equal(t, "The taj mahal was created by Ustad Ahmed Lahori (chief architect).", outcome.Text)
	})

	t.Run("creator unknown yields explicit message, never empty", func(t *testing.T) {
		outcome, _ := r.Resolve("who created paris?", types.ConversationContext{})
		require.Equal(t, types.OutcomeReply, outcome.Kind)
		assert.Equal(t, "I don't have specific information about who created the paris.", outcome.Text)
	})

	t.Run("built by phrasing", func(t *testing.T) {
		outcome, _ := r.Resolve("the india gate was built by whom", types.ConversationContext{})
		require.Equal(t, types.OutcomeReply, outcome.Kind)
		assert.Contains(t, outcome.Text, "Edwin Lutyens")
	})
}

func TestResolver_DateQuestions(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	t.Run("date known", func(t *testing.T) {
		outcome, _ := r.Resolve("when was the taj mahal built on", types.ConversationContext{})
		require.Equal(t, types.OutcomeReply, outcome.Kind)
		assert.Equal(t, "The taj mahal was created on/around 1631 (construction began), 1653 (completed).", outcome.Text)
	})

	t.Run("date unknown yields explicit message", func(t *testing.T) {
		outcome, _ := r.Resolve("date of creation of tokyo", types.ConversationContext{})
		require.Equal(t, types.OutcomeReply, outcome.Kind)
		assert.Equal(t, "I don't have specific information about when the tokyo was created.", outcome.Text)
	})
}

func TestResolver_ContextCarryOver(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	// "Who created the Taj Mahal?" then "When was it created?" must answer
	// from carried context, not with a no-context message.
	outcome, ctx := r.Resolve("Who created the Taj Mahal?", types.ConversationContext{})
	require.Equal(t, types.OutcomeReply, outcome.Kind)
	require.Equal(t, "taj mahal", ctx.LastEntityKey)

	outcome, ctx = r.Resolve("When was it created?", ctx)
	require.Equal(t, types.OutcomeReply, outcome.Kind)
	assert.Equal(t, "The taj mahal was created on/around 1631 (construction began), 1653 (completed).", outcome.Text)
	assert.Equal(t, "taj mahal", ctx.LastEntityKey)
}

func TestResolver_ExternalFetch(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	t.Run("tell me more with carried context defers to external fetch", func(t *testing.T) {
		outcome, ctx := r.Resolve("tell me more", types.ConversationContext{LastEntityKey: "taj mahal"})
		require.Equal(t, types.OutcomeNeedsExternalFetch, outcome.Kind)
		assert.Equal(t, "taj mahal", outcome.EntityKey)
		assert.Empty(t, outcome.Text, "resolver must not produce text for the fetch branch")
		assert.Equal(t, "taj mahal", ctx.LastEntityKey)
	})

	t.Run("more info with entity in the same utterance", func(t *testing.T) {
		outcome, _ := r.Resolve("more info on rome", types.ConversationContext{})
		require.Equal(t, types.OutcomeNeedsExternalFetch, outcome.Kind)
		assert.Equal(t, "rome", outcome.EntityKey)
	})
}

func TestResolver_EntityFallbackDescription(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	// Any utterance while an entity is in context yields its description
	// when no specific question matches.
	outcome, ctx := r.Resolve("that sounds lovely", types.ConversationContext{LastEntityKey: "london"})
	require.Equal(t, types.OutcomeReply, outcome.Kind)
	assert.Contains(t, outcome.Text, "Tower of London")
	assert.Equal(t, "london", ctx.LastEntityKey)
}

func TestResolver_PhraseMatchClearsContext(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	outcome, ctx := r.Resolve("hello there", types.ConversationContext{})
	require.Equal(t, types.OutcomeReply, outcome.Kind)
	assert.Equal(t, "Hi there! How can I help you today?", outcome.Text)
	assert.Empty(t, ctx.LastEntityKey)
}

func TestResolver_NoMatch(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	t.Run("clears context and returns fallback", func(t *testing.T) {
		outcome, ctx := r.Resolve("qwertyuiop", types.ConversationContext{LastEntityKey: ""})
		assert.Equal(t, types.OutcomeNoMatch, outcome.Kind)
		assert.Equal(t, FallbackReply, outcome.Text)
		assert.Empty(t, ctx.LastEntityKey)
	})

	t.Run("idempotent for a repeated unmatched utterance", func(t *testing.T) {
		first, ctx := r.Resolve("zzz qwerty asdf", types.ConversationContext{})
		second, ctx2 := r.Resolve("zzz qwerty asdf", ctx)
		assert.Equal(t, first, second)
		assert.Equal(t, ctx, ctx2)
	})
}

func TestResolver_TieBreakInsertionOrder(t *testing.T) {
	l := NewLexicon()
	l.Add(Entry{Key: "gate", Kind: KindEntity, Description: "a gate"})
	l.Add(Entry{Key: "india gate", Kind: KindEntity, Description: "the india gate"})
	r := NewResolver(l)

	// Both keys are contained in the utterance; the first inserted wins.
	outcome, ctx := r.Resolve("show me the india gate", types.ConversationContext{})
	require.Equal(t, types.OutcomeReply, outcome.Kind)
	assert.Equal(t, "gate", ctx.LastEntityKey)
	assert.Equal(t, "a gate", outcome.Text)
}
