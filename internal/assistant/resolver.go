package assistant

import (
	"fmt"
	"strings"

	"github.com/wander-travel/wander-companion/internal/types"
)

// FallbackReply is rendered when nothing in the lexicon applies.
const FallbackReply = `I am sorry, I do not understand your request. Can you please rephrase it or ask for "help"?`

var (
	creatorKeywords = []string{"who created", "built by", "creator"}
	dateKeywords    = []string{"when was it created", "built on", "date of creation", "when was it built"}
	detailKeywords  = []string{"more info", "tell me more"}
)

// Resolver decides the reply for one utterance against a lexicon and the
// carried conversation context.
type Resolver struct {
	lexicon *Lexicon
}

func NewResolver(lexicon *Lexicon) *Resolver {
	return &Resolver{lexicon: lexicon}
}

// Resolve maps (utterance, context) to (outcome, new context). It is a pure
// function: the entity identified in this utterance is folded into the
// returned context rather than mutated in place, and the returned context is
// what later branches of the same turn were computed against.
//
// Ordered, first match wins:
//  1. an entity key contained in the utterance becomes the current entity
//     and updates the context immediately;
//  2. the entity to query is the current entity, else the prior turn's;
//  3. with an entity: creator question, date question, detail request
//     (deferred to the caller), else the entity's description;
//  4. without one: first phrase match wins and clears the context;
//  5. nothing matched: NoMatch, context cleared.
func (r *Resolver) Resolve(utterance string, ctx types.ConversationContext) (types.Outcome, types.ConversationContext) {
	lower := strings.ToLower(utterance)

	if entity, ok := r.lexicon.MatchEntity(lower); ok {
		ctx.LastEntityKey = entity.Key
	}

	if ctx.LastEntityKey != "" {
		if entity, ok := r.lexicon.Get(ctx.LastEntityKey); ok {
			return r.resolveEntity(lower, entity), ctx
		}
	}

	if phrase, ok := r.lexicon.MatchPhrase(lower); ok {
		ctx.LastEntityKey = "" // switching to small talk drops location context
		return types.Outcome{Kind: types.OutcomeReply, Text: phrase.Reply}, ctx
	}

	ctx.LastEntityKey = ""
	return types.Outcome{Kind: types.OutcomeNoMatch, Text: FallbackReply}, ctx
}

func (r *Resolver) resolveEntity(lower string, entity Entry) types.Outcome {
	switch {
	case containsAny(lower, creatorKeywords):
		if entity.CreatedBy != "" {
			return types.Outcome{
				Kind: types.OutcomeReply,
				Text: fmt.Sprintf("The %s was created by %s.", entity.Key, entity.CreatedBy),
			}
		}
		return types.Outcome{
			Kind: types.OutcomeReply,
			Text: fmt.Sprintf("I don't have specific information about who created the %s.", entity.Key),
		}

	case containsAny(lower, dateKeywords):
		if entity.CreatedOn != "" {
			return types.Outcome{
				Kind: types.OutcomeReply,
				Text: fmt.Sprintf("The %s was created on/around %s.", entity.Key, entity.CreatedOn),
			}
		}
		return types.Outcome{
			Kind: types.OutcomeReply,
			Text: fmt.Sprintf("I don't have specific information about when the %s was created.", entity.Key),
		}

	case containsAny(lower, detailKeywords):
		// The caller performs the asynchronous detail fetch and supplies
		// its own messages; the resolver produces no text here.
		return types.Outcome{Kind: types.OutcomeNeedsExternalFetch, EntityKey: entity.Key}

	default:
		// An entity match with no specific question still yields its description.
		return types.Outcome{Kind: types.OutcomeReply, Text: entity.Description}
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
