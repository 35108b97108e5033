package assistant

import (
	"strings"

	"github.com/wander-travel/wander-companion/internal/types"
)

// EntryKind discriminates the two lexicon entry shapes.
type EntryKind string

const (
	// KindPhrase is a fixed canned response.
	KindPhrase EntryKind = "phrase"
	// KindEntity is a known place with optional attribution facts.
	KindEntity EntryKind = "entity"
)

// Entry is one lexicon row. Keys are stored lower-case and matched by
// substring containment against the lower-cased utterance. For entities the
// attribution fields may be empty, meaning the fact is unknown.
type Entry struct {
	Key         string
	Kind        EntryKind
	Reply       string // KindPhrase only
	Description string // KindEntity only
	CreatedBy   string
	CreatedOn   string
}

// Lexicon is an ordered keyword table. Iteration order is insertion order
// and the first satisfying key wins, so a key that is a substring of a later
// key resolves deterministically.
type Lexicon struct {
	entries []Entry
	byKey   map[string]int
}

func NewLexicon() *Lexicon {
	return &Lexicon{byKey: make(map[string]int)}
}

// Add appends an entry, normalizing its key. A duplicate key replaces the
// existing entry in place so iteration order is stable.
func (l *Lexicon) Add(e Entry) {
	e.Key = strings.ToLower(strings.TrimSpace(e.Key))
	if e.Key == "" {
		return
	}
	if i, ok := l.byKey[e.Key]; ok {
		l.entries[i] = e
		return
	}
	l.byKey[e.Key] = len(l.entries)
	l.entries = append(l.entries, e)
}

// AddEntity merges a live recommendation record into the lexicon so the
// resolver can answer about nearby places.
func (l *Lexicon) AddEntity(rec types.Recommendation) {
	l.Add(Entry{
		Key:         rec.Name,
		Kind:        KindEntity,
		Description: rec.Description,
	})
}

// Get returns the entry for an exact (already lower-cased) key.
func (l *Lexicon) Get(key string) (Entry, bool) {
	i, ok := l.byKey[strings.ToLower(key)]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Len returns the number of entries.
func (l *Lexicon) Len() int { return len(l.entries) }

// MatchEntity returns the first entity entry whose key is contained in the
// lower-cased input, in insertion order.
func (l *Lexicon) MatchEntity(lowerInput string) (Entry, bool) {
	for _, e := range l.entries {
		if e.Kind == KindEntity && strings.Contains(lowerInput, e.Key) {
			return e, true
		}
	}
	return Entry{}, false
}

// MatchPhrase returns the first phrase entry whose key is contained in the
// lower-cased input, in insertion order.
func (l *Lexicon) MatchPhrase(lowerInput string) (Entry, bool) {
	for _, e := range l.entries {
		if e.Kind == KindPhrase && strings.Contains(lowerInput, e.Key) {
			return e, true
		}
	}
	return Entry{}, false
}

// DefaultLexicon seeds the assistant's built-in small talk and the known
// tourist places, in the order users learned them in the original app.
func DefaultLexicon() *Lexicon {
	l := NewLexicon()

	l.Add(Entry{Key: "hello", Kind: KindPhrase, Reply: "Hi there! How can I help you today?"})
	l.Add(Entry{Key: "hi", Kind: KindPhrase, Reply: "Hello! What's on your mind?"})
	l.Add(Entry{Key: "how are you", Kind: KindPhrase, Reply: "I am just a program, but I'm doing great! How about you?"})
	l.Add(Entry{Key: "what is your name", Kind: KindPhrase, Reply: "I don't have a name. I am a chatbot designed to assist you."})
	l.Add(Entry{Key: "help", Kind: KindPhrase, Reply: `I can answer basic questions and provide specific information about tourist locations. Try asking "Who created the Taj Mahal?" or "When was the Gateway of India created?". You can also ask follow-up questions like "When was it created?" after mentioning a location.`})
	l.Add(Entry{Key: "bye", Kind: KindPhrase, Reply: "Goodbye! Have a great day!"})
	l.Add(Entry{Key: "thank you", Kind: KindPhrase, Reply: "You're welcome!"})
	l.Add(Entry{Key: "joke", Kind: KindPhrase, Reply: "Why don't scientists trust atoms? Because they make up everything!"})

	l.Add(Entry{Key: "paris", Kind: KindEntity, Description: `Paris, the capital of France, is known as the "City of Love"...`})
	l.Add(Entry{Key: "tokyo", Kind: KindEntity, Description: "Tokyo, the bustling capital of Japan, offers a mix of futuristic skyscrapers..."})
	l.Add(Entry{Key: "rome", Kind: KindEntity, Description: `Rome, the "Eternal City" of Italy, is rich in history with ancient ruins...`})
	l.Add(Entry{Key: "new york", Kind: KindEntity, Description: `New York City, often called "The Big Apple," is a global hub for finance...`})
	l.Add(Entry{Key: "london", Kind: KindEntity, Description: "London, the capital of England, boasts historical landmarks like the Tower of London..."})
	l.Add(Entry{
		Key:         "india gate",
		Kind:        KindEntity,
		Description: "The India Gate is a war memorial located astride the Rajpath...",
		CreatedBy:   "Edwin Lutyens (architect)",
		CreatedOn:   "1921 (construction began), 1931 (completed)",
	})
	l.Add(Entry{
		Key:         "taj mahal",
		Kind:        KindEntity,
		Description: "The Taj Mahal is an ivory-white marble mausoleum on the right bank of the river Yamuna...",
		CreatedBy:   "Ustad Ahmed Lahori (chief architect)",
		CreatedOn:   "1631 (construction began), 1653 (completed)",
	})
	l.Add(Entry{
		Key:         "great wall of china",
		Kind:        KindEntity,
		Description: "The Great Wall of China is a series of fortifications that were built across the historical northern borders...",
		CreatedBy:   "Various dynasties and emperors over centuries",
		CreatedOn:   "7th century BC (earliest sections), Ming Dynasty (most well-known sections, 1368-1644 AD)",
	})
	l.Add(Entry{
		Key:         "pyramids of giza",
		Kind:        KindEntity,
		Description: "The Pyramids of Giza, located on the Giza Plateau in the outskirts of Cairo, Egypt, are ancient pyramids that served as tombs for pharaohs.",
		CreatedBy:   "Ancient Egyptians (built for Pharaohs Khufu, Khafre, and Menkaure)",
		CreatedOn:   "Circa 2580-2560 BC (Great Pyramid of Giza)",
	})
	l.Add(Entry{
		Key:         "gateway of india",
		Kind:        KindEntity,
		Description: "The Gateway of India is an iconic arch-monument built in the early 20th century in Mumbai, India...",
		CreatedBy:   "George Wittet (architect)",
		CreatedOn:   "March 31, 1913 (foundation stone laid), 1924 (completed)",
	})

	return l
}
