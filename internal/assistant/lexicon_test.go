package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wander-travel/wander-companion/internal/types"
)

func TestLexicon_InsertionOrderMatching(t *testing.T) {
	l := NewLexicon()
	l.Add(Entry{Key: "wall", Kind: KindEntity, Description: "first"})
	l.Add(Entry{Key: "great wall", Kind: KindEntity, Description: "second"})

	entry, ok := l.MatchEntity("the great wall is huge")
	require.True(t, ok)
	assert.Equal(t, "wall", entry.Key, "first inserted key must win")
}

func TestLexicon_CaseInsensitiveKeys(t *testing.T) {
	l := NewLexicon()
	l.Add(Entry{Key: "  Taj Mahal ", Kind: KindEntity, Description: "d"})

	entry, ok := l.Get("TAJ MAHAL")
	require.True(t, ok)
	assert.Equal(t, "taj mahal", entry.Key)

	_, ok = l.MatchEntity("i love the taj mahal")
	assert.True(t, ok)
}

func TestLexicon_DuplicateKeyReplacesInPlace(t *testing.T) {
	l := NewLexicon()
	l.Add(Entry{Key: "a", Kind: KindPhrase, Reply: "one"})
	l.Add(Entry{Key: "b", Kind: KindPhrase, Reply: "two"})
	l.Add(Entry{Key: "a", Kind: KindPhrase, Reply: "updated"})

	require.Equal(t, 2, l.Len())
	entry, ok := l.MatchPhrase("a and b")
	require.True(t, ok)
	assert.Equal(t, "updated", entry.Reply, "replacement must keep the original slot")
}

func TestLexicon_KindsDoNotCrossMatch(t *testing.T) {
	l := NewLexicon()
	l.Add(Entry{Key: "hello", Kind: KindPhrase, Reply: "hi"})
	l.Add(Entry{Key: "paris", Kind: KindEntity, Description: "city"})

	_, ok := l.MatchEntity("hello")
	assert.False(t, ok)
	_, ok = l.MatchPhrase("paris")
	assert.False(t, ok)
}

func TestLexicon_AddEntityFromRecommendation(t *testing.T) {
	l := NewLexicon()
	l.AddEntity(types.Recommendation{
		Name:        "Qutub Minar",
		Type:        "monument",
		City:        "Delhi",
		Description: "Qutub Minar is a minaret in Delhi.",
	})

	entry, ok := l.Get("qutub minar")
	require.True(t, ok)
	assert.Equal(t, KindEntity, entry.Kind)
	assert.Equal(t, "Qutub Minar is a minaret in Delhi.", entry.Description)
}

func TestDefaultLexicon_SeedData(t *testing.T) {
	l := DefaultLexicon()

	entry, ok := l.Get("gateway of india")
	require.True(t, ok)
	assert.Equal(t, KindEntity, entry.Kind)
	assert.Equal(t, "George Wittet (architect)", entry.CreatedBy)

	entry, ok = l.Get("joke")
	require.True(t, ok)
	assert.Equal(t, KindPhrase, entry.Kind)
	assert.NotEmpty(t, entry.Reply)
}
