package tdv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestNeighbors(t *testing.T) {
	e := fixtureEngine(t)
	vec := e.Vector("cat", "", nil)

	all := e.NearestNeighbors(vec, 1000, false, "")
	require.Len(t, all, e.Cache().Len(), "count is clamped to the cache size")
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Similarity, all[i].Similarity)
	}

	worst := e.NearestNeighbors(vec, 3, true, "")
	require.Len(t, worst, 3)
	for i := 1; i < len(worst); i++ {
		assert.LessOrEqual(t, worst[i-1].Similarity, worst[i].Similarity)
	}
	assert.Equal(t, all[len(all)-1], worst[0])

	assert.Empty(t, e.NearestNeighbors(vec, 0, false, ""))
	assert.Empty(t, e.NearestNeighbors(vec, -4, false, ""))

	adj := e.NearestNeighbors(vec, 10, false, "adj")
	require.Len(t, adj, 1)
	assert.Equal(t, "New", e.Resolve(adj)[0].Term)
}

// NearestNeighbors ranks every cached sense, the query's own included, so
// nearestNeighbors(vector("cat"), 1) is cat itself at similarity 1 and
// feline, the synonym, is the closest other sense.
func TestNearestNeighborsSynonym(t *testing.T) {
	e := fixtureEngine(t)

	top := e.Resolve(e.NearestNeighbors(e.Vector("cat", "", nil), 1, false, ""))
	require.Len(t, top, 1)
	assert.Equal(t, "cat", top[0].Term)
	assert.Equal(t, 1.0, top[0].Similarity, "self-similarity is exactly 1")

	got := e.Resolve(e.Similar("cat", "", nil, 2, false))
	require.Len(t, got, 2)
	assert.Equal(t, "cat", got[0].Term)
	assert.Equal(t, 1.0, got[0].Similarity)
	assert.Equal(t, "feline", got[1].Term, "feline is the closest other sense")
	assert.Greater(t, got[1].Similarity, 0.0)
	assert.Equal(t, "noun", got[1].POS)
	assert.Equal(t, "a cat", got[1].Gloss)
}

func TestSimilarWithContext(t *testing.T) {
	e := fixtureEngine(t)
	bank1 := senseOf(t, e, "bank", "noun", 1)

	got := e.Similar("bank", "noun", []string{"river"}, 1, false)
	require.Len(t, got, 1)
	assert.Equal(t, bank1.ID, got[0].ID)

	for _, n := range e.Similar("unicorn", "", []string{"river"}, 3, false) {
		assert.Zero(t, n.Similarity)
	}
}

func TestResolveSkipsUnknown(t *testing.T) {
	e := fixtureEngine(t)
	assert.Empty(t, e.Resolve([]Neighbor{{ID: 123456789, Similarity: 1}}))
}

func TestPairwiseSimilarity(t *testing.T) {
	e := fixtureEngine(t)

	t.Run("multi-word expression", func(t *testing.T) {
		assert.Equal(t, exprSimilarity, e.PairwiseSimilarity("New", "adj", "York", "noun", 1))
		assert.Equal(t, exprSimilarity, e.PairwiseSimilarity("York", "noun", "New", "adj", 1))
	})
	t.Run("unknown term", func(t *testing.T) {
		assert.Zero(t, e.PairwiseSimilarity("unicorn", "", "cat", "", 1))
		assert.Zero(t, e.PairwiseSimilarity("cat", "", "unicorn", "noun", 1))
	})
	t.Run("nothing shared", func(t *testing.T) {
		assert.Zero(t, e.PairwiseSimilarity("the", "", "money", "", 1))
	})
	t.Run("related terms", func(t *testing.T) {
		sim := e.PairwiseSimilarity("cat", "", "feline", "", 1)
		assert.Greater(t, sim, e.PairwiseSimilarity("cat", "", "money", "", 1))
		assert.LessOrEqual(t, sim, 1.0)
	})
	t.Run("cached vectors untouched", func(t *testing.T) {
		before := senseOf(t, e, "bank", "noun", 1).Vector.Clone()
		e.PairwiseSimilarity("bank", "noun", "river", "noun", 1)
		e.PairwiseSimilarity("bank", "", "river", "", 1)
		assert.Equal(t, before, senseOf(t, e, "bank", "noun", 1).Vector)
	})
}

func TestPairwiseSimilaritySynonyms(t *testing.T) {
	e := newTestEngine(t, fillerDict)

	syn := e.PairwiseSimilarity("glad", "adj", "happy", "adj", 1)
	assert.Greater(t, syn, 0.5)

	ant := e.PairwiseSimilarity("glad", "adj", "sad", "adj", 1)
	assert.Less(t, ant, 0.0)
	assert.Zero(t, e.PairwiseSimilarity("glad", "adj", "sad", "adj", 0), "scale weights the negative products")
}

func TestFeatures(t *testing.T) {
	e := fixtureEngine(t)

	f := e.Features("bank", "noun", "river", "noun")
	assert.True(t, f[0], "bank gloss mentions river")
	assert.False(t, f[1])
	assert.True(t, f[2], "bank links to river")
	assert.False(t, f[3])
	assert.True(t, f[4], "river is a hypernym of bank")

	assert.Equal(t, LinkFeatures{}, e.Features("unicorn", "", "river", ""))
}

func TestLinkFeaturesString(t *testing.T) {
	f := LinkFeatures{true, false, true}
	assert.Equal(t, "1:1 2:0 3:1 4:0 5:0 6:0 7:0 8:0", f.String())
}

func TestReverseLookup(t *testing.T) {
	e := fixtureEngine(t)
	definition := "a natural stream of water"

	got := e.Resolve(e.ReverseLookup(definition, 3))
	require.Len(t, got, 3)
	for i, m := range got {
		assert.NotEqual(t, "water", m.Term, "definition words are excluded")
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Similarity, m.Similarity)
		}
	}

	assert.Empty(t, e.ReverseLookup(definition, 0))
	assert.Empty(t, e.ReverseLookup(definition, -1))
	assert.Len(t, e.ReverseLookup("water", 100), e.Cache().Len()-1)
}

func TestDisambiguate(t *testing.T) {
	e := fixtureEngine(t)
	bank0 := senseOf(t, e, "bank", "noun", 0)
	bank1 := senseOf(t, e, "bank", "noun", 1)

	tests := []struct {
		name string
		ctx  []string
		want *Sense
	}{
		{"river side", []string{"river", "water"}, bank1},
		{"finance", []string{"money"}, bank0},
		{"no context keeps the last sense", nil, bank1},
		{"unknown words only", []string{"unicorn"}, bank1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Disambiguate("bank", "noun", tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
		})
	}

	_, err := e.Disambiguate("unicorn", "", []string{"river"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.Disambiguate("bank", "verb", []string{"river"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDisambiguateSentence(t *testing.T) {
	e := fixtureEngine(t)
	bank1 := senseOf(t, e, "bank", "noun", 1)

	got, err := e.DisambiguateSentence("bank", "noun", "we sat on the bank of the river near the water")
	require.NoError(t, err)
	assert.Equal(t, bank1.ID, got.ID)

	got, err = e.DisambiguateSentence("bank", "", "the bank by the river")
	require.NoError(t, err)
	assert.Equal(t, bank1.ID, got.ID)

	_, err = e.DisambiguateSentence("unicorn", "", "a unicorn by the river")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.DisambiguateSentence("bank", "noun", "nothing relevant here")
	assert.ErrorIs(t, err, ErrNotFound)
}
