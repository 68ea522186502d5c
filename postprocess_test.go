package tdv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bareEngine wraps a lexicon and a hand-filled cache, skipping the build.
func bareEngine(t *testing.T, dict string, senses ...*Sense) *Engine {
	t.Helper()
	lx := loadLexiconString(t, dict)
	cfg := testConfig("English")
	cache := NewSenseCache()
	for _, s := range senses {
		cache.Put(s)
	}
	return &Engine{cfg: cfg, lx: lx, cache: cache, builder: NewBuilder(lx, cache, cfg, discardLogger()), log: discardLogger()}
}

func TestIdfWeak(t *testing.T) {
	e := bareEngine(t, fixtureDict,
		&Sense{ID: 1, Vector: Vector{0: 1, 1: 2, 2: 1}},
		&Sense{ID: 2, Vector: Vector{0: 1, 2: 1}},
		&Sense{ID: 3, Vector: Vector{0: 1}},
		&Sense{ID: 4, Vector: Vector{0: 1, 20: 5}},
	)
	e.idfWeak()

	get := func(id, dim uint64) float64 {
		s, ok := e.cache.Get(id)
		require.True(t, ok)
		return s.Vector[dim]
	}
	maxIdf := math.Log10(4)

	assert.Zero(t, get(1, 0), "a feature on every sense carries no information")
	assert.InDelta(t, 2, get(1, 1), 1e-12, "the rarest feature keeps its weight")
	assert.InDelta(t, math.Log10(2)/maxIdf, get(1, 2), 1e-12)
	assert.InDelta(t, get(1, 2), get(2, 2), 1e-12)
	assert.Equal(t, 5.0, get(4, 20), "non-weak features are untouched")

	// rarer features are never scaled below more frequent ones
	assert.Greater(t, get(1, 1)/2, get(1, 2))
	assert.Greater(t, get(1, 2), get(1, 0))
}

func TestIdfWeakUniform(t *testing.T) {
	e := bareEngine(t, fixtureDict,
		&Sense{ID: 1, Vector: Vector{0: 1}},
		&Sense{ID: 2, Vector: Vector{0: 1}},
	)
	e.idfWeak()
	for _, id := range []uint64{1, 2} {
		s, _ := e.cache.Get(id)
		assert.InDelta(t, 0, s.Vector[0], 1e-12, "a feature on every sense carries no information")
	}
}

func TestIdfWeakMinDF(t *testing.T) {
	tests := []struct {
		name string
		dict string
		want float64
	}{
		// unused terms put min df at 0, so the factor is log10(4/2)/log10(4)
		{"unused terms", fixtureDict, 0.5},
		// every term is used: min df is 2 and dim 1 is the rarest
		{"all terms used", `[
 {"title": "a", "langs": {"English": {"meanings": {"noun": [{"meaning": "b"}]}}}},
 {"title": "b", "langs": {"English": {"meanings": {"noun": [{"meaning": "a"}]}}}}
]`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := bareEngine(t, tt.dict,
				&Sense{ID: 1, Vector: Vector{0: 1, 1: 1}},
				&Sense{ID: 2, Vector: Vector{0: 1, 1: 1}},
				&Sense{ID: 3, Vector: Vector{0: 1}},
				&Sense{ID: 4, Vector: Vector{0: 1}},
			)
			e.idfWeak()

			s, _ := e.cache.Get(1)
			assert.InDelta(t, tt.want, s.Vector[1], 1e-12)
			assert.InDelta(t, 0, s.Vector[0], 1e-12)
		})
	}
}

func TestMarkEffective(t *testing.T) {
	lx := loadLexiconString(t, fixtureDict)
	hom := lx.BlockStart(CatHomonym)
	cache := NewSenseCache()
	cache.Put(&Sense{ID: 1, Vector: Vector{3: 1, hom: 0.5, hom + 1: 0.5, 7: -1}})
	cache.Put(&Sense{ID: 2, Vector: Vector{3: 1, hom + 1: 0.5, 9: 0}})

	eff := markEffective(lx, cache)
	assert.Equal(t, map[uint64]int{3: 0, hom + 1: 1}, eff)
}

func TestEffectiveVector(t *testing.T) {
	e := fixtureEngine(t)
	require.NotZero(t, e.EffectiveWidth())

	e.cache.Each(func(s *Sense) {
		eff := e.EffectiveVector(s.Vector)
		for dim := range eff {
			assert.Less(t, dim, uint64(e.EffectiveWidth()))
		}
	})

	// a homonym feature is carried by a single sense, so it is dropped
	cat := senseOf(t, e, "cat", "noun", 0)
	homDim := e.lx.MustDimension("cat", CatHomonym)
	_, kept := e.effective[homDim]
	assert.False(t, kept)
	assert.True(t, cat.Vector.Has(homDim))

	// both bank senses carry it
	_, kept = e.effective[e.lx.MustDimension("bank", CatHomonym)]
	assert.True(t, kept)
}

const translationDict = `[
 {"title": "cat", "langs": {"English": {"pos_order": ["noun"],
   "meanings": {"noun": [{"meaning": "a small feline"}]},
   "translations": {"noun": [{"meaning": "small feline", "transl": {"German": [["Katze", "de"]]}}]}}}},
 {"title": "feline", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [{"meaning": "a cat"}]}}}},
 {"title": "Katze", "langs": {"German": {"pos_order": ["noun"], "meanings": {"noun": [{"meaning": "cat"}]}}}},
 {"title": "Hund", "langs": {"German": {"pos_order": ["noun"], "meanings": {"noun": [{"meaning": "dog"}]}}}}
]`

func TestJoinTranslations(t *testing.T) {
	e := newTestEngine(t, translationDict, "English", "German")

	cat := senseOf(t, e, "cat", "noun", 0)
	katze := senseOf(t, e, "Katze", "noun", 0)
	hund := senseOf(t, e, "Hund", "noun", 0)
	lx := e.Lexicon()

	assert.Equal(t, 1.0, cat.Vector.Get(lx.MustDimension("Katze", CatTranslation)))

	assert.Equal(t, e.cfg.LinkWeights.Transl, katze.Vector.Get(lx.MustDimension("cat", CatTranslation)))
	assert.True(t, katze.Vector.Has(lx.MustDimension("Katze", CatTranslation)))
	assert.Zero(t, katze.Vector.Get(lx.MustDimension("Katze", CatTranslation)))
	assert.Equal(t, cat.Vector.Get(lx.MustDimension("cat", CatHomonym)), katze.Vector.Get(lx.MustDimension("cat", CatHomonym)),
		"features missing from the target are copied")
	assert.Equal(t, 2.0, katze.Vector.Get(lx.MustDimension("cat", CatStrong)), "own features are kept")

	assert.False(t, hund.Vector.Has(lx.MustDimension("cat", CatTranslation)))
	assert.Greater(t, Cosine(cat.Vector, katze.Vector), Cosine(cat.Vector, hund.Vector))
}

func TestJoinTranslationsOnce(t *testing.T) {
	e := newTestEngine(t, `[
	 {"title": "cat", "langs": {"English": {"pos_order": ["noun"],
	   "meanings": {"noun": [{"meaning": "a small feline"}]},
	   "translations": {"noun": [{"meaning": "small feline", "transl": {"German": [["Katze", "de"]]}}]}}}},
	 {"title": "feline", "langs": {"English": {"pos_order": ["noun"],
	   "meanings": {"noun": [{"meaning": "a cat"}]},
	   "translations": {"noun": [{"meaning": "cat", "transl": {"German": [["Katze", "de"]]}}]}}}},
	 {"title": "Katze", "langs": {"German": {"pos_order": ["noun"], "meanings": {"noun": [{"meaning": "cat"}]}}}}
	]`, "English", "German")
	lx := e.Lexicon()

	feline := senseOf(t, e, "feline", "noun", 0)
	require.True(t, feline.Vector.Has(lx.MustDimension("Katze", CatTranslation)))

	katze := senseOf(t, e, "Katze", "noun", 0)
	assert.True(t, katze.Vector.Has(lx.MustDimension("cat", CatTranslation)), "first source wins")
	assert.False(t, katze.Vector.Has(lx.MustDimension("feline", CatTranslation)), "a target is merged once")
}

func TestGlossMatches(t *testing.T) {
	src := &Sense{Term: "cat", Gloss: "a small feline"}
	tests := []struct {
		gloss string
		want  bool
	}{
		{"cat", true},
		{"a small feline", true},
		{"domestic cat", true},
		{"cats, dogs", true},
		{"a large domestic cat", false},
		{"feline", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, glossMatches(&Sense{Gloss: tt.gloss}, src), tt.gloss)
	}
}
