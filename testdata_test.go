package tdv

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureDict is a small English dictionary covering every filler.
// The second "cat" entry is a duplicate and must be ignored.
const fixtureDict = `[
 {"title": "cat", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a small domesticated feline", "examples": ["The '''cat''' sat on the mat.", "No headword here."]}]}}}},
 {"title": "feline", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a cat"}]}}}},
 {"title": "city", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a large town"}]}}}},
 {"title": "New", "langs": {"English": {"pos_order": ["adj"], "meanings": {"adj": [
   {"meaning": "recently founded, like a city"}]}}}},
 {"title": "York", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a city in England"}]}}}},
 {"title": "New York", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a large city in the United States"}]}}}},
 {"title": "bank", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "an institution that keeps money", "links": ["money"]},
   {"meaning": "the land beside a river", "links": ["river"]}]}}}},
 {"title": "money", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a medium of exchange"}]}}}},
 {"title": "river", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a natural stream of water", "links": ["water"]}]}}}},
 {"title": "water", "langs": {"English": {"pos_order": ["noun"], "meanings": {"noun": [
   {"meaning": "a clear liquid"}]}}}},
 {"title": "the", "langs": {"English": {"pos_order": ["article"], "meanings": {"article": [
   {"meaning": "definite article"}]}}}},
 {"title": "cat", "langs": {"English": {"pos_order": ["verb"], "meanings": {"verb": [
   {"meaning": "to vomit"}]}}}}
]`

func testConfig(langs ...string) Config {
	cfg := DefaultConfig(langs[0])
	cfg.Languages = langs
	cfg.BuildWorkers = 2
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadLexiconString(t *testing.T, dict string) *Lexicon {
	t.Helper()
	lx, err := LoadLexicon(strings.NewReader(dict))
	require.NoError(t, err)
	return lx
}

// newTestEngine builds an engine over dict with the given languages.
func newTestEngine(t *testing.T, dict string, langs ...string) *Engine {
	t.Helper()
	if len(langs) == 0 {
		langs = []string{"English"}
	}
	eng, err := NewWithLexicon(context.Background(), loadLexiconString(t, dict), testConfig(langs...), Options{Logger: discardLogger()})
	require.NoError(t, err)
	return eng
}

func fixtureEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngine(t, fixtureDict)
}

// newTestBuilder returns a builder with an empty cache.
func newTestBuilder(t *testing.T, dict string, langs ...string) *Builder {
	t.Helper()
	if len(langs) == 0 {
		langs = []string{"English"}
	}
	return NewBuilder(loadLexiconString(t, dict), NewSenseCache(), testConfig(langs...), discardLogger())
}

func senseOf(t *testing.T, e *Engine, term, pos string, index int) *Sense {
	t.Helper()
	ids := e.SenseIDs(term, pos)
	require.Greater(t, len(ids), index, "senses of %s/%s", term, pos)
	s, err := e.Sense(ids[index])
	require.NoError(t, err)
	return s
}
