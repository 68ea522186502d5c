package tdv

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Disambiguate picks the sense of term under pos (any POS when empty)
// most related to the context words: the one maximizing the summed
// absolute cosine with each word's term vector. Ties go to the later sense.
func (e *Engine) Disambiguate(term, pos string, ctx []string) (*Sense, error) {
	type scored struct {
		sense *Sense
		total float64
	}

	var candidates []scored
	for _, id := range e.builder.SenseIDs(term, pos) {
		s, ok := e.cache.Get(id)
		if !ok {
			continue
		}
		c := scored{sense: s}
		for _, word := range ctx {
			c.total += math.Abs(Cosine(s.Vector, e.TermVector(word)))
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("senses of %q (%s): %w", term, pos, ErrNotFound)
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(a.total, b.total)
	})
	return candidates[len(candidates)-1].sense, nil
}

// DisambiguateSentence disambiguates term inside sentence. The first
// occurrence of term is removed and the remaining words are the context.
func (e *Engine) DisambiguateSentence(term, pos, sentence string) (*Sense, error) {
	if !e.lx.Exists(term) {
		return nil, fmt.Errorf("term %q: %w", term, ErrNotFound)
	}
	i := strings.Index(sentence, term)
	if i < 0 {
		return nil, fmt.Errorf("term %q not in sentence: %w", term, ErrNotFound)
	}
	ctx := Split(sentence[:i] + " " + sentence[i+len(term):])
	return e.Disambiguate(term, pos, ctx)
}
