package tdv

import (
	"fmt"
	"math"
	"slices"
)

// stopPOS lists tags whose terms carry no topical signal as context.
var stopPOS = map[string]bool{
	"prefix": true, "suffix": true, "infix": true, "affix": true, "interfix": true,
	"article": true, "pronoun": true, "adverb": true, "proverb": true, "letter": true,
	"conjunction": true, "determiner": true, "preposition": true, "postposition": true,
	"numeral": true, "number": true, "particle": true, "interjection": true,
}

// TermVector averages every sense of term over the configured languages.
// Unknown terms yield an empty vector.
func (b *Builder) TermVector(term string, opts BuildOptions) Vector {
	return b.TermContextVector(term, nil, opts)
}

// TermContextVector is TermVector where each POS contributes the sense
// closest to ctx instead of the average. An empty ctx falls back to
// averaging.
func (b *Builder) TermContextVector(term string, ctx []string, opts BuildOptions) Vector {
	vec := NewVector()
	doc := b.lx.doc(term)
	if doc == nil {
		return vec
	}

	selected := 0
	for _, lang := range b.langs {
		l := doc.Lang(lang)
		if l == nil {
			continue
		}
		for _, pos := range l.POSNames() {
			if len(ctx) > 0 {
				vec.Add(b.TermPOSContextVector(term, pos, ctx, opts))
			} else {
				vec.Add(b.TermPOSVector(term, pos, opts))
			}
			selected += len(l.Meanings[pos])
		}
	}
	if selected > 0 {
		vec.Scale(float64(selected))
	}
	return vec
}

// TermPOSVector averages the senses of term under pos across the
// configured languages. Languages without pos are skipped.
func (b *Builder) TermPOSVector(term, pos string, opts BuildOptions) Vector {
	vec := NewVector()
	doc := b.lx.doc(term)
	if doc == nil {
		return vec
	}

	n := 0
	for _, lang := range b.langs {
		l := doc.Lang(lang)
		if l == nil {
			continue
		}
		refs := l.Meanings[pos]
		n += len(refs)
		for _, ref := range refs {
			vec.Add(b.senseVector(ref, doc, pos, opts))
		}
	}
	if n > 0 {
		vec.Scale(float64(n))
	}
	return vec
}

// TermPOSContextVector returns the sense of term under pos with the
// smallest context distance to ctx. Ties keep the first sense seen.
func (b *Builder) TermPOSContextVector(term, pos string, ctx []string, opts BuildOptions) Vector {
	doc := b.lx.doc(term)
	if doc == nil {
		return NewVector()
	}

	var (
		best    Vector
		minDist = math.MaxFloat64
	)
	for _, lang := range b.langs {
		l := doc.Lang(lang)
		if l == nil {
			continue
		}
		for _, ref := range l.Meanings[pos] {
			vec := b.senseVector(ref, doc, pos, opts)
			if d := b.contextDistance(vec, ref, pos, ctx, opts); d < minDist {
				best, minDist = vec, d
			}
		}
	}
	if best == nil {
		return NewVector()
	}
	return best.Clone()
}

// contextDistance sums, over context words not already tied to the sense,
// one minus the best absolute cosine between the graph-expanded sense and
// any cached sense of the word.
func (b *Builder) contextDistance(vec Vector, ref *MeaningRef, pos string, ctx []string, opts BuildOptions) float64 {
	ext := vec.Clone()
	depth := b.searchDepth(opts)
	b.fillGraph(ext, pos, ref, depth, depth)

	own := senseContext(ref)
	gloss := Split(ref.Gloss)

	var total float64
	for _, word := range ctx {
		cdoc := b.lx.doc(word)
		if cdoc == nil || b.isStopWord(cdoc) {
			continue
		}
		if slices.Contains(own, word) || slices.Contains(ref.Links, word) || slices.Contains(gloss, word) {
			continue
		}

		var maxRel float64
		for _, id := range b.senseIDs(cdoc, "") {
			s, ok := b.cache.Get(id)
			if !ok {
				continue
			}
			if rel := math.Abs(Cosine(ext, s.Vector)); rel > maxRel {
				maxRel = rel
			}
		}
		total += 1 - maxRel
	}
	return total
}

// isStopWord reports whether the first POS of doc in any configured
// language is a stop POS.
func (b *Builder) isStopWord(doc *TermDoc) bool {
	for _, lang := range b.langs {
		l := doc.Lang(lang)
		if l == nil {
			continue
		}
		if names := l.POSNames(); len(names) > 0 && stopPOS[names[0]] {
			return true
		}
	}
	return false
}

// SenseIndexVector returns the index-th sense of term under pos in the
// first configured language. Unknown terms or POS yield an empty vector; an
// index past the available senses is an error.
func (b *Builder) SenseIndexVector(term, pos string, index int, opts BuildOptions) (Vector, error) {
	doc := b.lx.doc(term)
	if doc == nil || len(b.langs) == 0 {
		return NewVector(), nil
	}
	l := doc.Lang(b.langs[0])
	if l == nil {
		return NewVector(), nil
	}
	refs, ok := l.Meanings[pos]
	if !ok {
		return NewVector(), nil
	}
	if index < 0 || index >= len(refs) {
		return nil, fmt.Errorf("sense %d of %q (%s), %d available: %w", index, term, pos, len(refs), ErrIndexOutOfRange)
	}
	return b.senseVector(refs[index], doc, pos, opts).Clone(), nil
}

// SenseIDs lists the sense ids of term under pos, or of every POS when pos
// is empty. Scanning stops at the first language lacking pos.
func (b *Builder) SenseIDs(term, pos string) []uint64 {
	doc := b.lx.doc(term)
	if doc == nil {
		return nil
	}
	return b.senseIDs(doc, pos)
}

func (b *Builder) senseIDs(doc *TermDoc, pos string) []uint64 {
	var ids []uint64
	for _, lang := range b.langs {
		l := doc.Lang(lang)
		if l == nil {
			continue
		}
		if pos != "" {
			refs, ok := l.Meanings[pos]
			if !ok {
				break
			}
			for _, ref := range refs {
				ids = append(ids, ref.ID)
			}
			continue
		}
		for _, p := range l.POSNames() {
			for _, ref := range l.Meanings[p] {
				ids = append(ids, ref.ID)
			}
		}
	}
	return ids
}
