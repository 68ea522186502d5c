package tdv

import (
	"math"
	"sort"
	"strings"
)

// idfWeak rescales weak-link features by their inverse document frequency
// over the cached senses: log10(N/df) / log10(N/max(1, min df)), where
// min df is taken over every term of the weak block.
func (e *Engine) idfWeak() {
	width := uint64(e.lx.Size())
	df := make([]int, width)
	e.cache.Each(func(s *Sense) {
		for dim := range s.Vector {
			if dim < width {
				df[dim]++
			}
		}
	})

	if width == 0 {
		return
	}
	// minDF ranges over the whole weak block, so any unused term makes it 0.
	minDF := df[0]
	for _, n := range df[1:] {
		minDF = min(minDF, n)
	}
	n := float64(e.cache.Len())
	maxIdf := math.Log10(n / float64(max(1, minDF)))
	if maxIdf <= 0 {
		return
	}

	e.cache.Each(func(s *Sense) {
		for dim, x := range s.Vector {
			if dim < width {
				s.Vector[dim] = x * math.Log10(n/float64(df[dim])) / maxIdf
			}
		}
	})
}

// markEffective returns the dimensions kept for dense export, mapped to
// consecutive indices in ascending dimension order. Homonym features only
// count when more than one sense carries them.
func markEffective(lx *Lexicon, cache *SenseCache) map[uint64]int {
	freq := make(map[uint64]int)
	cache.Each(func(s *Sense) {
		for dim, x := range s.Vector {
			if x > 0 {
				freq[dim]++
			}
		}
	})

	dims := make([]uint64, 0, len(freq))
	for dim := range freq {
		dims = append(dims, dim)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })

	effective := make(map[uint64]int)
	for _, dim := range dims {
		if freq[dim] > 1 || !lx.InBlock(dim, CatHomonym) {
			effective[dim] = len(effective)
		}
	}
	return effective
}

// EffectiveVector remaps vec onto the compacted effective dimensions,
// dropping the others.
func (e *Engine) EffectiveVector(vec Vector) Vector {
	out := NewVector()
	for dim, x := range vec {
		if idx, ok := e.effective[dim]; ok {
			out[uint64(idx)] = x
		}
	}
	return out
}

// EffectiveWidth is the number of effective dimensions.
func (e *Engine) EffectiveWidth() int {
	return len(e.effective)
}

// joinTranslations merges senses of the primary language into the senses
// of their translations under the same POS. A sense receives at most one
// merge and is not used as a source afterwards. It returns the number of
// merges.
func (e *Engine) joinTranslations() int {
	joined := make(map[uint64]bool)
	for _, id := range e.cache.IDs() {
		src, _ := e.cache.Get(id)
		if joined[id] || src.Lang != e.cfg.Lang {
			continue
		}

		for _, dim := range src.Vector.Keys() {
			if !e.lx.InBlock(dim, CatTranslation) {
				continue
			}
			_, termID := e.lx.Decode(dim)
			ids := e.builder.SenseIDs(e.lx.Title(termID), src.POS)

			for _, tid := range ids {
				if tid == src.ID || joined[tid] {
					continue
				}
				dst, ok := e.cache.Get(tid)
				if !ok {
					continue
				}
				if len(ids) == 1 || glossMatches(dst, src) {
					e.translationVectorJoin(dim, src, dst)
					joined[tid] = true
				}
			}
		}
	}
	return len(joined)
}

// glossMatches reports whether dst's gloss points back at src: it equals
// the source term or gloss, or one of its first two words contains the
// source term.
func glossMatches(dst, src *Sense) bool {
	if dst.Gloss == src.Term || dst.Gloss == src.Gloss {
		return true
	}
	words := Split(dst.Gloss)
	return len(words) > 1 && (strings.Contains(words[0], src.Term) || strings.Contains(words[1], src.Term))
}

// translationVectorJoin copies the features dst lacks from src, clears the
// translation feature that triggered the merge and links dst back to the
// source term.
func (e *Engine) translationVectorJoin(translDim uint64, src, dst *Sense) {
	for dim, x := range src.Vector {
		if !dst.Vector.Has(dim) {
			dst.Vector[dim] = x
		}
	}
	dst.Vector[translDim] = 0
	dst.Vector[e.lx.dimOf(src.Term, CatTranslation)] = e.cfg.LinkWeights.Transl
}
