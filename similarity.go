package tdv

import (
	"cmp"
	"math"
	"slices"
)

const (
	// exprSimilarity is returned for two terms forming a dictionary entry
	// together ("New" + "York").
	exprSimilarity = 0.6
	// synWeightMultiplier scales the strong-link boost.
	synWeightMultiplier = 3
)

// NearestNeighbors ranks every cached sense (of pos, unless empty) by
// cosine with vec. It returns the count most similar, best first, or with
// reversed the count least similar, worst first.
func (e *Engine) NearestNeighbors(vec Vector, count int, reversed bool, pos string) []Neighbor {
	ranked := make([]Neighbor, 0, e.cache.Len())
	e.cache.Each(func(s *Sense) {
		if pos == "" || s.POS == pos {
			ranked = append(ranked, Neighbor{ID: s.ID, Similarity: Cosine(vec, s.Vector)})
		}
	})
	slices.SortStableFunc(ranked, func(a, b Neighbor) int {
		if c := cmp.Compare(a.Similarity, b.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	count = max(0, min(count, len(ranked)))
	out := make([]Neighbor, 0, count)
	if reversed {
		return append(out, ranked[:count]...)
	}
	for i := 0; i < count; i++ {
		out = append(out, ranked[len(ranked)-1-i])
	}
	return out
}

// Similar ranks cached senses against term. With context the closest
// sense is used, falling back to the POS (or term) average when the
// context selects nothing.
func (e *Engine) Similar(term, pos string, ctx []string, count int, reversed bool) []Neighbor {
	vec := e.Vector(term, pos, ctx)
	if len(vec) == 0 && len(ctx) > 0 {
		vec = e.Vector(term, pos, nil)
	}
	return e.NearestNeighbors(vec, count, reversed, pos)
}

// Resolve attaches sense data to neighbours.
func (e *Engine) Resolve(neighbors []Neighbor) []Match {
	out := make([]Match, 0, len(neighbors))
	for _, n := range neighbors {
		s, ok := e.cache.Get(n.ID)
		if !ok {
			continue
		}
		out = append(out, Match{ID: n.ID, Similarity: n.Similarity, Term: s.Term, POS: s.POS, Gloss: s.Gloss})
	}
	return out
}

// conceptVector is a private copy of the term (pos empty) or term+POS vector.
func (e *Engine) conceptVector(term, pos string, opts BuildOptions) Vector {
	if pos == "" {
		if opts.GraphExpand {
			return e.builder.TermVector(term, opts)
		}
		return e.TermVector(term).Clone()
	}
	return e.builder.TermPOSVector(term, pos, opts)
}

// PairwiseSimilarity scores two terms (each optionally restricted to a POS).
// Negative products in the cosine are weighted by scale. Unknown terms
// score 0.
func (e *Engine) PairwiseSimilarity(term1, pos1, term2, pos2 string, scale float64) float64 {
	if !e.lx.Exists(term1) || !e.lx.Exists(term2) {
		return 0
	}
	opts := BuildOptions{SearchDepth: 1}
	v1 := e.conceptVector(term1, pos1, opts)
	v2 := e.conceptVector(term2, pos2, opts)
	return e.conceptSimilarity(term1, v1, term2, v2, scale)
}

// conceptSimilarity compares two term vectors, modifying both.
func (e *Engine) conceptSimilarity(term1 string, v1 Vector, term2 string, v2 Vector, scale float64) float64 {
	if KeyIntersectionSize(v1, v2) == 0 {
		return 0
	}
	if e.lx.Exists(term1+" "+term2) || e.lx.Exists(term2+" "+term1) {
		return exprSimilarity
	}

	syn := e.cfg.LinkWeights.Syn
	syn1, syn2 := e.lx.dimOf(term1, CatSynonym), e.lx.dimOf(term2, CatSynonym)
	str1, str2 := e.lx.dimOf(term1, CatStrong), e.lx.dimOf(term2, CatStrong)

	boost := syn * synWeightMultiplier
	if v1.Has(str2) {
		v1[str2] += boost
		v2[str2] = boost
	}
	if v2.Has(str1) {
		v2[str1] += boost
		v1[str1] = boost
	}

	if v1.Has(syn2) || v2.Has(syn1) {
		scaling := syn
		if v1.Has(syn2) && v2.Has(syn1) {
			scaling *= 2
		}
		switch {
		case math.Abs(v1[syn2]) > 0:
			alignSynonym(v1, v2, syn1, syn2, scaling)
		case math.Abs(v2[syn1]) > 0:
			alignSynonym(v2, v1, syn2, syn1, scaling)
		}
		e.pruneBelow(v1, syn2, syn)
		e.pruneBelow(v2, syn1, syn)
	}

	return WeightedCosine(v1, v2, 1, scale)
}

// alignSynonym amplifies a's synonym link to the other term (dim other),
// mirrors it on a's own synonym dim and makes both vectors agree on the
// larger magnitude, keeping a's sign.
func alignSynonym(a, b Vector, self, other uint64, scaling float64) {
	a[other] *= scaling
	a[self] = math.Abs(a[other])
	if math.Abs(a[other]) > math.Abs(b[other]) {
		b[other] = math.Abs(a[other])
	} else {
		a[other] = math.Copysign(1, a[other]) * b[other]
	}
}

// pruneBelow zeroes features weaker than syn outside the synonym block and
// synonym features weaker than the anchor.
func (e *Engine) pruneBelow(v Vector, anchor uint64, syn float64) {
	limit := math.Abs(v[anchor])
	for dim, x := range v {
		if e.lx.InBlock(dim, CatSynonym) {
			if math.Abs(x) < limit {
				v[dim] = 0
			}
		} else if math.Abs(x) < syn {
			v[dim] = 0
		}
	}
}

// Features reports the direct links between two terms after graph
// expansion at depth 1. Unknown terms report no links.
func (e *Engine) Features(term1, pos1, term2, pos2 string) LinkFeatures {
	var f LinkFeatures
	if !e.lx.Exists(term1) || !e.lx.Exists(term2) {
		return f
	}
	opts := BuildOptions{GraphExpand: true, SearchDepth: 1}
	v1 := e.conceptVector(term1, pos1, opts)
	v2 := e.conceptVector(term2, pos2, opts)

	for i, cat := range []Category{CatWeak, CatStrong, CatHypernym, CatSynonym} {
		f[2*i] = v1.Has(e.lx.dimOf(term2, cat))
		f[2*i+1] = v2.Has(e.lx.dimOf(term1, cat))
	}
	return f
}

// ReverseLookup finds the senses closest to a free-text definition: the
// sum of the term vectors of its words. Senses of the words themselves are
// left out.
func (e *Engine) ReverseLookup(definition string, count int) []Neighbor {
	words := Split(definition)
	vec := NewVector()
	for _, w := range words {
		vec.Add(e.TermVector(w))
	}

	out := make([]Neighbor, 0, max(count, 0))
	for _, n := range e.NearestNeighbors(vec, e.cache.Len(), false, "") {
		if len(out) >= count {
			break
		}
		if s, ok := e.cache.Get(n.ID); ok && slices.Contains(words, s.Term) {
			continue
		}
		out = append(out, n)
	}
	return out
}
