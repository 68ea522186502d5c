package tdv

import (
	"strings"
)

// Translation sets whose gloss overlaps less than this are ignored.
const translationOverlapThreshold = 0.5

// hypernymDepth is the fixed recursion depth of the hypernym chain.
const hypernymDepth = 3

// fillWeak links every known gloss word. A one-word gloss is treated as a
// strong link.
func (b *Builder) fillWeak(vec Vector, ref *MeaningRef) {
	words := Split(ref.Gloss)
	weight, cat := b.weights.Weak, CatWeak
	if len(words) == 1 {
		weight, cat = b.weights.Strong, CatStrong
	}

	for _, word := range words {
		if b.lx.Exists(word) {
			vec[b.lx.dimOf(word, cat)] = weight
			continue
		}
		if lower := strings.ToLower(word); b.lx.Exists(lower) {
			vec[b.lx.dimOf(lower, cat)] = weight
		}
	}
}

func (b *Builder) fillContext(vec Vector, ctx []string) {
	for _, word := range ctx {
		if b.lx.Exists(word) {
			vec[b.lx.dimOf(word, CatContext)] = b.weights.Context
		}
	}
}

func (b *Builder) fillStrong(vec Vector, ref *MeaningRef) {
	for _, link := range ref.Links {
		if b.lx.Exists(link) {
			vec[b.lx.dimOf(link, CatStrong)] = b.weights.Strong
		}
	}
}

// fillSynonym adds positive synonym and negative antonym links. ref may be
// nil when only the term-level relations are wanted.
func (b *Builder) fillSynonym(vec Vector, pos string, ref *MeaningRef, doc *TermDoc, ctx []string) {
	if len(doc.Redirect) > 0 && b.lx.Exists(doc.Redirect[0]) {
		vec[b.lx.dimOf(doc.Redirect[0], CatSynonym)] = b.weights.Syn
		return
	}

	if ref != nil && len(ref.Links) == 1 {
		link := ref.Links[0]
		if b.lx.Exists(link) {
			switch {
			case reNegation.MatchString(ref.Gloss):
				vec[b.lx.dimOf(link, CatSynonym)] = -b.weights.Syn
			case isArticleGloss(ref.Gloss, link):
				vec[b.lx.dimOf(link, CatSynonym)] = b.weights.Syn
			}
		}
	}

	// Antonyms go last so they win over a synonym listing the same term.
	b.fillNyms(vec, ref, ctx, b.weights.Syn, func(l *LangEntry) []*MeaningRef { return l.Synonyms[pos] }, doc)
	b.fillNyms(vec, ref, ctx, -b.weights.Syn, func(l *LangEntry) []*MeaningRef { return l.Antonyms[pos] }, doc)
}

func (b *Builder) fillNyms(vec Vector, ref *MeaningRef, ctx []string, weight float64, nyms func(*LangEntry) []*MeaningRef, doc *TermDoc) {
	for _, lang := range b.langs {
		l := doc.Lang(lang)
		if l == nil {
			continue
		}
		for _, nym := range nyms(l) {
			if len(nym.Attrs) == 0 {
				if b.lx.Exists(nym.Gloss) {
					vec[b.lx.dimOf(nym.Gloss, CatSynonym)] = weight
				}
				continue
			}
			for _, attr := range nym.Attrs {
				switch attr.Name() {
				case fldSense:
					for _, senseWord := range strings.Split(attr.Value(), ",") {
						if b.lx.Exists(senseWord) && b.checkContextSyn(senseWord, ref, ctx) {
							vec[b.lx.dimOf(senseWord, CatSynonym)] = weight
						}
					}
				case fldL, fldLabel:
					if term := attr.Value(); b.lx.Exists(term) {
						vec[b.lx.dimOf(term, CatSynonym)] = weight
					}
				}
			}
		}
	}
}

// isArticleGloss reports whether gloss reads "a <link>", "an <link>" or
// " <link>".
func isArticleGloss(gloss, link string) bool {
	for _, article := range []string{"a ", "an ", " "} {
		if gloss == article+link {
			return true
		}
	}
	return false
}

// checkContextSyn decides whether a synonym restricted to senseWord applies
// to the sense. Linked senses match on their links; otherwise the context
// must contain senseWord or a term listing it as synonym or abbreviation.
func (b *Builder) checkContextSyn(senseWord string, ref *MeaningRef, ctx []string) bool {
	if ref != nil && len(ref.Links) > 0 {
		for _, link := range ref.Links {
			if link == senseWord && b.lx.Exists(link) {
				return true
			}
		}
		return false
	}

	for _, word := range ctx {
		if word == senseWord {
			return true
		}
		if cdoc := b.lx.doc(word); cdoc != nil && listsNym(cdoc, senseWord) {
			return true
		}
	}
	return false
}

// listsNym reports whether doc names word among its synonyms or abbreviations.
func listsNym(doc *TermDoc, word string) bool {
	for _, lang := range doc.LangNames() {
		l := doc.Langs[lang]
		if l == nil {
			continue
		}
		for _, rel := range []map[string][]*MeaningRef{l.Synonyms, l.Abbreviations} {
			for _, refs := range rel {
				for _, r := range refs {
					if r.Gloss == word {
						return true
					}
				}
			}
		}
	}
	return false
}

func (b *Builder) fillHypernymChain(vec Vector, ref *MeaningRef) {
	for _, hyp := range b.hypernymChain(nil, ref, hypernymDepth) {
		vec[b.lx.dimOf(hyp, CatHypernym)] = b.weights.Hyp
	}
}

// hypernymChain follows the first noun of each gloss. A word qualifies when
// its first language lists noun as primary POS and documents noun senses.
func (b *Builder) hypernymChain(chain []string, ref *MeaningRef, depth int) []string {
	if depth < 0 || ref == nil {
		return chain
	}
	for _, word := range Split(StripMarkup(ref.Gloss)) {
		head := b.lx.doc(word)
		if head == nil {
			continue
		}
		l := head.FirstLang()
		if l == nil || l.PrimaryPOS() != "noun" {
			continue
		}
		nouns := l.Meanings["noun"]
		if len(nouns) == 0 {
			continue
		}
		chain = append(chain, word)
		return b.hypernymChain(chain, nouns[0], depth-1)
	}
	return chain
}

// fillMorphology adds the POS tag, the homonym self link and the etymology
// of every language section.
func (b *Builder) fillMorphology(vec Vector, pos string, doc *TermDoc) {
	vec[b.lx.POSDimension(pos)] = b.weights.POS
	vec[b.lx.dimOf(doc.Title, CatHomonym)] = b.weights.Hom

	for _, lang := range doc.LangNames() {
		l := doc.Langs[lang]
		if l == nil || l.Etymology == nil {
			continue
		}
		ety := l.Etymology
		for _, links := range [][]string{ety.Links, ety.MorphLinks} {
			for _, link := range links {
				if b.lx.Exists(link) {
					vec[b.lx.dimOf(link, CatEtymLink)] = b.weights.Etym
				}
			}
		}

		for _, f := range []struct {
			name      string
			morphemes []string
		}{
			{"prefix", single(ety.Prefix)},
			{"suffix", single(ety.Suffix)},
			{"stem", single(ety.Stem)},
			{"confix", ety.Confix},
			{"affix", ety.Affix},
		} {
			for _, m := range f.morphemes {
				if b.lx.Exists(m) {
					vec[b.lx.dimOf(m, decompCategory(f.name))] = b.weights.Etym
				}
			}
		}
	}
}

func single(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// fillTranslation picks the translation set whose gloss best overlaps the
// sense gloss, across all languages, and links its terms.
func (b *Builder) fillTranslation(vec Vector, pos string, ref *MeaningRef, doc *TermDoc) {
	words := tokenSet(strings.ToLower(ref.Gloss))

	var (
		selected *TranslationSet
		best     float64
	)
	for _, lang := range doc.LangNames() {
		l := doc.Langs[lang]
		if l == nil {
			continue
		}
		sets := l.Translations[pos]
		if len(sets) == 1 && sets[0] != nil {
			selected, best = sets[0], 1
			continue
		}
		if len(words) == 0 {
			continue
		}
		for _, ts := range sets {
			if ts == nil {
				continue
			}
			shared := 0
			for w := range tokenSet(strings.ToLower(ts.Gloss)) {
				if _, ok := words[w]; ok {
					shared++
				}
			}
			if ratio := float64(shared) / float64(len(words)); ratio >= best {
				selected, best = ts, ratio
			}
		}
	}

	if selected == nil || best <= translationOverlapThreshold {
		return
	}
	for _, term := range selected.Terms() {
		if b.lx.Exists(term) {
			vec[b.lx.dimOf(term, CatTranslation)] = b.weights.Transl
		}
	}
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Split(text) {
		set[tok] = struct{}{}
	}
	return set
}
