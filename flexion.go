package tdv

// inflectionStems returns the stems named by the sense's "inflec"
// attributes, in attribute order.
func inflectionStems(ref *MeaningRef) []string {
	var stems []string
	for _, attr := range ref.Attrs {
		if stem, ok := attr.InflectionStem(); ok {
			stems = append(stems, stem)
		}
	}
	return stems
}

// fillInflection links an inflected form to its stem, both as a stem
// feature and as a strong link.
func (b *Builder) fillInflection(vec Vector, ref *MeaningRef) {
	for _, stem := range inflectionStems(ref) {
		if !b.lx.Exists(stem) {
			continue
		}
		vec[b.lx.dimOf(stem, CatStem)] = b.weights.POS
		vec[b.lx.dimOf(stem, CatStrong)] = b.weights.Strong
	}
}

// Inflections lists the headwords documented as inflected forms of stem,
// in term id order.
func (lx *Lexicon) Inflections(stem string) []string {
	var forms []string
	for _, doc := range lx.docs {
		for _, lang := range doc.LangNames() {
			l := doc.Langs[lang]
			if l == nil {
				continue
			}
			for _, pos := range l.POSNames() {
				for _, ref := range l.Meanings[pos] {
					for _, s := range inflectionStems(ref) {
						if s == stem {
							forms = append(forms, doc.Title)
						}
					}
				}
			}
		}
	}
	return unique(forms)
}

// unique returns a deduplicated slice preserving order.
func unique(ss []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
