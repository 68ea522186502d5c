package tdv

// fillGraph merges decayed contributions of every term the sense links to
// (explicit links and inflection stems). At each level the linked term's
// same-POS senses, and its noun senses for non-noun POS, are expanded
// recursively with depth-1; each of its POS contributes a synonym vector
// and the link itself a weak feature, both divided by (full-depth+1)*2.
//
// Terms reachable along several paths are visited once per path. The depth
// bound keeps this finite but not linear; keep SearchDepth small.
func (b *Builder) fillGraph(vec Vector, pos string, ref *MeaningRef, depth, full int) {
	if depth < 0 || ref == nil {
		return
	}

	links := append(append([]string(nil), ref.Links...), inflectionStems(ref)...)
	decay := float64((full - depth + 1) * 2)
	graph := NewVector()

	for _, link := range links {
		linked := b.lx.doc(link)
		if linked == nil {
			continue
		}
		for _, lang := range b.langs {
			l := linked.Lang(lang)
			if l == nil {
				continue
			}
			for _, m := range l.Meanings[pos] {
				b.fillGraph(vec, pos, m, depth-1, full)
			}
			if pos != "noun" {
				for _, m := range l.Meanings["noun"] {
					b.fillGraph(vec, "noun", m, depth-1, full)
				}
			}
			for _, synPOS := range l.POSNames() {
				var first *MeaningRef
				if refs := l.Meanings[synPOS]; len(refs) > 0 {
					first = refs[0]
				}
				syn := NewVector()
				b.fillSynonym(syn, synPOS, first, linked, nil)
				graph.Add(syn.Scale(decay))
			}
			graph[b.lx.dimOf(link, CatWeak)] = b.weights.Strong / decay
		}
	}
	vec.Add(graph)
}
