package tdv

import "sort"

// Document field names shared by the lexicon and the fillers.
const (
	fldContext = "context"
	fldLabel   = "label"
	fldLb      = "lb"
	fldL       = "l"
	fldSense   = "sense"
	fldInflec  = "inflec"
)

// TermDoc is one decoded dictionary entry.
type TermDoc struct {
	Title    string                `json:"title"`
	Redirect []string              `json:"redirect,omitempty"`
	Langs    map[string]*LangEntry `json:"langs"`

	// langOrder lists the Langs keys in ascending order.
	langOrder []string
}

// LangNames returns the entry's languages in ascending order.
func (d *TermDoc) LangNames() []string {
	if d.langOrder != nil {
		return d.langOrder
	}
	return sortedKeys(d.Langs)
}

// prepare fixes the key orders once so later reads never mutate the document.
func (d *TermDoc) prepare() {
	d.langOrder = sortedKeys(d.Langs)
	for _, l := range d.Langs {
		if l == nil {
			continue
		}
		for pos, refs := range l.Meanings {
			kept := refs[:0]
			for _, ref := range refs {
				if ref != nil {
					kept = append(kept, ref)
				}
			}
			l.Meanings[pos] = kept
		}
		l.posOrder = sortedKeys(l.Meanings)
	}
}

// Lang returns the section for lang, or nil.
func (d *TermDoc) Lang(lang string) *LangEntry {
	if d == nil || d.Langs == nil {
		return nil
	}
	return d.Langs[lang]
}

// FirstLang returns the section of the alphabetically first language.
func (d *TermDoc) FirstLang() *LangEntry {
	names := d.LangNames()
	if len(names) == 0 {
		return nil
	}
	return d.Langs[names[0]]
}

// LangEntry holds everything a term documents for one language.
type LangEntry struct {
	Meanings      map[string][]*MeaningRef     `json:"meanings"`
	POSOrder      []string                     `json:"pos_order,omitempty"`
	Synonyms      map[string][]*MeaningRef     `json:"synonyms,omitempty"`
	Antonyms      map[string][]*MeaningRef     `json:"antonyms,omitempty"`
	Abbreviations map[string][]*MeaningRef     `json:"abbreviations,omitempty"`
	Translations  map[string][]*TranslationSet `json:"translations,omitempty"`
	Etymology     *Etymology                   `json:"etymology,omitempty"`

	posOrder []string
}

// POSNames returns the Meanings keys in ascending order.
func (l *LangEntry) POSNames() []string {
	if l.posOrder != nil {
		return l.posOrder
	}
	return sortedKeys(l.Meanings)
}

// PrimaryPOS returns the first tag of the documented POS order, or "".
func (l *LangEntry) PrimaryPOS() string {
	if len(l.POSOrder) == 0 {
		return ""
	}
	return l.POSOrder[0]
}

// MeaningRef is a single sense as documented in the dictionary.
type MeaningRef struct {
	Gloss    string   `json:"meaning"`
	Attrs    []Attr   `json:"attrs,omitempty"`
	Links    []string `json:"links,omitempty"`
	Examples []string `json:"examples,omitempty"`
	ID       uint64   `json:"id"`
}

// Attr is a positional attribute: [name, value, extra...].
type Attr []string

// Name returns the attribute name.
func (a Attr) Name() string { return a.at(0) }

// Value returns the first attribute argument.
func (a Attr) Value() string { return a.at(1) }

func (a Attr) at(i int) string {
	if i < len(a) {
		return a[i]
	}
	return ""
}

// InflectionStem returns the stem of an "inflec" attribute.
func (a Attr) InflectionStem() (string, bool) {
	if a.Name() != fldInflec || len(a) < 3 {
		return "", false
	}
	return a[2], true
}

// TranslationSet groups the translations listed under one gloss.
type TranslationSet struct {
	Gloss string `json:"meaning"`
	// Transl maps a language name to [term, langcode] pairs.
	Transl map[string][][]string `json:"transl"`
}

// Terms returns every translated term, languages in ascending order.
func (t *TranslationSet) Terms() []string {
	var terms []string
	for _, lang := range sortedKeys(t.Transl) {
		for _, pair := range t.Transl[lang] {
			if len(pair) > 0 {
				terms = append(terms, pair[0])
			}
		}
	}
	return terms
}

// Etymology holds the etymological links and morphological decomposition.
type Etymology struct {
	Descr      string   `json:"descr,omitempty"`
	Links      []string `json:"links,omitempty"`
	MorphLinks []string `json:"morph_links,omitempty"`
	Prefix     string   `json:"prefix,omitempty"`
	Suffix     string   `json:"suffix,omitempty"`
	Stem       string   `json:"stem,omitempty"`
	Confix     []string `json:"confix,omitempty"`
	Affix      []string `json:"affix,omitempty"`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
