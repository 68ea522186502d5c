package tdv

import "fmt"

// Sense id packing limits.
const (
	LangLimit    = 1000
	MeaningLimit = 10000
)

// Lexicon owns the parsed dictionary, the term↔id bijection and the
// POS tag↔index bijection. It is immutable once loaded and safe for
// concurrent reads.
type Lexicon struct {
	// docs is indexed by term id.
	docs []*TermDoc

	// index maps headword → term id.
	index map[string]int

	// posIndex maps POS tag → position in posTags.
	posIndex map[string]int
	posTags  []string
}

func newLexicon() *Lexicon {
	return &Lexicon{
		index:    make(map[string]int),
		posIndex: make(map[string]int),
	}
}

// SenseID packs a term id and the nested language/meaning offsets.
func SenseID(termID, langOffset, meaningOffset int) uint64 {
	return uint64(termID)*LangLimit*MeaningLimit + uint64(langOffset)*MeaningLimit + uint64(meaningOffset)
}

// Size returns the vocabulary size.
func (lx *Lexicon) Size() int {
	return len(lx.docs)
}

// Exists reports whether term is a headword.
func (lx *Lexicon) Exists(term string) bool {
	_, ok := lx.index[term]
	return ok
}

// IDOf returns the term id of term.
func (lx *Lexicon) IDOf(term string) (int, error) {
	id, ok := lx.index[term]
	if !ok {
		return 0, fmt.Errorf("term %q: %w", term, ErrNotFound)
	}
	return id, nil
}

// Dimension returns the feature dimension of (term, cat).
func (lx *Lexicon) Dimension(term string, cat Category) (uint64, error) {
	id, err := lx.IDOf(term)
	if err != nil {
		return 0, err
	}
	return lx.dim(id, cat), nil
}

// MustDimension is like Dimension but panics on an unknown term.
func (lx *Lexicon) MustDimension(term string, cat Category) uint64 {
	id, ok := lx.index[term]
	if !ok {
		panic(fmt.Sprintf("tdv: unknown term %q", term))
	}
	return lx.dim(id, cat)
}

// dimOf is Dimension for callers that already checked Exists.
func (lx *Lexicon) dimOf(term string, cat Category) uint64 {
	return lx.dim(lx.index[term], cat)
}

func (lx *Lexicon) dim(termID int, cat Category) uint64 {
	return uint64(cat)*uint64(len(lx.docs)) + uint64(termID)
}

// BlockStart returns the first dimension of the category block.
func (lx *Lexicon) BlockStart(cat Category) uint64 {
	return uint64(cat) * uint64(len(lx.docs))
}

// InBlock reports whether dim lies inside the category block.
func (lx *Lexicon) InBlock(dim uint64, cat Category) bool {
	return dim >= lx.BlockStart(cat) && dim < lx.BlockStart(cat+1)
}

// POSDimension returns the dimension of a POS tag. Unknown tags map to
// the first POS slot.
func (lx *Lexicon) POSDimension(tag string) uint64 {
	return lx.BlockStart(CatPOS) + uint64(lx.posIndex[tag])
}

// POSTagOf decodes a POS dimension back to its tag.
func (lx *Lexicon) POSTagOf(dim uint64) string {
	if len(lx.posTags) == 0 || len(lx.docs) == 0 {
		return ""
	}
	return lx.posTags[(dim%uint64(len(lx.docs)))%uint64(len(lx.posTags))]
}

// POSTags returns the POS tags in first-seen order.
func (lx *Lexicon) POSTags() []string {
	return lx.posTags
}

// Decode recovers the category and term id of a term-block dimension.
// For POS dimensions the second value is the POS tag index.
func (lx *Lexicon) Decode(dim uint64) (Category, int) {
	n := uint64(len(lx.docs))
	if n == 0 {
		return CatWeak, 0
	}
	cat := Category(dim / n)
	if cat >= CatPOS {
		return CatPOS, int(dim - lx.BlockStart(CatPOS))
	}
	return cat, int(dim % n)
}

// ReprWidth is the width of the whole feature space.
func (lx *Lexicon) ReprWidth() int {
	return int(lx.BlockStart(CatPOS)) + len(lx.posTags)
}

// Lookup returns the document of term.
func (lx *Lexicon) Lookup(term string) (*TermDoc, error) {
	id, err := lx.IDOf(term)
	if err != nil {
		return nil, err
	}
	return lx.docs[id], nil
}

// LookupID returns the document with the given term id.
func (lx *Lexicon) LookupID(id int) (*TermDoc, error) {
	if id < 0 || id >= len(lx.docs) {
		return nil, fmt.Errorf("term id %d: %w", id, ErrNotFound)
	}
	return lx.docs[id], nil
}

// Title returns the headword of a term id, or "".
func (lx *Lexicon) Title(id int) string {
	if id < 0 || id >= len(lx.docs) {
		return ""
	}
	return lx.docs[id].Title
}

// DimensionLabel names a dimension as (term or POS tag, category).
func (lx *Lexicon) DimensionLabel(dim uint64) (string, Category) {
	cat, id := lx.Decode(dim)
	if cat == CatPOS {
		return lx.POSTagOf(dim), CatPOS
	}
	return lx.Title(id), cat
}

// doc returns the document of a known term, or nil.
func (lx *Lexicon) doc(term string) *TermDoc {
	id, ok := lx.index[term]
	if !ok {
		return nil
	}
	return lx.docs[id]
}
