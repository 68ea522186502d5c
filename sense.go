package tdv

// Sense is one meaning of a term for one language and part of speech,
// together with its feature vector.
type Sense struct {
	ID       uint64
	Term     string
	POS      string
	Lang     string
	Gloss    string
	Vector   Vector
	Examples []Example
}

// Example is a usage sentence with the headword's byte spans.
type Example struct {
	Sentence string `json:"sentence"`
	Spans    []Span `json:"spans"`
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// newSense wraps a built vector with the sense's document data.
func newSense(ref *MeaningRef, doc *TermDoc, lang, pos string, vec Vector) *Sense {
	s := &Sense{
		ID:     ref.ID,
		Term:   doc.Title,
		POS:    pos,
		Lang:   lang,
		Gloss:  ref.Gloss,
		Vector: vec,
	}
	for _, raw := range ref.Examples {
		ex := cleanExample(raw, doc.Title)
		if len(ex.Spans) > 0 {
			s.Examples = append(s.Examples, ex)
		}
	}
	return s
}

// senseContext collects the context words a sense declares through its
// context/label attributes.
func senseContext(ref *MeaningRef) []string {
	var ctx []string
	for _, attr := range ref.Attrs {
		switch attr.Name() {
		case fldContext, fldLabel, fldLb:
			ctx = append(ctx, splitList(attr.Value(), "|")...)
		}
	}
	return ctx
}
