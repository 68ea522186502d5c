package tdv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadLexiconFile opens path and loads the dictionary it holds.
func LoadLexiconFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer f.Close()

	lx, err := LoadLexicon(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("load dictionary %s: %w", path, err)
	}
	return lx, nil
}

// LoadLexicon decodes a JSON array of term documents. Term ids follow
// encounter order and duplicate headwords are skipped (first one wins).
// Every sense receives its id; POS tags are registered as first seen.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read dictionary start: %w: %v", ErrMalformedSource, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("dictionary must be a JSON array: %w", ErrMalformedSource)
	}

	lx := newLexicon()
	for dec.More() {
		doc := &TermDoc{}
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("decode entry %d: %w: %v", len(lx.docs), ErrMalformedSource, err)
		}
		lx.addDoc(doc)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read dictionary end: %w: %v", ErrMalformedSource, err)
	}
	return lx, nil
}

// addDoc registers doc unless its title was already seen.
func (lx *Lexicon) addDoc(doc *TermDoc) {
	if _, dup := lx.index[doc.Title]; dup {
		return
	}
	doc.prepare()

	termID := len(lx.docs)
	lx.docs = append(lx.docs, doc)
	lx.index[doc.Title] = termID

	for langOffset, lang := range doc.LangNames() {
		entry := doc.Langs[lang]
		if entry == nil {
			continue
		}
		meaningOffset := 0
		for _, pos := range entry.POSNames() {
			for _, ref := range entry.Meanings[pos] {
				ref.ID = SenseID(termID, langOffset, meaningOffset)
				meaningOffset++
			}
			lx.registerPOS(pos)
		}
	}
}

func (lx *Lexicon) registerPOS(tag string) {
	if _, ok := lx.posIndex[tag]; ok {
		return
	}
	lx.posIndex[tag] = len(lx.posTags)
	lx.posTags = append(lx.posTags, tag)
}
