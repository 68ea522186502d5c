package tdv

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// snapshotRecord is one sense in the JSON snapshot.
type snapshotRecord struct {
	ID    uint64          `json:"id"`
	Term  string          `json:"term"`
	POS   string          `json:"pos"`
	Descr string          `json:"descr"`
	Lang  string          `json:"lang"`
	Repr  json.RawMessage `json:"repr"`
}

// NamedFeature is the human-readable form of one vector coordinate.
type NamedFeature struct {
	Term       string  `json:"term"`
	Category   string  `json:"category"`
	CategoryID int     `json:"category_id"`
	Value      float64 `json:"value"`
}

// Named labels every coordinate of vec with its term (or POS tag) and
// category.
func (lx *Lexicon) Named(vec Vector) map[uint64]NamedFeature {
	out := make(map[uint64]NamedFeature, len(vec))
	for dim, x := range vec {
		label, cat := lx.DimensionLabel(dim)
		out[dim] = NamedFeature{Term: label, Category: cat.String(), CategoryID: int(cat), Value: x}
	}
	return out
}

// WriteSnapshot writes every cached sense as a JSON array of
// {id, term, pos, descr, lang, repr}. With named set, repr values are
// NamedFeature objects and the output is indented.
func (e *Engine) WriteSnapshot(w io.Writer, named bool) error {
	records := make([]snapshotRecord, 0, e.cache.Len())
	var err error
	e.cache.Each(func(s *Sense) {
		if err != nil {
			return
		}
		var repr []byte
		if named {
			repr, err = json.Marshal(e.lx.Named(s.Vector))
		} else {
			repr, err = json.Marshal(s.Vector)
		}
		records = append(records, snapshotRecord{
			ID: s.ID, Term: s.Term, POS: s.POS, Descr: s.Gloss, Lang: s.Lang, Repr: repr,
		})
	})
	if err != nil {
		return fmt.Errorf("encode snapshot repr: %w", err)
	}

	enc := json.NewEncoder(w)
	if named {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// WriteSnapshotFile writes the snapshot to path.
func (e *Engine) WriteSnapshotFile(path string, named bool) error {
	return writeFile(path, func(w io.Writer) error { return e.WriteSnapshot(w, named) })
}

// ReadSnapshot fills cache from a JSON snapshot. Plain and named repr
// values are both accepted.
func ReadSnapshot(r io.Reader, cache *SenseCache) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read snapshot start: %w: %v", ErrMalformedSource, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("snapshot must be a JSON array: %w", ErrMalformedSource)
	}

	for dec.More() {
		var rec snapshotRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("decode snapshot record %d: %w: %v", cache.Len(), ErrMalformedSource, err)
		}
		vec, err := decodeRepr(rec.Repr)
		if err != nil {
			return fmt.Errorf("snapshot sense %d: %w", rec.ID, err)
		}
		cache.Put(&Sense{ID: rec.ID, Term: rec.Term, POS: rec.POS, Lang: rec.Lang, Gloss: rec.Descr, Vector: vec})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read snapshot end: %w: %v", ErrMalformedSource, err)
	}
	cache.freeze()
	return nil
}

// ReadSnapshotFile reads a JSON snapshot from path.
func ReadSnapshotFile(path string, cache *SenseCache) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()
	if err := ReadSnapshot(bufio.NewReaderSize(f, 1<<20), cache); err != nil {
		return fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return nil
}

func decodeRepr(raw json.RawMessage) (Vector, error) {
	var fields map[uint64]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("repr: %w: %v", ErrMalformedSource, err)
	}
	vec := make(Vector, len(fields))
	for dim, val := range fields {
		if v := bytes.TrimSpace(val); len(v) > 0 && v[0] == '{' {
			var nf NamedFeature
			if err := json.Unmarshal(v, &nf); err != nil {
				return nil, fmt.Errorf("repr %d: %w: %v", dim, ErrMalformedSource, err)
			}
			vec[dim] = nf.Value
			continue
		}
		var x float64
		if err := json.Unmarshal(val, &x); err != nil {
			return nil, fmt.Errorf("repr %d: %w: %v", dim, ErrMalformedSource, err)
		}
		vec[dim] = x
	}
	return vec, nil
}

type termVectorEntry struct {
	ID  uint64 `json:"id"`
	POS string `json:"pos"`
	Vec Vector `json:"vec"`
}

// WriteTermVectors writes the cached vectors grouped by term:
// {term: [{id, pos, vec}]}.
func (e *Engine) WriteTermVectors(w io.Writer) error {
	grouped := make(map[string][]termVectorEntry)
	e.cache.Each(func(s *Sense) {
		grouped[s.Term] = append(grouped[s.Term], termVectorEntry{ID: s.ID, POS: s.POS, Vec: s.Vector})
	})
	if err := json.NewEncoder(w).Encode(grouped); err != nil {
		return fmt.Errorf("write term vectors: %w", err)
	}
	return nil
}

// WriteTermVectorsFile writes the grouped term vectors to path.
func (e *Engine) WriteTermVectorsFile(path string) error {
	return writeFile(path, e.WriteTermVectors)
}

// writeFile streams fn's output into a temporary file next to path and
// renames it into place, so readers never see a partial file.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	bw := bufio.NewWriterSize(f, 1<<20)
	if err = fn(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err = f.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
