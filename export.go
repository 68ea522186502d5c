package tdv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// MatrixEntry names one row (and column) of the similarity matrix.
type MatrixEntry struct {
	ID   uint64 `json:"id"`
	Term string `json:"term"`
	POS  string `json:"pos"`
}

// SimilarityMatrix computes the cosine between every pair of cached senses,
// in ascending id order. The diagonal is 1.
func (e *Engine) SimilarityMatrix() (*mat.SymDense, []MatrixEntry) {
	ids := e.cache.IDs()
	n := len(ids)
	entries := make([]MatrixEntry, n)
	vecs := make([]Vector, n)
	for i, id := range ids {
		s, _ := e.cache.Get(id)
		entries[i] = MatrixEntry{ID: s.ID, Term: s.Term, POS: s.POS}
		vecs[i] = s.Vector
	}

	if n == 0 {
		return nil, entries
	}
	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sim.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			sim.SetSym(i, j, Cosine(vecs[i], vecs[j]))
		}
	}
	return sim, entries
}

// WriteSimilarityMatrix writes the matrix as tab-separated rows to grid and
// the row labels as a JSON array to index.
func (e *Engine) WriteSimilarityMatrix(grid, index io.Writer) error {
	sim, entries := e.SimilarityMatrix()

	bw := bufio.NewWriter(grid)
	var buf []byte
	for i := range entries {
		buf = buf[:0]
		for j := range entries {
			if j > 0 {
				buf = append(buf, '\t')
			}
			buf = strconv.AppendFloat(buf, sim.At(i, j), 'g', 6, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write similarity row %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write similarity matrix: %w", err)
	}

	if err := json.NewEncoder(index).Encode(entries); err != nil {
		return fmt.Errorf("write similarity index: %w", err)
	}
	return nil
}

// WriteDenseVectors writes one line per sense: the sense id followed by
// its values over the effective dimensions, separated by sep.
func (e *Engine) WriteDenseVectors(w io.Writer, sep string) error {
	width := e.EffectiveWidth()
	bw := bufio.NewWriter(w)
	var err error
	e.cache.Each(func(s *Sense) {
		if err != nil {
			return
		}
		buf := strconv.AppendUint(nil, s.ID, 10)
		for _, x := range e.EffectiveVector(s.Vector).ToDense(width) {
			buf = append(buf, sep...)
			buf = strconv.AppendFloat(buf, x, 'g', 6, 64)
		}
		buf = append(buf, '\n')
		_, err = bw.Write(buf)
	})
	if err != nil {
		return fmt.Errorf("write dense vectors: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write dense vectors: %w", err)
	}
	return nil
}

// WriteSimilarityMatrixFiles writes the matrix grid and its row labels to
// gridPath and indexPath.
func (e *Engine) WriteSimilarityMatrixFiles(gridPath, indexPath string) error {
	return writeFile(gridPath, func(grid io.Writer) error {
		return writeFile(indexPath, func(index io.Writer) error {
			return e.WriteSimilarityMatrix(grid, index)
		})
	})
}

// WriteDenseVectorsFile writes the dense effective-dimension rows to path.
func (e *Engine) WriteDenseVectorsFile(path, sep string) error {
	return writeFile(path, func(w io.Writer) error { return e.WriteDenseVectors(w, sep) })
}
