package tdv

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityMatrix(t *testing.T) {
	e := fixtureEngine(t)
	sim, entries := e.SimilarityMatrix()
	n := e.Cache().Len()

	require.Len(t, entries, n)
	r, c := sim.Dims()
	require.Equal(t, n, r)
	require.Equal(t, n, c)

	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, sim.At(i, i))
		for j := 0; j < n; j++ {
			assert.Equal(t, sim.At(i, j), sim.At(j, i))
		}
	}

	cat := senseOf(t, e, "cat", "noun", 0)
	feline := senseOf(t, e, "feline", "noun", 0)
	var ci, fi int
	for i, entry := range entries {
		switch entry.ID {
		case cat.ID:
			ci = i
		case feline.ID:
			fi = i
		}
	}
	assert.InDelta(t, Cosine(cat.Vector, feline.Vector), sim.At(ci, fi), 1e-12)
}

func TestSimilarityMatrixEmpty(t *testing.T) {
	e := bareEngine(t, fixtureDict)
	sim, entries := e.SimilarityMatrix()
	assert.Nil(t, sim)
	assert.Empty(t, entries)
}

func TestWriteSimilarityMatrix(t *testing.T) {
	e := fixtureEngine(t)
	var grid, index bytes.Buffer
	require.NoError(t, e.WriteSimilarityMatrix(&grid, &index))

	n := e.Cache().Len()
	rows := strings.Split(strings.TrimSuffix(grid.String(), "\n"), "\n")
	require.Len(t, rows, n)
	for i, row := range rows {
		cells := strings.Split(row, "\t")
		require.Len(t, cells, n)
		diag, err := strconv.ParseFloat(cells[i], 64)
		require.NoError(t, err)
		assert.Equal(t, 1.0, diag)
	}

	var entries []MatrixEntry
	require.NoError(t, json.Unmarshal(index.Bytes(), &entries))
	require.Len(t, entries, n)
	assert.Equal(t, e.Cache().IDs()[0], entries[0].ID)
}

func TestWriteDenseVectors(t *testing.T) {
	e := fixtureEngine(t)
	var buf bytes.Buffer
	require.NoError(t, e.WriteDenseVectors(&buf, ","))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, e.Cache().Len())
	for i, line := range lines {
		fields := strings.Split(line, ",")
		require.Len(t, fields, e.EffectiveWidth()+1)
		assert.Equal(t, strconv.FormatUint(e.Cache().IDs()[i], 10), fields[0])
	}
}

func TestExportFiles(t *testing.T) {
	e := fixtureEngine(t)
	dir := t.TempDir()
	n := e.Cache().Len()

	grid, index := filepath.Join(dir, "grid.tsv"), filepath.Join(dir, "index.json")
	require.NoError(t, e.WriteSimilarityMatrixFiles(grid, index))
	data, err := os.ReadFile(grid)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSuffix(string(data), "\n"), "\n"), n)
	var entries []MatrixEntry
	data, err = os.ReadFile(index)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, n)

	dense := filepath.Join(dir, "dense.txt")
	require.NoError(t, e.WriteDenseVectorsFile(dense, ";"))
	data, err = os.ReadFile(dense)
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, e.WriteDenseVectors(&want, ";"))
	assert.Equal(t, want.String(), string(data))
}
