package tdv

import (
	"strconv"
	"strings"
)

// Neighbor is a cached sense ranked against a query vector.
type Neighbor struct {
	// ID is the sense id.
	ID uint64
	// Similarity is the cosine between the query and the sense vector.
	Similarity float64
}

// Match is a Neighbor resolved to its sense, as returned to callers.
type Match struct {
	ID         uint64  `json:"id"`
	Similarity float64 `json:"sim"`
	Term       string  `json:"term"`
	POS        string  `json:"pos"`
	Gloss      string  `json:"descr"`
}

// LinkFeatures flags direct links between two terms. In order: weak,
// strong, hypernym and synonym links, each first from the first term's
// vector to the second term and then back.
type LinkFeatures [8]bool

// String renders the flags as "1:1 2:0 ..." (1-based feature:value pairs).
func (f LinkFeatures) String() string {
	parts := make([]string, len(f))
	for i, set := range f {
		v := "0"
		if set {
			v = "1"
		}
		parts[i] = strconv.Itoa(i+1) + ":" + v
	}
	return strings.Join(parts, " ")
}
