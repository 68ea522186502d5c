package tdv

import (
	"math"
	"sort"
)

// Vector is a sparse meaning vector: feature dimension → weight.
// Absent coordinates read as zero.
type Vector map[uint64]float64

// NewVector returns an empty vector.
func NewVector() Vector {
	return make(Vector)
}

// Get returns the stored value at dim, or 0.
func (v Vector) Get(dim uint64) float64 {
	return v[dim]
}

// Has reports whether dim is explicitly stored.
func (v Vector) Has(dim uint64) bool {
	_, ok := v[dim]
	return ok
}

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// Keys returns the stored dimensions in ascending order.
func (v Vector) Keys() []uint64 {
	keys := make([]uint64, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Add sums other into v coordinate-wise, in place.
func (v Vector) Add(other Vector) Vector {
	for k, x := range other {
		v[k] += x
	}
	return v
}

// Plus returns v+other without modifying either operand.
func (v Vector) Plus(other Vector) Vector {
	return v.Clone().Add(other)
}

// Scale divides every stored value by divisor, in place.
// Callers must not pass zero.
func (v Vector) Scale(divisor float64) Vector {
	for k := range v {
		v[k] /= divisor
	}
	return v
}

// Divided returns v/divisor without modifying v.
func (v Vector) Divided(divisor float64) Vector {
	return v.Clone().Scale(divisor)
}

// Dot is the dot product, iterating over the smaller key set.
func (v Vector) Dot(other Vector) float64 {
	small, large := v, other
	if len(large) < len(small) {
		small, large = large, small
	}
	var dot float64
	for k, x := range small {
		if y, ok := large[k]; ok {
			dot += x * y
		}
	}
	return dot
}

// Norm is the Euclidean norm.
func (v Vector) Norm() float64 {
	var sq float64
	for _, x := range v {
		sq += x * x
	}
	return math.Sqrt(sq)
}

// Cosine returns the cosine similarity of a and b, in [-1, 1]. A zero-norm
// operand yields 0, never NaN, and equal vectors yield exactly 1.
func Cosine(a, b Vector) float64 {
	return WeightedCosine(a, b, 1, 1)
}

// WeightedCosine is Cosine with each matched product scaled by posWeight
// when non-negative and by negWeight otherwise.
func WeightedCosine(a, b Vector, posWeight, negWeight float64) float64 {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	// Shared coordinates feed the dot product and both norms in the same
	// order, so sqSmall == sqLarge == dot when the vectors are equal.
	var dot, sqSmall, sqLarge float64
	for k, x := range small {
		sqSmall += x * x
		y, ok := large[k]
		if !ok {
			continue
		}
		sqLarge += y * y
		prod := x * y
		if prod >= 0 {
			prod *= posWeight
		} else {
			prod *= negWeight
		}
		dot += prod
	}
	for k, y := range large {
		if _, ok := small[k]; !ok {
			sqLarge += y * y
		}
	}
	return clamp(clipNaN(dot / math.Sqrt(sqSmall*sqLarge)))
}

// KeyIntersectionSize counts the dimensions stored in both a and b.
func KeyIntersectionSize(a, b Vector) int {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if _, ok := large[k]; ok {
			n++
		}
	}
	return n
}

// ToDense expands v into a slice of the given width. Dimensions at or
// beyond width are dropped.
func (v Vector) ToDense(width int) []float64 {
	dense := make([]float64, width)
	for k, x := range v {
		if k < uint64(width) {
			dense[k] = x
		}
	}
	return dense
}

// FromDense keeps every coordinate whose value is at least thresholdMin.
func FromDense(values []float64, thresholdMin float64) Vector {
	v := NewVector()
	for i, x := range values {
		if x >= thresholdMin {
			v[uint64(i)] = x
		}
	}
	return v
}

func clamp(x float64) float64 {
	return max(-1, min(1, x))
}

func clipNaN(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}
