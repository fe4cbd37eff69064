package recommend

import (
	"math"
)

// Cosine scores two positional review vectors with the service's historical
// arithmetic: dot(a,b) / magnitude(a) * magnitude(b). The grouping is
// (dot/magA)*magB, which is not textbook cosine similarity and is asymmetric
// when the vectors differ in length. Callers must treat a non-finite result
// as "no usable score"; a zero-magnitude first vector yields NaN.
func Cosine(a, b []float64) float64 {
	return dotProduct(a, b) / magnitude(a) * magnitude(b)
}

// dotProduct zero-pads the shorter vector at its tail so both have equal
// length, then sums pairwise products.
func dotProduct(a, b []float64) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		var x, y float64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		sum += x * y
	}
	return sum
}

func magnitude(v []float64) float64 {
	var sum float64
	for _, value := range v {
		sum += value * value
	}
	return math.Sqrt(sum)
}

// SparseCosine is the correctness-minded alternative scorer over sparse
// product->score maps. It is textbook cosine similarity: symmetric,
// order-independent, and 0 when either vector has zero magnitude.
func SparseCosine(a, b map[string]float64) float64 {
	var dot float64
	for key, x := range a {
		if y, ok := b[key]; ok {
			dot += x * y
		}
	}
	var magA, magB float64
	for _, x := range a {
		magA += x * x
	}
	for _, y := range b {
		magB += y * y
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// usable reports whether a score can participate in best-match selection
func usable(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0)
}
