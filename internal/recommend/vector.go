package recommend

import (
	"finefoods-recommender/internal/store"
)

// BuildVector projects a user's outgoing reviews onto the positional feature
// vector: for each review, in store iteration order, the numeric node
// identity of the reviewed product followed by the review's score. The result
// always has even length (2 entries per review).
//
// The encoding is positional, not a fixed feature space: two users who
// reviewed the same products in a different storage order produce vectors a
// positional comparison treats as dissimilar. That is a known weakness of the
// scoring design, preserved for behavioral fidelity; see SparseVector for the
// order-independent alternative.
func BuildVector(reviews []*store.Review) []float64 {
	vector := make([]float64, 0, len(reviews)*2)
	for _, review := range reviews {
		vector = append(vector, float64(review.Product.NodeID), review.Score)
	}
	return vector
}

// SparseVector projects the same reviews onto a product-id -> score map for
// the sparse scorer. When a user reviewed a product more than once the last
// edge in iteration order wins.
func SparseVector(reviews []*store.Review) map[string]float64 {
	vector := make(map[string]float64, len(reviews))
	for _, review := range reviews {
		vector[review.Product.ProductID] = review.Score
	}
	return vector
}
