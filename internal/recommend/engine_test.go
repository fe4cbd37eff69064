package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finefoods-recommender/internal/constants"
	"finefoods-recommender/internal/store"
	"finefoods-recommender/pkg/errors"
)

func mustUser(t *testing.T, s *store.MemoryStore, userID, profileName string) *store.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), userID, profileName)
	require.NoError(t, err)
	return user
}

func mustProduct(t *testing.T, s *store.MemoryStore, productID string) *store.Product {
	t.Helper()
	product, err := s.CreateProduct(context.Background(), productID)
	require.NoError(t, err)
	return product
}

func mustReview(t *testing.T, s *store.MemoryStore, user *store.User, product *store.Product, score float64) {
	t.Helper()
	_, err := s.CreateReview(context.Background(), user, product, map[string]any{
		constants.AttrUserID:    user.UserID,
		constants.AttrProductID: product.ProductID,
		constants.AttrScore:     score,
	})
	require.NoError(t, err)
}

func TestEngine_RecommendPicksBestMatch(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u1 := mustUser(t, s, "U1", "Alice")
	p1 := mustProduct(t, s, "P1")
	p2 := mustProduct(t, s, "P2")
	u2 := mustUser(t, s, "U2", "Bob")
	p3 := mustProduct(t, s, "P3")
	u3 := mustUser(t, s, "U3", "Carol")

	mustReview(t, s, u1, p1, 5)
	mustReview(t, s, u1, p2, 3)
	// U2 shares U1's history and adds P3: the strongest match
	mustReview(t, s, u2, p1, 5)
	mustReview(t, s, u2, p2, 3)
	mustReview(t, s, u2, p3, 4)
	// U3 shares one product with a different score: a weak match
	mustReview(t, s, u3, p1, 1)

	engine := NewEngine(s, Options{ExcludeSelf: true})
	rec, err := engine.Recommend(ctx, "U1")
	require.NoError(t, err)

	assert.Equal(t, "U1", rec.UserID)
	assert.Equal(t, []string{"P1", "P2"}, rec.ReviewedProducts)
	assert.Equal(t, []string{"P3"}, rec.RecommendedProducts)

	// recommended and reviewed sets are always disjoint
	for _, id := range rec.RecommendedProducts {
		assert.NotContains(t, rec.ReviewedProducts, id)
	}
}

func TestEngine_TieBreakKeepsFirstCandidate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	target := mustUser(t, s, "T", "")
	p1 := mustProduct(t, s, "P1")
	a := mustUser(t, s, "A", "")
	b := mustUser(t, s, "B", "")
	p2 := mustProduct(t, s, "P2")
	p3 := mustProduct(t, s, "P3")

	mustReview(t, s, target, p1, 4)
	mustReview(t, s, a, p1, 5)
	mustReview(t, s, b, p1, 5)
	// scores chosen so both candidate vectors have identical magnitude
	mustReview(t, s, a, p2, 6)
	mustReview(t, s, b, p3, 5)

	engine := NewEngine(s, Options{ExcludeSelf: true})
	rec, err := engine.Recommend(ctx, "T")
	require.NoError(t, err)

	// A and B tie; A was enumerated first and strict > keeps it
	assert.Equal(t, []string{"P2"}, rec.RecommendedProducts)
}

func TestEngine_SelfCandidateToggle(t *testing.T) {
	ctx := context.Background()
	seed := func() *store.MemoryStore {
		s := store.NewMemoryStore()
		target := mustUser(t, s, "T", "")
		p1 := mustProduct(t, s, "P1")
		p2 := mustProduct(t, s, "P2")
		p3 := mustProduct(t, s, "P3")
		a := mustUser(t, s, "A", "")
		p4 := mustProduct(t, s, "P4")

		mustReview(t, s, target, p1, 5)
		mustReview(t, s, target, p2, 5)
		mustReview(t, s, target, p3, 5)
		mustReview(t, s, a, p1, 1)
		mustReview(t, s, a, p4, 1)
		return s
	}

	// legacy behavior: the target appears in its own candidate list and
	// out-scores everyone, so the recommendation diff is empty
	legacy := NewEngine(seed(), Options{ExcludeSelf: false})
	rec, err := legacy.Recommend(ctx, "T")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2", "P3"}, rec.ReviewedProducts)
	assert.Empty(t, rec.RecommendedProducts)

	// with true identity exclusion A becomes the best match
	fixed := NewEngine(seed(), Options{ExcludeSelf: true})
	rec, err = fixed.Recommend(ctx, "T")
	require.NoError(t, err)
	assert.Equal(t, []string{"P4"}, rec.RecommendedProducts)
}

func TestEngine_TargetWithNoReviews(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	mustUser(t, s, "T", "")

	engine := NewEngine(s, Options{ExcludeSelf: true})
	rec, err := engine.Recommend(ctx, "T")
	require.NoError(t, err)

	assert.Empty(t, rec.ReviewedProducts)
	assert.Empty(t, rec.RecommendedProducts)
}

func TestEngine_UnknownUserFails(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(store.NewMemoryStore(), Options{})

	_, err := engine.Recommend(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestEngine_SparseScorerIgnoresStorageOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	target := mustUser(t, s, "T", "")
	p1 := mustProduct(t, s, "P1")
	p2 := mustProduct(t, s, "P2")
	a := mustUser(t, s, "A", "")
	p3 := mustProduct(t, s, "P3")

	mustReview(t, s, target, p1, 5)
	mustReview(t, s, target, p2, 3)
	// A reviewed the same products in the opposite storage order; the
	// positional scorer would misalign them, the sparse scorer does not
	mustReview(t, s, a, p2, 3)
	mustReview(t, s, a, p1, 5)
	mustReview(t, s, a, p3, 4)

	engine := NewEngine(s, Options{Scorer: ScorerSparse, ExcludeSelf: true})
	rec, err := engine.Recommend(ctx, "T")
	require.NoError(t, err)
	assert.Equal(t, []string{"P3"}, rec.RecommendedProducts)
}

func TestEngine_SimilarUsersKeepsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	target := mustUser(t, s, "T", "")
	p1 := mustProduct(t, s, "P1")
	p2 := mustProduct(t, s, "P2")
	a := mustUser(t, s, "A", "")

	mustReview(t, s, target, p1, 5)
	mustReview(t, s, target, p2, 4)
	mustReview(t, s, a, p1, 5)
	mustReview(t, s, a, p2, 4)

	engine := NewEngine(s, Options{})
	user, err := s.FindUserByID(ctx, "T")
	require.NoError(t, err)

	candidates, err := engine.SimilarUsers(ctx, user)
	require.NoError(t, err)

	// one entry per shared review edge, self included
	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.UserID)
	}
	assert.Equal(t, []string{"T", "A", "T", "A"}, ids)
}
