package recommend

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"finefoods-recommender/internal/store"
	"finefoods-recommender/pkg/logger"
)

// Scorer selects the similarity representation used for best-match search.
type Scorer string

const (
	// ScorerPositional scores pair-interleaved vectors with the legacy
	// dot/magA*magB arithmetic
	ScorerPositional Scorer = "positional"
	// ScorerSparse scores product->score maps with textbook cosine
	ScorerSparse Scorer = "sparse"
)

// Options tunes engine behavior.
type Options struct {
	// Scorer defaults to ScorerPositional
	Scorer Scorer
	// ExcludeSelf skips candidates that are the target user itself. The
	// original service compared a candidate vertex against a raw id string,
	// which never matched, so the target could end up as its own best match.
	// True excludes by node identity; false keeps the historical behavior.
	ExcludeSelf bool
}

// Recommendation is the per-request result: the target's reviewed product ids
// and the recommended ids derived from the best-matched similar user. Both
// are sets, emitted as sorted slices.
type Recommendation struct {
	UserID              string   `json:"userId"`
	ReviewedProducts    []string `json:"reviewedProducts"`
	RecommendedProducts []string `json:"recommendedProducts"`
}

// Engine computes recommendations against an entity store. It is stateless
// across requests; vectors are recomputed on every call.
type Engine struct {
	store  store.Store
	opts   Options
	logger *zap.Logger
}

// NewEngine creates a recommendation engine
func NewEngine(s store.Store, opts Options) *Engine {
	if opts.Scorer == "" {
		opts.Scorer = ScorerPositional
	}
	return &Engine{
		store:  s,
		opts:   opts,
		logger: logger.Get(),
	}
}

// SimilarUsers returns every user who reviewed any product the given user
// reviewed, in store iteration order. Duplicates are kept: a user who shares
// several products appears once per shared review edge, and the target itself
// is included. Best-match callers must tolerate revisiting candidates.
func (e *Engine) SimilarUsers(ctx context.Context, user *store.User) ([]*store.User, error) {
	products, err := e.store.ProductsForUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for user %s: %w", user.UserID, err)
	}

	var users []*store.User
	for _, product := range products {
		reviewers, err := e.store.UsersForProduct(ctx, product)
		if err != nil {
			return nil, fmt.Errorf("failed to list users for product %s: %w", product.ProductID, err)
		}
		users = append(users, reviewers...)
	}
	return users, nil
}

// Recommend resolves userID and derives the recommended product set from the
// highest-scoring similar user. The only fatal condition is an unresolvable
// target user; no candidates, zero similarity and empty product lists all
// degrade to an empty recommendation.
func (e *Engine) Recommend(ctx context.Context, userID string) (*Recommendation, error) {
	user, err := e.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	targetReviews, err := e.store.ReviewsForUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for user %s: %w", userID, err)
	}

	reviewed := make(map[string]struct{}, len(targetReviews))
	for _, review := range targetReviews {
		reviewed[review.Product.ProductID] = struct{}{}
	}

	candidates, err := e.SimilarUsers(ctx, user)
	if err != nil {
		return nil, err
	}

	score := e.scoreFunc(targetReviews)

	var best *store.User
	bestScore := 0.0
	for _, candidate := range candidates {
		if e.opts.ExcludeSelf && candidate.NodeID == user.NodeID {
			continue
		}
		candidateReviews, err := e.store.ReviewsForUser(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to load reviews for candidate %s: %w", candidate.UserID, err)
		}
		s := score(candidateReviews)
		if !usable(s) {
			// zero-magnitude vectors score NaN; never better than best
			continue
		}
		// strict > keeps the first candidate seen at the maximum score
		if s > bestScore {
			bestScore = s
			best = candidate
		}
	}

	recommendation := &Recommendation{
		UserID:              userID,
		ReviewedProducts:    sortedSet(reviewed),
		RecommendedProducts: []string{},
	}

	if best == nil {
		e.logger.Debug("No similar user scored above zero", zap.String("user_id", userID))
		return recommendation, nil
	}

	e.logger.Debug("Best matched user",
		zap.String("user_id", userID),
		zap.String("best_user_id", best.UserID),
		zap.Float64("score", bestScore),
	)

	bestProducts, err := e.store.ProductsForUser(ctx, best)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for best match %s: %w", best.UserID, err)
	}

	recommended := make(map[string]struct{})
	for _, product := range bestProducts {
		if _, seen := reviewed[product.ProductID]; !seen {
			recommended[product.ProductID] = struct{}{}
		}
	}
	recommendation.RecommendedProducts = sortedSet(recommended)

	return recommendation, nil
}

// scoreFunc binds the target's reviews into a candidate scoring closure for
// the configured scorer
func (e *Engine) scoreFunc(targetReviews []*store.Review) func([]*store.Review) float64 {
	if e.opts.Scorer == ScorerSparse {
		target := SparseVector(targetReviews)
		return func(candidateReviews []*store.Review) float64 {
			return SparseCosine(target, SparseVector(candidateReviews))
		}
	}
	target := BuildVector(targetReviews)
	return func(candidateReviews []*store.Review) float64 {
		return Cosine(target, BuildVector(candidateReviews))
	}
}

func sortedSet(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
