// Package graph implements the entity store contract on Neo4j.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"finefoods-recommender/internal/store"
	"finefoods-recommender/pkg/errors"
	"finefoods-recommender/pkg/logger"
)

// Repository handles all Neo4j database operations. It implements
// store.Store: User and Product vertices keyed on their external ids,
// REVIEWED edges carrying the ingested record attributes. The internal
// node id (id(n)) is exposed as the numeric store identity the vector
// builder encodes.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// FindUserByID looks a user up by its unique userId
func (r *Repository) FindUserByID(ctx context.Context, userID string) (*store.User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {userId: $userId})
		RETURN id(u) as node_id, u.userId as user_id, u.profileName as profile_name
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userId": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, errors.NewUserNotFound(userID)
	}

	return userFromRecord(result.Record()), nil
}

// FindUserByProfileName looks a user up by display name. Profile names are
// not unique; when duplicates exist any one match may be returned.
func (r *Repository) FindUserByProfileName(ctx context.Context, profileName string) (*store.User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {profileName: $profileName})
		RETURN id(u) as node_id, u.userId as user_id, u.profileName as profile_name
		LIMIT 1
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"profileName": profileName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, errors.NewUserNotFound(profileName)
	}

	return userFromRecord(result.Record()), nil
}

// FindProduct looks a product up by its unique productId
func (r *Repository) FindProduct(ctx context.Context, productID string) (*store.Product, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (p:Product {productId: $productId})
		RETURN id(p) as node_id, p.productId as product_id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"productId": productID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, errors.NewProductNotFound(productID)
	}

	return productFromRecord(result.Record()), nil
}

// CreateUser is find-or-create keyed on userId. MERGE with ON CREATE keeps
// the first profileName; an existing user comes back unchanged.
func (r *Repository) CreateUser(ctx context.Context, userID, profileName string) (*store.User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (u:User {userId: $userId})
		ON CREATE SET u.profileName = $profileName
		RETURN id(u) as node_id, u.userId as user_id, u.profileName as profile_name
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userId":      userID,
		"profileName": profileName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user creation: %w", err)
	}

	return userFromRecord(record), nil
}

// CreateProduct is find-or-create keyed on productId
func (r *Repository) CreateProduct(ctx context.Context, productID string) (*store.Product, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (p:Product {productId: $productId})
		RETURN id(p) as node_id, p.productId as product_id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"productId": productID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify product creation: %w", err)
	}

	return productFromRecord(record), nil
}

// CreateReview creates one new REVIEWED edge from user to product carrying
// every key/value in attrs. CREATE (not MERGE): multiple reviews between the
// same pair are allowed.
func (r *Repository) CreateReview(ctx context.Context, user *store.User, product *store.Product, attrs map[string]any) (*store.Review, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (u:User) WHERE id(u) = $userNodeId
		MATCH (p:Product) WHERE id(p) = $productNodeId
		CREATE (u)-[r:REVIEWED]->(p)
		SET r += $attrs
		RETURN r.score as score
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userNodeId":    user.NodeID,
		"productNodeId": product.NodeID,
		"attrs":         attrs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify review creation: %w", err)
	}

	return &store.Review{
		Product: product,
		Score:   getFloat64FromRecord(record, "score"),
		Attrs:   attrs,
	}, nil
}

// ProductsForUser returns all products reachable via the user's outgoing
// REVIEWED edges, one entry per edge, in store iteration order
func (r *Repository) ProductsForUser(ctx context.Context, user *store.User) ([]*store.Product, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User)-[:REVIEWED]->(p:Product)
		WHERE id(u) = $nodeId
		RETURN id(p) as node_id, p.productId as product_id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"nodeId": user.NodeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products for user: %w", err)
	}

	var products []*store.Product
	for result.Next(ctx) {
		products = append(products, productFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return products, nil
}

// UsersForProduct returns all users reachable via the product's incoming
// REVIEWED edges, one entry per edge
func (r *Repository) UsersForProduct(ctx context.Context, product *store.Product) ([]*store.User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User)-[:REVIEWED]->(p:Product)
		WHERE id(p) = $nodeId
		RETURN id(u) as node_id, u.userId as user_id, u.profileName as profile_name
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"nodeId": product.NodeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users for product: %w", err)
	}

	var users []*store.User
	for result.Next(ctx) {
		users = append(users, userFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return users, nil
}

// ReviewsForUser returns the user's outgoing review edges with their target
// product and score
func (r *Repository) ReviewsForUser(ctx context.Context, user *store.User) ([]*store.Review, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User)-[r:REVIEWED]->(p:Product)
		WHERE id(u) = $nodeId
		RETURN id(p) as node_id, p.productId as product_id, r.score as score, properties(r) as attrs
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"nodeId": user.NodeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for user: %w", err)
	}

	var reviews []*store.Review
	for result.Next(ctx) {
		record := result.Record()
		reviews = append(reviews, &store.Review{
			Product: productFromRecord(record),
			Score:   getFloat64FromRecord(record, "score"),
			Attrs:   getMapFromRecord(record, "attrs"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return reviews, nil
}
