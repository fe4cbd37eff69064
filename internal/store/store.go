// Package store defines the entity store contract used by the recommendation
// engine and the bulk loader. Implementations live here (MemoryStore) and in
// internal/graph (Neo4j).
package store

import (
	"context"
)

// User is a user vertex. NodeID is the store-internal numeric identity; it is
// what the vector builder encodes, not the external UserID.
type User struct {
	NodeID      int64
	UserID      string
	ProfileName string
}

// Product is a product vertex.
type Product struct {
	NodeID    int64
	ProductID string
}

// Review is one outgoing review edge of a user. Attrs carries every key/value
// copied verbatim from the ingested record.
type Review struct {
	Product *Product
	Score   float64
	Attrs   map[string]any
}

// Store is the entity store adapter. All operations are synchronous; lookups
// fail with pkg/errors NotFound types when no entity matches, create
// operations are find-or-create on the external key, and CreateReview always
// creates a new edge (multiple reviews between the same pair are allowed).
//
// Neighbor and review sequences come back in store iteration order, which is
// not guaranteed stable across implementations.
type Store interface {
	// FindUserByID looks a user up by its unique userId
	FindUserByID(ctx context.Context, userID string) (*User, error)
	// FindUserByProfileName looks a user up by display name. Profile names
	// are not unique; when duplicates exist any one match may be returned.
	FindUserByProfileName(ctx context.Context, profileName string) (*User, error)
	// FindProduct looks a product up by its unique productId
	FindProduct(ctx context.Context, productID string) (*Product, error)

	// CreateUser returns the existing user for userID, or creates one with
	// both attributes set. An existing user is returned unchanged; the
	// profileName argument is ignored on a hit.
	CreateUser(ctx context.Context, userID, profileName string) (*User, error)
	// CreateProduct is find-or-create keyed on productID
	CreateProduct(ctx context.Context, productID string) (*Product, error)
	// CreateReview creates one new review edge from user to product carrying
	// every key/value in attrs. It never deduplicates.
	CreateReview(ctx context.Context, user *User, product *Product, attrs map[string]any) (*Review, error)

	// ProductsForUser returns all products reachable via the user's outgoing
	// review edges, one entry per edge
	ProductsForUser(ctx context.Context, user *User) ([]*Product, error)
	// UsersForProduct returns all users reachable via the product's incoming
	// review edges, one entry per edge
	UsersForProduct(ctx context.Context, product *Product) ([]*User, error)
	// ReviewsForUser returns the user's outgoing review edges with their
	// target product and score, in the same order ProductsForUser iterates
	ReviewsForUser(ctx context.Context, user *User) ([]*Review, error)
}
