package store

import (
	"context"
	"sync"

	"finefoods-recommender/internal/constants"
	"finefoods-recommender/pkg/errors"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Edges are kept in insertion order, which plays the role of the graph
// store's iteration order. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[string]*User    // by userId
	products map[string]*Product // by productId
	outgoing map[int64][]*edge   // user NodeID -> review edges
	incoming map[int64][]*edge   // product NodeID -> review edges
}

type edge struct {
	user    *User
	product *Product
	attrs   map[string]any
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*User),
		products: make(map[string]*Product),
		outgoing: make(map[int64][]*edge),
		incoming: make(map[int64][]*edge),
	}
}

func (m *MemoryStore) FindUserByID(ctx context.Context, userID string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, errors.NewUserNotFound(userID)
	}
	return u, nil
}

func (m *MemoryStore) FindUserByProfileName(ctx context.Context, profileName string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// profileName is not unique; any matching user may be returned
	for _, u := range m.users {
		if u.ProfileName == profileName {
			return u, nil
		}
	}
	return nil, errors.NewUserNotFound(profileName)
}

func (m *MemoryStore) FindProduct(ctx context.Context, productID string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[productID]
	if !ok {
		return nil, errors.NewProductNotFound(productID)
	}
	return p, nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, userID, profileName string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	m.nextID++
	u := &User{NodeID: m.nextID, UserID: userID, ProfileName: profileName}
	m.users[userID] = u
	return u, nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, productID string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.products[productID]; ok {
		return p, nil
	}
	m.nextID++
	p := &Product{NodeID: m.nextID, ProductID: productID}
	m.products[productID] = p
	return p, nil
}

func (m *MemoryStore) CreateReview(ctx context.Context, user *User, product *Product, attrs map[string]any) (*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	e := &edge{user: user, product: product, attrs: copied}
	m.outgoing[user.NodeID] = append(m.outgoing[user.NodeID], e)
	m.incoming[product.NodeID] = append(m.incoming[product.NodeID], e)

	return &Review{Product: product, Score: scoreOf(copied), Attrs: copied}, nil
}

func (m *MemoryStore) ProductsForUser(ctx context.Context, user *User) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := m.outgoing[user.NodeID]
	products := make([]*Product, 0, len(edges))
	for _, e := range edges {
		products = append(products, e.product)
	}
	return products, nil
}

func (m *MemoryStore) UsersForProduct(ctx context.Context, product *Product) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := m.incoming[product.NodeID]
	users := make([]*User, 0, len(edges))
	for _, e := range edges {
		users = append(users, e.user)
	}
	return users, nil
}

func (m *MemoryStore) ReviewsForUser(ctx context.Context, user *User) ([]*Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := m.outgoing[user.NodeID]
	reviews := make([]*Review, 0, len(edges))
	for _, e := range edges {
		reviews = append(reviews, &Review{Product: e.product, Score: scoreOf(e.attrs), Attrs: e.attrs})
	}
	return reviews, nil
}

func scoreOf(attrs map[string]any) float64 {
	switch v := attrs[constants.AttrScore].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
