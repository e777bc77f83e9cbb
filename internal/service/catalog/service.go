// Package catalog keeps the console's read-only copy of the product list,
// refreshed on demand. Stock bounds for cart validation are read from this
// snapshot; completed checkouts trigger a refresh because the backend
// decrements stock.
package catalog

import (
	"context"
	"log"
	"sync"

	"retail-console/internal/domain"
)

type lister interface {
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
}

type Service struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[int64]domain.Product
	loaded   bool

	client lister
	logger *log.Logger
}

func New(client lister, logger *log.Logger) *Service {
	return &Service{
		byID:   make(map[int64]domain.Product),
		client: client,
		logger: logger,
	}
}

// Refresh replaces the snapshot wholesale. On failure the previous snapshot
// is left intact.
func (s *Service) Refresh(ctx context.Context, token string) ([]domain.Product, error) {
	products, err := s.client.ListProducts(ctx, token)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.loaded = true
	s.mu.Unlock()

	return products, nil
}

// Products returns the cached list, fetching once if nothing was loaded yet.
func (s *Service) Products(ctx context.Context, token string) ([]domain.Product, error) {
	s.mu.RLock()
	loaded := s.loaded
	cached := s.products
	s.mu.RUnlock()

	if loaded {
		return cached, nil
	}
	return s.Refresh(ctx, token)
}

// Find looks a product up in the snapshot.
func (s *Service) Find(id int64) (*domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &p, true
}
