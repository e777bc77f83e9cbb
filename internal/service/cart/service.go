// Package cart owns the in-memory cart state for one manager desk, mirrored
// from the backend. Quantity bounds are validated against the catalog
// snapshot before any network call; after every server-side mutation the full
// cart is re-fetched so the server-computed total stays authoritative.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"retail-console/internal/domain"
)

// ErrStaleRefresh marks the known consistency gap: the server mutation
// succeeded but the follow-up fetch failed, so the local copy is stale until
// the next successful fetch. Callers surface a notice instead of failing the
// action.
var ErrStaleRefresh = errors.New("cart mutated but refresh failed; local copy is stale")

type backend interface {
	CreateCart(ctx context.Context, token string) (*domain.Cart, error)
	GetCart(ctx context.Context, token string, cartID int64) (*domain.Cart, error)
	AddItem(ctx context.Context, token string, cartID, productID int64, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, token string, cartID, productID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, token string, cartID, productID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, token string, cartID int64) error
}

type stockFinder interface {
	Find(id int64) (*domain.Product, bool)
}

type Manager struct {
	mu     sync.Mutex
	cart   *domain.Cart
	client backend
	stock  stockFinder
}

func NewManager(client backend, stock stockFinder) *Manager {
	return &Manager{client: client, stock: stock}
}

// Adopt points the manager at an existing backend cart (e.g. restored from a
// session record) without fetching it yet.
func (m *Manager) Adopt(cartID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cartID > 0 {
		m.cart = &domain.Cart{ID: cartID}
	}
}

// Current returns a copy of the mirrored cart, or nil when no cart is active.
func (m *Manager) Current() *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneCart(m.cart)
}

// Create requests a new empty cart and replaces the current state
// unconditionally. On failure the previous state is left unchanged.
func (m *Manager) Create(ctx context.Context, token string) (*domain.Cart, error) {
	created, err := m.client.CreateCart(ctx, token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cart = created
	m.mu.Unlock()
	return cloneCart(created), nil
}

// AddItem validates 1 <= quantity <= stock, sends the mutation, then
// re-fetches the cart.
func (m *Manager) AddItem(ctx context.Context, token string, productID int64, quantity int) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart == nil {
		return nil, domain.ErrNoActiveCart
	}
	if err := m.checkQuantity(productID, quantity); err != nil {
		return nil, err
	}

	if _, err := m.client.AddItem(ctx, token, m.cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return m.refreshLocked(ctx, token)
}

// UpdateQuantity applies the same bound check as AddItem.
func (m *Manager) UpdateQuantity(ctx context.Context, token string, productID int64, quantity int) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart == nil {
		return nil, domain.ErrNoActiveCart
	}
	if err := m.checkQuantity(productID, quantity); err != nil {
		return nil, err
	}

	if _, err := m.client.UpdateQuantity(ctx, token, m.cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return m.refreshLocked(ctx, token)
}

func (m *Manager) RemoveItem(ctx context.Context, token string, productID int64) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart == nil {
		return nil, domain.ErrNoActiveCart
	}

	if _, err := m.client.RemoveItem(ctx, token, m.cart.ID, productID); err != nil {
		return nil, err
	}
	return m.refreshLocked(ctx, token)
}

// Clear deletes the backend cart and nullifies local state immediately after
// server confirmation.
func (m *Manager) Clear(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart == nil {
		return domain.ErrNoActiveCart
	}
	if err := m.client.ClearCart(ctx, token, m.cart.ID); err != nil {
		return err
	}
	m.cart = nil
	return nil
}

// Refresh re-fetches the mirrored cart. A backend 404 is benign: the cart was
// consumed by a completed checkout (or cleared elsewhere) and local state
// becomes nil.
func (m *Manager) Refresh(ctx context.Context, token string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart == nil {
		return nil, nil
	}

	fetched, err := m.client.GetCart(ctx, token, m.cart.ID)
	if errors.Is(err, domain.ErrNotFound) {
		m.cart = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.cart = fetched
	return cloneCart(fetched), nil
}

// Invalidate drops local cart state without touching the backend. Called when
// a checkout completes and the backend has already deleted the cart.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = nil
}

func (m *Manager) checkQuantity(productID int64, quantity int) error {
	if quantity < 1 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	product, ok := m.stock.Find(productID)
	if !ok {
		return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	if quantity > product.StockQuantity {
		return &domain.ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("exceeds available stock (%d)", product.StockQuantity),
		}
	}
	return nil
}

// refreshLocked re-fetches after a successful mutation. A refresh failure
// leaves the previous (now stale) copy in place and reports ErrStaleRefresh.
func (m *Manager) refreshLocked(ctx context.Context, token string) (*domain.Cart, error) {
	fetched, err := m.client.GetCart(ctx, token, m.cart.ID)
	if errors.Is(err, domain.ErrNotFound) {
		m.cart = nil
		return nil, nil
	}
	if err != nil {
		return cloneCart(m.cart), fmt.Errorf("%w: %v", ErrStaleRefresh, err)
	}
	m.cart = fetched
	return cloneCart(fetched), nil
}

func cloneCart(c *domain.Cart) *domain.Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = append([]domain.CartItem(nil), c.Items...)
	return &out
}
