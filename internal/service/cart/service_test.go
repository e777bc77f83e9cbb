package cart

import (
	"context"
	"errors"
	"testing"

	"retail-console/internal/domain"
)

type stubBackend struct {
	createCart *domain.Cart
	createErr  error

	getResults []*domain.Cart
	getErr     error
	getCalls   int

	addErr    error
	updateErr error
	removeErr error
	clearErr  error

	lastCartID    int64
	lastProductID int64
	lastQuantity  int
	clearCalls    int
}

func (s *stubBackend) CreateCart(_ context.Context, _ string) (*domain.Cart, error) {
	return s.createCart, s.createErr
}

func (s *stubBackend) GetCart(_ context.Context, _ string, cartID int64) (*domain.Cart, error) {
	s.lastCartID = cartID
	if s.getErr != nil {
		return nil, s.getErr
	}
	var res *domain.Cart
	if len(s.getResults) > 0 {
		idx := s.getCalls
		if idx >= len(s.getResults) {
			idx = len(s.getResults) - 1
		}
		res = s.getResults[idx]
	}
	s.getCalls++
	return res, nil
}

func (s *stubBackend) AddItem(_ context.Context, _ string, cartID, productID int64, quantity int) (*domain.Cart, error) {
	s.lastCartID, s.lastProductID, s.lastQuantity = cartID, productID, quantity
	return nil, s.addErr
}

func (s *stubBackend) UpdateQuantity(_ context.Context, _ string, cartID, productID int64, quantity int) (*domain.Cart, error) {
	s.lastCartID, s.lastProductID, s.lastQuantity = cartID, productID, quantity
	return nil, s.updateErr
}

func (s *stubBackend) RemoveItem(_ context.Context, _ string, cartID, productID int64) (*domain.Cart, error) {
	s.lastCartID, s.lastProductID = cartID, productID
	return nil, s.removeErr
}

func (s *stubBackend) ClearCart(_ context.Context, _ string, cartID int64) error {
	s.lastCartID = cartID
	s.clearCalls++
	return s.clearErr
}

type stubStock struct {
	products map[int64]domain.Product
}

func (s *stubStock) Find(id int64) (*domain.Product, bool) {
	p, ok := s.products[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func stockWith(id int64, quantity int) *stubStock {
	return &stubStock{products: map[int64]domain.Product{
		id: {ID: id, ProductName: "Milk", Price: 45, StockQuantity: quantity},
	}}
}

func TestAddItemRequiresActiveCart(t *testing.T) {
	mgr := NewManager(&stubBackend{}, stockWith(1, 10))
	_, err := mgr.AddItem(context.Background(), "tok", 1, 1)
	if !errors.Is(err, domain.ErrNoActiveCart) {
		t.Fatalf("expected ErrNoActiveCart, got %v", err)
	}
}

func TestQuantityBounds(t *testing.T) {
	cases := []struct {
		name      string
		productID int64
		quantity  int
		wantErr   bool
		notFound  bool
	}{
		{"below minimum", 1, 0, true, false},
		{"negative", 1, -3, true, false},
		{"minimum", 1, 1, false, false},
		{"at stock", 1, 10, false, false},
		{"over stock", 1, 11, true, false},
		{"unknown product", 99, 1, true, true},
	}

	for _, tc := range cases {
		backend := &stubBackend{getResults: []*domain.Cart{{ID: 5}}}
		mgr := NewManager(backend, stockWith(1, 10))
		mgr.Adopt(5)

		_, err := mgr.AddItem(context.Background(), "tok", tc.productID, tc.quantity)
		if !tc.wantErr {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.notFound {
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("%s: expected ErrNotFound, got %v", tc.name, err)
			}
			continue
		}
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if backend.lastQuantity != 0 {
			t.Fatalf("%s: mutation sent despite validation failure", tc.name)
		}
	}
}

func TestMutationRefetchesCart(t *testing.T) {
	refreshed := &domain.Cart{
		ID:    5,
		Items: []domain.CartItem{{ProductID: 1, Name: "Milk", Price: 45, Quantity: 2}},
		Total: 90,
	}
	backend := &stubBackend{getResults: []*domain.Cart{refreshed}}
	mgr := NewManager(backend, stockWith(1, 10))
	mgr.Adopt(5)

	got, err := mgr.AddItem(context.Background(), "tok", 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 90 || len(got.Items) != 1 {
		t.Fatalf("expected server-computed cart, got %+v", got)
	}
	if backend.getCalls != 1 {
		t.Fatalf("expected one refetch, got %d", backend.getCalls)
	}

	// Current must return the refreshed copy, not share it.
	current := mgr.Current()
	current.Items[0].Quantity = 99
	if mgr.Current().Items[0].Quantity == 99 {
		t.Fatal("Current returned a shared slice")
	}
}

func TestStaleRefreshKeepsPreviousCopy(t *testing.T) {
	initial := &domain.Cart{ID: 5, Items: []domain.CartItem{{ProductID: 1, Quantity: 1}}, Total: 45}
	backend := &stubBackend{getResults: []*domain.Cart{initial}}
	mgr := NewManager(backend, stockWith(1, 10))
	mgr.Adopt(5)

	if _, err := mgr.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	backend.getErr = errors.New("gateway timeout")
	got, err := mgr.AddItem(context.Background(), "tok", 1, 2)
	if !errors.Is(err, ErrStaleRefresh) {
		t.Fatalf("expected ErrStaleRefresh, got %v", err)
	}
	if got == nil || got.Total != 45 {
		t.Fatalf("expected stale copy returned, got %+v", got)
	}
}

func TestRefreshGoneCartIsBenign(t *testing.T) {
	backend := &stubBackend{getErr: domain.ErrNotFound}
	mgr := NewManager(backend, stockWith(1, 10))
	mgr.Adopt(5)

	got, err := mgr.Refresh(context.Background(), "tok")
	if err != nil {
		t.Fatalf("a deleted cart must not be an error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil cart, got %+v", got)
	}
	if mgr.Current() != nil {
		t.Fatal("expected local state dropped")
	}
}

func TestRefreshWithoutCart(t *testing.T) {
	backend := &stubBackend{}
	mgr := NewManager(backend, stockWith(1, 10))

	got, err := mgr.Refresh(context.Background(), "tok")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil, got %v, %v", got, err)
	}
	if backend.getCalls != 0 {
		t.Fatal("no fetch expected without a cart")
	}
}

func TestClearNullifiesAfterConfirmation(t *testing.T) {
	backend := &stubBackend{}
	mgr := NewManager(backend, stockWith(1, 10))
	mgr.Adopt(5)

	if err := mgr.Clear(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.clearCalls != 1 || backend.lastCartID != 5 {
		t.Fatalf("expected one clear of cart 5, got %d of %d", backend.clearCalls, backend.lastCartID)
	}
	if mgr.Current() != nil {
		t.Fatal("expected nil cart after clear")
	}
}

func TestClearFailureKeepsCart(t *testing.T) {
	backend := &stubBackend{clearErr: errors.New("backend down")}
	mgr := NewManager(backend, stockWith(1, 10))
	mgr.Adopt(5)

	if err := mgr.Clear(context.Background(), "tok"); err == nil {
		t.Fatal("expected error")
	}
	if mgr.Current() == nil {
		t.Fatal("cart must survive a failed clear")
	}
}

func TestCreateReplacesCurrentCart(t *testing.T) {
	created := &domain.Cart{ID: 9, Status: "ACTIVE"}
	backend := &stubBackend{createCart: created}
	mgr := NewManager(backend, stockWith(1, 10))
	mgr.Adopt(5)

	got, err := mgr.Create(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 9 || mgr.Current().ID != 9 {
		t.Fatalf("expected cart 9 adopted, got %+v", got)
	}
}
