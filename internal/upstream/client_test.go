package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"retail-console/internal/domain"
)

func TestMissingTokenShortCircuits(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.ListProducts(context.Background(), "")
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatal("request reached the backend without a token")
	}
}

func TestBearerHeaderSet(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	if _, err := client.ListProducts(context.Background(), "tok123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestStructuredErrorSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Insufficient stock for product Milk"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.ListProducts(context.Background(), "tok")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Insufficient stock for product Milk" {
		t.Fatalf("unexpected APIError %+v", apiErr)
	}
}

func TestUnstructuredErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	_, err := client.ListProducts(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("unstructured body must not produce an APIError: %v", err)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrCredentialRejected},
		{http.StatusForbidden, domain.ErrCredentialRejected},
		{http.StatusNotFound, domain.ErrNotFound},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		client := New(srv.URL, nil)
		_, err := client.ListProducts(context.Background(), "tok")
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestCheckoutDecodesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/carts/7/checkout" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"orderId":42,"cartId":7,"paymentStatus":"PENDING","checkoutRequestId":"ws_CO_1","total":90,"paymentMethod":"MPESA"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	order, err := client.Checkout(context.Background(), "tok", 7, CheckoutInput{
		PhoneNumber:   "258712345678",
		PaymentMethod: domain.PaymentMethodMpesa,
		Amount:        90,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderID != 42 || order.PaymentStatus != domain.PaymentPending || order.CheckoutRequestID != "ws_CO_1" {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestAdminLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}
		w.Write([]byte(`{"token":"jwt-here","name":"Alice"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	resp, err := client.AdminLogin(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "jwt-here" || resp.Name != "Alice" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
