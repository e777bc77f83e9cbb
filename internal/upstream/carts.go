package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"retail-console/internal/domain"
)

type cartItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type cartItemsRequest struct {
	Items []cartItemInput `json:"items"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutInput is the checkout request body. Amount echoes the cart total;
// the backend recomputes and treats its own figure as authoritative.
type CheckoutInput struct {
	PhoneNumber   string               `json:"phoneNumber"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Amount        float64              `json:"amount"`
}

// CreateCart asks the backend for a new empty cart.
func (c *Client) CreateCart(ctx context.Context, token string) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, token, "POST", "/api/carts/add", nil, cartItemsRequest{Items: []cartItemInput{}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCart fetches the cart by id. A 404 maps to domain.ErrNotFound, which
// callers treat as "no active cart" rather than a failure.
func (c *Client) GetCart(ctx context.Context, token string, cartID int64) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, token, "GET", fmt.Sprintf("/api/carts/%d", cartID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddItem(ctx context.Context, token string, cartID, productID int64, quantity int) (*domain.Cart, error) {
	query := url.Values{"cartId": []string{strconv.FormatInt(cartID, 10)}}
	body := cartItemsRequest{Items: []cartItemInput{{ProductID: productID, Quantity: quantity}}}
	var out domain.Cart
	if err := c.do(ctx, token, "POST", "/api/carts/add", query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateQuantity(ctx context.Context, token string, cartID, productID int64, quantity int) (*domain.Cart, error) {
	path := fmt.Sprintf("/api/carts/%d/items/%d/quantity", cartID, productID)
	var out domain.Cart
	if err := c.do(ctx, token, "PUT", path, nil, quantityRequest{Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveItem(ctx context.Context, token string, cartID, productID int64) (*domain.Cart, error) {
	path := fmt.Sprintf("/api/carts/%d/items/%d", cartID, productID)
	var out domain.Cart
	if err := c.do(ctx, token, "DELETE", path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context, token string, cartID int64) error {
	return c.do(ctx, token, "DELETE", fmt.Sprintf("/api/carts/%d", cartID), nil, nil, nil)
}

// Checkout submits the cart for payment and returns the created order. On
// success the backend deletes the cart.
func (c *Client) Checkout(ctx context.Context, token string, cartID int64, in CheckoutInput) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, token, "POST", fmt.Sprintf("/api/carts/%d/checkout", cartID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
