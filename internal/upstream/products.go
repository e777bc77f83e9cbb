package upstream

import (
	"context"
	"fmt"

	"retail-console/internal/domain"
)

// ProductInput is the backend's product create/update DTO. The stock field is
// named "quantity" on the wire.
type ProductInput struct {
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	ExpiryDate  string  `json:"expiryDate"`
	ImageURL    string  `json:"imageUrl"`
}

func (c *Client) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, token, "GET", "/product/getAll", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, token, "POST", "/product/create", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, in ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, token, "PUT", fmt.Sprintf("/product/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	return c.do(ctx, token, "DELETE", fmt.Sprintf("/product/%d", id), nil, nil, nil)
}
