package upstream

import (
	"context"
	"fmt"

	"retail-console/internal/domain"
)

// GetOrder fetches the order's current payment status.
func (c *Client) GetOrder(ctx context.Context, token string, orderID int64) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, token, "GET", fmt.Sprintf("/api/orders/%d", orderID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
