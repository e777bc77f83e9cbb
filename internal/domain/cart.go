package domain

type CartItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart mirrors the backend cart. Total is server-computed and authoritative;
// the console never recomputes it.
type Cart struct {
	ID        int64      `json:"cartId"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Status    string     `json:"status,omitempty"`
	CreatedAt string     `json:"createdAt,omitempty"`
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}
