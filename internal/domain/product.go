package domain

// Product is the backend's product record. The console holds a read-only
// cached copy; only the backend mutates stock.
type Product struct {
	ID            int64   `json:"id"`
	ProductName   string  `json:"productName"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	Category      string  `json:"category"`
	ExpiryDate    string  `json:"expiryDate"`
	ImageURL      string  `json:"imageUrl"`
}
