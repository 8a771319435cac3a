package dto

type OrderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type OrderResponse struct {
	ID                int64               `json:"id"`
	TransactionNumber string              `json:"transaction_number"`
	Total             float64             `json:"total"`
	Status            string              `json:"status"`
	Items             []OrderItemResponse `json:"items,omitempty"`
}

// IDResponse is the creation payload for POST endpoints.
type IDResponse struct {
	ID int64 `json:"id"`
}
