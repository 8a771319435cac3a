package dto

type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type OrderRequest struct {
	UserID     int64
	OrderItems []OrderItem `json:"items"`
}
