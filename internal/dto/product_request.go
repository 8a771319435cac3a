package dto

type ProductRequest struct {
	ID    int64
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Size  string  `json:"size"`
	Stock int64   `json:"stock"`
}
