package dto

type ProductResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Size  string  `json:"size"`
	Stock int64   `json:"stock"`
}
