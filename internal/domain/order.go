package domain

const (
	OrderStatusCreated = "created"
)

type Order struct {
	ID                int64   `db:"id"`
	UserID            int64   `db:"user_id"`
	TransactionNumber string  `db:"transaction_number"`
	Total             float64 `db:"total"`
	Status            string  `db:"status"`
	CreatedAt         int64   `db:"created_at"`
	UpdatedAt         int64   `db:"updated_at"`
	DeletedAt         *int64  `db:"deleted_at"`
	OrderItems        []OrderItem
}

type OrderItem struct {
	ID          int64   `db:"id"`
	OrderID     int64   `db:"order_id"`
	ProductID   int64   `db:"product_id"`
	ProductName string  `db:"product_name"`
	Quantity    int64   `db:"quantity"`
	UnitPrice   float64 `db:"unit_price"`
	CreatedAt   int64   `db:"created_at"`
	UpdatedAt   int64   `db:"updated_at"`
}
