package domain

type Product struct {
	ID         int64   `db:"id"`
	ExternalID string  `db:"external_id"`
	Name       string  `db:"name"`
	Price      float64 `db:"price"`
	Size       string  `db:"size"`
	Stock      int64   `db:"stock"`
	CreatedAt  int64   `db:"created_at"`
	UpdatedAt  int64   `db:"updated_at"`
	DeletedAt  *int64  `db:"deleted_at"`
}
