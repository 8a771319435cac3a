package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/DarThunder/tienda-api/internal/domain"
	pkgdto "github.com/DarThunder/tienda-api/pkg/dto"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type OrderRepository interface {
	// HandleTrx runs fn inside a single read-committed transaction. The repo
	// passed to fn routes every call through that transaction.
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error

	AddOrder(ctx context.Context, data domain.Order) (id int64, err error)
	AddOrderItems(ctx context.Context, data []domain.OrderItem) (err error)
	GetProductForUpdate(ctx context.Context, productID int64) (data domain.Product, err error)
	DecrementProductStock(ctx context.Context, productID int64, quantity int64) (err error)
	GetOrdersByUserID(ctx context.Context, userID int64, filter pkgdto.Filter) (data []domain.Order, err error)
	GetOrderByID(ctx context.Context, id int64) (data domain.Order, err error)
	GetOrderItems(ctx context.Context, orderID int64) (data []domain.OrderItem, err error)
}

type OrderRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateOrderRepository(db *sqlx.DB) OrderRepository {
	return &OrderRepositoryImpl{
		db: db,
	}
}

// ext returns the transaction when one is open, otherwise the pool.
func (r *OrderRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *OrderRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return translateDBError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = translateDBError(commitErr)
		}
	}()

	trxRepo := &OrderRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, trxRepo)

	return err
}

func (r *OrderRepositoryImpl) AddOrder(ctx context.Context, data domain.Order) (id int64, err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	rows, err := sqlx.NamedQueryContext(ctx, r.ext(), "INSERT INTO orders(user_id, transaction_number, total, status, created_at, updated_at) VALUES (:user_id, :transaction_number, :total, :status, :created_at, :updated_at) returning id", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddOrder").Msg("")
		return 0, translateDBError(err)
	}
	defer rows.Close()

	if rows.Next() {
		if err = rows.Scan(&data.ID); err != nil {
			log.Error().Err(err).Str("component", "AddOrder").Msg("")
			return 0, translateDBError(err)
		}
	}

	return data.ID, nil
}

func (r *OrderRepositoryImpl) AddOrderItems(ctx context.Context, data []domain.OrderItem) (err error) {
	_, err = sqlx.NamedExecContext(ctx, r.ext(), "INSERT INTO order_items(order_id, product_id, product_name, quantity, unit_price, created_at, updated_at) VALUES (:order_id, :product_id, :product_name, :quantity, :unit_price, :created_at, :updated_at)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddOrderItems").Msg("")
		return translateDBError(err)
	}

	return nil
}

// GetProductForUpdate locks the product row for the rest of the transaction.
func (r *OrderRepositoryImpl) GetProductForUpdate(ctx context.Context, productID int64) (data domain.Product, err error) {
	row := r.tx.QueryRowxContext(ctx, "SELECT * FROM products WHERE id = $1 AND deleted_at IS NULL FOR UPDATE", productID)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetProductForUpdate").Msg("")
		return data, translateDBError(err)
	}

	return
}

// DecrementProductStock refuses to take stock below zero even if the caller's
// own check raced with another writer.
func (r *OrderRepositoryImpl) DecrementProductStock(ctx context.Context, productID int64, quantity int64) (err error) {
	res, err := r.tx.ExecContext(ctx, "UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3 AND stock >= $1 AND deleted_at IS NULL", quantity, time.Now().UnixMilli(), productID)
	if err != nil {
		log.Error().Err(err).Str("component", "DecrementProductStock").Msg("")
		return translateDBError(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "DecrementProductStock").Msg("")
		return translateDBError(err)
	}
	if rowsAffected == 0 {
		return errs.ErrInsufficientStock
	}

	return nil
}

func (r *OrderRepositoryImpl) GetOrdersByUserID(ctx context.Context, userID int64, filter pkgdto.Filter) (data []domain.Order, err error) {
	query := "SELECT * FROM orders WHERE user_id = :user_id AND deleted_at IS NULL ORDER BY id DESC"

	args := map[string]interface{}{
		"user_id": userID,
	}

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrdersByUserID").Msg("")
		return nil, translateDBError(err)
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrdersByUserID").Msg("")
		return nil, translateDBError(err)
	}

	return
}

func (r *OrderRepositoryImpl) GetOrderByID(ctx context.Context, id int64) (data domain.Order, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM orders WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetOrderByID").Msg("")
		return data, translateDBError(err)
	}

	return
}

func (r *OrderRepositoryImpl) GetOrderItems(ctx context.Context, orderID int64) (data []domain.OrderItem, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrderItems").Msg("")
		return nil, translateDBError(err)
	}

	return data, nil
}
