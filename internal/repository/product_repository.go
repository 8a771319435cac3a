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

type ProductRepository interface {
	GetProducts(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error)
	GetProductByID(ctx context.Context, id int64) (data domain.Product, err error)
	AddProduct(ctx context.Context, data domain.Product) (id int64, err error)
	UpdateProduct(ctx context.Context, data domain.Product) (err error)
	DeleteProduct(ctx context.Context, id int64) (err error)
	GetLowStockProducts(ctx context.Context, threshold int64) (data []domain.Product, err error)
}

type ProductRepositoryImpl struct {
	db *sqlx.DB
}

func CreateProductRepository(db *sqlx.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) GetProducts(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error) {
	query := "SELECT * FROM products WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.Q != "" {
		query += " AND name ILIKE :q"
		args["q"] = "%" + filter.Q + "%"
	}

	query += " ORDER BY id"

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProducts").Msg("")
		return nil, translateDBError(err)
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProducts").Msg("")
		return nil, translateDBError(err)
	}

	return data, nil
}

func (r *ProductRepositoryImpl) GetProductByID(ctx context.Context, id int64) (data domain.Product, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM products WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetProductByID").Msg("")
		return data, translateDBError(err)
	}

	return
}

func (r *ProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id int64, err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO products(external_id, name, price, size, stock, created_at, updated_at) VALUES (:external_id, :name, :price, :size, :stock, :created_at, :updated_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
		return 0, translateDBError(err)
	}
	defer nstmt.Close()

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
		return 0, translateDBError(err)
	}

	return data.ID, nil
}

func (r *ProductRepositoryImpl) UpdateProduct(ctx context.Context, data domain.Product) (err error) {
	data.UpdatedAt = time.Now().UnixMilli()

	res, err := r.db.NamedExecContext(ctx, "UPDATE products SET name=:name, price=:price, size=:size, stock=:stock, updated_at=:updated_at WHERE id=:id AND deleted_at IS NULL", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return translateDBError(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return translateDBError(err)
	}
	if rowsAffected == 0 {
		return errs.ErrProductNotFound
	}

	return nil
}

func (r *ProductRepositoryImpl) DeleteProduct(ctx context.Context, id int64) (err error) {
	timestamp := time.Now().UnixMilli()

	res, err := r.db.ExecContext(ctx, "UPDATE products SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL", timestamp, id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return translateDBError(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return translateDBError(err)
	}
	if rowsAffected == 0 {
		return errs.ErrProductNotFound
	}

	return nil
}

func (r *ProductRepositoryImpl) GetLowStockProducts(ctx context.Context, threshold int64) (data []domain.Product, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM products WHERE stock <= $1 AND deleted_at IS NULL ORDER BY stock", threshold)
	if err != nil {
		log.Error().Err(err).Str("component", "GetLowStockProducts").Msg("")
		return nil, translateDBError(err)
	}

	return data, nil
}
