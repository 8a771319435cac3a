package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/DarThunder/tienda-api/internal/domain"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (res domain.User, err error)
	GetUserByID(ctx context.Context, id int64) (data domain.User, err error)
	AddUser(ctx context.Context, data domain.User) (id int64, err error)
	UpdateUserPassword(ctx context.Context, id int64, hashedPassword string) (err error)
}

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func CreateUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (res domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE username = $1 AND deleted_at IS NULL", username)
	err = row.StructScan(&res)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil
		}
		log.Error().Err(err).Str("component", "GetUserByUsername").Msg("")
		return res, translateDBError(err)
	}

	return
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (data domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetUserByID").Msg("")
		return data, translateDBError(err)
	}

	return
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id int64, err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO users(external_id, username, email, hashed_password, created_at, updated_at) VALUES (:external_id, :username, :email, :hashed_password, :created_at, :updated_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, translateDBError(err)
	}
	defer nstmt.Close()

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, translateDBError(err)
	}

	return data.ID, nil
}

func (r *UserRepositoryImpl) UpdateUserPassword(ctx context.Context, id int64, hashedPassword string) (err error) {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET hashed_password = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL", hashedPassword, time.Now().UnixMilli(), id)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUserPassword").Msg("")
		return translateDBError(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUserPassword").Msg("")
		return translateDBError(err)
	}
	if rowsAffected == 0 {
		return errs.ErrAccountNotFound
	}

	return nil
}
