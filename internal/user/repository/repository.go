package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/inkpress/inkpress/backend/internal/common/db"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	"github.com/inkpress/inkpress/backend/internal/user/domain"
)

const uniqueViolationCode = "23505"

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		string(user.ID),
		user.Username,
		nullableString(user.Name),
		user.PasswordHash,
		user.CreatedAt,
	)

	// A unique violation is an expected conflict, not a query failure.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		commondb.MeasureQueryDuration("create_user", "users", start)
		return commonerrors.ErrUsernameAlreadyExists
	}

	return commondb.HandleExecError(err, "create_user", "users", start)
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, name, password_hash, created_at FROM users WHERE username = $1`,
		username,
	)

	user, err := scanUser(row)
	if err := commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "find_user_by_username", "users", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, name, password_hash, created_at FROM users WHERE id = $1`,
		string(id),
	)

	user, err := scanUser(row)
	if err := commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "find_user_by_id", "users", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	var name sql.NullString

	if err := row.Scan(&user.ID, &user.Username, &name, &user.PasswordHash, &user.CreatedAt); err != nil {
		return domain.User{}, err
	}

	user.Name = name.String
	return user, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
