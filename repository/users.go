package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"main/model"
	"main/utils"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresUserRepo struct {
	db *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// uniqueViolation is the postgres error code raised when an insert
// breaks a unique index, here the email index on users.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	query := `
		INSERT INTO users (id, email, password, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Password, user.FirstName, user.LastName,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			utils.TrackError("database", "duplicate_email")
			return model.ErrEmailExists
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresUserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	query := `
		SELECT id, email, password, first_name, last_name,
		       two_factor_secret, two_factor_enabled, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresUserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	query := `
		SELECT id, email, password, first_name, last_name,
		       two_factor_secret, two_factor_enabled, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresUserRepo) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	query := `
		UPDATE users
		SET two_factor_secret = $2, two_factor_enabled = $3, updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, secret, enabled)
	if err != nil {
		utils.TrackError("database", "user_update_failed")
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *PostgresUserRepo) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.TwoFactorSecret, &user.TwoFactorEnabled,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}
