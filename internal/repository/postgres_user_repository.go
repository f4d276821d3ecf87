package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ezwallet/internal/domain"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, COALESCE(refresh_token, ''), created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.RefreshToken,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	)
	return err
}

// GetByUsername retrieves a user by username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByRefreshToken retrieves the user holding the given refresh token
func (r *PostgresUserRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	return scanUser(r.pool.QueryRow(ctx, query, token))
}

// GetByEmails retrieves all users whose email is in the given list
func (r *PostgresUserRepository) GetByEmails(ctx context.Context, emails []string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ANY($1)`
	rows, err := r.pool.Query(ctx, query, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// List retrieves all users
func (r *PostgresUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetRefreshToken stores the user's current refresh token; an empty token
// clears it.
func (r *PostgresUserRepository) SetRefreshToken(ctx context.Context, username, token string) error {
	query := `UPDATE users SET refresh_token = NULLIF($2, '') WHERE username = $1`
	_, err := r.pool.Exec(ctx, query, username, token)
	return err
}

// Delete deletes a user by email
func (r *PostgresUserRepository) Delete(ctx context.Context, email string) error {
	query := `DELETE FROM users WHERE email = $1`
	_, err := r.pool.Exec(ctx, query, email)
	return err
}
