package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ezwallet/internal/domain"
)

// PostgresTransactionRepository implements TransactionRepository using PostgreSQL
type PostgresTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTransactionRepository creates a new PostgresTransactionRepository
func NewPostgresTransactionRepository(pool *pgxpool.Pool) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{pool: pool}
}

// Create creates a new transaction
func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, username, type, amount, date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, tx.ID, tx.Username, tx.Type, tx.Amount, tx.Date)
	return err
}

// GetByID retrieves a transaction by ID
func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT id, username, type, amount, date FROM transactions WHERE id = $1`
	tx := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&tx.ID, &tx.Username, &tx.Type, &tx.Amount, &tx.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}

// CountByIDs returns how many of the given IDs have a matching transaction
func (r *PostgresTransactionRepository) CountByIDs(ctx context.Context, ids []string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE id = ANY($1)`, ids).Scan(&count)
	return count, err
}

// Delete deletes a transaction by ID
func (r *PostgresTransactionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return err
}

// DeleteByIDs deletes all transactions with the given IDs
func (r *PostgresTransactionRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = ANY($1)`, ids)
	return err
}

// DeleteByUsername deletes all of a user's transactions and reports how many
func (r *PostgresTransactionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE username = $1`, username)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Retype repoints all transactions of oldType to newType and reports how
// many were affected
func (r *PostgresTransactionRepository) Retype(ctx context.Context, oldType, newType string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE transactions SET type = $2 WHERE type = $1`, oldType, newType)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Search lists transactions joined with their category color, narrowed by
// the query's constraints.
func (r *PostgresTransactionRepository) Search(ctx context.Context, query TransactionQuery) ([]*domain.TransactionDetail, error) {
	builder := sq.Select("t.username", "t.type", "t.amount", "t.date", "c.color").
		From("transactions t").
		Join("categories c ON c.type = t.type").
		OrderBy("t.date").
		PlaceholderFormat(sq.Dollar)

	if query.Username != "" {
		builder = builder.Where(sq.Eq{"t.username": query.Username})
	}
	if query.Usernames != nil {
		builder = builder.Where(sq.Eq{"t.username": query.Usernames})
	}
	if query.Type != "" {
		builder = builder.Where(sq.Eq{"t.type": query.Type})
	}
	for _, extra := range query.Extra {
		if extra != nil {
			builder = builder.Where(extra)
		}
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*domain.TransactionDetail
	for rows.Next() {
		d := &domain.TransactionDetail{}
		if err := rows.Scan(&d.Username, &d.Type, &d.Amount, &d.Date, &d.Color); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
