package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ezwallet/internal/domain"
)

// PostgresCategoryRepository implements CategoryRepository using PostgreSQL
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository
func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

// Create creates a new category
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (type, color, created_at) VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, query, category.Type, category.Color, category.CreatedAt)
	return err
}

// GetByType retrieves a category by its type
func (r *PostgresCategoryRepository) GetByType(ctx context.Context, categoryType string) (*domain.Category, error) {
	query := `SELECT type, color, created_at FROM categories WHERE type = $1`
	category := &domain.Category{}
	err := r.pool.QueryRow(ctx, query, categoryType).Scan(
		&category.Type,
		&category.Color,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

// List retrieves all categories in creation order
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT type, color, created_at FROM categories ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(&category.Type, &category.Color, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Oldest retrieves the earliest created category
func (r *PostgresCategoryRepository) Oldest(ctx context.Context) (*domain.Category, error) {
	query := `SELECT type, color, created_at FROM categories ORDER BY created_at LIMIT 1`
	category := &domain.Category{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&category.Type,
		&category.Color,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}

// Count returns the number of categories
func (r *PostgresCategoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	return count, err
}

// Update replaces a category's type and color
func (r *PostgresCategoryRepository) Update(ctx context.Context, oldType string, category *domain.Category) error {
	query := `UPDATE categories SET type = $2, color = $3 WHERE type = $1`
	_, err := r.pool.Exec(ctx, query, oldType, category.Type, category.Color)
	return err
}

// Delete deletes a category by type
func (r *PostgresCategoryRepository) Delete(ctx context.Context, categoryType string) error {
	query := `DELETE FROM categories WHERE type = $1`
	_, err := r.pool.Exec(ctx, query, categoryType)
	return err
}
