package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ezwallet/internal/domain"
)

// PostgresGroupRepository implements GroupRepository using PostgreSQL.
// Members live in a group_members table whose unique email column enforces
// the one-group-per-email invariant.
type PostgresGroupRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGroupRepository creates a new PostgresGroupRepository
func NewPostgresGroupRepository(pool *pgxpool.Pool) *PostgresGroupRepository {
	return &PostgresGroupRepository{pool: pool}
}

// Create creates a group together with its initial members
func (r *PostgresGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO groups (id, name) VALUES ($1, $2)`, group.ID, group.Name)
	if err != nil {
		return err
	}
	for _, member := range group.Members {
		_, err = tx.Exec(ctx,
			`INSERT INTO group_members (group_id, email) VALUES ($1, $2)`,
			group.ID, member.Email,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresGroupRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Group, error) {
	group := &domain.Group{}
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM groups WHERE `+where, arg).Scan(&group.ID, &group.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	members, err := r.members(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return group, nil
}

// GetByName retrieves a group and its members by name
func (r *PostgresGroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	return r.getBy(ctx, `name = $1`, name)
}

// GetByMemberEmail retrieves the group an email belongs to, if any
func (r *PostgresGroupRepository) GetByMemberEmail(ctx context.Context, email string) (*domain.Group, error) {
	return r.getBy(ctx, `id = (SELECT group_id FROM group_members WHERE email = $1)`, email)
}

// List retrieves all groups with their members
func (r *PostgresGroupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		group := &domain.Group{}
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, group := range groups {
		members, err := r.members(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}
	return groups, nil
}

// AddMembers appends members to a group
func (r *PostgresGroupRepository) AddMembers(ctx context.Context, name string, emails []string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO group_members (group_id, email)
		SELECT g.id, e FROM groups g, unnest($2::text[]) AS e
		WHERE g.name = $1
	`, name, emails)
	return err
}

// RemoveMembers removes members from a group
func (r *PostgresGroupRepository) RemoveMembers(ctx context.Context, name string, emails []string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM group_members
		WHERE email = ANY($2)
		  AND group_id = (SELECT id FROM groups WHERE name = $1)
	`, name, emails)
	return err
}

// Delete deletes a group and its membership rows, reporting how many groups
// were removed
func (r *PostgresGroupRepository) Delete(ctx context.Context, name string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM group_members
		WHERE group_id = (SELECT id FROM groups WHERE name = $1)
	`, name)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM groups WHERE name = $1`, name)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresGroupRepository) members(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM group_members WHERE group_id = $1 ORDER BY email`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.GroupMember
	for rows.Next() {
		var member domain.GroupMember
		if err := rows.Scan(&member.Email); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
