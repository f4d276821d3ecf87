package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"ezwallet/internal/domain"
)

// UserRepository defines storage operations for users
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	GetByEmails(ctx context.Context, emails []string) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SetRefreshToken(ctx context.Context, username, token string) error
	Delete(ctx context.Context, email string) error
}

// CategoryRepository defines storage operations for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByType(ctx context.Context, categoryType string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Oldest(ctx context.Context) (*domain.Category, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, oldType string, category *domain.Category) error
	Delete(ctx context.Context, categoryType string) error
}

// TransactionQuery narrows a joined transaction search. Zero values mean no
// constraint; Extra carries the date/amount predicate fragments built by the
// filter package.
type TransactionQuery struct {
	Username  string
	Usernames []string
	Type      string
	Extra     []sq.Sqlizer
}

// TransactionRepository defines storage operations for transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	CountByIDs(ctx context.Context, ids []string) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByUsername(ctx context.Context, username string) (int64, error)
	Retype(ctx context.Context, oldType, newType string) (int64, error)
	Search(ctx context.Context, query TransactionQuery) ([]*domain.TransactionDetail, error)
}

// GroupRepository defines storage operations for groups
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByName(ctx context.Context, name string) (*domain.Group, error)
	GetByMemberEmail(ctx context.Context, email string) (*domain.Group, error)
	List(ctx context.Context) ([]*domain.Group, error)
	AddMembers(ctx context.Context, name string, emails []string) error
	RemoveMembers(ctx context.Context, name string, emails []string) error
	Delete(ctx context.Context, name string) (int64, error)
}
