package service

import (
	"context"

	"ezwallet/internal/domain"
	"ezwallet/internal/repository"
)

// mockUserRepository is an in-memory implementation of UserRepository
type mockUserRepository struct {
	users     []*domain.User
	createErr error
}

func newmockUserRepository() *mockUserRepository {
	return &mockUserRepository{}
}

func (m *mockUserRepository) addUser(user *domain.User) {
	m.users = append(m.users, user)
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	for _, u := range m.users {
		if u.RefreshToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmails(ctx context.Context, emails []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		for _, email := range emails {
			if u.Email == email {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return m.users, nil
}

func (m *mockUserRepository) SetRefreshToken(ctx context.Context, username, token string) error {
	for _, u := range m.users {
		if u.Username == username {
			u.RefreshToken = token
		}
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, email string) error {
	kept := m.users[:0]
	for _, u := range m.users {
		if u.Email != email {
			kept = append(kept, u)
		}
	}
	m.users = kept
	return nil
}

// mockCategoryRepository is an in-memory implementation of
// CategoryRepository. Oldest picks the smallest CreatedAt, ties going to the
// earlier insertion, matching the created_at ordering of the real table.
type mockCategoryRepository struct {
	categories []*domain.Category
}

func newmockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{}
}

func (m *mockCategoryRepository) addCategory(category *domain.Category) {
	m.categories = append(m.categories, category)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.categories = append(m.categories, category)
	return nil
}

func (m *mockCategoryRepository) GetByType(ctx context.Context, categoryType string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Type == categoryType {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepository) Oldest(ctx context.Context) (*domain.Category, error) {
	var oldest *domain.Category
	for _, c := range m.categories {
		if oldest == nil || c.CreatedAt.Before(oldest.CreatedAt) {
			oldest = c
		}
	}
	return oldest, nil
}

func (m *mockCategoryRepository) Count(ctx context.Context) (int, error) {
	return len(m.categories), nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, oldType string, category *domain.Category) error {
	for i, c := range m.categories {
		if c.Type == oldType {
			m.categories[i] = &domain.Category{Type: category.Type, Color: category.Color, CreatedAt: c.CreatedAt}
		}
	}
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, categoryType string) error {
	kept := m.categories[:0]
	for _, c := range m.categories {
		if c.Type != categoryType {
			kept = append(kept, c)
		}
	}
	m.categories = kept
	return nil
}

// mockTransactionRepository is an in-memory implementation of
// TransactionRepository. colors maps category types to the color Search
// joins in; Extra fragments are ignored.
type mockTransactionRepository struct {
	transactions []*domain.Transaction
	colors       map[string]string
	lastQuery    repository.TransactionQuery
}

func newmockTransactionRepository() *mockTransactionRepository {
	return &mockTransactionRepository{colors: make(map[string]string)}
}

func (m *mockTransactionRepository) addTransaction(tx *domain.Transaction) {
	m.transactions = append(m.transactions, tx)
}

func (m *mockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *mockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	for _, tx := range m.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, nil
}

func (m *mockTransactionRepository) CountByIDs(ctx context.Context, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		for _, tx := range m.transactions {
			if tx.ID == id {
				count++
				break
			}
		}
	}
	return count, nil
}

func (m *mockTransactionRepository) Delete(ctx context.Context, id string) error {
	kept := m.transactions[:0]
	for _, tx := range m.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	m.transactions = kept
	return nil
}

func (m *mockTransactionRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		m.Delete(ctx, id)
	}
	return nil
}

func (m *mockTransactionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	kept := m.transactions[:0]
	for _, tx := range m.transactions {
		if tx.Username == username {
			count++
			continue
		}
		kept = append(kept, tx)
	}
	m.transactions = kept
	return count, nil
}

func (m *mockTransactionRepository) Retype(ctx context.Context, oldType, newType string) (int64, error) {
	var count int64
	for _, tx := range m.transactions {
		if tx.Type == oldType {
			tx.Type = newType
			count++
		}
	}
	return count, nil
}

func (m *mockTransactionRepository) Search(ctx context.Context, query repository.TransactionQuery) ([]*domain.TransactionDetail, error) {
	m.lastQuery = query

	var out []*domain.TransactionDetail
	for _, tx := range m.transactions {
		if query.Username != "" && tx.Username != query.Username {
			continue
		}
		if len(query.Usernames) > 0 {
			found := false
			for _, name := range query.Usernames {
				if tx.Username == name {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if query.Type != "" && tx.Type != query.Type {
			continue
		}
		out = append(out, &domain.TransactionDetail{
			Username: tx.Username,
			Type:     tx.Type,
			Amount:   tx.Amount,
			Date:     tx.Date,
			Color:    m.colors[tx.Type],
		})
	}
	return out, nil
}

// mockGroupRepository is an in-memory implementation of GroupRepository
type mockGroupRepository struct {
	groups []*domain.Group
}

func newmockGroupRepository() *mockGroupRepository {
	return &mockGroupRepository{}
}

func (m *mockGroupRepository) addGroup(group *domain.Group) {
	m.groups = append(m.groups, group)
}

func (m *mockGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	m.groups = append(m.groups, group)
	return nil
}

func (m *mockGroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	for _, g := range m.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, nil
}

func (m *mockGroupRepository) GetByMemberEmail(ctx context.Context, email string) (*domain.Group, error) {
	for _, g := range m.groups {
		for _, member := range g.Members {
			if member.Email == email {
				return g, nil
			}
		}
	}
	return nil, nil
}

func (m *mockGroupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	return m.groups, nil
}

func (m *mockGroupRepository) AddMembers(ctx context.Context, name string, emails []string) error {
	for _, g := range m.groups {
		if g.Name == name {
			for _, email := range emails {
				g.Members = append(g.Members, domain.GroupMember{Email: email})
			}
		}
	}
	return nil
}

func (m *mockGroupRepository) RemoveMembers(ctx context.Context, name string, emails []string) error {
	for _, g := range m.groups {
		if g.Name != name {
			continue
		}
		kept := g.Members[:0]
		for _, member := range g.Members {
			remove := false
			for _, email := range emails {
				if member.Email == email {
					remove = true
					break
				}
			}
			if !remove {
				kept = append(kept, member)
			}
		}
		g.Members = kept
	}
	return nil
}

func (m *mockGroupRepository) Delete(ctx context.Context, name string) (int64, error) {
	var count int64
	kept := m.groups[:0]
	for _, g := range m.groups {
		if g.Name == name {
			count++
			continue
		}
		kept = append(kept, g)
	}
	m.groups = kept
	return count, nil
}
