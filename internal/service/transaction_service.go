package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ezwallet/internal/domain"
	"ezwallet/internal/dto"
	"ezwallet/internal/repository"
	"ezwallet/pkg/telemetry"
)

var (
	ErrInvalidAmount       = errors.New("Invalid amount")
	ErrUserNotExists       = errors.New("User does not exist")
	ErrUsernameMismatch    = errors.New("Unauthorized")
	ErrEmptyID             = errors.New("Empty parameter")
	ErrTransactionNotFound = errors.New("Transaction not found")
	ErrNotYourTransaction  = errors.New("Transaction does not belong to you")
)

// TransactionService defines operations on transactions
type TransactionService interface {
	// Create records a transaction for the route's user
	Create(ctx context.Context, routeUsername string, req *dto.CreateTransactionRequest) (*dto.TransactionInfo, error)
	// All returns every transaction joined with its category color
	All(ctx context.Context) ([]dto.TransactionDetail, error)
	// ByUser returns a user's transactions, optionally narrowed by the
	// date and amount predicate fragments
	ByUser(ctx context.Context, username string, extra []sq.Sqlizer) ([]dto.TransactionDetail, error)
	// ByUserCategory returns a user's transactions of one category
	ByUserCategory(ctx context.Context, username, category string) ([]dto.TransactionDetail, error)
	// ByGroup returns all transactions of a group's members, optionally
	// narrowed to one category
	ByGroup(ctx context.Context, name, category string) ([]dto.TransactionDetail, error)
	// Delete removes one transaction owned by the route's user
	Delete(ctx context.Context, username, id string) (*dto.Message, error)
	// DeleteMany removes a batch of transactions, all of which must exist
	DeleteMany(ctx context.Context, ids []string) (*dto.Message, error)
}

type transactionService struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	users        repository.UserRepository
	groups       repository.GroupRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactions repository.TransactionRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	groups repository.GroupRepository,
) TransactionService {
	return &transactionService{
		transactions: transactions,
		categories:   categories,
		users:        users,
		groups:       groups,
	}
}

// Create records a transaction for the route's user
func (s *transactionService) Create(ctx context.Context, routeUsername string, req *dto.CreateTransactionRequest) (*dto.TransactionInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.transaction.create")
	defer span.End()

	if req.Username == "" || req.Amount == "" || req.Type == "" {
		return nil, ErrMissingParameters
	}
	if req.Username != routeUsername {
		return nil, ErrUsernameMismatch
	}

	amount, err := strconv.ParseFloat(string(req.Amount), 64)
	if err != nil || amount == 0 {
		return nil, ErrInvalidAmount
	}

	span.SetAttributes(
		attribute.String("transaction.username", req.Username),
		attribute.String("transaction.type", req.Type),
	)

	category, err := s.categories.GetByType(ctx, req.Type)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if category == nil {
		span.SetStatus(codes.Error, "category not found")
		return nil, ErrCategoryNotFound
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotExists
	}

	tx := &domain.Transaction{
		ID:       uuid.New().String(),
		Username: req.Username,
		Type:     req.Type,
		Amount:   amount,
		Date:     time.Now().UTC(),
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.TransactionInfo{
		Username: tx.Username,
		Amount:   tx.Amount,
		Type:     tx.Type,
		Date:     tx.Date,
	}, nil
}

// All returns every transaction joined with its category color
func (s *transactionService) All(ctx context.Context) ([]dto.TransactionDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.transaction.all")
	defer span.End()

	return s.search(ctx, span, repository.TransactionQuery{})
}

// ByUser returns a user's transactions, optionally narrowed by the date and
// amount predicate fragments
func (s *transactionService) ByUser(ctx context.Context, username string, extra []sq.Sqlizer) ([]dto.TransactionDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.transaction.by_user")
	defer span.End()

	span.SetAttributes(attribute.String("transaction.username", username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotExists
	}

	return s.search(ctx, span, repository.TransactionQuery{Username: username, Extra: extra})
}

// ByUserCategory returns a user's transactions of one category
func (s *transactionService) ByUserCategory(ctx context.Context, username, category string) ([]dto.TransactionDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.transaction.by_user_category")
	defer span.End()

	span.SetAttributes(
		attribute.String("transaction.username", username),
		attribute.String("transaction.type", category),
	)

	typ, err := s.categories.GetByType(ctx, category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if typ == nil {
		span.SetStatus(codes.Error, "category not found")
		return nil, ErrCategoryNotFound
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotExists
	}

	return s.search(ctx, span, repository.TransactionQuery{Username: username, Type: category})
}

// ByGroup returns all transactions of a group's members, optionally narrowed
// to one category
func (s *transactionService) ByGroup(ctx context.Context, name, category string) ([]dto.TransactionDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.transaction.by_group")
	defer span.End()

	span.SetAttributes(attribute.String("group.name", name))

	group, err := s.groups.GetByName(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if group == nil {
		span.SetStatus(codes.Error, "group not found")
		return nil, ErrGroupNotFound
	}

	if category != "" {
		typ, err := s.categories.GetByType(ctx, category)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if typ == nil {
			span.SetStatus(codes.Error, "category not found")
			return nil, ErrCategoryNotFound
		}
	}

	emails := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		emails = append(emails, member.Email)
	}
	members, err := s.users.GetByEmails(ctx, emails)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	usernames := make([]string, 0, len(members))
	for _, member := range members {
		usernames = append(usernames, member.Username)
	}
	if len(usernames) == 0 {
		span.SetStatus(codes.Ok, "")
		return []dto.TransactionDetail{}, nil
	}

	return s.search(ctx, span, repository.TransactionQuery{Usernames: usernames, Type: category})
}

// Delete removes one transaction owned by the route's user
func (s *transactionService) Delete(ctx context.Context, username, id string) (*dto.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.transaction.delete")
	defer span.End()

	if id == "" {
		return nil, ErrMissingParameters
	}

	span.SetAttributes(attribute.String("transaction.id", id))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotExists
	}

	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if tx == nil {
		span.SetStatus(codes.Error, "transaction not found")
		return nil, ErrTransactionNotFound
	}
	if tx.Username != user.Username {
		span.SetStatus(codes.Error, "not owner")
		return nil, ErrNotYourTransaction
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.Message{Message: "Transaction deleted"}, nil
}

// DeleteMany removes a batch of transactions, all of which must exist
func (s *transactionService) DeleteMany(ctx context.Context, ids []string) (*dto.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.transaction.delete_many")
	defer span.End()

	if len(ids) == 0 {
		return nil, ErrMissingParameters
	}
	for _, id := range ids {
		if id == "" {
			return nil, ErrEmptyID
		}
	}

	span.SetAttributes(attribute.Int("transaction.count", len(ids)))

	existing, err := s.transactions.CountByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing < len(ids) {
		span.SetStatus(codes.Error, "transaction not found")
		return nil, ErrTransactionNotFound
	}

	if err := s.transactions.DeleteByIDs(ctx, ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.Message{Message: "Transactions deleted successfully"}, nil
}

func (s *transactionService) search(ctx context.Context, span trace.Span, query repository.TransactionQuery) ([]dto.TransactionDetail, error) {
	details, err := s.transactions.Search(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]dto.TransactionDetail, 0, len(details))
	for _, detail := range details {
		out = append(out, dto.TransactionDetail{
			Username: detail.Username,
			Amount:   detail.Amount,
			Type:     detail.Type,
			Date:     detail.Date,
			Color:    detail.Color,
		})
	}

	span.SetStatus(codes.Ok, "")
	return out, nil
}
