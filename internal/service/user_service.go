package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ezwallet/internal/domain"
	"ezwallet/internal/dto"
	"ezwallet/internal/repository"
	"ezwallet/pkg/telemetry"
)

var ErrCannotDeleteAdmin = errors.New("Cannot delete an admin")

// UserService defines operations on user accounts
type UserService interface {
	// List returns every registered user
	List(ctx context.Context) ([]dto.UserInfo, error)
	// Get returns one user by username
	Get(ctx context.Context, username string) (*dto.UserInfo, error)
	// Delete removes a regular user by email along with their transactions
	// and their group membership
	Delete(ctx context.Context, req *dto.DeleteUserRequest) (*dto.DeleteUserResult, error)
}

type userService struct {
	users        repository.UserRepository
	transactions repository.TransactionRepository
	groups       repository.GroupRepository
}

// NewUserService creates a new UserService
func NewUserService(
	users repository.UserRepository,
	transactions repository.TransactionRepository,
	groups repository.GroupRepository,
) UserService {
	return &userService{users: users, transactions: transactions, groups: groups}
}

// List returns every registered user
func (s *userService) List(ctx context.Context) ([]dto.UserInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.list")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, dto.UserInfo{
			Username: user.Username,
			Email:    user.Email,
			Role:     string(user.Role),
		})
	}

	span.SetStatus(codes.Ok, "")
	return infos, nil
}

// Get returns one user by username
func (s *userService) Get(ctx context.Context, username string) (*dto.UserInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	span.SetStatus(codes.Ok, "")
	return &dto.UserInfo{
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}, nil
}

// Delete removes a regular user by email along with their transactions and
// their group membership. When the user was a group's last member the group
// itself is deleted.
func (s *userService) Delete(ctx context.Context, req *dto.DeleteUserRequest) (*dto.DeleteUserResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.delete")
	defer span.End()

	if req.Email == nil {
		return nil, ErrMissingParameters
	}
	if !dto.IsEmail(*req.Email) {
		return nil, ErrMailFormat
	}

	span.SetAttributes(attribute.String("email", *req.Email))

	user, err := s.users.GetByEmail(ctx, *req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}
	if user.Role == domain.RoleAdmin {
		span.SetStatus(codes.Error, "admin account")
		return nil, ErrCannotDeleteAdmin
	}

	deletedTransactions, err := s.transactions.DeleteByUsername(ctx, user.Username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	deletedFromGroup := false
	group, err := s.groups.GetByMemberEmail(ctx, *req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if group != nil {
		if len(group.Members) == 1 {
			deleted, err := s.groups.Delete(ctx, group.Name)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			deletedFromGroup = deleted > 0
		} else {
			if err := s.groups.RemoveMembers(ctx, group.Name, []string{*req.Email}); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			deletedFromGroup = true
		}
	}

	if err := s.users.Delete(ctx, *req.Email); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.DeleteUserResult{
		DeletedTransactions: deletedTransactions,
		DeletedFromGroup:    deletedFromGroup,
	}, nil
}
