package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"ezwallet/internal/auth"
	"ezwallet/internal/domain"
	"ezwallet/internal/dto"
	"ezwallet/internal/repository"
	"ezwallet/pkg/telemetry"
)

var (
	ErrEmailFormat    = errors.New("Email not correct formatted")
	ErrAlreadyExists  = errors.New("User already registered")
	ErrNeedToRegister = errors.New("User need to register")
	ErrWrongPassword  = errors.New("Wrong credentials")
	ErrNotLoggedIn    = errors.New("User not logged in")
)

const bcryptCost = 12

// AuthService defines account lifecycle operations
type AuthService interface {
	// Register creates a regular account
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.Message, error)
	// RegisterAdmin creates an account with the Admin role
	RegisterAdmin(ctx context.Context, req *dto.RegisterRequest) (*dto.Message, error)
	// Login verifies credentials, stores the refresh token and returns both tokens
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPair, error)
	// Logout clears the stored refresh token of the session's owner
	Logout(ctx context.Context, refreshToken string) (*dto.Message, error)
}

type authService struct {
	users repository.UserRepository
	codec *auth.Codec
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, codec *auth.Codec) AuthService {
	return &authService{users: users, codec: codec}
}

// Register creates a regular account
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	if err := s.register(ctx, span, req, domain.RoleRegular); err != nil {
		return nil, err
	}
	return &dto.Message{Message: "User added successfully"}, nil
}

// RegisterAdmin creates an account with the Admin role
func (s *authService) RegisterAdmin(ctx context.Context, req *dto.RegisterRequest) (*dto.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register_admin")
	defer span.End()

	if err := s.register(ctx, span, req, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return &dto.Message{Message: "Admin added successfully"}, nil
}

func (s *authService) register(ctx context.Context, span trace.Span, req *dto.RegisterRequest, role domain.Role) error {
	if req.Username == nil || req.Email == nil || req.Password == nil {
		return ErrMissingParameters
	}
	if *req.Username == "" || *req.Email == "" || *req.Password == "" {
		return ErrEmptyParameters
	}
	if !dto.IsEmail(*req.Email) {
		return ErrEmailFormat
	}

	span.SetAttributes(attribute.String("username", *req.Username))

	byEmail, err := s.users.GetByEmail(ctx, *req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if byEmail != nil {
		span.SetStatus(codes.Error, "email taken")
		return ErrAlreadyExists
	}

	byUsername, err := s.users.GetByUsername(ctx, *req.Username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if byUsername != nil {
		span.SetStatus(codes.Error, "username taken")
		return ErrAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     *req.Username,
		Email:        *req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Login verifies credentials, stores the refresh token and returns both tokens
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	if req.Email == nil || req.Password == nil {
		return nil, ErrMissingParameters
	}
	if *req.Email == "" || *req.Password == "" {
		return nil, ErrEmptyParameters
	}

	span.SetAttributes(attribute.String("email", *req.Email))

	user, err := s.users.GetByEmail(ctx, *req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "unknown email")
		return nil, ErrNeedToRegister
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.Password)); err != nil {
		span.SetStatus(codes.Error, "wrong credentials")
		return nil, ErrWrongPassword
	}

	claims := auth.Claims{
		Username: user.Username,
		Email:    user.Email,
		ID:       user.ID,
		Role:     string(user.Role),
	}
	accessToken, err := s.codec.IssueAccess(claims)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefresh(claims)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.Username, refreshToken); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout clears the stored refresh token of the session's owner
func (s *authService) Logout(ctx context.Context, refreshToken string) (*dto.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	if refreshToken == "" {
		return nil, ErrNotLoggedIn
	}

	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "unknown refresh token")
		return nil, ErrUserNotFound
	}

	if err := s.users.SetRefreshToken(ctx, user.Username, ""); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.Message{Message: "User logged out"}, nil
}
