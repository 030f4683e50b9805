package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"user_service/internal/mapper"
	"user_service/internal/metrics"
	"user_service/internal/model"
	"user_service/internal/repository"

	"github.com/google/uuid"
)

// RegistrationValidator checks a registration before anything is persisted
type RegistrationValidator interface {
	ValidateRegistration(req model.RegisterRequest) error
}

// UserService provides registration, login and lookup of user accounts
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByUUID(ctx context.Context, id string) (*model.UserResponse, error)
}

type userService struct {
	repo          repository.UserRepository
	validator     RegistrationValidator
	hasher        PasswordHasher
	tokens        TokenIssuer
	authenticator Authenticator
	logger        *slog.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewUserService creates a new UserService. m may be nil.
func NewUserService(
	repo repository.UserRepository,
	validator RegistrationValidator,
	hasher PasswordHasher,
	tokens TokenIssuer,
	authenticator Authenticator,
	logger *slog.Logger,
	m *metrics.Metrics,
) UserService {
	return &userService{
		repo:          repo,
		validator:     validator,
		hasher:        hasher,
		tokens:        tokens,
		authenticator: authenticator,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
	}
}

// Register validates and creates a new account. No token is issued.
func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserResponse, error) {
	if err := s.validator.ValidateRegistration(req); err != nil {
		s.metrics.ObserveRegistration(metrics.ResultBadRequest)
		return nil, newError(ErrBadRequest, err)
	}

	existingUser, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.metrics.ObserveRegistration(metrics.ResultError)
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		s.metrics.ObserveRegistration(metrics.ResultBadRequest)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.ObserveRegistration(metrics.ResultError)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.timestamp()
	user := &model.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashedPassword,
		Phones:    mapper.ToPhones(req.Phones),
		Created:   now,
		Modified:  now,
		LastLogin: now,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Lost the race against a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.metrics.ObserveRegistration(metrics.ResultBadRequest)
			return nil, ErrUserAlreadyExists
		}
		s.metrics.ObserveRegistration(metrics.ResultError)
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.metrics.ObserveRegistration(metrics.ResultSuccess)
	s.logger.Info("user registered", "user_id", user.ID)

	resp := mapper.ToUserResponse(user, "")
	return &resp, nil
}

// Login authenticates a user, issues a token and records the login time
func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.UserResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.metrics.ObserveLogin(metrics.ResultError)
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		s.metrics.ObserveLogin(metrics.ResultNotFound)
		s.logger.Warn("login failed", "reason", "not_found")
		return nil, ErrUserNotFound
	}

	if err := s.authenticator.Authenticate(ctx, user, req.Password); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.metrics.ObserveLogin(metrics.ResultUnauthorized)
			s.logger.Warn("login failed", "reason", "unauthorized", "user_id", user.ID, "detail", err.Error())
			return nil, err
		}
		s.metrics.ObserveLogin(metrics.ResultError)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		s.metrics.ObserveLogin(metrics.ResultError)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.timestamp()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.metrics.ObserveLogin(metrics.ResultError)
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = now
	user.Modified = now

	s.metrics.ObserveLogin(metrics.ResultSuccess)
	s.logger.Info("user logged in", "user_id", user.ID)

	resp := mapper.ToUserResponse(user, token)
	return &resp, nil
}

// GetAllUsers returns every stored user. There is no pagination.
func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users from repo: %w", err)
	}
	return mapper.ToUserResponses(users), nil
}

// GetUserByUUID returns the user with the given identifier
func (s *userService) GetUserByUUID(ctx context.Context, id string) (*model.UserResponse, error) {
	// Upper-case, hyphen-less and urn:uuid: spellings all name the same user
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.FindByUUID(ctx, parsed.String())
	if err != nil {
		return nil, fmt.Errorf("failed to find user by uuid: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := mapper.ToUserResponse(user, "")
	return &resp, nil
}

// timestamp is truncated to the precision Postgres stores
func (s *userService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
