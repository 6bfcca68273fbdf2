package user

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

// Service exposes user directory operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (User, error)
	Login(ctx context.Context, req LoginRequest) (User, error)
	List(ctx context.Context) ([]User, error)
	Exists(ctx context.Context, userNo int64) (bool, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires up the user domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger.With("component", "user.service")}
}

// Create registers a new user. Duplicate phone numbers are rejected with
// conflict so the frontend can steer to login.
func (s *service) Create(ctx context.Context, req CreateRequest) (User, error) {
	fullName := strings.TrimSpace(req.FullName)
	username := strings.TrimSpace(req.Username)
	number := strings.TrimSpace(req.Number)
	role := strings.TrimSpace(req.Role)
	if fullName == "" || username == "" || number == "" || role == "" {
		return User{}, apperrors.Wrap("invalid_input", "all fields are required", nil)
	}

	if _, found, err := s.repo.FindByNumber(ctx, number); err != nil {
		return User{}, apperrors.Wrap("store_unavailable", "user lookup failed", err)
	} else if found {
		return User{}, apperrors.Wrap("conflict", "number already exists, please login", nil)
	}

	created, err := s.repo.Create(ctx, fullName, username, number, role)
	if err != nil {
		return User{}, apperrors.Wrap("store_unavailable", "failed to create user", err)
	}
	s.logger.Info("user created", "user_no", created.UserNo, "role", created.Role)
	return created, nil
}

// Login resolves an existing user by phone number. No session or token is
// issued.
func (s *service) Login(ctx context.Context, req LoginRequest) (User, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return User{}, apperrors.Wrap("invalid_input", "number is required", nil)
	}
	found, ok, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return User{}, apperrors.Wrap("store_unavailable", "user lookup failed", err)
	}
	if !ok {
		return User{}, apperrors.Wrap("not_found", "user not found, please signup", nil)
	}
	return found, nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("store_unavailable", "failed to list users", err)
	}
	return users, nil
}

// Exists reports whether a public user number belongs to a registered user.
func (s *service) Exists(ctx context.Context, userNo int64) (bool, error) {
	if userNo <= 0 {
		return false, nil
	}
	_, ok, err := s.repo.FindByUserNo(ctx, userNo)
	if err != nil {
		return false, apperrors.Wrap("store_unavailable", "user lookup failed", err)
	}
	return ok, nil
}
