package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staffdir/internal/auth"
	apperrors "staffdir/internal/errors"
	"staffdir/internal/model"
	"staffdir/internal/repository"
)

const (
	userListCachePrefix = "users:all"
	userListVersionKey  = "users:version"
	userListCacheTTL    = 5 * time.Minute
)

// userListKey names the cached roster for one version of the users table.
func userListKey(version int64) string {
	return fmt.Sprintf("%s:%d", userListCachePrefix, version)
}

// ListCache is the subset of the Redis cache the user service relies on.
type ListCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration)
	Counter(ctx context.Context, key string) (int64, bool)
	Incr(ctx context.Context, key string)
}

// CreateUserInput carries the fields of a new staff member.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService exposes domain operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.UpdateResult, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo  repository.UserRepository
	cache ListCache
}

// NewUserService builds a UserService with repository and cache.
// cache may be nil.
func NewUserService(repo repository.UserRepository, cache ListCache) UserService {
	return &userService{repo: repo, cache: cache}
}

// ListUsers serves the roster from the cache entry of the current version.
// The version is read before the table, so a listing that raced a write is
// stored under a version no reader asks for again.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	var key string
	if s.cache != nil {
		if version, ok := s.cache.Counter(ctx, userListVersionKey); ok {
			key = userListKey(version)
			var cached []model.User
			if s.cache.GetJSON(ctx, key, &cached) {
				return cached, nil
			}
		}
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if key != "" {
		s.cache.SetJSON(ctx, key, users, userListCacheTTL)
	}
	return users, nil
}

// CreateUser checks the email is free, hashes the password and inserts the row.
// The unique index on users.email still guards the window between check and insert.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	count, err := s.repo.CountByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.invalidate(ctx)
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.UpdateResult, error) {
	if patch.Empty() {
		return nil, apperrors.ErrNoFieldsToUpdate
	}

	affected, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	s.invalidate(ctx)
	return &model.UpdateResult{AffectedRows: affected}, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

// invalidate retires the cached roster; old entries expire with their TTL.
func (s *userService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Incr(ctx, userListVersionKey)
	}
}
