package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"staffdir/internal/auth"
	apperrors "staffdir/internal/errors"
	"staffdir/internal/model"
	"staffdir/internal/repository"
)

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Login verifies the credentials and returns the stored user row.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := auth.CheckPassword(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthentication, err)
	}

	return user, nil
}
