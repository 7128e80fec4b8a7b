// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/token"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately above bcrypt.DefaultCost.
const bcryptCost = 12

type AuthService struct {
	userRepo repository.UserRepository
	codec    *token.Codec
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId"`
}

func NewAuthService(userRepo repository.UserRepository, codec *token.Codec) *AuthService {
	return &AuthService{userRepo: userRepo, codec: codec}
}

// Register validates the input, rejects duplicate emails and stores the user
// with a hashed password. Validation failures are aggregated so the caller
// sees every violated rule at once.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)

	if messages := validation.Collect(
		validation.ValidateEmail(in.Email),
		validation.ValidatePassword(in.Password),
	); messages != nil {
		return nil, models.NewValidationError(messages...)
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Name:     in.Name,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates the credentials and issues a signed token. Unknown
// email and wrong password both fail with 401, with distinct messages.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthenticatedError("User Not Found.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthenticatedError("Password is incorrect.")
	}

	signed, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResult{Token: signed, UserID: user.ID}, nil
}
