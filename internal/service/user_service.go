package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"flywise/internal/domain"
	"flywise/internal/repository"
)

// bcrypt ignores input past 72 bytes
const maxCredentialBytes = 72

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.@+-]{1,64}$`)

// UserService describes user lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, identifier, credential string) (*domain.User, error)
	Login(ctx context.Context, identifier, credential string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
	cost  int
}

func NewUserService(users repository.UserRepository) UserService {
	return NewUserServiceWithCost(users, bcrypt.DefaultCost)
}

// NewUserServiceWithCost hashes with the given bcrypt cost, clamped to the
// range bcrypt accepts.
func NewUserServiceWithCost(users repository.UserRepository, cost int) UserService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &userService{
		users: users,
		cost:  cost,
	}
}

func (s *userService) Signup(ctx context.Context, identifier, credential string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)

	if identifier == "" {
		return nil, invalid("identifier is required")
	}
	if !identifierPattern.MatchString(identifier) {
		return nil, invalid("identifier may only contain letters, digits and _ . @ + - (max 64)")
	}
	if strings.TrimSpace(credential) == "" {
		return nil, invalid("credential is required")
	}
	if len(credential) > maxCredentialBytes {
		return nil, invalid("credential must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Identifier:   identifier,
		PasswordHash: string(hash),
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Login(ctx context.Context, identifier, credential string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || credential == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:         user.ID,
		Identifier: user.Identifier,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
