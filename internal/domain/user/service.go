package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if count, err := s.repo.CountByUsername(ctx, username, 0); err != nil {
		return nil, err
	} else if count > 0 {
		return nil, ErrUsernameTaken
	}
	if count, err := s.repo.CountByEmail(ctx, email, 0); err != nil {
		return nil, err
	} else if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created := User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Authenticate checks a username/password pair and returns the matching
// user. Unknown usernames and wrong passwords are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	found, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if found.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return found, nil
}

func (s *Service) GetByID(ctx context.Context, userID uint) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error) {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, fmt.Errorf("username is required")
		}
		count, err := s.repo.CountByUsername(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
		update.Username = &username
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" {
			return nil, fmt.Errorf("email is required")
		}
		count, err := s.repo.CountByEmail(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		update.Email = &email
	}

	if update.Username == nil && update.Email == nil {
		return current, nil
	}

	if err := s.repo.Update(ctx, userID, update); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}
