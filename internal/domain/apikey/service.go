package apikey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create mints a new opaque key for the user. The key value is returned
// exactly once; list responses never include it.
func (s *Service) Create(ctx context.Context, userID uint, name string) (*APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	key := APIKey{
		UserID:   userID,
		Key:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:     name,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]APIKey, int64, error) {
	return s.repo.ListForUser(ctx, userID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, keyID, userID uint) error {
	deleted, err := s.repo.Delete(ctx, keyID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrKeyNotFound
	}
	return nil
}

// Authenticate resolves an opaque key to its owning user id and records the
// use. Inactive and unknown keys fail identically.
func (s *Service) Authenticate(ctx context.Context, key string) (uint, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, ErrKeyInvalid
	}

	found, err := s.repo.GetActiveByKey(ctx, key)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastUsed(ctx, found.ID, now); err != nil {
		return 0, err
	}
	return found.UserID, nil
}
