package liquor

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uint, name, description string) (*Liquor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	count, err := s.repo.CountByNameForUser(ctx, userID, name, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	created := Liquor{
		Name:        name,
		Description: description,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) GetForUser(ctx context.Context, liquorID, userID uint) (*Liquor, error) {
	return s.repo.GetForUser(ctx, liquorID, userID)
}

func (s *Service) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]Liquor, int64, error) {
	return s.repo.ListForUser(ctx, userID, limit, offset)
}

func (s *Service) Update(ctx context.Context, liquorID, userID uint, update Update) (*Liquor, error) {
	if _, err := s.repo.GetForUser(ctx, liquorID, userID); err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		count, err := s.repo.CountByNameForUser(ctx, userID, name, liquorID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrNameTaken
		}
		update.Name = &name
	}

	if update.Name == nil && update.Description == nil {
		return s.repo.GetForUser(ctx, liquorID, userID)
	}

	if err := s.repo.Update(ctx, liquorID, update); err != nil {
		return nil, err
	}
	return s.repo.GetForUser(ctx, liquorID, userID)
}

func (s *Service) Delete(ctx context.Context, liquorID, userID uint) error {
	deleted, err := s.repo.Delete(ctx, liquorID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLiquorNotFound
	}
	return nil
}
