package ingredient

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

func (s *Service) Create(ctx context.Context, name, description string) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	count, err := s.repo.CountByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	created := Ingredient{Name: name, Description: description}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Get(ctx context.Context, ingredientID uint) (*Ingredient, error) {
	return s.repo.GetByID(ctx, ingredientID)
}

func (s *Service) ListAll(ctx context.Context) ([]Ingredient, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Update(ctx context.Context, ingredientID uint, update Update) (*Ingredient, error) {
	if _, err := s.repo.GetByID(ctx, ingredientID); err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		count, err := s.repo.CountByName(ctx, name, ingredientID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrNameTaken
		}
		update.Name = &name
	}

	if update.Name == nil && update.Description == nil {
		return s.repo.GetByID(ctx, ingredientID)
	}

	if err := s.repo.Update(ctx, ingredientID, update); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, ingredientID)
}

// Delete refuses to remove an ingredient that is still referenced by batch
// formulas; orphaning formula rows would silently corrupt existing batches.
func (s *Service) Delete(ctx context.Context, ingredientID uint) error {
	inUse, err := s.repo.CountFormulaReferences(ctx, ingredientID)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrIngredientInUse
	}

	deleted, err := s.repo.Delete(ctx, ingredientID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrIngredientNotFound
	}
	return nil
}
