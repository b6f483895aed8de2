package ingredient

import "context"

type Repository interface {
	Create(ctx context.Context, ingredient *Ingredient) error
	GetByID(ctx context.Context, ingredientID uint) (*Ingredient, error)
	ListAll(ctx context.Context) ([]Ingredient, error)
	// CountByName matches case-insensitively; uniqueness of ingredient
	// names is enforced here in the service layer, not by the store.
	CountByName(ctx context.Context, name string, excludeID uint) (int64, error)
	CountFormulaReferences(ctx context.Context, ingredientID uint) (int64, error)
	Update(ctx context.Context, ingredientID uint, update Update) error
	Delete(ctx context.Context, ingredientID uint) (bool, error)
}
