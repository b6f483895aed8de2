package liquor

import "context"

type Repository interface {
	Create(ctx context.Context, liquor *Liquor) error
	GetForUser(ctx context.Context, liquorID, userID uint) (*Liquor, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]Liquor, int64, error)
	CountByNameForUser(ctx context.Context, userID uint, name string, excludeID uint) (int64, error)
	Update(ctx context.Context, liquorID uint, update Update) error
	// Delete removes the liquor together with its batches and their
	// formulas in one transaction.
	Delete(ctx context.Context, liquorID, userID uint) (bool, error)
}
