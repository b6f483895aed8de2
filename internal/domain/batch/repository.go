package batch

import "context"

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction; any error rolls the whole transaction back.
	Transaction(ctx context.Context, fn func(Repository) error) error

	LiquorOwned(ctx context.Context, liquorID, userID uint) (bool, error)
	IngredientExists(ctx context.Context, ingredientID uint) (bool, error)

	CreateBatch(ctx context.Context, batch *Batch) error
	GetBatchForUser(ctx context.Context, batchID, userID uint) (*BatchDetail, error)
	ListBatchesForLiquor(ctx context.Context, liquorID uint, limit, offset int) ([]BatchSummary, int64, error)
	UpdateBatch(ctx context.Context, batchID uint, update Update) error
	// DeleteBatch removes the batch and its formulas.
	DeleteBatch(ctx context.Context, batchID uint) (bool, error)

	CreateFormula(ctx context.Context, formula *Formula) error
	GetFormulaForUser(ctx context.Context, formulaID, userID uint) (*FormulaDetail, error)
	ListFormulasForBatch(ctx context.Context, batchID uint, limit, offset int) ([]FormulaDetail, int64, error)
	UpdateFormula(ctx context.Context, formulaID uint, update FormulaUpdate) error
	DeleteFormula(ctx context.Context, formulaID uint) (bool, error)
}
