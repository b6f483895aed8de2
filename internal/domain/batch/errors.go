package batch

import "errors"

var (
	// Not-found sentinels also cover ownership mismatches: lookups are
	// scoped by owner in one query, so a foreign resource is
	// indistinguishable from a missing one.
	ErrLiquorNotFound     = errors.New("liquor not found")
	ErrBatchNotFound      = errors.New("batch not found")
	ErrFormulaNotFound    = errors.New("formula not found")
	ErrIngredientNotFound = errors.New("ingredient not found")

	ErrNoValidIngredients   = errors.New("at least one valid ingredient must be added")
	ErrInvalidQuantity      = errors.New("quantity must be a positive number")
	ErrUnitRequired         = errors.New("unit is required")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrNegativeBottleCount  = errors.New("bottle count cannot be negative")
	ErrNegativeBottleVolume = errors.New("bottle volume cannot be negative")
)
