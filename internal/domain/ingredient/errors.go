package ingredient

import "errors"

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrNameTaken          = errors.New("ingredient with this name already exists")
	ErrIngredientInUse    = errors.New("ingredient is used by existing batch formulas")
)
