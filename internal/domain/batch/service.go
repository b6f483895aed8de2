package batch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nalewka/pkg/units"
)

type Service struct {
	repo Repository
}

// normalizeBottleVolume converts a submitted liter volume to milliliters.
// Only liters convert at write time; any other unit is taken as already
// canonical.
func normalizeBottleVolume(volume float64, unit string) float64 {
	if unit == "l" && volume > 0 {
		return units.ToML(volume, unit)
	}
	return volume
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateBatchWithIngredients atomically persists a batch and its formula
// rows. Ingredient entries missing any of id, quantity or unit are dropped
// silently; entries that are complete but carry a malformed or non-positive
// quantity fail the whole operation. When no valid entries remain, nothing
// is persisted.
func (s *Service) CreateBatchWithIngredients(ctx context.Context, input CreateBatchInput) (*BatchDetail, error) {
	owned, err := s.repo.LiquorOwned(ctx, input.LiquorID, input.UserID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrLiquorNotFound
	}

	bottleVolume := normalizeBottleVolume(input.BottleVolume, input.BottleVolumeUnit)

	type validEntry struct {
		ingredientID uint
		quantity     float64
		unit         string
	}
	var entries []validEntry
	for _, entry := range input.Ingredients {
		quantity := strings.TrimSpace(entry.Quantity)
		unit := strings.TrimSpace(entry.Unit)
		if entry.IngredientID == 0 || quantity == "" || unit == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(quantity, 64)
		if err != nil {
			return nil, fmt.Errorf("ingredient quantity %q: %w", quantity, ErrInvalidQuantity)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("ingredient quantity %v: %w", parsed, ErrInvalidQuantity)
		}
		entries = append(entries, validEntry{entry.IngredientID, parsed, unit})
	}

	if len(entries) == 0 {
		return nil, ErrNoValidIngredients
	}

	if input.BottleCount < 0 {
		return nil, ErrNegativeBottleCount
	}
	if bottleVolume < 0 {
		return nil, ErrNegativeBottleVolume
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	created := Batch{
		Date:             date,
		Description:      input.Description,
		LiquorID:         input.LiquorID,
		BottleCount:      input.BottleCount,
		BottleVolume:     bottleVolume,
		BottleVolumeUnit: CanonicalVolumeUnit,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateBatch(ctx, &created); err != nil {
			return err
		}
		for _, entry := range entries {
			formula := Formula{
				BatchID:      created.ID,
				IngredientID: entry.ingredientID,
				Quantity:     entry.quantity,
				Unit:         entry.unit,
			}
			if err := tx.CreateFormula(ctx, &formula); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	return s.repo.GetBatchForUser(ctx, created.ID, input.UserID)
}

// CreateBatch persists a bare batch without formulas.
func (s *Service) CreateBatch(ctx context.Context, input CreateBatchInput) (*BatchDetail, error) {
	owned, err := s.repo.LiquorOwned(ctx, input.LiquorID, input.UserID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrLiquorNotFound
	}

	if input.BottleCount < 0 {
		return nil, ErrNegativeBottleCount
	}
	bottleVolume := normalizeBottleVolume(input.BottleVolume, input.BottleVolumeUnit)
	if bottleVolume < 0 {
		return nil, ErrNegativeBottleVolume
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	created := Batch{
		Date:             date,
		Description:      input.Description,
		LiquorID:         input.LiquorID,
		BottleCount:      input.BottleCount,
		BottleVolume:     bottleVolume,
		BottleVolumeUnit: CanonicalVolumeUnit,
	}
	if err := s.repo.CreateBatch(ctx, &created); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	return s.repo.GetBatchForUser(ctx, created.ID, input.UserID)
}

func (s *Service) GetBatch(ctx context.Context, batchID, userID uint) (*BatchDetail, error) {
	return s.repo.GetBatchForUser(ctx, batchID, userID)
}

func (s *Service) ListBatchesForLiquor(ctx context.Context, liquorID, userID uint, limit, offset int) ([]BatchSummary, int64, error) {
	owned, err := s.repo.LiquorOwned(ctx, liquorID, userID)
	if err != nil {
		return nil, 0, err
	}
	if !owned {
		return nil, 0, ErrLiquorNotFound
	}
	return s.repo.ListBatchesForLiquor(ctx, liquorID, limit, offset)
}

// UpdateBatchBottles applies a partial update to the bottle fields of a
// batch. Only fields present in the input change; a submitted volume is
// normalized to milliliters before it is stored.
func (s *Service) UpdateBatchBottles(ctx context.Context, batchID, userID uint, input UpdateBottlesInput) (*BatchDetail, error) {
	if _, err := s.repo.GetBatchForUser(ctx, batchID, userID); err != nil {
		return nil, err
	}

	if input.BottleCount != nil && *input.BottleCount < 0 {
		return nil, ErrNegativeBottleCount
	}

	update := Update{BottleCount: input.BottleCount}
	if input.BottleVolume != nil {
		volume := *input.BottleVolume
		if volume < 0 {
			return nil, ErrNegativeBottleVolume
		}
		volume = normalizeBottleVolume(volume, input.BottleVolumeUnit)
		unit := CanonicalVolumeUnit
		update.BottleVolume = &volume
		update.BottleVolumeUnit = &unit
	}

	if update.BottleCount == nil && update.BottleVolume == nil {
		return s.repo.GetBatchForUser(ctx, batchID, userID)
	}

	if err := s.repo.UpdateBatch(ctx, batchID, update); err != nil {
		return nil, fmt.Errorf("update batch bottles: %w", err)
	}
	return s.repo.GetBatchForUser(ctx, batchID, userID)
}

func (s *Service) UpdateBatch(ctx context.Context, batchID, userID uint, update Update) (*BatchDetail, error) {
	if _, err := s.repo.GetBatchForUser(ctx, batchID, userID); err != nil {
		return nil, err
	}

	if update.BottleCount != nil && *update.BottleCount < 0 {
		return nil, ErrNegativeBottleCount
	}
	if update.BottleVolume != nil {
		volume := *update.BottleVolume
		if volume < 0 {
			return nil, ErrNegativeBottleVolume
		}
		if update.BottleVolumeUnit != nil {
			volume = normalizeBottleVolume(volume, *update.BottleVolumeUnit)
		}
		unit := CanonicalVolumeUnit
		update.BottleVolume = &volume
		update.BottleVolumeUnit = &unit
	} else {
		update.BottleVolumeUnit = nil
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	if err := s.repo.UpdateBatch(ctx, batchID, update); err != nil {
		return nil, fmt.Errorf("update batch: %w", err)
	}
	return s.repo.GetBatchForUser(ctx, batchID, userID)
}

func (s *Service) DeleteBatch(ctx context.Context, batchID, userID uint) error {
	if _, err := s.repo.GetBatchForUser(ctx, batchID, userID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBatchNotFound
	}
	return nil
}

func (s *Service) AddFormula(ctx context.Context, batchID, userID, ingredientID uint, quantity float64, unit string) (*FormulaDetail, error) {
	if _, err := s.repo.GetBatchForUser(ctx, batchID, userID); err != nil {
		return nil, err
	}

	exists, err := s.repo.IngredientExists(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrIngredientNotFound
	}

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return nil, ErrUnitRequired
	}

	formula := Formula{
		BatchID:      batchID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
	}
	if err := s.repo.CreateFormula(ctx, &formula); err != nil {
		return nil, fmt.Errorf("create formula: %w", err)
	}

	return s.repo.GetFormulaForUser(ctx, formula.ID, userID)
}

func (s *Service) ListFormulasForBatch(ctx context.Context, batchID, userID uint, limit, offset int) ([]FormulaDetail, int64, error) {
	if _, err := s.repo.GetBatchForUser(ctx, batchID, userID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListFormulasForBatch(ctx, batchID, limit, offset)
}

func (s *Service) UpdateFormula(ctx context.Context, formulaID, userID uint, update FormulaUpdate) (*FormulaDetail, error) {
	if _, err := s.repo.GetFormulaForUser(ctx, formulaID, userID); err != nil {
		return nil, err
	}

	if update.Quantity != nil && *update.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if update.Unit != nil {
		unit := strings.TrimSpace(*update.Unit)
		if unit == "" {
			return nil, ErrUnitRequired
		}
		update.Unit = &unit
	}
	if update.IngredientID != nil {
		exists, err := s.repo.IngredientExists(ctx, *update.IngredientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrIngredientNotFound
		}
	}

	if err := s.repo.UpdateFormula(ctx, formulaID, update); err != nil {
		return nil, fmt.Errorf("update formula: %w", err)
	}
	return s.repo.GetFormulaForUser(ctx, formulaID, userID)
}

func (s *Service) DeleteFormula(ctx context.Context, formulaID, userID uint) error {
	if _, err := s.repo.GetFormulaForUser(ctx, formulaID, userID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteFormula(ctx, formulaID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFormulaNotFound
	}
	return nil
}
