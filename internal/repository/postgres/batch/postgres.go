package batch

import (
	"context"
	"errors"

	batchdomain "nalewka/internal/domain/batch"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(batchdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) LiquorOwned(ctx context.Context, liquorID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("liquors").
		Where("id = ? AND user_id = ?", liquorID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) IngredientExists(ctx context.Context, ingredientID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("ingredients").
		Where("id = ?", ingredientID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, batch *batchdomain.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *PostgresRepository) GetBatchForUser(ctx context.Context, batchID, userID uint) (*batchdomain.BatchDetail, error) {
	var found batchdomain.Batch
	if err := r.db.WithContext(ctx).
		Select("batches.*").
		Joins("JOIN liquors ON liquors.id = batches.liquor_id").
		Where("batches.id = ? AND liquors.user_id = ?", batchID, userID).
		First(&found).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batchdomain.ErrBatchNotFound
		}
		return nil, err
	}

	formulas, err := r.formulasWithNames(ctx, found.ID)
	if err != nil {
		return nil, err
	}

	return &batchdomain.BatchDetail{Batch: found, Formulas: formulas}, nil
}

func (r *PostgresRepository) formulasWithNames(ctx context.Context, batchID uint) ([]batchdomain.FormulaDetail, error) {
	var formulas []batchdomain.FormulaDetail
	if err := r.db.WithContext(ctx).
		Table("batch_formulas").
		Select("batch_formulas.*, ingredients.name AS ingredient_name").
		Joins("JOIN ingredients ON ingredients.id = batch_formulas.ingredient_id").
		Where("batch_formulas.batch_id = ?", batchID).
		Order("batch_formulas.id asc").
		Scan(&formulas).Error; err != nil {
		return nil, err
	}
	return formulas, nil
}

func (r *PostgresRepository) ListBatchesForLiquor(ctx context.Context, liquorID uint, limit, offset int) ([]batchdomain.BatchSummary, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&batchdomain.Batch{}).
		Where("liquor_id = ?", liquorID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.
		Select("batches.*, (SELECT COUNT(*) FROM batch_formulas WHERE batch_formulas.batch_id = batches.id) AS ingredient_count").
		Order("date desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []batchdomain.BatchSummary
	if err := query.Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) UpdateBatch(ctx context.Context, batchID uint, update batchdomain.Update) error {
	fields := map[string]interface{}{}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Date != nil {
		fields["date"] = *update.Date
	}
	if update.BottleCount != nil {
		fields["bottle_count"] = *update.BottleCount
	}
	if update.BottleVolume != nil {
		fields["bottle_volume"] = *update.BottleVolume
	}
	if update.BottleVolumeUnit != nil {
		fields["bottle_volume_unit"] = *update.BottleVolumeUnit
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&batchdomain.Batch{}).
		Where("id = ?", batchID).
		Updates(fields).Error
}

func (r *PostgresRepository) DeleteBatch(ctx context.Context, batchID uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&batchdomain.Formula{}, "batch_id = ?", batchID).Error; err != nil {
			return err
		}
		result := tx.Delete(&batchdomain.Batch{}, batchID)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *PostgresRepository) CreateFormula(ctx context.Context, formula *batchdomain.Formula) error {
	return r.db.WithContext(ctx).Create(formula).Error
}

func (r *PostgresRepository) GetFormulaForUser(ctx context.Context, formulaID, userID uint) (*batchdomain.FormulaDetail, error) {
	var found batchdomain.FormulaDetail
	if err := r.db.WithContext(ctx).
		Table("batch_formulas").
		Select("batch_formulas.*, ingredients.name AS ingredient_name").
		Joins("JOIN ingredients ON ingredients.id = batch_formulas.ingredient_id").
		Joins("JOIN batches ON batches.id = batch_formulas.batch_id").
		Joins("JOIN liquors ON liquors.id = batches.liquor_id").
		Where("batch_formulas.id = ? AND liquors.user_id = ?", formulaID, userID).
		Take(&found).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batchdomain.ErrFormulaNotFound
		}
		return nil, err
	}
	return &found, nil
}

func (r *PostgresRepository) ListFormulasForBatch(ctx context.Context, batchID uint, limit, offset int) ([]batchdomain.FormulaDetail, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&batchdomain.Formula{}).
		Where("batch_id = ?", batchID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Table("batch_formulas").
		Select("batch_formulas.*, ingredients.name AS ingredient_name").
		Joins("JOIN ingredients ON ingredients.id = batch_formulas.ingredient_id").
		Where("batch_formulas.batch_id = ?", batchID).
		Order("batch_formulas.id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []batchdomain.FormulaDetail
	if err := query.Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) UpdateFormula(ctx context.Context, formulaID uint, update batchdomain.FormulaUpdate) error {
	fields := map[string]interface{}{}
	if update.IngredientID != nil {
		fields["ingredient_id"] = *update.IngredientID
	}
	if update.Quantity != nil {
		fields["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		fields["unit"] = *update.Unit
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&batchdomain.Formula{}).
		Where("id = ?", formulaID).
		Updates(fields).Error
}

func (r *PostgresRepository) DeleteFormula(ctx context.Context, formulaID uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&batchdomain.Formula{}, formulaID)
	return result.RowsAffected > 0, result.Error
}
