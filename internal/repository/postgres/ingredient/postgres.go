package ingredient

import (
	"context"
	"errors"

	batchdomain "nalewka/internal/domain/batch"
	ingredientdomain "nalewka/internal/domain/ingredient"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ingredient *ingredientdomain.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, ingredientID uint) (*ingredientdomain.Ingredient, error) {
	var ingredient ingredientdomain.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ingredientdomain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]ingredientdomain.Ingredient, error) {
	var items []ingredientdomain.Ingredient
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CountByName(ctx context.Context, name string, excludeID uint) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ingredientdomain.Ingredient{}).
		Where("lower(name) = lower(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountFormulaReferences(ctx context.Context, ingredientID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&batchdomain.Formula{}).
		Where("ingredient_id = ?", ingredientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Update(ctx context.Context, ingredientID uint, update ingredientdomain.Update) error {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&ingredientdomain.Ingredient{}).
		Where("id = ?", ingredientID).
		Updates(fields).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, ingredientID uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ingredientdomain.Ingredient{}, ingredientID)
	return result.RowsAffected > 0, result.Error
}
