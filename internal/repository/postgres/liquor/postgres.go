package liquor

import (
	"context"
	"errors"

	batchdomain "nalewka/internal/domain/batch"
	liquordomain "nalewka/internal/domain/liquor"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, liquor *liquordomain.Liquor) error {
	return r.db.WithContext(ctx).Create(liquor).Error
}

func (r *PostgresRepository) GetForUser(ctx context.Context, liquorID, userID uint) (*liquordomain.Liquor, error) {
	var liquor liquordomain.Liquor
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", liquorID, userID).
		First(&liquor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, liquordomain.ErrLiquorNotFound
		}
		return nil, err
	}
	return &liquor, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]liquordomain.Liquor, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&liquordomain.Liquor{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []liquordomain.Liquor
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) CountByNameForUser(ctx context.Context, userID uint, name string, excludeID uint) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&liquordomain.Liquor{}).
		Where("user_id = ? AND lower(name) = lower(?)", userID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Update(ctx context.Context, liquorID uint, update liquordomain.Update) error {
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
		Model(&liquordomain.Liquor{}).
		Where("id = ?", liquorID).
		Updates(fields).Error
}

// Delete cascades through batches and formulas explicitly so the behavior
// does not depend on store-level foreign key configuration.
func (r *PostgresRepository) Delete(ctx context.Context, liquorID, userID uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&liquordomain.Liquor{}, "id = ? AND user_id = ?", liquorID, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		if err := tx.
			Where("batch_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
				Model(&batchdomain.Batch{}).
				Select("id").
				Where("liquor_id = ?", liquorID)).
			Delete(&batchdomain.Formula{}).Error; err != nil {
			return err
		}
		return tx.Delete(&batchdomain.Batch{}, "liquor_id = ?", liquorID).Error
	})
	return deleted, err
}
