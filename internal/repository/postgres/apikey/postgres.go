package apikey

import (
	"context"
	"errors"
	"time"

	apikeydomain "nalewka/internal/domain/apikey"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, key *apikeydomain.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]apikeydomain.APIKey, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&apikeydomain.APIKey{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []apikeydomain.APIKey
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, keyID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&apikeydomain.APIKey{}, "id = ? AND user_id = ?", keyID, userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) GetActiveByKey(ctx context.Context, key string) (*apikeydomain.APIKey, error) {
	var found apikeydomain.APIKey
	if err := r.db.WithContext(ctx).
		Where("key = ? AND is_active = ?", key, true).
		First(&found).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apikeydomain.ErrKeyInvalid
		}
		return nil, err
	}
	return &found, nil
}

func (r *PostgresRepository) TouchLastUsed(ctx context.Context, keyID uint, when time.Time) error {
	return r.db.WithContext(ctx).
		Model(&apikeydomain.APIKey{}).
		Where("id = ?", keyID).
		Update("last_used", when).Error
}
