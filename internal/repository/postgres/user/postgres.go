package user

import (
	"context"
	"errors"

	userdomain "nalewka/internal/domain/user"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *userdomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID uint) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CountByUsername(ctx context.Context, username string, excludeID uint) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountByEmail(ctx context.Context, email string, excludeID uint) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID uint, update userdomain.ProfileUpdate) error {
	fields := map[string]interface{}{}
	if update.Username != nil {
		fields["username"] = *update.Username
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}
