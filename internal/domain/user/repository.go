package user

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	CountByUsername(ctx context.Context, username string, excludeID uint) (int64, error)
	CountByEmail(ctx context.Context, email string, excludeID uint) (int64, error)
	Update(ctx context.Context, userID uint, update ProfileUpdate) error
}
