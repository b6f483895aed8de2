package apikey

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, key *APIKey) error
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]APIKey, int64, error)
	Delete(ctx context.Context, keyID, userID uint) (bool, error)
	GetActiveByKey(ctx context.Context, key string) (*APIKey, error)
	TouchLastUsed(ctx context.Context, keyID uint, when time.Time) error
}
