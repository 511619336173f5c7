package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
)

// IdempotencyRepository stores checkout responses by Idempotency-Key
type IdempotencyRepository interface {
	// GetByKey returns the stored response for key sent by userID, or nil
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a response; an expired row with the same key is replaced
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys that expired before cutoff and reports how many
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
