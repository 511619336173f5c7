package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

// GetByKey scopes the lookup to the staff member so keys from different
// tills never replay each other's orders.
func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := conn(ctx, r.db).
		Where("key = ? AND user_id = ?", key, userID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

// Create frees the key first if its previous response has expired, so a
// till that reuses key numbering after a day is not blocked by the unique index.
func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("key = ? AND expires_at < ?", ikey.Key, time.Now()).
			Delete(&entity.IdempotencyKey{}).Error
		if err != nil {
			return err
		}
		return translateError(tx.Create(ikey).Error)
	})
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("expires_at < ?", cutoff).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
