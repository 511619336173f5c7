package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
)

// CustomerRepository defines the interface for loyalty account operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	// DebitPoints subtracts points only if the balance covers them
	DebitPoints(ctx context.Context, id uuid.UUID, points int64) (bool, error)
	// AddPoints applies delta, clamping the balance at zero
	AddPoints(ctx context.Context, id uuid.UUID, delta int64) error
}
