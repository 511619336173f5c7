package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
)

// ProductRepository is the read side of the catalog used at checkout
type ProductRepository interface {
	// GetWithClassifications loads products with their groups and options
	GetWithClassifications(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// ListActive returns the sellable catalog ordered by name
	ListActive(ctx context.Context) ([]entity.Product, error)
}
