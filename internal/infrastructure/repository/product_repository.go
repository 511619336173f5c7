package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func withClassifications(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Groups.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") })
}

// GetWithClassifications retrieves multiple products by their IDs in a single query
func (r *productRepository) GetWithClassifications(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := conn(ctx, r.db).
		Scopes(withClassifications).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) ListActive(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).
		Scopes(withClassifications).
		Where("active = ?", true).
		Order("name ASC").
		Find(&products).Error
	return products, err
}
