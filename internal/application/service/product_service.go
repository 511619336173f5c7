package service

import (
	"context"

	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/repository"
)

// ProductService serves the catalog to the POS screen
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListCatalog returns every active product with its classification groups
func (s *ProductService) ListCatalog(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}
