package service

import (
	"context"

	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/pkg/apperror"
	"github.com/sangkips/fnb-pos/pkg/utils"
)

// CustomerService handles loyalty account lookups
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// LookupByPhone finds the loyalty account for a phone number
func (s *CustomerService) LookupByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	normalized := utils.NormalizePhone(phone)
	if normalized == "" {
		return nil, apperror.NewBadRequestError("phone is required")
	}

	customer, err := s.customerRepo.GetByPhone(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}
