package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return translateError(conn(ctx, r.db).Create(customer).Error)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).First(&customer, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

// DebitPoints uses: UPDATE customers SET loyalty_points = loyalty_points - ? WHERE id = ? AND loyalty_points >= ?
func (r *customerRepository) DebitPoints(ctx context.Context, id uuid.UUID, points int64) (bool, error) {
	if points <= 0 {
		return true, nil
	}
	result := conn(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ? AND loyalty_points >= ?", id, points).
		Update("loyalty_points", gorm.Expr("loyalty_points - ?", points))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *customerRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int64) error {
	if delta == 0 {
		return nil
	}
	return conn(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("loyalty_points", gorm.Expr(
			"CASE WHEN loyalty_points + ? < 0 THEN 0 ELSE loyalty_points + ? END", delta, delta)).Error
}
