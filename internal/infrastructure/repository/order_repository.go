package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			order.Items[i].LineNo = i + 1
		}
		return tx.Create(&order.Items).Error
	})
	return translateError(err)
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).First(&order, "bank_transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := conn(ctx, r.db).Model(&entity.Order{}).
		Scopes(SearchScope(params.Search, "order_number", "customer_name", "customer_phone"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) ListTransferCandidates(ctx context.Context, limit int) ([]entity.Order, error) {
	var orders []entity.Order
	err := conn(ctx, r.db).
		Where("payment_method = ? AND status IN ?", enum.PaymentMethodTransfer,
			[]enum.OrderStatus{enum.OrderStatusPending, enum.OrderStatusCompleted}).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// CompleteIfPending runs
// UPDATE orders SET status = 'completed', ... WHERE id = ? AND status = 'pending'
func (r *orderRepository) CompleteIfPending(ctx context.Context, id uuid.UUID, c *domainRepo.OrderCompletion) (bool, error) {
	updates := map[string]interface{}{
		"status":              enum.OrderStatusCompleted,
		"income_receipt_code": c.ReceiptCode,
		"paid_at":             c.PaidAt,
		"payment_method":      c.PaymentMethod,
		"amount_received":     c.AmountReceived,
		"change_amount":       c.ChangeAmount,
	}
	if c.BankTransactionID != nil {
		updates["bank_transaction_id"] = *c.BankTransactionID
	}
	if len(c.BankPayload) > 0 {
		updates["bank_payload"] = datatypes.JSON(c.BankPayload)
	}

	result := conn(ctx, r.db).Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, enum.OrderStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CancelIfPending runs UPDATE orders SET status = 'cancelled' WHERE id = ? AND status = 'pending'
func (r *orderRepository) CancelIfPending(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, enum.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":              enum.OrderStatusCancelled,
			"cancelled_at":        at,
			"income_receipt_code": nil,
			"paid_at":             nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
