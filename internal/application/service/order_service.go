package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/internal/domain/pricing"
	"github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/pkg/apperror"
	"github.com/sangkips/fnb-pos/pkg/logger"
	"github.com/sangkips/fnb-pos/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// OrderService handles staff actions on existing orders
type OrderService struct {
	tx           repository.Transactor
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	receipts     *ReceiptIssuer
	header       entity.ReceiptHeader
	now          func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	tx repository.Transactor,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	receipts *ReceiptIssuer,
	header entity.ReceiptHeader,
) *OrderService {
	return &OrderService{
		tx:           tx,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		receipts:     receipts,
		header:       header,
		now:          time.Now,
	}
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders newest first
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	params.Pagination.Validate()

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, p), nil
}

// CancelOrder moves a pending order to cancelled and reverses the loyalty
// points it used and earned. Completed orders are never cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order *entity.Order
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if err := cancelConflict(order.Status); err != nil {
			return err
		}

		ok, err := s.orderRepo.CancelIfPending(ctx, id, s.now())
		if err != nil {
			return err
		}
		if !ok {
			current, err := s.orderRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if current != nil {
				if err := cancelConflict(current.Status); err != nil {
					return err
				}
			}
			return apperror.NewConflictError("Order status changed, please reload")
		}

		if order.CustomerID != nil {
			delta := order.LoyaltyPointsUsed - order.LoyaltyPointsEarned
			if err := s.customerRepo.AddPoints(ctx, *order.CustomerID, delta); err != nil {
				return err
			}
		}
		order, err = s.orderRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, wrapStorageError(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	}).Info("Order cancelled")
	return order, nil
}

func cancelConflict(status enum.OrderStatus) error {
	if status.CanTransitionTo(enum.OrderStatusCancelled) {
		return nil
	}
	if status == enum.OrderStatusCompleted {
		return apperror.NewConflictError("Completed orders cannot be cancelled")
	}
	return apperror.NewConflictError("Order is already cancelled")
}

// RepayInput settles a pending order by hand
type RepayInput struct {
	PaymentMethod  enum.PaymentMethod
	AmountReceived *int64
}

// RepayResult is the completed order and the change owed for cash
type RepayResult struct {
	Order  *entity.Order `json:"order"`
	Change int64         `json:"change"`
}

// RepayOrder completes a pending order with cash or a manually confirmed
// transfer. The receipt code is issued in the same transaction.
func (s *OrderService) RepayOrder(ctx context.Context, id uuid.UUID, input *RepayInput) (*RepayResult, error) {
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "payment_method", Message: "payment method must be cash or transfer"},
		})
	}

	result := &RepayResult{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if err := repayConflict(order.Status); err != nil {
			return err
		}

		completion := &repository.OrderCompletion{
			PaidAt:         s.now(),
			PaymentMethod:  input.PaymentMethod,
			AmountReceived: order.TotalAmount,
		}
		if input.PaymentMethod == enum.PaymentMethodCash {
			if input.AmountReceived == nil {
				return apperror.NewValidationError([]apperror.FieldError{
					{Field: "amount_received", Message: "amount received is required for cash payments"},
				})
			}
			change, err := pricing.Change(order.TotalAmount, *input.AmountReceived)
			if err != nil {
				return pricingError(err)
			}
			completion.AmountReceived = *input.AmountReceived
			completion.ChangeAmount = change
			result.Change = change
		}

		completion.ReceiptCode, err = s.receipts.Issue(ctx, completion.PaidAt)
		if err != nil {
			return err
		}
		ok, err := s.orderRepo.CompleteIfPending(ctx, id, completion)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewConflictError("Order status changed, please reload")
		}

		result.Order, err = s.orderRepo.GetWithItems(ctx, id)
		return err
	})
	if err != nil {
		return nil, wrapStorageError(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id":       result.Order.ID,
		"order_number":   result.Order.OrderNumber,
		"payment_method": result.Order.PaymentMethod,
	}).Info("Order repaid")
	return result, nil
}

func repayConflict(status enum.OrderStatus) error {
	if status.CanTransitionTo(enum.OrderStatusCompleted) {
		return nil
	}
	if status == enum.OrderStatusCompleted {
		return apperror.NewConflictError("Order is already paid")
	}
	return apperror.NewConflictError("Cancelled orders cannot be paid")
}

// GetReceipt composes the printable receipt of a completed order
func (s *OrderService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != enum.OrderStatusCompleted || order.IncomeReceiptCode == nil {
		return nil, apperror.NewConflictError("Receipts are only available for completed orders")
	}

	paidAt := order.CreatedAt
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}

	receipt := &entity.Receipt{
		Header:          s.header,
		ReceiptCode:     *order.IncomeReceiptCode,
		OrderNumber:     order.OrderNumber,
		Date:            paidAt.In(s.receipts.Location()).Format("02/01/2006 15:04"),
		Customer:        order.CustomerName,
		PaymentMethod:   order.PaymentMethod.String(),
		Items:           make([]entity.ReceiptItem, 0, len(order.Items)),
		Subtotal:        order.Subtotal,
		DiscountAmount:  order.DiscountAmount,
		LoyaltyDiscount: order.LoyaltyDiscount,
		Total:           order.TotalAmount,
		Paid:            order.AmountReceived,
		Change:          order.ChangeAmount,
	}
	if order.DiscountCode != nil {
		receipt.DiscountCode = *order.DiscountCode
	}
	if receipt.Paid == 0 {
		receipt.Paid = order.TotalAmount
	}

	for _, item := range order.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.ProductName,
			Labels:    item.ClassificationLabels,
			Quantity:  item.Qty,
			UnitPrice: item.UnitPrice,
			Total:     item.Subtotal,
		})
	}
	return receipt, nil
}

// wrapStorageError passes AppErrors through and hides everything else
func wrapStorageError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternalError(err)
}
