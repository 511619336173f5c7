package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/internal/domain/pricing"
	"github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/pkg/apperror"
	"github.com/sangkips/fnb-pos/pkg/logger"
	"github.com/sangkips/fnb-pos/pkg/utils"
	"github.com/sirupsen/logrus"
)

// CheckoutService prices carts and writes orders
type CheckoutService struct {
	tx           repository.Transactor
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	resolver     *pricing.Resolver
	receipts     *ReceiptIssuer
	now          func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	tx repository.Transactor,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	resolver *pricing.Resolver,
	receipts *ReceiptIssuer,
) *CheckoutService {
	return &CheckoutService{
		tx:           tx,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		resolver:     resolver,
		receipts:     receipts,
		now:          time.Now,
	}
}

// CartLineInput is one cart line as sent by the POS
type CartLineInput struct {
	ProductID uuid.UUID
	Qty       int
	OptionIDs []uuid.UUID
	Note      *string
}

// QuoteInput is everything needed to price a cart
type QuoteInput struct {
	Lines         []CartLineInput
	DiscountCode  string
	PointsToUse   int64
	UseLoyalty    bool
	CustomerPhone string
}

// PricedLine is a cart line with its catalog snapshot
type PricedLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	UnitPrice int64     `json:"unit_price"`
	Subtotal  int64     `json:"subtotal"`
	Labels    []string  `json:"labels"`
	Note      *string   `json:"note,omitempty"`
}

// QuoteResult is the priced cart
type QuoteResult struct {
	Lines    []PricedLine     `json:"lines"`
	Quote    *pricing.Quote   `json:"quote"`
	Customer *entity.Customer `json:"customer,omitempty"`
	phone    string
}

// CheckoutInput extends QuoteInput with payment and customer details
type CheckoutInput struct {
	QuoteInput
	StaffID         uuid.UUID
	PaymentMethod   enum.PaymentMethod
	AmountReceived  *int64
	CustomerName    string
	Note            *string
	TransferContent *string
}

// CheckoutResult is the written order with the pricing it was written with
type CheckoutResult struct {
	Order  *entity.Order  `json:"order"`
	Quote  *pricing.Quote `json:"quote"`
	Change int64          `json:"change"`
}

// Quote prices the cart without writing anything
func (s *CheckoutService) Quote(ctx context.Context, input *QuoteInput) (*QuoteResult, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "cart must contain at least one item"},
		})
	}

	productIDs := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.productRepo.GetWithClassifications(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	result := &QuoteResult{Lines: make([]PricedLine, 0, len(input.Lines))}
	var cartTotal int64
	for i, line := range input.Lines {
		product := productMap[line.ProductID]
		priced, err := pricing.PriceLine(product, line.OptionIDs, line.Qty)
		if err != nil {
			return nil, lineError(i, err)
		}
		cartTotal += priced.Subtotal
		result.Lines = append(result.Lines, PricedLine{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       line.Qty,
			UnitPrice: priced.UnitPrice,
			Subtotal:  priced.Subtotal,
			Labels:    priced.Labels,
			Note:      line.Note,
		})
	}

	var balance int64
	if input.UseLoyalty {
		result.phone = utils.NormalizePhone(input.CustomerPhone)
		if result.phone == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "customer_phone", Message: "phone number is required to use loyalty"},
			})
		}
		customer, err := s.customerRepo.GetByPhone(ctx, result.phone)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			result.Customer = customer
			balance = customer.LoyaltyPoints
		}
	}

	quote, err := s.resolver.Resolve(pricing.QuoteInput{
		CartTotal:      cartTotal,
		DiscountCode:   input.DiscountCode,
		PointsToUse:    input.PointsToUse,
		PointBalance:   balance,
		LoyaltyEnabled: input.UseLoyalty,
	})
	if err != nil {
		return nil, pricingError(err)
	}
	result.Quote = quote
	return result, nil
}

// Checkout prices the cart again and writes the order with its items and
// loyalty effects in one transaction. Cash orders are completed immediately.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "payment_method", Message: "payment method must be cash or transfer"},
		})
	}

	quoted, err := s.Quote(ctx, &input.QuoteInput)
	if err != nil {
		return nil, err
	}
	quote := quoted.Quote

	var amountReceived, change int64
	if input.PaymentMethod == enum.PaymentMethodCash {
		if input.AmountReceived == nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "amount_received", Message: "amount received is required for cash payments"},
			})
		}
		amountReceived = *input.AmountReceived
		change, err = pricing.Change(quote.FinalAmount, amountReceived)
		if err != nil {
			return nil, pricingError(err)
		}
	}

	order := s.buildOrder(input, quoted, amountReceived, change)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.UseLoyalty {
			if err := s.applyLoyalty(ctx, order, quoted, input.CustomerName); err != nil {
				return err
			}
		}
		if order.Status == enum.OrderStatusCompleted {
			paidAt := s.now()
			code, err := s.receipts.Issue(ctx, paidAt)
			if err != nil {
				return err
			}
			order.PaidAt = &paidAt
			order.IncomeReceiptCode = &code
		}
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("Order could not be saved because of a conflicting record, please retry")
		}
		return nil, apperror.NewInternalError(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"payment_method": order.PaymentMethod,
		"status":         order.Status,
		"total":          order.TotalAmount,
	}).Info("Order created")

	return &CheckoutResult{Order: order, Quote: quote, Change: change}, nil
}

func (s *CheckoutService) buildOrder(input *CheckoutInput, quoted *QuoteResult, amountReceived, change int64) *entity.Order {
	quote := quoted.Quote
	order := &entity.Order{
		OrderNumber:         utils.GenerateOrderNumber(),
		CreatedBy:           input.StaffID,
		CustomerName:        strings.TrimSpace(input.CustomerName),
		Note:                input.Note,
		PaymentMethod:       input.PaymentMethod,
		Status:              input.PaymentMethod.InitialStatus(),
		Subtotal:            quote.CartTotal,
		DiscountAmount:      quote.DiscountAmount,
		LoyaltyPointsUsed:   quote.PointsUsed,
		LoyaltyDiscount:     quote.LoyaltyDiscount,
		LoyaltyPointsEarned: quote.PointsEarned,
		TotalAmount:         quote.FinalAmount,
		AmountReceived:      amountReceived,
		ChangeAmount:        change,
		Items:               make([]entity.OrderItem, 0, len(quoted.Lines)),
	}
	if quote.DiscountCode != "" {
		code := quote.DiscountCode
		order.DiscountCode = &code
	}
	if phone := utils.NormalizePhone(input.CustomerPhone); phone != "" {
		order.CustomerPhone = &phone
	}
	if input.PaymentMethod == enum.PaymentMethodTransfer {
		content := order.OrderNumber
		if input.TransferContent != nil && strings.TrimSpace(*input.TransferContent) != "" {
			content = strings.TrimSpace(*input.TransferContent)
		}
		order.TransferContent = &content
	}

	for _, line := range quoted.Lines {
		productID := line.ProductID
		order.Items = append(order.Items, entity.OrderItem{
			ProductID:            &productID,
			ProductName:          line.Name,
			Qty:                  line.Qty,
			UnitPrice:            line.UnitPrice,
			Subtotal:             line.Subtotal,
			ClassificationLabels: entity.Labels(line.Labels),
			Note:                 line.Note,
		})
	}
	return order
}

// applyLoyalty debits used points and credits earned points, creating the
// account on first use with only the earned points as its balance.
func (s *CheckoutService) applyLoyalty(ctx context.Context, order *entity.Order, quoted *QuoteResult, name string) error {
	quote := quoted.Quote
	if quoted.Customer == nil {
		name = strings.TrimSpace(name)
		if name == "" {
			name = quoted.phone
		}
		customer := &entity.Customer{
			Name:          name,
			Phone:         quoted.phone,
			LoyaltyPoints: quote.PointsEarned,
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return apperror.NewConflictError("Customer was registered by another checkout, please retry")
			}
			return err
		}
		order.CustomerID = &customer.ID
		if order.CustomerName == "" {
			order.CustomerName = customer.Name
		}
		return nil
	}

	customer := quoted.Customer
	ok, err := s.customerRepo.DebitPoints(ctx, customer.ID, quote.PointsUsed)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewConflictError("Loyalty balance changed, please quote again")
	}
	if err := s.customerRepo.AddPoints(ctx, customer.ID, quote.PointsEarned); err != nil {
		return err
	}
	order.CustomerID = &customer.ID
	if order.CustomerName == "" {
		order.CustomerName = customer.Name
	}
	return nil
}
