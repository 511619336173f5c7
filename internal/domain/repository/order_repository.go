package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/pkg/pagination"
)

// OrderRepository defines the interface for order data operations.
// Status transitions are conditional updates guarded by status = pending;
// the returned bool is false when another writer got there first.
type OrderRepository interface {
	// Create writes the header and all items, or nothing
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	// ListTransferCandidates returns the newest transfer orders that are
	// pending or completed, newest first
	ListTransferCandidates(ctx context.Context, limit int) ([]entity.Order, error)
	CompleteIfPending(ctx context.Context, id uuid.UUID, completion *OrderCompletion) (bool, error)
	CancelIfPending(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// OrderCompletion is what gets written on pending -> completed
type OrderCompletion struct {
	ReceiptCode       string
	PaidAt            time.Time
	PaymentMethod     enum.PaymentMethod
	AmountReceived    int64
	ChangeAmount      int64
	BankTransactionID *string
	BankPayload       []byte
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Status        *enum.OrderStatus
	PaymentMethod *enum.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
}
