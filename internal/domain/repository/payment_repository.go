package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
)

// PaymentNotificationRepository stores the bank webhook audit log
type PaymentNotificationRepository interface {
	Create(ctx context.Context, notification *entity.PaymentNotification) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.PaymentNotification, error)
}

// ReceiptSequenceRepository hands out the per-day receipt counter
type ReceiptSequenceRepository interface {
	// Next increments and returns the counter for day (YYYYMMDD). Run it in
	// the transaction that completes the order so a rollback returns the number.
	Next(ctx context.Context, day string) (int64, error)
}
