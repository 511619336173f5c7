package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentNotificationRepository struct {
	db *gorm.DB
}

// NewPaymentNotificationRepository creates a new webhook audit repository
func NewPaymentNotificationRepository(db *gorm.DB) domainRepo.PaymentNotificationRepository {
	return &paymentNotificationRepository{db: db}
}

func (r *paymentNotificationRepository) Create(ctx context.Context, n *entity.PaymentNotification) error {
	return conn(ctx, r.db).Create(n).Error
}

func (r *paymentNotificationRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.PaymentNotification, error) {
	var notifications []entity.PaymentNotification
	err := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&notifications).Error
	return notifications, err
}

type receiptSequenceRepository struct {
	db *gorm.DB
}

// NewReceiptSequenceRepository creates a new receipt counter repository
func NewReceiptSequenceRepository(db *gorm.DB) domainRepo.ReceiptSequenceRepository {
	return &receiptSequenceRepository{db: db}
}

func (r *receiptSequenceRepository) Next(ctx context.Context, day string) (int64, error) {
	var seq entity.ReceiptSequence
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.ReceiptSequence{Day: day}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.ReceiptSequence{}).
			Where("day = ?", day).
			UpdateColumn("last_value", gorm.Expr("last_value + 1")).Error; err != nil {
			return err
		}
		return tx.First(&seq, "day = ?", day).Error
	})
	if err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}
