package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Outcomes recorded for a bank notification
const (
	NotificationOutcomeUpdated          = "updated"
	NotificationOutcomeAlreadyCompleted = "already_completed"
	NotificationOutcomeDuplicate        = "duplicate_transaction"
	NotificationOutcomeNoMatch          = "no_match"
	NotificationOutcomeLostRace         = "status_changed"
	NotificationOutcomeError            = "error"
)

// PaymentNotification is the audit trail of every authenticated bank webhook call
type PaymentNotification struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID *string        `gorm:"size:100;index" json:"transaction_id,omitempty"`
	Amount        int64          `gorm:"not null" json:"amount"`
	Content       string         `gorm:"type:text" json:"content"`
	RawPayload    datatypes.JSON `json:"raw_payload"`
	Outcome       string         `gorm:"size:50;not null;index" json:"outcome"`
	OrderID       *uuid.UUID     `gorm:"type:uuid;index" json:"order_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new notification
func (n *PaymentNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentNotification model
func (PaymentNotification) TableName() string {
	return "payment_notifications"
}

// ReceiptSequence is the per-day counter behind income receipt codes
type ReceiptSequence struct {
	Day       string `gorm:"size:8;primaryKey"`
	LastValue int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for the ReceiptSequence model
func (ReceiptSequence) TableName() string {
	return "receipt_sequences"
}
