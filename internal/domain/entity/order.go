package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order represents one purchase transaction. Money fields are whole currency units.
type Order struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber         string             `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	CreatedBy           uuid.UUID          `gorm:"type:uuid;index" json:"created_by"`
	CustomerID          *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName        string             `gorm:"size:255" json:"customer_name"`
	CustomerPhone       *string            `gorm:"size:50;index" json:"customer_phone,omitempty"`
	Note                *string            `gorm:"type:text" json:"note,omitempty"`
	PaymentMethod       enum.PaymentMethod `gorm:"size:20;not null;index" json:"payment_method"`
	Status              enum.OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	Subtotal            int64              `gorm:"not null;default:0" json:"subtotal"`
	DiscountCode        *string            `gorm:"size:50" json:"discount_code,omitempty"`
	DiscountAmount      int64              `gorm:"not null;default:0" json:"discount_amount"`
	LoyaltyPointsUsed   int64              `gorm:"not null;default:0" json:"loyalty_points_used"`
	LoyaltyDiscount     int64              `gorm:"not null;default:0" json:"loyalty_discount"`
	LoyaltyPointsEarned int64              `gorm:"not null;default:0" json:"loyalty_points_earned"`
	TotalAmount         int64              `gorm:"not null;default:0;index" json:"total_amount"`
	AmountReceived      int64              `gorm:"not null;default:0" json:"amount_received"`
	ChangeAmount        int64              `gorm:"not null;default:0" json:"change_amount"`
	TransferContent     *string            `gorm:"size:255" json:"transfer_content,omitempty"`
	IncomeReceiptCode   *string            `gorm:"size:50;uniqueIndex;check:chkReceiptCode,(status = 'completed') = (income_receipt_code IS NOT NULL)" json:"income_receipt_code,omitempty"`
	PaidAt              *time.Time         `json:"paid_at,omitempty"`
	CancelledAt         *time.Time         `json:"cancelled_at,omitempty"`
	BankTransactionID   *string            `gorm:"size:100;uniqueIndex" json:"bank_transaction_id,omitempty"`
	BankPayload         datatypes.JSON     `json:"-"`
	CreatedAt           time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`

	// Relationships
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ItemsTotal sums the line subtotals
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal
	}
	return total
}

// OrderItem is one product line of an order. Name, price and labels are
// snapshots taken when the order was written, not live catalog references.
type OrderItem struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID              uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	LineNo               int        `gorm:"not null;default:0" json:"line_no"`
	ProductID            *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName          string     `gorm:"size:255;not null" json:"product_name"`
	Qty                  int        `gorm:"not null" json:"qty"`
	UnitPrice            int64      `gorm:"not null" json:"unit_price"`
	Subtotal             int64      `gorm:"not null" json:"subtotal"`
	ClassificationLabels Labels     `gorm:"type:text" json:"classification_labels"`
	Note                 *string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Labels is an ordered list of "Group: Option" strings stored as a JSON array
type Labels []string

func (l Labels) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *Labels) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = Labels{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into Labels", value)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}
