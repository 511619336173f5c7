package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/pkg/utils"
)

// Amount is a VND amount sent by the POS. Cashiers type it, so both JSON
// numbers and formatted strings such as "50.000" are accepted.
type Amount int64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := utils.ParseAmount(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.New("amount must be a number or a numeric string")
	}
	if f < 0 {
		return errors.New("amount must not be negative")
	}
	*a = Amount(math.Round(f))
	return nil
}

// Int64 returns nil for a missing amount
func (a *Amount) Int64() *int64 {
	if a == nil {
		return nil
	}
	v := int64(*a)
	return &v
}

// CartItemRequest is one cart line
type CartItemRequest struct {
	ProductID uuid.UUID   `json:"product_id" binding:"required"`
	Qty       int         `json:"qty" binding:"required,min=1"`
	OptionIDs []uuid.UUID `json:"option_ids"`
	Note      *string     `json:"note" binding:"omitempty,max=255"`
}

// QuoteRequest prices a cart without writing an order
type QuoteRequest struct {
	Items         []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountCode  string            `json:"discount_code" binding:"omitempty,max=50"`
	PointsToUse   int64             `json:"points_to_use" binding:"min=0"`
	UseLoyalty    bool              `json:"use_loyalty"`
	CustomerPhone string            `json:"customer_phone" binding:"omitempty,max=20"`
}

// CheckoutRequest writes an order from the cart
type CheckoutRequest struct {
	QuoteRequest
	PaymentMethod   string  `json:"payment_method" binding:"required"`
	AmountReceived  *Amount `json:"amount_received"`
	CustomerName    string  `json:"customer_name" binding:"omitempty,max=255"`
	Note            *string `json:"note" binding:"omitempty,max=500"`
	TransferContent *string `json:"transfer_content" binding:"omitempty,max=255"`
}

// RepayRequest settles a pending order by hand
type RepayRequest struct {
	PaymentMethod  string  `json:"payment_method" binding:"required"`
	AmountReceived *Amount `json:"amount_received"`
}
