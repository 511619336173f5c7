package pricing

import (
	"errors"
	"strings"
)

// ErrUnknownDiscountCode is returned for codes that are not in the rule table
var ErrUnknownDiscountCode = errors.New("discount code is not valid")

// DiscountType distinguishes percentage and fixed-amount rules
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// DiscountRule maps a code to its discount. For percent rules Value is the
// percentage and MaxDiscount caps the result (0 means uncapped). For fixed
// rules Value is the amount.
type DiscountRule struct {
	Code        string
	Type        DiscountType
	Value       int64
	MaxDiscount int64
}

// DefaultDiscountRules is the rule table used at the counter
var DefaultDiscountRules = map[string]DiscountRule{
	"GIAM10":  {Code: "GIAM10", Type: DiscountPercent, Value: 10, MaxDiscount: 100000},
	"GIAM20":  {Code: "GIAM20", Type: DiscountPercent, Value: 20, MaxDiscount: 50000},
	"GIAM50":  {Code: "GIAM50", Type: DiscountPercent, Value: 50, MaxDiscount: 30000},
	"GIAM20K": {Code: "GIAM20K", Type: DiscountFixed, Value: 20000},
	"GIAM50K": {Code: "GIAM50K", Type: DiscountFixed, Value: 50000},
}

// NormalizeCode upper-cases and trims a code as typed by the cashier
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Amount returns the discount this rule grants on cartTotal, never more than cartTotal
func (r DiscountRule) Amount(cartTotal int64) int64 {
	if cartTotal <= 0 {
		return 0
	}

	var amount int64
	switch r.Type {
	case DiscountFixed:
		amount = r.Value
	case DiscountPercent:
		amount = cartTotal * r.Value / 100
		if r.MaxDiscount > 0 && amount > r.MaxDiscount {
			amount = r.MaxDiscount
		}
	}

	if amount < 0 {
		return 0
	}
	if amount > cartTotal {
		return cartTotal
	}
	return amount
}
