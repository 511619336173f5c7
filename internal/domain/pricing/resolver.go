package pricing

import (
	"errors"
	"fmt"
)

// ErrInsufficientCash is returned when the cash handed over is below the payable amount
var ErrInsufficientCash = errors.New("amount received is less than the amount due")

// QuoteInput is what the resolver needs to price a checkout
type QuoteInput struct {
	CartTotal      int64
	DiscountCode   string
	PointsToUse    int64
	PointBalance   int64
	LoyaltyEnabled bool
}

// Quote is the resolved payable amount and its breakdown
type Quote struct {
	CartTotal           int64  `json:"cart_total"`
	DiscountCode        string `json:"discount_code,omitempty"`
	DiscountAmount      int64  `json:"discount_amount"`
	AmountAfterDiscount int64  `json:"amount_after_discount"`
	MaxPointsUsable     int64  `json:"max_points_usable"`
	PointsUsed          int64  `json:"points_used"`
	LoyaltyDiscount     int64  `json:"loyalty_discount"`
	FinalAmount         int64  `json:"final_amount"`
	PointsEarned        int64  `json:"points_earned"`
}

// Resolver applies the discount rule table and then loyalty redemption
type Resolver struct {
	rules   map[string]DiscountRule
	loyalty LoyaltyConfig
}

// NewResolver creates a resolver; nil rules means DefaultDiscountRules
func NewResolver(rules map[string]DiscountRule, loyalty LoyaltyConfig) *Resolver {
	if rules == nil {
		rules = DefaultDiscountRules
	}
	return &Resolver{rules: rules, loyalty: loyalty}
}

// Loyalty returns the exchange rates this resolver uses
func (r *Resolver) Loyalty() LoyaltyConfig {
	return r.loyalty
}

// LookupDiscount finds the rule for a code
func (r *Resolver) LookupDiscount(code string) (DiscountRule, error) {
	rule, ok := r.rules[NormalizeCode(code)]
	if !ok {
		return DiscountRule{}, fmt.Errorf("%w: %s", ErrUnknownDiscountCode, NormalizeCode(code))
	}
	return rule, nil
}

// Resolve computes the payable amount. The discount code is always applied
// before loyalty points because the point cap depends on the discounted amount.
func (r *Resolver) Resolve(in QuoteInput) (*Quote, error) {
	cartTotal := max(in.CartTotal, 0)
	q := &Quote{CartTotal: cartTotal}

	if code := NormalizeCode(in.DiscountCode); code != "" {
		rule, err := r.LookupDiscount(code)
		if err != nil {
			return nil, err
		}
		q.DiscountCode = rule.Code
		q.DiscountAmount = min(rule.Amount(cartTotal), cartTotal)
	}
	q.AmountAfterDiscount = max(cartTotal-q.DiscountAmount, 0)

	balance := int64(0)
	if in.LoyaltyEnabled {
		balance = in.PointBalance
	}
	q.MaxPointsUsable = r.loyalty.MaxPointsUsable(balance, q.AmountAfterDiscount)

	if err := r.loyalty.ValidateRedemption(in.PointsToUse, balance, q.AmountAfterDiscount); err != nil {
		return nil, err
	}
	q.PointsUsed = in.PointsToUse
	q.LoyaltyDiscount = q.PointsUsed * r.loyalty.PointValue
	q.FinalAmount = max(q.AmountAfterDiscount-q.LoyaltyDiscount, 0)

	if in.LoyaltyEnabled {
		q.PointsEarned = r.loyalty.EarnedPoints(q.FinalAmount)
	}
	return q, nil
}

// Change returns amountReceived - finalAmount, rejecting short payment
func Change(finalAmount, amountReceived int64) (int64, error) {
	if amountReceived < finalAmount {
		return 0, fmt.Errorf("%w: received %d, due %d", ErrInsufficientCash, amountReceived, finalAmount)
	}
	return amountReceived - finalAmount, nil
}
