package pricing

import "fmt"

// LoyaltyConfig holds the point exchange rates
type LoyaltyConfig struct {
	// PointValue is how many currency units one redeemed point is worth
	PointValue int64
	// EarnRateDivisor is how many currency units of final amount earn one point
	EarnRateDivisor int64
}

// DefaultLoyaltyConfig returns 1 point = 1000 when redeeming, 1 point per 10000 spent
func DefaultLoyaltyConfig() LoyaltyConfig {
	return LoyaltyConfig{PointValue: 1000, EarnRateDivisor: 10000}
}

// PointsError rejects a redemption request and names the allowed maximum
type PointsError struct {
	Requested int64
	Max       int64
	Reason    string
}

func (e *PointsError) Error() string {
	return fmt.Sprintf("%s (requested %d, max %d)", e.Reason, e.Requested, e.Max)
}

// PointsCoverable is how many points the amount can absorb at the exchange rate
func (c LoyaltyConfig) PointsCoverable(amount int64) int64 {
	if c.PointValue <= 0 || amount <= 0 {
		return 0
	}
	return amount / c.PointValue
}

// MaxPointsUsable is min(balance, floor(amountAfterDiscount / PointValue))
func (c LoyaltyConfig) MaxPointsUsable(balance, amountAfterDiscount int64) int64 {
	if balance < 0 {
		balance = 0
	}
	return min(balance, c.PointsCoverable(amountAfterDiscount))
}

// EarnedPoints is floor(finalAmount / EarnRateDivisor)
func (c LoyaltyConfig) EarnedPoints(finalAmount int64) int64 {
	if c.EarnRateDivisor <= 0 || finalAmount <= 0 {
		return 0
	}
	return finalAmount / c.EarnRateDivisor
}

// ValidateRedemption checks a request against the order value first and the
// stored balance second. Zero means no redemption and is always accepted.
func (c LoyaltyConfig) ValidateRedemption(requested, balance, amountAfterDiscount int64) error {
	if requested == 0 {
		return nil
	}
	if requested < 0 {
		return &PointsError{Requested: requested, Max: c.MaxPointsUsable(balance, amountAfterDiscount), Reason: "points to use must be a positive integer"}
	}
	if coverable := c.PointsCoverable(amountAfterDiscount); requested > coverable {
		return &PointsError{Requested: requested, Max: coverable, Reason: "points exceed the order value"}
	}
	if requested > balance {
		return &PointsError{Requested: requested, Max: max(balance, 0), Reason: "points exceed the customer balance"}
	}
	return nil
}
