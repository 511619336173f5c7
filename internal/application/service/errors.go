package service

import (
	"errors"
	"fmt"

	"github.com/sangkips/fnb-pos/internal/domain/pricing"
	"github.com/sangkips/fnb-pos/pkg/apperror"
)

// errLostRace rolls back a transaction whose guarded update matched no row
var errLostRace = errors.New("order status changed concurrently")

// pricingError converts resolver and calculator errors to 422s naming the field
func pricingError(err error) error {
	var pointsErr *pricing.PointsError
	var classErr *pricing.ClassificationError
	switch {
	case errors.Is(err, pricing.ErrUnknownDiscountCode):
		return apperror.NewFieldError("discount_code", err)
	case errors.As(err, &pointsErr):
		return apperror.NewFieldError("points_to_use", err)
	case errors.Is(err, pricing.ErrInsufficientCash):
		return apperror.NewFieldError("amount_received", err)
	case errors.As(err, &classErr):
		return apperror.NewFieldError("option_ids", err)
	}
	return err
}

func lineError(index int, err error) error {
	var classErr *pricing.ClassificationError
	field := fmt.Sprintf("items[%d]", index)
	if errors.As(err, &classErr) {
		field += ".option_ids"
	}
	return apperror.NewFieldError(field, err)
}
