// Package pricing holds the pure checkout arithmetic: line prices from
// classification surcharges, discount codes, loyalty redemption and cash change.
// Nothing in this package performs I/O.
package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
)

var (
	ErrInvalidQuantity        = errors.New("quantity must be greater than zero")
	ErrProductUnavailable     = errors.New("product is not available")
	ErrUnknownOption          = errors.New("option does not belong to this product")
	ErrRequiredClassification = errors.New("a selection is required")
	ErrSingleSelect           = errors.New("only one option may be selected")
)

// ClassificationError names the group that rejected a selection
type ClassificationError struct {
	Group string
	Err   error
}

func (e *ClassificationError) Error() string {
	if e.Group == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Group, e.Err.Error())
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Line is the priced form of one cart line
type Line struct {
	UnitPrice int64
	Subtotal  int64
	Labels    []string
}

// PriceLine computes basePrice + the surcharges of the selected options.
// Every required group must have a selection, and single-select groups accept
// at most one. Labels come out as "Group: Option" in group then option order.
func PriceLine(product *entity.Product, optionIDs []uuid.UUID, qty int) (*Line, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if product == nil || !product.Active {
		return nil, ErrProductUnavailable
	}

	selected := make(map[uuid.UUID]bool, len(optionIDs))
	for _, id := range optionIDs {
		selected[id] = true
	}

	groups := make([]entity.ClassificationGroup, len(product.Groups))
	copy(groups, product.Groups)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].SortOrder < groups[j].SortOrder })

	unitPrice := product.SellingPrice
	labels := make([]string, 0, len(optionIDs))
	matched := 0

	for _, group := range groups {
		options := make([]entity.ClassificationOption, len(group.Options))
		copy(options, group.Options)
		sort.SliceStable(options, func(i, j int) bool { return options[i].SortOrder < options[j].SortOrder })

		count := 0
		for _, opt := range options {
			if !selected[opt.ID] {
				continue
			}
			count++
			unitPrice += opt.Surcharge
			labels = append(labels, group.Name+": "+opt.Name)
		}

		if group.Required && count == 0 {
			return nil, &ClassificationError{Group: group.Name, Err: ErrRequiredClassification}
		}
		if !group.MultiSelect && count > 1 {
			return nil, &ClassificationError{Group: group.Name, Err: ErrSingleSelect}
		}
		matched += count
	}

	if matched != len(selected) {
		return nil, &ClassificationError{Err: ErrUnknownOption}
	}

	return &Line{
		UnitPrice: unitPrice,
		Subtotal:  unitPrice * int64(qty),
		Labels:    labels,
	}, nil
}
