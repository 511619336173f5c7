package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milkTea() (*entity.Product, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"M":       uuid.New(),
		"L":       uuid.New(),
		"pearl":   uuid.New(),
		"pudding": uuid.New(),
	}
	product := &entity.Product{
		ID:           uuid.New(),
		Name:         "Tra sua",
		SellingPrice: 30000,
		Active:       true,
		Groups: []entity.ClassificationGroup{
			{
				Name:        "Topping",
				MultiSelect: true,
				SortOrder:   2,
				Options: []entity.ClassificationOption{
					{ID: ids["pudding"], Name: "Pudding", Surcharge: 7000, SortOrder: 2},
					{ID: ids["pearl"], Name: "Tran chau", Surcharge: 5000, SortOrder: 1},
				},
			},
			{
				Name:      "Size",
				Required:  true,
				SortOrder: 1,
				Options: []entity.ClassificationOption{
					{ID: ids["M"], Name: "M", SortOrder: 1},
					{ID: ids["L"], Name: "L", Surcharge: 10000, SortOrder: 2},
				},
			},
		},
	}
	return product, ids
}

func TestPriceLine(t *testing.T) {
	product, ids := milkTea()

	line, err := PriceLine(product, []uuid.UUID{ids["pudding"], ids["L"], ids["pearl"]}, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(52000), line.UnitPrice)
	assert.Equal(t, int64(104000), line.Subtotal)
	assert.Equal(t, []string{"Size: L", "Topping: Tran chau", "Topping: Pudding"}, line.Labels)
}

func TestPriceLineRejectsInvalidSelections(t *testing.T) {
	product, ids := milkTea()

	tests := []struct {
		name    string
		options []uuid.UUID
		qty     int
		wantErr error
	}{
		{name: "missing required group", options: []uuid.UUID{ids["pearl"]}, qty: 1, wantErr: ErrRequiredClassification},
		{name: "two options in single-select group", options: []uuid.UUID{ids["M"], ids["L"]}, qty: 1, wantErr: ErrSingleSelect},
		{name: "option from another product", options: []uuid.UUID{ids["M"], uuid.New()}, qty: 1, wantErr: ErrUnknownOption},
		{name: "zero quantity", options: []uuid.UUID{ids["M"]}, qty: 0, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := PriceLine(product, tt.options, tt.qty)
			assert.Nil(t, line)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPriceLineInactiveProduct(t *testing.T) {
	product, ids := milkTea()
	product.Active = false

	_, err := PriceLine(product, []uuid.UUID{ids["M"]}, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestPriceLineRequiredGroupNamedInError(t *testing.T) {
	product, _ := milkTea()

	_, err := PriceLine(product, nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Size")
}
