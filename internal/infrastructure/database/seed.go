package database

import (
	"fmt"

	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/pkg/logger"
	"gorm.io/gorm"
)

// DemoCatalog is the catalog written by SeedCatalog
func DemoCatalog() []entity.Product {
	return []entity.Product{
		{
			Name:         "Cà phê sữa",
			SellingPrice: 29000,
			Active:       true,
			Groups: []entity.ClassificationGroup{
				{
					Name: "Size", Required: true, SortOrder: 1,
					Options: []entity.ClassificationOption{
						{Name: "S", SortOrder: 1},
						{Name: "M", Surcharge: 5000, SortOrder: 2},
						{Name: "L", Surcharge: 10000, SortOrder: 3},
					},
				},
				{
					Name: "Topping", MultiSelect: true, SortOrder: 2,
					Options: []entity.ClassificationOption{
						{Name: "Trân châu", Surcharge: 5000, SortOrder: 1},
						{Name: "Thạch", Surcharge: 5000, SortOrder: 2},
					},
				},
			},
		},
		{
			Name:         "Trà đào",
			SellingPrice: 35000,
			Active:       true,
			Groups: []entity.ClassificationGroup{
				{
					Name: "Đường", Required: true, SortOrder: 1,
					Options: []entity.ClassificationOption{
						{Name: "100%", SortOrder: 1},
						{Name: "70%", SortOrder: 2},
						{Name: "50%", SortOrder: 3},
					},
				},
			},
		},
		{
			Name:         "Bánh mì",
			SellingPrice: 25000,
			Active:       true,
		},
	}
}

// SeedCatalog writes the demo catalog when the products table is empty
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Log.WithField("products", count).Info("Catalog already present, skipping seed")
		return nil
	}

	products := DemoCatalog()
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Log.WithField("products", len(products)).Info("Demo catalog seeded")
	return nil
}
