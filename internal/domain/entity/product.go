package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a sellable catalog item
type Product struct {
	ID           uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	Name         string                `gorm:"size:255;not null" json:"name"`
	SellingPrice int64                 `gorm:"not null;default:0" json:"selling_price"`
	Active       bool                  `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Groups       []ClassificationGroup `gorm:"foreignKey:ProductID" json:"groups,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ClassificationGroup is a variation axis of a product, e.g. "Size"
type ClassificationGroup struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	ProductID   uuid.UUID              `gorm:"type:uuid;not null;index" json:"product_id"`
	Name        string                 `gorm:"size:100;not null" json:"name"`
	Required    bool                   `gorm:"not null;default:false" json:"required"`
	MultiSelect bool                   `gorm:"not null;default:false" json:"multi_select"`
	SortOrder   int                    `gorm:"not null;default:0" json:"sort_order"`
	Options     []ClassificationOption `gorm:"foreignKey:GroupID" json:"options,omitempty"`
}

// BeforeCreate generates a UUID before creating a new group
func (g *ClassificationGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ClassificationGroup model
func (ClassificationGroup) TableName() string {
	return "classification_groups"
}

// ClassificationOption is one selectable value of a group with an optional surcharge
type ClassificationOption struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Surcharge int64     `gorm:"not null;default:0" json:"surcharge"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
}

// BeforeCreate generates a UUID before creating a new option
func (o *ClassificationOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ClassificationOption model
func (ClassificationOption) TableName() string {
	return "classification_options"
}
