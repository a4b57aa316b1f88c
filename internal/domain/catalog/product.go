package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SKU         string    `gorm:"uniqueIndex;not null;column:sku" json:"sku"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Active      bool      `gorm:"not null;default:true;column:active" json:"active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	SKU       string    `gorm:"uniqueIndex;not null;column:sku" json:"sku"`
	Name      string    `gorm:"not null;column:name" json:"name"`

	// Option values such as {"size":"M","color":"black"}.
	Options datatypes.JSON `gorm:"column:options" json:"options"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ProductVariant) TableName() string { return "product_variant" }

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
