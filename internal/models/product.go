package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a bike part in the catalog. Price is fixed-point;
// Stock must never go negative (enforced on the reservation path).
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Brand       string          `json:"brand" validate:"omitempty,max=100"`
	ModelName   string          `json:"model" validate:"omitempty,max=100"`
	CategoryID  *string         `json:"category_id" gorm:"type:varchar(36)" validate:"omitempty,uuid"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	gorm.Model  `json:"-"`
}
