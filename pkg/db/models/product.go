package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the canonical storefront listing. The attribute value sets
// (colors, sizes, materials) are the raw lists the variation combinator
// expands into sellable combinations.
type Product struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID       `gorm:"column:store_id;type:uuid;not null"`
	SKU        string          `gorm:"column:sku;not null"`
	Title      string          `gorm:"column:title;not null"`
	Subtitle   *string         `gorm:"column:subtitle"`
	BasePrice  decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	Colors     pq.StringArray  `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes      pq.StringArray  `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Materials  pq.StringArray  `gorm:"column:materials;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	Variations []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	PriceTiers []PriceTier        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
