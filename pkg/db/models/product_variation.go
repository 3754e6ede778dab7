package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/enums"
)

// ProductVariation is one concrete sellable attribute tuple for a product.
// The (color, size, material) tuple is unique per product; an absent attribute
// counts as a distinct fixed value, not a wildcard.
//
// Grade-type variations additionally carry the grade configuration columns:
// the ordered size labels, the parallel per-size pair counts, and the pricing
// knobs consumed by the grade price calculator.
type ProductVariation struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Color           *string         `gorm:"column:color"`
	Size            *string         `gorm:"column:size"`
	Material        *string         `gorm:"column:material"`
	SKU             string          `gorm:"column:sku"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	PriceAdjustment decimal.Decimal `gorm:"column:price_adjustment;type:numeric(12,2);not null;default:0"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	IsGrade         bool            `gorm:"column:is_grade;not null;default:false"`

	GradeSizes pq.StringArray `gorm:"column:grade_sizes;type:text[]"`
	GradePairs pq.Int64Array  `gorm:"column:grade_pairs;type:bigint[]"`

	ApplyQuantityTiers       bool                      `gorm:"column:apply_quantity_tiers;not null;default:false"`
	TierCalculationMode      enums.TierCalculationMode `gorm:"column:tier_calculation_mode;default:per_pair"`
	HalfGradeDiscountPercent decimal.Decimal           `gorm:"column:half_grade_discount_percent;type:numeric(5,2);not null;default:0"`
	CustomMixAdjustment      decimal.Decimal           `gorm:"column:custom_mix_adjustment;type:numeric(12,2);not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
