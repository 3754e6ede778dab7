package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
)

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID         uuid.UUID       `json:"id"`
	StoreID    uuid.UUID       `json:"store_id"`
	SKU        string          `json:"sku"`
	Title      string          `json:"title"`
	Subtitle   *string         `json:"subtitle,omitempty"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Colors     []string        `json:"colors"`
	Sizes      []string        `json:"sizes"`
	Materials  []string        `json:"materials"`
	IsActive   bool            `json:"is_active"`
	PriceTiers []PriceTierDTO  `json:"price_tiers,omitempty"`
	Variations []VariationDTO  `json:"variations,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PriceTierDTO represents one quantity-discount row.
type PriceTierDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	MinQuantity int             `json:"min_quantity"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// VariationDTO exposes a persisted variation row.
type VariationDTO struct {
	ID                       uuid.UUID       `json:"id"`
	Color                    *string         `json:"color,omitempty"`
	Size                     *string         `json:"size,omitempty"`
	Material                 *string         `json:"material,omitempty"`
	SKU                      string          `json:"sku"`
	Stock                    int             `json:"stock"`
	PriceAdjustment          decimal.Decimal `json:"price_adjustment"`
	IsActive                 bool            `json:"is_active"`
	IsGrade                  bool            `json:"is_grade"`
	GradeSizes               []string        `json:"grade_sizes,omitempty"`
	GradePairs               []int64         `json:"grade_pairs,omitempty"`
	ApplyQuantityTiers       bool            `json:"apply_quantity_tiers"`
	TierCalculationMode      string          `json:"tier_calculation_mode"`
	HalfGradeDiscountPercent decimal.Decimal `json:"half_grade_discount_percent"`
	CustomMixAdjustment      decimal.Decimal `json:"custom_mix_adjustment"`
}

// NewProductDTO builds a DTO from the persisted model and its preloaded
// associations.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:        product.ID,
		StoreID:   product.StoreID,
		SKU:       product.SKU,
		Title:     product.Title,
		Subtitle:  product.Subtitle,
		BasePrice: product.BasePrice,
		Colors:    append([]string{}, product.Colors...),
		Sizes:     append([]string{}, product.Sizes...),
		Materials: append([]string{}, product.Materials...),
		IsActive:  product.IsActive,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}

	if len(product.PriceTiers) > 0 {
		dto.PriceTiers = make([]PriceTierDTO, len(product.PriceTiers))
		for i, tier := range product.PriceTiers {
			dto.PriceTiers[i] = NewPriceTierDTO(tier)
		}
	}

	if len(product.Variations) > 0 {
		dto.Variations = make([]VariationDTO, len(product.Variations))
		for i, variation := range product.Variations {
			dto.Variations[i] = NewVariationDTO(variation)
		}
	}

	return dto
}

// NewPriceTierDTO maps one tier row.
func NewPriceTierDTO(tier models.PriceTier) PriceTierDTO {
	return PriceTierDTO{
		ID:          tier.ID,
		Name:        tier.Name,
		MinQuantity: tier.MinQuantity,
		Price:       tier.Price,
		IsActive:    tier.IsActive,
		CreatedAt:   tier.CreatedAt,
	}
}

// NewVariationDTO maps one variation row.
func NewVariationDTO(v models.ProductVariation) VariationDTO {
	return VariationDTO{
		ID:                       v.ID,
		Color:                    v.Color,
		Size:                     v.Size,
		Material:                 v.Material,
		SKU:                      v.SKU,
		Stock:                    v.Stock,
		PriceAdjustment:          v.PriceAdjustment,
		IsActive:                 v.IsActive,
		IsGrade:                  v.IsGrade,
		GradeSizes:               append([]string{}, v.GradeSizes...),
		GradePairs:               append([]int64{}, v.GradePairs...),
		ApplyQuantityTiers:       v.ApplyQuantityTiers,
		TierCalculationMode:      v.TierCalculationMode.String(),
		HalfGradeDiscountPercent: v.HalfGradeDiscountPercent,
		CustomMixAdjustment:      v.CustomMixAdjustment,
	}
}
