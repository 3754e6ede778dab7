package variations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
)

// Store is the persistence surface the service mutates at commit time.
type Store interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductVariation, error)
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, rows []models.ProductVariation) error
	WithTx(tx *gorm.DB) Store
}

// Repository persists committed combination sets, one row per combination
// keyed by id and scoped to its product.
type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) Store {
	return &Repository{db: tx}
}

// ListByProduct loads the persisted variations for a product.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductVariation, error) {
	var rows []models.ProductVariation
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single variation row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductVariation, error) {
	var row models.ProductVariation
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ReplaceForProduct swaps the product's variation rows for the committed set.
func (r *Repository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, rows []models.ProductVariation) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariation{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// combinationFromModel projects a persisted row into a draft combination.
// Grade configuration columns stay on the row; the draft only tracks the
// grade flag.
func combinationFromModel(row models.ProductVariation) Combination {
	return Combination{
		ID: row.ID,
		Tuple: Tuple{
			Color:    row.Color,
			Size:     row.Size,
			Material: row.Material,
		},
		SKU:             row.SKU,
		Stock:           row.Stock,
		PriceAdjustment: row.PriceAdjustment,
		IsActive:        row.IsActive,
		IsGrade:         row.IsGrade,
	}
}

// modelFromCombination builds the row for a draft combination. When the
// combination survived from a persisted row, that row's grade configuration
// is carried over so a commit never strips it.
func modelFromCombination(productID uuid.UUID, combo Combination, existing *models.ProductVariation) models.ProductVariation {
	row := models.ProductVariation{
		ID:              combo.ID,
		ProductID:       productID,
		Color:           combo.Color,
		Size:            combo.Size,
		Material:        combo.Material,
		SKU:             combo.SKU,
		Stock:           combo.Stock,
		PriceAdjustment: combo.PriceAdjustment,
		IsActive:        combo.IsActive,
		IsGrade:         combo.IsGrade,
	}
	if existing != nil {
		row.GradeSizes = existing.GradeSizes
		row.GradePairs = existing.GradePairs
		row.ApplyQuantityTiers = existing.ApplyQuantityTiers
		row.TierCalculationMode = existing.TierCalculationMode
		row.HalfGradeDiscountPercent = existing.HalfGradeDiscountPercent
		row.CustomMixAdjustment = existing.CustomMixAdjustment
		row.CreatedAt = existing.CreatedAt
	}
	return row
}
