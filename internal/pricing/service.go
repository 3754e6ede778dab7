package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/enums"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
)

// ProductSource loads products.
type ProductSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// VariationSource loads persisted variation rows.
type VariationSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductVariation, error)
}

// TierSource loads a product's tier table.
type TierSource interface {
	ListTiers(ctx context.Context, productID uuid.UUID) ([]models.PriceTier, error)
}

// QuoteRequest is the sale-time pricing input.
type QuoteRequest struct {
	VariationID uuid.UUID
	Mode        enums.SaleMode
	// SelectionPairs is the buyer-assembled pair count, required for the
	// custom mode.
	SelectionPairs *int
}

// Service resolves a quote request against the persisted catalog and runs
// the calculator.
type Service interface {
	QuoteForProduct(ctx context.Context, productID uuid.UUID, req QuoteRequest) (*Quote, error)
}

type service struct {
	products   ProductSource
	variations VariationSource
	tiers      TierSource
	calc       *Calculator
}

// NewService builds the quote service.
func NewService(products ProductSource, variations VariationSource, tiers TierSource, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product source is required")
	}
	if variations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation source is required")
	}
	if tiers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier source is required")
	}
	return &service{
		products:   products,
		variations: variations,
		tiers:      tiers,
		calc:       NewCalculator(logg),
	}, nil
}

// QuoteForProduct prices one variation of the product under the requested
// sale mode. The effective per-pair base price is the product base plus the
// variation's price adjustment.
func (s *service) QuoteForProduct(ctx context.Context, productID uuid.UUID, req QuoteRequest) (*Quote, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if req.VariationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation id is required")
	}
	if !req.Mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sale mode").
			WithDetails(map[string]any{"mode": string(req.Mode)})
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	variation, err := s.variations.FindByID(ctx, req.VariationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variation")
	}
	if variation.ProductID != product.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "variation does not belong to product")
	}

	tiers, err := s.tiers.ListTiers(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price tiers")
	}

	var selection *CustomSelection
	if req.Mode == enums.SaleModeCustom {
		if req.SelectionPairs == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selection_pairs is required for custom mode")
		}
		selection = &CustomSelection{TotalPairs: *req.SelectionPairs}
	}

	quote := s.calc.Quote(ctx, QuoteInput{
		Variation: variation,
		BasePrice: product.BasePrice.Add(variation.PriceAdjustment),
		Mode:      req.Mode,
		Tiers:     tiers,
		Selection: selection,
	})
	return &quote, nil
}
