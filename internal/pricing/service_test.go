package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/enums"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
)

type stubProductSource struct {
	data map[uuid.UUID]*models.Product
}

func (s *stubProductSource) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.data[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubVariationSource struct {
	data map[uuid.UUID]*models.ProductVariation
}

func (s *stubVariationSource) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductVariation, error) {
	if v, ok := s.data[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTierSource struct {
	tiers []models.PriceTier
}

func (s *stubTierSource) ListTiers(ctx context.Context, productID uuid.UUID) ([]models.PriceTier, error) {
	return s.tiers, nil
}

func TestQuoteService(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	variationID := uuid.New()

	product := &models.Product{ID: productID, BasePrice: decimal.NewFromInt(9)}
	variation := &models.ProductVariation{
		ID:                  variationID,
		ProductID:           productID,
		PriceAdjustment:     decimal.NewFromInt(1),
		IsGrade:             true,
		GradeSizes:          pq.StringArray{"38", "39", "40"},
		GradePairs:          pq.Int64Array{4, 4, 4},
		TierCalculationMode: enums.TierCalculationPerPair,
	}

	svc, err := NewService(
		&stubProductSource{data: map[uuid.UUID]*models.Product{productID: product}},
		&stubVariationSource{data: map[uuid.UUID]*models.ProductVariation{variationID: variation}},
		&stubTierSource{tiers: testTierTable()},
		nil,
	)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	t.Run("fullGradeUsesEffectiveBase", func(t *testing.T) {
		quote, err := svc.QuoteForProduct(ctx, productID, QuoteRequest{
			VariationID: variationID,
			Mode:        enums.SaleModeFull,
		})
		if err != nil {
			t.Fatalf("quote failed: %v", err)
		}
		// Product base 9 plus variation adjustment 1.
		decEq(t, "10", quote.UnitPrice, "unit price")
		if quote.TotalPairs != 12 {
			t.Fatalf("expected 12 pairs, got %d", quote.TotalPairs)
		}
	})

	t.Run("customRequiresSelection", func(t *testing.T) {
		_, err := svc.QuoteForProduct(ctx, productID, QuoteRequest{
			VariationID: variationID,
			Mode:        enums.SaleModeCustom,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("customWithSelection", func(t *testing.T) {
		pairs := 5
		quote, err := svc.QuoteForProduct(ctx, productID, QuoteRequest{
			VariationID:    variationID,
			Mode:           enums.SaleModeCustom,
			SelectionPairs: &pairs,
		})
		if err != nil {
			t.Fatalf("quote failed: %v", err)
		}
		if quote.TotalPairs != 5 {
			t.Fatalf("expected 5 pairs, got %d", quote.TotalPairs)
		}
		if quote.SavingsVsFullGrade == nil {
			t.Fatal("expected savings comparison")
		}
	})

	t.Run("invalidMode", func(t *testing.T) {
		_, err := svc.QuoteForProduct(ctx, productID, QuoteRequest{
			VariationID: variationID,
			Mode:        enums.SaleMode("bundle"),
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknownVariation", func(t *testing.T) {
		_, err := svc.QuoteForProduct(ctx, productID, QuoteRequest{
			VariationID: uuid.New(),
			Mode:        enums.SaleModeFull,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not-found error, got %v", err)
		}
	})

	t.Run("foreignVariation", func(t *testing.T) {
		otherID := uuid.New()
		foreign := &models.ProductVariation{ID: otherID, ProductID: uuid.New()}
		svc, err := NewService(
			&stubProductSource{data: map[uuid.UUID]*models.Product{productID: product}},
			&stubVariationSource{data: map[uuid.UUID]*models.ProductVariation{otherID: foreign}},
			&stubTierSource{},
			nil,
		)
		if err != nil {
			t.Fatalf("NewService failed: %v", err)
		}
		_, err = svc.QuoteForProduct(ctx, productID, QuoteRequest{VariationID: otherID, Mode: enums.SaleModeFull})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden error, got %v", err)
		}
	})
}
