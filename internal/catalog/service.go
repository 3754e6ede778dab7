package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
)

// Service exposes store-scoped product and price tier management.
type Service interface {
	CreateProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	ReplaceTiers(ctx context.Context, storeID, productID uuid.UUID, tiers []TierInput) ([]PriceTierDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU       string
	Title     string
	Subtitle  *string
	BasePrice decimal.Decimal
	Colors    []string
	Sizes     []string
	Materials []string
	IsActive  bool
	Tiers     []TierInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU       *string
	Title     *string
	Subtitle  *string
	BasePrice *decimal.Decimal
	Colors    *[]string
	Sizes     *[]string
	Materials *[]string
	IsActive  *bool
	Tiers     *[]TierInput
}

// TierInput defines one quantity tier row.
type TierInput struct {
	Name        string
	MinQuantity int
	Price       decimal.Decimal
	IsActive    bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateProduct creates the product with its initial tier table.
func (s *service) CreateProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price must be non-negative")
	}
	if err := validateTiers(input.Tiers); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			StoreID:   storeID,
			SKU:       strings.TrimSpace(input.SKU),
			Title:     strings.TrimSpace(input.Title),
			Subtitle:  input.Subtitle,
			BasePrice: input.BasePrice,
			Colors:    normalizeAttributeValues(input.Colors),
			Sizes:     normalizeAttributeValues(input.Sizes),
			Materials: normalizeAttributeValues(input.Materials),
			IsActive:  input.IsActive,
		}
		created, err := txRepo.Create(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if len(input.Tiers) > 0 {
			rows := tierRows(storeID, created.ID, input.Tiers)
			if err := txRepo.ReplaceTiers(ctx, created.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price tiers")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.loadDetail(ctx, createdID)
}

// UpdateProduct applies partial updates and optionally replaces the tier
// table in the same transaction.
func (s *service) UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.BasePrice != nil && input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price must be non-negative")
	}
	if input.Tiers != nil {
		if err := validateTiers(*input.Tiers); err != nil {
			return nil, err
		}
	}

	product, err := s.ownedProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applyUpdateToProduct(product, input)
		if _, err := txRepo.Update(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Tiers != nil {
			rows := tierRows(storeID, product.ID, *input.Tiers)
			if err := txRepo.ReplaceTiers(ctx, product.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace price tiers")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.loadDetail(ctx, product.ID)
}

// DeleteProduct removes a product; variations and tiers go with it.
func (s *service) DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetProduct loads the product detail with tiers and variations.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	return s.loadDetail(ctx, productID)
}

// ListProducts returns one cursor page of the store's catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	result, err := s.repo.ListByStore(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// ReplaceTiers swaps the product's whole tier table.
func (s *service) ReplaceTiers(ctx context.Context, storeID, productID uuid.UUID, tiers []TierInput) ([]PriceTierDTO, error) {
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}
	if _, err := s.ownedProduct(ctx, storeID, productID); err != nil {
		return nil, err
	}

	rows := tierRows(storeID, productID, tiers)
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceTiers(ctx, productID, rows)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace price tiers")
	}

	saved, err := s.repo.ListTiers(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price tiers")
	}
	out := make([]PriceTierDTO, len(saved))
	for i, tier := range saved {
		out[i] = NewPriceTierDTO(tier)
	}
	return out, nil
}

func (s *service) loadDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

func (s *service) ownedProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
	}
	return product, nil
}

// validateTiers enforces the tier table invariants: positive minimum
// quantities, non-negative prices, and no duplicate minimums.
func validateTiers(tiers []TierInput) error {
	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if strings.TrimSpace(tier.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier name is required")
		}
		if tier.MinQuantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier min_quantity must be positive")
		}
		if tier.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier price must be non-negative")
		}
		if _, ok := seen[tier.MinQuantity]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier min_quantity")
		}
		seen[tier.MinQuantity] = struct{}{}
	}
	return nil
}

func tierRows(storeID, productID uuid.UUID, tiers []TierInput) []models.PriceTier {
	rows := make([]models.PriceTier, len(tiers))
	for i, tier := range tiers {
		rows[i] = models.PriceTier{
			StoreID:     storeID,
			ProductID:   productID,
			Name:        strings.TrimSpace(tier.Name),
			MinQuantity: tier.MinQuantity,
			Price:       tier.Price,
			IsActive:    tier.IsActive,
		}
	}
	return rows
}

// normalizeAttributeValues trims, drops empties, and dedupes while keeping
// the configured order.
func normalizeAttributeValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		v := strings.TrimSpace(value)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Subtitle != nil {
		product.Subtitle = input.Subtitle
	}
	if input.BasePrice != nil {
		product.BasePrice = *input.BasePrice
	}
	if input.Colors != nil {
		product.Colors = normalizeAttributeValues(*input.Colors)
	}
	if input.Sizes != nil {
		product.Sizes = normalizeAttributeValues(*input.Sizes)
	}
	if input.Materials != nil {
		product.Materials = normalizeAttributeValues(*input.Materials)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
