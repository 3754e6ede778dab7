package variations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
)

// Signal is the typed outcome of a combinator mutation. Duplicate and
// not-found are ordinary non-throwing outcomes the API layer turns into a
// user-facing notification instead of an error response.
type Signal string

const (
	SignalCreated   Signal = "created"
	SignalRemoved   Signal = "removed"
	SignalUpdated   Signal = "updated"
	SignalEnabled   Signal = "enabled"
	SignalDisabled  Signal = "disabled"
	SignalApplied   Signal = "applied"
	SignalDuplicate Signal = "duplicate_combination"
	SignalNotFound  Signal = "combination_not_found"
)

// OK reports whether the signal represents a successful mutation.
func (s Signal) OK() bool {
	return s != SignalDuplicate && s != SignalNotFound
}

// SessionRef addresses one editing session.
type SessionRef struct {
	ProductID uuid.UUID
	SessionID string
}

// MutationResult carries the outcome plus the post-mutation working set so
// the form can re-render without a second round trip.
type MutationResult struct {
	Signal  Signal        `json:"signal"`
	Version int64         `json:"version"`
	Items   []Combination `json:"items"`
}

// GenerateResult reports a Cartesian generation run.
type GenerateResult struct {
	Created int           `json:"created"`
	Version int64         `json:"version"`
	Items   []Combination `json:"items"`
}

// BulkAction selects which bulk edit to apply.
type BulkAction string

const (
	BulkActionStock           BulkAction = "stock"
	BulkActionPriceAdjustment BulkAction = "price_adjustment"
	BulkActionActive          BulkAction = "active"
	BulkActionClear           BulkAction = "clear"
)

// BulkInput is the payload for a bulk edit. Only the fields matching the
// action are consulted.
type BulkInput struct {
	Action          BulkAction       `json:"action"`
	Stock           *int             `json:"stock,omitempty"`
	OnlyEmpty       bool             `json:"only_empty,omitempty"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

// ProductFinder is the slice of the catalog repository the service needs.
type ProductFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// TxRunner runs a function inside a database transaction. Satisfied by
// db.Client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

var _ TxRunner = (*db.Client)(nil)

// ServiceParams groups dependencies for the variation service.
type ServiceParams struct {
	Products ProductFinder
	Repo     Store
	Drafts   *DraftStore
	DB       TxRunner
	Logger   *logger.Logger
}

// Service drives variation editing sessions: open a draft from the persisted
// set, mutate it through the combinator, and commit it back in one
// transaction.
type Service interface {
	OpenSession(ctx context.Context, productID uuid.UUID) (*DraftState, error)
	Create(ctx context.Context, ref SessionRef, tuple Tuple, overrides *Patch) (*MutationResult, error)
	Remove(ctx context.Context, ref SessionRef, tuple Tuple) (*MutationResult, error)
	Toggle(ctx context.Context, ref SessionRef, tuple Tuple) (*MutationResult, error)
	Update(ctx context.Context, ref SessionRef, id uuid.UUID, patch Patch) (*MutationResult, error)
	GenerateAll(ctx context.Context, ref SessionRef, colors, sizes, materials []string) (*GenerateResult, error)
	ApplyBulk(ctx context.Context, ref SessionRef, input BulkInput) (*MutationResult, error)
	Statistics(ctx context.Context, ref SessionRef) (Statistics, error)
	Commit(ctx context.Context, ref SessionRef) (int, error)
	Discard(ctx context.Context, ref SessionRef) error
}

type service struct {
	products ProductFinder
	repo     Store
	drafts   *DraftStore
	dbc      TxRunner
	logg     *logger.Logger
}

// NewService builds a variation service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product finder is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation repo is required")
	}
	if params.Drafts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft store is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	return &service{
		products: params.Products,
		repo:     params.Repo,
		drafts:   params.Drafts,
		dbc:      params.DB,
		logg:     params.Logger,
	}, nil
}

// OpenSession seeds a fresh draft from the persisted variation set.
func (s *service) OpenSession(ctx context.Context, productID uuid.UUID) (*DraftState, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load persisted variations")
	}
	items := make([]Combination, 0, len(rows))
	for _, row := range rows {
		items = append(items, combinationFromModel(row))
	}
	state := DraftState{
		SessionID: uuid.New().String(),
		ProductID: productID,
		Version:   0,
		Items:     items,
	}
	if err := s.drafts.Save(ctx, state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Create adds one combination to the draft. A duplicate tuple is a signal,
// not an error.
func (s *service) Create(ctx context.Context, ref SessionRef, tuple Tuple, overrides *Patch) (*MutationResult, error) {
	return s.mutate(ctx, ref, func(set *Set) Signal {
		if !set.Create(tuple, overrides) {
			return SignalDuplicate
		}
		return SignalCreated
	})
}

// Remove deletes one combination from the draft.
func (s *service) Remove(ctx context.Context, ref SessionRef, tuple Tuple) (*MutationResult, error) {
	return s.mutate(ctx, ref, func(set *Set) Signal {
		if !set.Remove(tuple) {
			return SignalNotFound
		}
		return SignalRemoved
	})
}

// Toggle flips the tuple's presence.
func (s *service) Toggle(ctx context.Context, ref SessionRef, tuple Tuple) (*MutationResult, error) {
	return s.mutate(ctx, ref, func(set *Set) Signal {
		if set.Toggle(tuple) {
			return SignalEnabled
		}
		return SignalDisabled
	})
}

// Update merges partial fields into the combination with the given id.
func (s *service) Update(ctx context.Context, ref SessionRef, id uuid.UUID, patch Patch) (*MutationResult, error) {
	return s.mutate(ctx, ref, func(set *Set) Signal {
		if !set.Update(id, patch) {
			return SignalNotFound
		}
		return SignalUpdated
	})
}

// GenerateAll runs the Cartesian expansion. Empty attribute lists fall back
// to the product's configured value sets.
func (s *service) GenerateAll(ctx context.Context, ref SessionRef, colors, sizes, materials []string) (*GenerateResult, error) {
	if len(colors) == 0 && len(sizes) == 0 && len(materials) == 0 {
		product, err := s.products.FindByID(ctx, ref.ProductID)
		if err != nil {
			return nil, s.productErr(err)
		}
		colors, sizes, materials = product.Colors, product.Sizes, product.Materials
	}

	state, set, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	created := set.CreateAll(colors, sizes, materials)
	if err := s.save(ctx, state, set); err != nil {
		return nil, err
	}
	return &GenerateResult{Created: created, Version: set.Version(), Items: set.Snapshot()}, nil
}

// ApplyBulk applies one bulk edit across the whole draft set.
func (s *service) ApplyBulk(ctx context.Context, ref SessionRef, input BulkInput) (*MutationResult, error) {
	switch input.Action {
	case BulkActionStock:
		if input.Stock == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock is required for the stock action")
		}
	case BulkActionPriceAdjustment:
		if input.PriceAdjustment == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_adjustment is required for the price_adjustment action")
		}
	case BulkActionActive:
		if input.Active == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "active is required for the active action")
		}
	case BulkActionClear:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown bulk action").
			WithDetails(map[string]any{"action": string(input.Action)})
	}

	return s.mutate(ctx, ref, func(set *Set) Signal {
		switch input.Action {
		case BulkActionStock:
			set.ApplyBulkStock(*input.Stock, input.OnlyEmpty)
		case BulkActionPriceAdjustment:
			set.ApplyBulkPriceAdjustment(*input.PriceAdjustment)
		case BulkActionActive:
			set.ToggleAll(*input.Active)
		case BulkActionClear:
			set.Clear()
		}
		return SignalApplied
	})
}

// Statistics summarizes the draft set.
func (s *service) Statistics(ctx context.Context, ref SessionRef) (Statistics, error) {
	_, set, err := s.load(ctx, ref)
	if err != nil {
		return Statistics{}, err
	}
	return set.Statistics(), nil
}

// Commit replaces the persisted variation rows with the draft set in one
// transaction and discards the session. Grade configuration on rows that
// survived the edit is carried over untouched.
func (s *service) Commit(ctx context.Context, ref SessionRef) (int, error) {
	state, set, err := s.load(ctx, ref)
	if err != nil {
		return 0, err
	}
	existing, err := s.repo.ListByProduct(ctx, ref.ProductID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load persisted variations")
	}
	byID := make(map[uuid.UUID]*models.ProductVariation, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	items := set.Snapshot()
	rows := make([]models.ProductVariation, 0, len(items))
	for _, combo := range items {
		rows = append(rows, modelFromCombination(ref.ProductID, combo, byID[combo.ID]))
	}

	err = s.dbc.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceForProduct(ctx, ref.ProductID, rows)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_product_variations_tuple") {
			return 0, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "variation set conflicts with a concurrent commit")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit variation set")
	}

	if err := s.drafts.Delete(ctx, ref.ProductID, state.SessionID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "discard committed draft session: "+err.Error())
	}
	return len(rows), nil
}

// Discard drops the session without touching the persisted set.
func (s *service) Discard(ctx context.Context, ref SessionRef) error {
	return s.drafts.Delete(ctx, ref.ProductID, ref.SessionID)
}

func (s *service) mutate(ctx context.Context, ref SessionRef, fn func(*Set) Signal) (*MutationResult, error) {
	state, set, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	signal := fn(set)
	if signal.OK() {
		if err := s.save(ctx, state, set); err != nil {
			return nil, err
		}
	}
	return &MutationResult{Signal: signal, Version: set.Version(), Items: set.Snapshot()}, nil
}

func (s *service) load(ctx context.Context, ref SessionRef) (*DraftState, *Set, error) {
	if ref.ProductID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if ref.SessionID == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	state, err := s.drafts.Load(ctx, ref.ProductID, ref.SessionID)
	if err != nil {
		return nil, nil, err
	}
	return state, Restore(state.Version, state.Items), nil
}

func (s *service) save(ctx context.Context, state *DraftState, set *Set) error {
	state.Version = set.Version()
	state.Items = set.Snapshot()
	return s.drafts.Save(ctx, *state)
}

func (s *service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return s.productErr(err)
	}
	return nil
}

func (s *service) productErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}
