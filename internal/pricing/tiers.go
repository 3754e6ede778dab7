package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
)

// NextTier describes the nearest quantity tier a buyer has not reached yet.
// PotentialSaving projects the total saving if the buyer bought the tier's
// minimum quantity at the tier's price; it is deliberately not the incremental
// saving on units already in the cart.
type NextTier struct {
	TierName        string          `json:"tier_name"`
	MinQuantity     int             `json:"min_quantity"`
	PairsNeeded     int             `json:"pairs_needed"`
	PotentialSaving decimal.Decimal `json:"potential_saving"`
}

// FindApplicableTier returns the active tier with the highest min_quantity at
// or below the requested quantity, or nil when the quantity is below every
// tier. Duplicate min_quantity rows should not exist; if they do the tier with
// the lower price wins so the configured discount intent is honored.
func FindApplicableTier(quantity int, tiers []models.PriceTier) *models.PriceTier {
	var selected *models.PriceTier
	for i := range tiers {
		tier := &tiers[i]
		if !tier.IsActive || tier.MinQuantity > quantity {
			continue
		}
		switch {
		case selected == nil:
			selected = tier
		case tier.MinQuantity > selected.MinQuantity:
			selected = tier
		case tier.MinQuantity == selected.MinQuantity && tier.Price.LessThan(selected.Price):
			selected = tier
		}
	}
	if selected == nil {
		return nil
	}
	copied := *selected
	return &copied
}

// CalculateNextTierInfo reports the nearest active tier above the current
// quantity, or nil when no tier is reachable.
func CalculateNextTierInfo(quantity int, unitPrice decimal.Decimal, tiers []models.PriceTier) *NextTier {
	var nearest *models.PriceTier
	for i := range tiers {
		tier := &tiers[i]
		if !tier.IsActive || tier.MinQuantity <= quantity {
			continue
		}
		switch {
		case nearest == nil:
			nearest = tier
		case tier.MinQuantity < nearest.MinQuantity:
			nearest = tier
		case tier.MinQuantity == nearest.MinQuantity && tier.Price.LessThan(nearest.Price):
			nearest = tier
		}
	}
	if nearest == nil {
		return nil
	}

	saving := unitPrice.Sub(nearest.Price).Mul(decimal.NewFromInt(int64(nearest.MinQuantity)))
	return &NextTier{
		TierName:        nearest.Name,
		MinQuantity:     nearest.MinQuantity,
		PairsNeeded:     nearest.MinQuantity - quantity,
		PotentialSaving: saving,
	}
}
