package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
)

func testTierTable() []models.PriceTier {
	return []models.PriceTier{
		{Name: "retail", MinQuantity: 1, Price: decimal.NewFromInt(10), IsActive: true},
		{Name: "wholesale", MinQuantity: 10, Price: decimal.NewFromInt(8), IsActive: true},
		{Name: "distributor", MinQuantity: 50, Price: decimal.NewFromInt(6), IsActive: true},
	}
}

func TestFindApplicableTier(t *testing.T) {
	tiers := []models.PriceTier{
		{Name: "wholesale", MinQuantity: 10, Price: decimal.NewFromInt(8), IsActive: true},
		{Name: "distributor", MinQuantity: 50, Price: decimal.NewFromInt(6), IsActive: true},
	}

	t.Run("belowEveryTier", func(t *testing.T) {
		if tier := FindApplicableTier(5, tiers); tier != nil {
			t.Fatalf("expected no tier below every minimum, got %s", tier.Name)
		}
	})

	t.Run("exactMinimum", func(t *testing.T) {
		tier := FindApplicableTier(10, tiers)
		if tier == nil || tier.Name != "wholesale" {
			t.Fatalf("expected wholesale tier at qty 10, got %+v", tier)
		}
	})

	t.Run("withinTierRange", func(t *testing.T) {
		tier := FindApplicableTier(49, tiers)
		if tier == nil || tier.Name != "wholesale" {
			t.Fatalf("expected wholesale tier at qty 49, got %+v", tier)
		}
	})

	t.Run("reachesHigherTier", func(t *testing.T) {
		tier := FindApplicableTier(50, tiers)
		if tier == nil || tier.Name != "distributor" {
			t.Fatalf("expected distributor tier at qty 50, got %+v", tier)
		}
	})

	t.Run("inactiveTierIgnored", func(t *testing.T) {
		inactive := []models.PriceTier{
			{Name: "off", MinQuantity: 10, Price: decimal.NewFromInt(1), IsActive: false},
			{Name: "wholesale", MinQuantity: 10, Price: decimal.NewFromInt(8), IsActive: true},
		}
		tier := FindApplicableTier(12, inactive)
		if tier == nil || tier.Name != "wholesale" {
			t.Fatalf("expected inactive tier to be skipped, got %+v", tier)
		}
	})

	t.Run("duplicateMinimumLowerPriceWins", func(t *testing.T) {
		dupes := []models.PriceTier{
			{Name: "a", MinQuantity: 10, Price: decimal.NewFromInt(9), IsActive: true},
			{Name: "b", MinQuantity: 10, Price: decimal.NewFromInt(7), IsActive: true},
		}
		tier := FindApplicableTier(10, dupes)
		if tier == nil || tier.Name != "b" {
			t.Fatalf("expected lower-priced duplicate to win, got %+v", tier)
		}

		// Order must not change the outcome.
		tier = FindApplicableTier(10, []models.PriceTier{dupes[1], dupes[0]})
		if tier == nil || tier.Name != "b" {
			t.Fatalf("expected deterministic duplicate tie-break, got %+v", tier)
		}
	})

	t.Run("returnsCopy", func(t *testing.T) {
		tier := FindApplicableTier(10, tiers)
		tier.Name = "mutated"
		if tiers[0].Name != "wholesale" {
			t.Fatal("FindApplicableTier must not alias the input slice")
		}
	})
}

func TestCalculateNextTierInfo(t *testing.T) {
	tiers := testTierTable()

	t.Run("nearestReachableTier", func(t *testing.T) {
		next := CalculateNextTierInfo(10, decimal.NewFromInt(8), tiers)
		if next == nil {
			t.Fatal("expected a next tier at qty 10")
		}
		if next.TierName != "distributor" {
			t.Fatalf("expected distributor, got %s", next.TierName)
		}
		if next.PairsNeeded != 40 {
			t.Fatalf("expected 40 pairs needed, got %d", next.PairsNeeded)
		}
		// (8 - 6) * 50: projected over the tier's minimum, not the current cart.
		if !next.PotentialSaving.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("expected potential saving 100, got %s", next.PotentialSaving)
		}
	})

	t.Run("noTierAboveQuantity", func(t *testing.T) {
		if next := CalculateNextTierInfo(80, decimal.NewFromInt(6), tiers); next != nil {
			t.Fatalf("expected no next tier above the top tier, got %+v", next)
		}
	})

	t.Run("inactiveTiersIgnored", func(t *testing.T) {
		withInactive := append([]models.PriceTier{
			{Name: "hidden", MinQuantity: 20, Price: decimal.NewFromInt(1), IsActive: false},
		}, tiers...)
		next := CalculateNextTierInfo(10, decimal.NewFromInt(8), withInactive)
		if next == nil || next.TierName != "distributor" {
			t.Fatalf("expected inactive tier to be skipped, got %+v", next)
		}
	})
}
