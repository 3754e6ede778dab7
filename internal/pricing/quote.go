package pricing

import (
	"github.com/shopspring/decimal"
)

const reasonNoDiscount = "no discount"

// Discount describes the reduction applied to a quote, with a human-readable
// reason the storefront can surface next to the price.
type Discount struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Reason     string          `json:"reason"`
}

// AppliedTier records the quantity tier that produced the final unit price.
type AppliedTier struct {
	Name        string          `json:"name"`
	MinQuantity int             `json:"min_quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Savings compares a quote against the full-grade baseline for the same
// number of pairs.
type Savings struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Quote is the full pricing result for one variation under one sale mode.
type Quote struct {
	BasePrice          decimal.Decimal `json:"base_price"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	TotalPairs         int             `json:"total_pairs"`
	Discount           Discount        `json:"discount"`
	AppliedTier        *AppliedTier    `json:"applied_tier,omitempty"`
	NextTier           *NextTier       `json:"next_tier,omitempty"`
	SavingsVsFullGrade *Savings        `json:"savings_vs_full_grade,omitempty"`
}

// CustomSelection carries the buyer-assembled pair count for custom mix
// pricing. It is built per request and never persisted.
type CustomSelection struct {
	TotalPairs int `json:"total_pairs"`
}

// percentageOf returns amount/total*100, or zero when the total is zero so a
// quote never carries a NaN-ish percentage.
func percentageOf(amount, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return amount.Div(total).Mul(decimal.NewFromInt(100))
}

func newAppliedTier(name string, minQuantity int, price decimal.Decimal) *AppliedTier {
	return &AppliedTier{Name: name, MinQuantity: minQuantity, Price: price}
}
