package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/db/models"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/enums"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
)

// Calculator produces price quotes for grade-type variations. It is a
// deterministic function of its inputs; the logger only records warnings for
// malformed grade data so misconfigured products never crash a caller.
//
// The half and custom modes compose discounts differently on purpose: half
// grade takes the single larger discount (tier vs. half-grade percentage) so
// grade buyers are never double-discounted, while the custom mix adjustment
// always stacks on top of the tier price. Do not "fix" one to match the
// other.
type Calculator struct {
	logg *logger.Logger
}

// NewCalculator returns a Calculator. A nil logger disables warnings.
func NewCalculator(logg *logger.Logger) *Calculator {
	return &Calculator{logg: logg}
}

// QuoteInput bundles everything a quote needs. BasePrice is the effective
// per-pair price for the variation (product base plus the variation's price
// adjustment), resolved by the caller.
type QuoteInput struct {
	Variation *models.ProductVariation
	BasePrice decimal.Decimal
	Mode      enums.SaleMode
	Tiers     []models.PriceTier
	Selection *CustomSelection
}

// Quote dispatches on the sale mode. Unknown modes and non-grade variations
// fall back to the default quote.
func (c *Calculator) Quote(ctx context.Context, in QuoteInput) Quote {
	switch in.Mode {
	case enums.SaleModeFull:
		return c.fullGrade(ctx, in)
	case enums.SaleModeHalf:
		return c.halfGrade(ctx, in)
	case enums.SaleModeCustom:
		return c.customMix(ctx, in)
	default:
		c.warn(ctx, fmt.Sprintf("unknown sale mode %q, returning default quote", in.Mode))
		return defaultQuote(in.BasePrice)
	}
}

// fullGrade prices the grade's entire configured pair set.
func (c *Calculator) fullGrade(ctx context.Context, in QuoteInput) Quote {
	pairs, ok := gradeTotalPairs(in.Variation)
	if !ok {
		c.warn(ctx, "full grade quote requested without a valid grade configuration")
		return defaultQuote(in.BasePrice)
	}

	base := in.BasePrice
	unit := base
	reason := reasonNoDiscount
	var applied *AppliedTier

	if in.Variation.ApplyQuantityTiers {
		if tier := FindApplicableTier(tierQuantity(in.Variation, pairs), in.Tiers); tier != nil {
			unit = tier.Price
			applied = newAppliedTier(tier.Name, tier.MinQuantity, tier.Price)
			reason = tier.Name
		}
	}

	quote := buildQuote(base, unit, pairs, reason)
	quote.AppliedTier = applied
	if in.Variation.ApplyQuantityTiers {
		quote.NextTier = CalculateNextTierInfo(tierQuantity(in.Variation, pairs), unit, in.Tiers)
	}
	return quote
}

// halfGrade prices half of the grade's pair set. The half-grade percentage
// and a tier discount never stack: the lower resulting unit price wins.
func (c *Calculator) halfGrade(ctx context.Context, in QuoteInput) Quote {
	fullPairs, ok := gradeTotalPairs(in.Variation)
	if !ok {
		c.warn(ctx, "half grade quote requested without a valid grade configuration")
		return defaultQuote(in.BasePrice)
	}
	pairs := fullPairs / 2

	base := in.BasePrice
	factor := discountFactor(in.Variation.HalfGradeDiscountPercent)
	unit := base.Mul(factor)
	reason := reasonNoDiscount
	if factor.LessThan(decimal.NewFromInt(1)) {
		reason = "half grade discount"
	}
	var applied *AppliedTier

	if in.Variation.ApplyQuantityTiers {
		if tier := FindApplicableTier(tierQuantity(in.Variation, pairs), in.Tiers); tier != nil {
			tierUnit := tier.Price.Mul(factor)
			if tierUnit.LessThan(unit) {
				unit = tierUnit
				applied = newAppliedTier(tier.Name, tier.MinQuantity, tier.Price)
				reason = tier.Name
			}
		}
	}

	quote := buildQuote(base, unit, pairs, reason)
	quote.AppliedTier = applied
	if in.Variation.ApplyQuantityTiers {
		quote.NextTier = CalculateNextTierInfo(tierQuantity(in.Variation, pairs), unit, in.Tiers)
	}
	quote.SavingsVsFullGrade = c.savingsVsFullGrade(ctx, in, quote)
	return quote
}

// customMix prices a buyer-assembled pair selection. The mix adjustment
// always stacks on the tier price when tiers apply.
func (c *Calculator) customMix(ctx context.Context, in QuoteInput) Quote {
	if _, ok := gradeTotalPairs(in.Variation); !ok {
		c.warn(ctx, "custom mix quote requested without a valid grade configuration")
		return defaultQuote(in.BasePrice)
	}
	if in.Selection == nil {
		c.warn(ctx, "custom mix quote requested without a selection")
		return defaultQuote(in.BasePrice)
	}

	pairs := in.Selection.TotalPairs
	if pairs < 0 {
		pairs = 0
	}

	base := in.BasePrice
	adjustment := in.Variation.CustomMixAdjustment
	unit := base.Add(adjustment)
	reason := reasonNoDiscount
	if !adjustment.IsZero() {
		reason = fmt.Sprintf("custom mix adjustment %s", formatSigned(adjustment))
	}
	var applied *AppliedTier

	if in.Variation.ApplyQuantityTiers {
		if tier := FindApplicableTier(tierQuantity(in.Variation, pairs), in.Tiers); tier != nil {
			unit = tier.Price.Add(adjustment)
			applied = newAppliedTier(tier.Name, tier.MinQuantity, tier.Price)
			reason = tier.Name
		}
	}

	quote := buildQuote(base, unit, pairs, reason)
	quote.AppliedTier = applied
	if in.Variation.ApplyQuantityTiers {
		quote.NextTier = CalculateNextTierInfo(tierQuantity(in.Variation, pairs), unit, in.Tiers)
	}
	quote.SavingsVsFullGrade = c.savingsVsFullGrade(ctx, in, quote)
	return quote
}

// savingsVsFullGrade reruns the full-grade calculation on the same variation
// and compares what the quoted pairs would have cost at the full-grade unit
// price.
func (c *Calculator) savingsVsFullGrade(ctx context.Context, in QuoteInput, quote Quote) *Savings {
	full := c.fullGrade(ctx, QuoteInput{
		Variation: in.Variation,
		BasePrice: in.BasePrice,
		Mode:      enums.SaleModeFull,
		Tiers:     in.Tiers,
	})

	baseline := full.UnitPrice.Mul(decimal.NewFromInt(int64(quote.TotalPairs)))
	amount := baseline.Sub(quote.TotalPrice)
	return &Savings{
		Amount:     amount,
		Percentage: percentageOf(amount, baseline),
	}
}

func buildQuote(base, unit decimal.Decimal, pairs int, reason string) Quote {
	qty := decimal.NewFromInt(int64(pairs))
	baseTotal := base.Mul(qty)
	total := unit.Mul(qty)

	discount := baseTotal.Sub(total)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return Quote{
		BasePrice:  baseTotal,
		UnitPrice:  unit,
		TotalPrice: total,
		TotalPairs: pairs,
		Discount: Discount{
			Amount:     discount,
			Percentage: percentageOf(discount, baseTotal),
			Reason:     reason,
		},
	}
}

// defaultQuote is the safe fallback for missing or malformed grade data:
// zero pairs, base unit price, no discount.
func defaultQuote(base decimal.Decimal) Quote {
	return Quote{
		BasePrice:  decimal.Zero,
		UnitPrice:  base,
		TotalPrice: decimal.Zero,
		TotalPairs: 0,
		Discount: Discount{
			Amount:     decimal.Zero,
			Percentage: decimal.Zero,
			Reason:     reasonNoDiscount,
		},
	}
}

// gradeTotalPairs sums the per-size pair counts when the variation carries a
// coherent grade configuration.
func gradeTotalPairs(v *models.ProductVariation) (int, bool) {
	if v == nil || !v.IsGrade {
		return 0, false
	}
	if len(v.GradeSizes) == 0 || len(v.GradeSizes) != len(v.GradePairs) {
		return 0, false
	}
	total := 0
	for _, pairs := range v.GradePairs {
		if pairs < 0 {
			return 0, false
		}
		total += int(pairs)
	}
	return total, true
}

// tierQuantity maps a pair count onto the quantity axis tiers are matched
// against: pairs for per_pair mode, whole grades (one) for per_grade mode.
func tierQuantity(v *models.ProductVariation, pairs int) int {
	if v.TierCalculationMode == enums.TierCalculationPerGrade {
		return 1
	}
	return pairs
}

// discountFactor converts a 0-100 percentage into a multiplier, clamping
// out-of-range configuration instead of producing negative prices.
func discountFactor(percent decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}
	return decimal.NewFromInt(1).Sub(percent.Div(hundred))
}

func formatSigned(value decimal.Decimal) string {
	if value.IsNegative() {
		return value.StringFixed(2)
	}
	return "+" + value.StringFixed(2)
}

func (c *Calculator) warn(ctx context.Context, msg string) {
	if c == nil || c.logg == nil {
		return
	}
	c.logg.Warn(ctx, msg)
}
