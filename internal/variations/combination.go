package variations

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tuple identifies one concrete attribute selection. A nil attribute means
// the product does not vary on that axis; it is a fixed value of its own for
// uniqueness purposes, never a wildcard.
type Tuple struct {
	Color    *string `json:"color,omitempty"`
	Size     *string `json:"size,omitempty"`
	Material *string `json:"material,omitempty"`
}

// key canonicalizes the tuple for uniqueness checks. Absent attributes get a
// sentinel no attribute value can collide with.
func (t Tuple) key() string {
	return strings.Join([]string{keyPart(t.Color), keyPart(t.Size), keyPart(t.Material)}, "\x1f")
}

func keyPart(v *string) string {
	if v == nil {
		return "\x00"
	}
	return "v:" + *v
}

// NormalizeTuple builds a Tuple from raw form values, treating the empty
// string as an absent attribute.
func NormalizeTuple(color, size, material string) Tuple {
	t := Tuple{}
	if color != "" {
		t.Color = &color
	}
	if size != "" {
		t.Size = &size
	}
	if material != "" {
		t.Material = &material
	}
	return t
}

// Equal reports whether two tuples select the same attribute values.
func (t Tuple) Equal(other Tuple) bool {
	return t.key() == other.key()
}

// Combination is one sellable variant in a product's draft set.
type Combination struct {
	ID uuid.UUID `json:"id"`
	Tuple
	SKU             string          `json:"sku"`
	Stock           int             `json:"stock"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	IsActive        bool            `json:"is_active"`
	IsGrade         bool            `json:"is_grade"`
}

// Patch carries partial field updates; nil fields are left untouched.
type Patch struct {
	SKU             *string          `json:"sku,omitempty"`
	Stock           *int             `json:"stock,omitempty"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
	IsGrade         *bool            `json:"is_grade,omitempty"`
}

func (p *Patch) applyTo(c *Combination) {
	if p == nil {
		return
	}
	if p.SKU != nil {
		c.SKU = *p.SKU
	}
	if p.Stock != nil {
		stock := *p.Stock
		if stock < 0 {
			stock = 0
		}
		c.Stock = stock
	}
	if p.PriceAdjustment != nil {
		c.PriceAdjustment = *p.PriceAdjustment
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	if p.IsGrade != nil {
		c.IsGrade = *p.IsGrade
	}
}
