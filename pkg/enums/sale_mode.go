package enums

import "fmt"

// SaleMode selects how a grade-type variation is priced at sale time.
type SaleMode string

const (
	SaleModeFull   SaleMode = "full"
	SaleModeHalf   SaleMode = "half"
	SaleModeCustom SaleMode = "custom"
)

var validSaleModes = []SaleMode{
	SaleModeFull,
	SaleModeHalf,
	SaleModeCustom,
}

// String implements fmt.Stringer.
func (m SaleMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known SaleMode.
func (m SaleMode) IsValid() bool {
	for _, candidate := range validSaleModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseSaleMode converts raw input into a SaleMode.
func ParseSaleMode(value string) (SaleMode, error) {
	for _, candidate := range validSaleModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale mode %q", value)
}
