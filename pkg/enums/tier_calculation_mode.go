package enums

import "fmt"

// TierCalculationMode controls whether quantity tiers are matched against the
// number of pairs in a grade or against whole grades.
type TierCalculationMode string

const (
	TierCalculationPerPair  TierCalculationMode = "per_pair"
	TierCalculationPerGrade TierCalculationMode = "per_grade"
)

var validTierCalculationModes = []TierCalculationMode{
	TierCalculationPerPair,
	TierCalculationPerGrade,
}

// String implements fmt.Stringer.
func (m TierCalculationMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known TierCalculationMode.
func (m TierCalculationMode) IsValid() bool {
	for _, candidate := range validTierCalculationModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseTierCalculationMode converts raw input into a TierCalculationMode.
func ParseTierCalculationMode(value string) (TierCalculationMode, error) {
	for _, candidate := range validTierCalculationModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier calculation mode %q", value)
}
