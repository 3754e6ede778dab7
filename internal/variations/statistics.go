package variations

// Statistics summarizes a combination set for the editing UI.
type Statistics struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	WithStock    int `json:"with_stock"`
	WithoutStock int `json:"without_stock"`
	TotalStock   int `json:"total_stock"`
	// AverageStock is total stock over total combinations, zero for an
	// empty set.
	AverageStock          float64 `json:"average_stock"`
	PositiveAdjustments   int     `json:"positive_adjustments"`
	NegativeAdjustments   int     `json:"negative_adjustments"`
	NeutralAdjustments    int     `json:"neutral_adjustments"`
}

// Statistics computes the live summary. Total always equals Len and
// Active+Inactive always equals Total.
func (s *Set) Statistics() Statistics {
	stats := Statistics{Total: len(s.items)}
	for i := range s.items {
		c := &s.items[i]
		if c.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if c.Stock > 0 {
			stats.WithStock++
		} else {
			stats.WithoutStock++
		}
		stats.TotalStock += c.Stock

		switch {
		case c.PriceAdjustment.IsPositive():
			stats.PositiveAdjustments++
		case c.PriceAdjustment.IsNegative():
			stats.NegativeAdjustments++
		default:
			stats.NeutralAdjustments++
		}
	}
	if stats.Total > 0 {
		stats.AverageStock = float64(stats.TotalStock) / float64(stats.Total)
	}
	return stats
}
