package variations

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Set is the owned collection of combinations for one product under edit.
// Mutations only go through methods and callers only ever see copies, so the
// tuple-uniqueness invariant cannot be broken from outside. The version
// counter bumps on every mutation; last write wins when a draft is saved.
//
// Duplicate creation and missing removal are ordinary outcomes here, not
// errors: every mutator reports success as a bool and the caller decides how
// to surface a failure.
type Set struct {
	version int64
	items   []Combination
}

// NewSet returns an empty combination set.
func NewSet() *Set {
	return &Set{}
}

// Restore rebuilds a set from a previously snapshotted state.
func Restore(version int64, items []Combination) *Set {
	s := &Set{version: version}
	for _, item := range items {
		if s.indexOf(item.Tuple) >= 0 {
			continue
		}
		s.items = append(s.items, item)
	}
	return s
}

// Version returns the mutation counter.
func (s *Set) Version() int64 {
	return s.version
}

// Len returns the live combination count.
func (s *Set) Len() int {
	return len(s.items)
}

// Snapshot returns a copy of the current combinations. Mutating the returned
// slice does not affect the set.
func (s *Set) Snapshot() []Combination {
	out := make([]Combination, len(s.items))
	copy(out, s.items)
	return out
}

// Exists reports whether the exact attribute tuple is already present.
func (s *Set) Exists(tuple Tuple) bool {
	return s.indexOf(tuple) >= 0
}

// Create appends a new combination for the tuple. It reports false when the
// tuple is already present, creating nothing. New combinations start with
// zero stock, zero adjustment and active=true; overrides apply on top.
func (s *Set) Create(tuple Tuple, overrides *Patch) bool {
	if s.Exists(tuple) {
		return false
	}
	combo := Combination{
		ID:              uuid.New(),
		Tuple:           tuple,
		Stock:           0,
		PriceAdjustment: decimal.Zero,
		IsActive:        true,
	}
	overrides.applyTo(&combo)
	s.items = append(s.items, combo)
	s.version++
	return true
}

// Remove deletes the first combination matching the tuple. It reports false
// when no combination matches.
func (s *Set) Remove(tuple Tuple) bool {
	idx := s.indexOf(tuple)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.version++
	return true
}

// Toggle removes the tuple when present and creates it when absent. It
// reports whether the tuple exists after the flip.
func (s *Set) Toggle(tuple Tuple) bool {
	if s.Remove(tuple) {
		return false
	}
	s.Create(tuple, nil)
	return true
}

// Update merges the patch into the combination with the given id. It reports
// false when the id is unknown, changing nothing.
func (s *Set) Update(id uuid.UUID, patch Patch) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			patch.applyTo(&s.items[i])
			s.version++
			return true
		}
	}
	return false
}

// CreateAll materializes the Cartesian product of the supplied attribute
// lists and creates every tuple not already present, returning how many were
// created. An empty list collapses its axis to a single absent slot, so a
// product varying on one attribute gets combinations along that axis alone.
// All three lists empty creates nothing.
func (s *Set) CreateAll(colors, sizes, materials []string) int {
	if len(colors) == 0 && len(sizes) == 0 && len(materials) == 0 {
		return 0
	}

	created := 0
	for _, color := range axis(colors) {
		for _, size := range axis(sizes) {
			for _, material := range axis(materials) {
				tuple := Tuple{Color: color, Size: size, Material: material}
				if s.Create(tuple, nil) {
					created++
				}
			}
		}
	}
	return created
}

// axis expands an attribute list into pointer slots, collapsing an empty
// list to a single absent value.
func axis(values []string) []*string {
	if len(values) == 0 {
		return []*string{nil}
	}
	out := make([]*string, 0, len(values))
	for i := range values {
		out = append(out, &values[i])
	}
	return out
}

// Clear empties the set unconditionally.
func (s *Set) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = nil
	s.version++
}

// ToggleAll sets the active flag on every combination.
func (s *Set) ToggleAll(active bool) {
	for i := range s.items {
		s.items[i].IsActive = active
	}
	s.version++
}

// ApplyBulkStock sets stock on every combination. With onlyEmpty, entries
// that already hold stock are left untouched.
func (s *Set) ApplyBulkStock(stock int, onlyEmpty bool) {
	if stock < 0 {
		stock = 0
	}
	for i := range s.items {
		if onlyEmpty && s.items[i].Stock > 0 {
			continue
		}
		s.items[i].Stock = stock
	}
	s.version++
}

// ApplyBulkPriceAdjustment sets the price adjustment uniformly.
func (s *Set) ApplyBulkPriceAdjustment(value decimal.Decimal) {
	for i := range s.items {
		s.items[i].PriceAdjustment = value
	}
	s.version++
}

func (s *Set) indexOf(tuple Tuple) int {
	key := tuple.key()
	for i := range s.items {
		if s.items[i].Tuple.key() == key {
			return i
		}
	}
	return -1
}
