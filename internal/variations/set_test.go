package variations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func strptr(v string) *string { return &v }

func tuple(color, size, material string) Tuple {
	return NormalizeTuple(color, size, material)
}

func TestSet_CreateAndRemove(t *testing.T) {
	t.Run("duplicateCreateFails", func(t *testing.T) {
		set := NewSet()
		if !set.Create(tuple("Red", "M", ""), nil) {
			t.Fatal("first create should succeed")
		}
		if set.Create(tuple("Red", "M", ""), nil) {
			t.Fatal("duplicate tuple must be rejected")
		}
		if set.Len() != 1 {
			t.Fatalf("expected 1 combination, got %d", set.Len())
		}
	})

	t.Run("absentAttributeIsDistinctValue", func(t *testing.T) {
		set := NewSet()
		if !set.Create(tuple("Red", "", ""), nil) {
			t.Fatal("create (Red, -, -) should succeed")
		}
		// A nil size is not a wildcard covering (Red, M, -).
		if !set.Create(tuple("Red", "M", ""), nil) {
			t.Fatal("create (Red, M, -) should succeed alongside (Red, -, -)")
		}
		if set.Create(tuple("Red", "", ""), nil) {
			t.Fatal("(Red, -, -) already exists")
		}
	})

	t.Run("removeMissingFails", func(t *testing.T) {
		set := NewSet()
		set.Create(tuple("Red", "M", ""), nil)
		if set.Remove(tuple("Blue", "M", "")) {
			t.Fatal("removing an absent tuple must fail")
		}
		if !set.Remove(tuple("Red", "M", "")) {
			t.Fatal("removing a present tuple must succeed")
		}
		if set.Len() != 0 {
			t.Fatalf("expected empty set, got %d", set.Len())
		}
	})

	t.Run("createDefaultsAndOverrides", func(t *testing.T) {
		set := NewSet()
		stock := 7
		sku := "RM-001"
		set.Create(tuple("Red", "M", ""), &Patch{Stock: &stock, SKU: &sku})

		items := set.Snapshot()
		if items[0].Stock != 7 || items[0].SKU != "RM-001" {
			t.Fatalf("overrides not applied: %+v", items[0])
		}
		if !items[0].IsActive {
			t.Fatal("new combinations default to active")
		}
		if !items[0].PriceAdjustment.IsZero() {
			t.Fatal("new combinations default to zero adjustment")
		}
		if items[0].ID == uuid.Nil {
			t.Fatal("new combinations get a fresh id")
		}
	})
}

func TestSet_Toggle(t *testing.T) {
	set := NewSet()

	if !set.Toggle(tuple("Red", "M", "")) {
		t.Fatal("toggle on absent tuple should create it")
	}
	if set.Toggle(tuple("Red", "M", "")) {
		t.Fatal("toggle on present tuple should remove it")
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set after double toggle, got %d", set.Len())
	}

	// Any interleaving keeps the tuple unique.
	set.Toggle(tuple("Red", "M", ""))
	set.Create(tuple("Red", "M", ""), nil)
	set.Toggle(tuple("Blue", "M", ""))
	seen := map[string]bool{}
	for _, c := range set.Snapshot() {
		key := c.Tuple.key()
		if seen[key] {
			t.Fatalf("duplicate tuple in set: %+v", c.Tuple)
		}
		seen[key] = true
	}
}

func TestSet_Update(t *testing.T) {
	set := NewSet()
	set.Create(tuple("Red", "M", ""), nil)
	id := set.Snapshot()[0].ID

	adjustment := decimal.RequireFromString("-1.25")
	active := false
	if !set.Update(id, Patch{PriceAdjustment: &adjustment, IsActive: &active}) {
		t.Fatal("update by known id should succeed")
	}
	got := set.Snapshot()[0]
	if !got.PriceAdjustment.Equal(adjustment) || got.IsActive {
		t.Fatalf("patch not merged: %+v", got)
	}

	if set.Update(uuid.New(), Patch{IsActive: &active}) {
		t.Fatal("update by unknown id must report failure")
	}
}

func TestSet_CreateAll(t *testing.T) {
	t.Run("cartesianProduct", func(t *testing.T) {
		set := NewSet()
		created := set.CreateAll([]string{"Red", "Blue"}, []string{"P", "M"}, nil)
		if created != 4 {
			t.Fatalf("expected 4 created, got %d", created)
		}
		want := map[string]bool{
			tuple("Red", "P", "").key():  true,
			tuple("Red", "M", "").key():  true,
			tuple("Blue", "P", "").key(): true,
			tuple("Blue", "M", "").key(): true,
		}
		for _, c := range set.Snapshot() {
			if !want[c.Tuple.key()] {
				t.Fatalf("unexpected combination %+v", c.Tuple)
			}
			delete(want, c.Tuple.key())
		}
		if len(want) != 0 {
			t.Fatalf("missing combinations: %v", want)
		}
	})

	t.Run("secondRunCreatesNothing", func(t *testing.T) {
		set := NewSet()
		set.CreateAll([]string{"Red", "Blue"}, []string{"P", "M"}, nil)
		if created := set.CreateAll([]string{"Red", "Blue"}, []string{"P", "M"}, nil); created != 0 {
			t.Fatalf("expected 0 created on rerun, got %d", created)
		}
		if set.Len() != 4 {
			t.Fatalf("rerun must not duplicate, got %d", set.Len())
		}
	})

	t.Run("singleAxisCollapse", func(t *testing.T) {
		set := NewSet()
		created := set.CreateAll([]string{"Red", "Blue"}, nil, nil)
		if created != 2 {
			t.Fatalf("expected 2 created, got %d", created)
		}
		for _, c := range set.Snapshot() {
			if c.Size != nil || c.Material != nil {
				t.Fatalf("empty axes must stay absent: %+v", c.Tuple)
			}
		}
	})

	t.Run("allAxesEmpty", func(t *testing.T) {
		set := NewSet()
		if created := set.CreateAll(nil, nil, nil); created != 0 {
			t.Fatalf("expected nothing created, got %d", created)
		}
		if set.Len() != 0 {
			t.Fatalf("expected empty set, got %d", set.Len())
		}
	})

	t.Run("partialOverlap", func(t *testing.T) {
		set := NewSet()
		set.Create(Tuple{Color: strptr("Red"), Size: strptr("P")}, nil)
		created := set.CreateAll([]string{"Red"}, []string{"P", "M"}, nil)
		if created != 1 {
			t.Fatalf("expected only the missing tuple created, got %d", created)
		}
	})
}

func TestSet_BulkOperations(t *testing.T) {
	t.Run("bulkStockOnlyEmpty", func(t *testing.T) {
		set := NewSet()
		set.CreateAll([]string{"Red", "Blue", "Green"}, nil, nil)
		items := set.Snapshot()
		stock := 3
		set.Update(items[0].ID, Patch{Stock: &stock})

		set.ApplyBulkStock(5, true)
		for _, c := range set.Snapshot() {
			if c.ID == items[0].ID {
				if c.Stock != 3 {
					t.Fatalf("pre-stocked entry must keep its stock, got %d", c.Stock)
				}
				continue
			}
			if c.Stock != 5 {
				t.Fatalf("empty entry should be set to 5, got %d", c.Stock)
			}
		}
	})

	t.Run("bulkStockOverwritesAll", func(t *testing.T) {
		set := NewSet()
		set.CreateAll([]string{"Red", "Blue"}, nil, nil)
		stock := 3
		set.Update(set.Snapshot()[0].ID, Patch{Stock: &stock})

		set.ApplyBulkStock(5, false)
		for _, c := range set.Snapshot() {
			if c.Stock != 5 {
				t.Fatalf("expected stock 5 everywhere, got %d", c.Stock)
			}
		}
	})

	t.Run("bulkPriceAdjustment", func(t *testing.T) {
		set := NewSet()
		set.CreateAll([]string{"Red", "Blue"}, nil, nil)
		set.ApplyBulkPriceAdjustment(decimal.RequireFromString("0.50"))
		for _, c := range set.Snapshot() {
			if !c.PriceAdjustment.Equal(decimal.RequireFromString("0.50")) {
				t.Fatalf("expected adjustment 0.50, got %s", c.PriceAdjustment)
			}
		}
	})

	t.Run("toggleAllAndClear", func(t *testing.T) {
		set := NewSet()
		set.CreateAll([]string{"Red", "Blue"}, nil, nil)
		set.ToggleAll(false)
		for _, c := range set.Snapshot() {
			if c.IsActive {
				t.Fatal("expected all inactive")
			}
		}
		set.Clear()
		if set.Len() != 0 {
			t.Fatalf("expected empty set after clear, got %d", set.Len())
		}
	})
}

func TestSet_SnapshotIsolation(t *testing.T) {
	set := NewSet()
	set.Create(tuple("Red", "M", ""), nil)

	snap := set.Snapshot()
	snap[0].Stock = 99
	if set.Snapshot()[0].Stock != 0 {
		t.Fatal("mutating a snapshot must not leak into the set")
	}
}

func TestSet_VersionAndRestore(t *testing.T) {
	set := NewSet()
	set.Create(tuple("Red", "M", ""), nil)
	set.ApplyBulkStock(5, false)
	if set.Version() != 2 {
		t.Fatalf("expected version 2, got %d", set.Version())
	}

	restored := Restore(set.Version(), set.Snapshot())
	if restored.Version() != 2 || restored.Len() != 1 {
		t.Fatalf("restore mismatch: version=%d len=%d", restored.Version(), restored.Len())
	}

	// A corrupted snapshot with a duplicate tuple collapses on restore.
	items := set.Snapshot()
	items = append(items, items[0])
	if got := Restore(1, items).Len(); got != 1 {
		t.Fatalf("expected duplicate dropped on restore, got %d", got)
	}
}

func TestSet_Statistics(t *testing.T) {
	set := NewSet()
	stats := set.Statistics()
	if stats.Total != 0 || stats.AverageStock != 0 {
		t.Fatalf("empty set statistics should be zero: %+v", stats)
	}

	set.CreateAll([]string{"Red", "Blue"}, []string{"P", "M"}, nil)
	items := set.Snapshot()

	stock := 10
	up := decimal.NewFromInt(2)
	down := decimal.RequireFromString("-1.50")
	inactive := false
	set.Update(items[0].ID, Patch{Stock: &stock, PriceAdjustment: &up})
	set.Update(items[1].ID, Patch{PriceAdjustment: &down, IsActive: &inactive})

	stats = set.Statistics()
	if stats.Total != set.Len() {
		t.Fatalf("total %d must match live count %d", stats.Total, set.Len())
	}
	if stats.Active+stats.Inactive != stats.Total {
		t.Fatalf("active %d + inactive %d must equal total %d", stats.Active, stats.Inactive, stats.Total)
	}
	if stats.WithStock != 1 || stats.WithoutStock != 3 {
		t.Fatalf("unexpected stock split: %+v", stats)
	}
	if stats.TotalStock != 10 {
		t.Fatalf("expected total stock 10, got %d", stats.TotalStock)
	}
	if stats.AverageStock != 2.5 {
		t.Fatalf("expected average stock 2.5, got %v", stats.AverageStock)
	}
	if stats.PositiveAdjustments != 1 || stats.NegativeAdjustments != 1 || stats.NeutralAdjustments != 2 {
		t.Fatalf("unexpected adjustment breakdown: %+v", stats)
	}
}
