package quadtree

import (
	"testing"

	"github.com/maitrix-org/simworld/pkg/geo"
)

func worldBounds() geo.Rect {
	return geo.Rect{X: 0, Y: 0, Width: 100, Height: 100}
}

func contains(items []int, want int) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}

func TestInsertRetrieve(t *testing.T) {
	tr := New[int](worldBounds(), 4, 3)
	tr.Insert(geo.Rect{X: 10, Y: 10, Width: 5, Height: 5}, 1)
	tr.Insert(geo.Rect{X: 80, Y: 80, Width: 5, Height: 5}, 2)

	got := tr.Retrieve(geo.Rect{X: 8, Y: 8, Width: 10, Height: 10})
	if !contains(got, 1) {
		t.Errorf("expected item 1 in result, got %v", got)
	}
}

func TestRetrieveNarrowsAfterSplit(t *testing.T) {
	tr := New[int](worldBounds(), 2, 3)
	// Fill one quadrant past maxObjects to force a split.
	for i := 0; i < 6; i++ {
		tr.Insert(geo.Rect{X: float64(5 + i*2), Y: 5, Width: 2, Height: 2}, i)
	}
	tr.Insert(geo.Rect{X: 90, Y: 90, Width: 2, Height: 2}, 99)

	got := tr.Retrieve(geo.Rect{X: 88, Y: 88, Width: 6, Height: 6})
	if !contains(got, 99) {
		t.Fatalf("expected item 99 in result, got %v", got)
	}
	// After the split, a query in the far corner should not sweep in
	// everything from the opposite quadrant.
	if len(got) >= 7 {
		t.Errorf("expected narrowed result, got %d items", len(got))
	}
}

func TestStraddlingRectFoundFromBothSides(t *testing.T) {
	tr := New[int](worldBounds(), 1, 3)
	// Rect straddling the vertical midline.
	tr.Insert(geo.Rect{X: 45, Y: 10, Width: 10, Height: 10}, 7)
	// Force splits.
	tr.Insert(geo.Rect{X: 5, Y: 5, Width: 2, Height: 2}, 1)
	tr.Insert(geo.Rect{X: 70, Y: 5, Width: 2, Height: 2}, 2)

	left := tr.Retrieve(geo.Rect{X: 40, Y: 10, Width: 4, Height: 4})
	right := tr.Retrieve(geo.Rect{X: 56, Y: 10, Width: 4, Height: 4})
	if !contains(left, 7) {
		t.Errorf("expected straddling item from left query, got %v", left)
	}
	if !contains(right, 7) {
		t.Errorf("expected straddling item from right query, got %v", right)
	}
}

func TestRemove(t *testing.T) {
	tr := New[int](worldBounds(), 2, 3)
	r := geo.Rect{X: 20, Y: 20, Width: 4, Height: 4}
	tr.Insert(r, 5)
	for i := 0; i < 5; i++ {
		tr.Insert(geo.Rect{X: float64(60 + i), Y: 60, Width: 2, Height: 2}, 10+i)
	}

	if !tr.Remove(r, 5) {
		t.Fatal("expected Remove to find item 5")
	}
	if contains(tr.Retrieve(r), 5) {
		t.Error("item 5 still retrievable after Remove")
	}
	if tr.Remove(r, 5) {
		t.Error("second Remove should report not found")
	}
}

func TestClear(t *testing.T) {
	tr := New[int](worldBounds(), 2, 3)
	for i := 0; i < 10; i++ {
		tr.Insert(geo.Rect{X: float64(i * 9), Y: float64(i * 9), Width: 3, Height: 3}, i)
	}
	tr.Clear()
	if got := tr.Retrieve(worldBounds()); len(got) != 0 {
		t.Errorf("expected empty tree after Clear, got %v", got)
	}
}
