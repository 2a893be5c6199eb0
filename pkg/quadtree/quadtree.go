// Package quadtree provides a region quadtree over axis-aligned
// bounding boxes. It is used by the layout generators to keep
// collision queries sub-quadratic as geometry accumulates.
package quadtree

import "github.com/maitrix-org/simworld/pkg/geo"

// Tree is a region quadtree storing items keyed by their axis-aligned
// bounds. Items whose bounds straddle a split line are stored in every
// child they touch, so Retrieve may return duplicates and false
// positives; callers are expected to re-test exact overlap.
type Tree[T comparable] struct {
	bounds     geo.Rect
	maxObjects int
	maxLevels  int
	level      int

	rects []geo.Rect
	items []T
	nodes [4]*Tree[T]
}

// New creates a quadtree covering bounds. A node splits once it holds
// more than maxObjects items, down to maxLevels levels deep.
func New[T comparable](bounds geo.Rect, maxObjects, maxLevels int) *Tree[T] {
	return &Tree[T]{
		bounds:     bounds,
		maxObjects: maxObjects,
		maxLevels:  maxLevels,
	}
}

// Bounds returns the region covered by the tree.
func (t *Tree[T]) Bounds() geo.Rect {
	return t.bounds
}

// Insert adds an item with the given bounds.
func (t *Tree[T]) Insert(rect geo.Rect, item T) {
	if t.split() {
		for _, n := range t.relevantNodes(rect) {
			n.Insert(rect, item)
		}
		return
	}

	t.rects = append(t.rects, rect)
	t.items = append(t.items, item)

	if len(t.rects) > t.maxObjects && t.level < t.maxLevels {
		t.subdivide()
	}
}

// Retrieve returns all items whose node regions intersect rect. The
// result may contain duplicates and items that do not actually overlap
// rect.
func (t *Tree[T]) Retrieve(rect geo.Rect) []T {
	if !t.split() {
		result := make([]T, len(t.items))
		copy(result, t.items)
		return result
	}
	var result []T
	for _, n := range t.relevantNodes(rect) {
		result = append(result, n.Retrieve(rect)...)
	}
	return result
}

// Remove deletes an item from the tree. Returns true if the item was
// found in any node.
func (t *Tree[T]) Remove(rect geo.Rect, item T) bool {
	found := false
	for i := 0; i < len(t.items); i++ {
		if t.items[i] == item {
			t.items = append(t.items[:i], t.items[i+1:]...)
			t.rects = append(t.rects[:i], t.rects[i+1:]...)
			found = true
			i--
		}
	}
	if t.split() {
		for _, n := range t.relevantNodes(rect) {
			if n.Remove(rect, item) {
				found = true
			}
		}
	}
	return found
}

// Clear removes all items and children.
func (t *Tree[T]) Clear() {
	t.rects = nil
	t.items = nil
	t.nodes = [4]*Tree[T]{}
}

func (t *Tree[T]) split() bool {
	return t.nodes[0] != nil
}

// subdivide creates the four children and redistributes stored items.
func (t *Tree[T]) subdivide() {
	w := t.bounds.Width / 2
	h := t.bounds.Height / 2
	x := t.bounds.X
	y := t.bounds.Y

	t.nodes[0] = &Tree[T]{bounds: geo.Rect{X: x + w, Y: y, Width: w, Height: h}, maxObjects: t.maxObjects, maxLevels: t.maxLevels, level: t.level + 1}
	t.nodes[1] = &Tree[T]{bounds: geo.Rect{X: x, Y: y, Width: w, Height: h}, maxObjects: t.maxObjects, maxLevels: t.maxLevels, level: t.level + 1}
	t.nodes[2] = &Tree[T]{bounds: geo.Rect{X: x, Y: y + h, Width: w, Height: h}, maxObjects: t.maxObjects, maxLevels: t.maxLevels, level: t.level + 1}
	t.nodes[3] = &Tree[T]{bounds: geo.Rect{X: x + w, Y: y + h, Width: w, Height: h}, maxObjects: t.maxObjects, maxLevels: t.maxLevels, level: t.level + 1}

	for i, rect := range t.rects {
		for _, n := range t.relevantNodes(rect) {
			n.Insert(rect, t.items[i])
		}
	}
	t.rects = nil
	t.items = nil
}

// relevantNodes returns the children whose quadrant a rect touches.
func (t *Tree[T]) relevantNodes(rect geo.Rect) []*Tree[T] {
	var nodes []*Tree[T]
	midX := t.bounds.X + t.bounds.Width/2
	midY := t.bounds.Y + t.bounds.Height/2

	top := rect.Y <= midY
	bottom := rect.Y+rect.Height > midY

	if rect.X <= midX {
		if top {
			nodes = append(nodes, t.nodes[1])
		}
		if bottom {
			nodes = append(nodes, t.nodes[2])
		}
	}
	if rect.X+rect.Width > midX {
		if top {
			nodes = append(nodes, t.nodes[0])
		}
		if bottom {
			nodes = append(nodes, t.nodes[3])
		}
	}
	return nodes
}
