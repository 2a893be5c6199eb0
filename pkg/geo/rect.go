package geo

import "math"

// Rect is a rectangle given by its pre-rotation min corner, extents and
// a rotation in degrees about its center. Rotation 0 means axis-aligned.
type Rect struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// RectAround constructs a Rect centered on the given point.
func RectAround(center Point2D, width, height, rotationDeg float64) Rect {
	return Rect{
		X:        center.X - width/2,
		Y:        center.Y - height/2,
		Width:    width,
		Height:   height,
		Rotation: rotationDeg,
	}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point2D {
	return Point2D{r.X + r.Width/2, r.Y + r.Height/2}
}

// Inflate returns the rectangle grown by buffer on every side. The
// center and rotation are preserved.
func (r Rect) Inflate(buffer float64) Rect {
	return Rect{
		X:        r.X - buffer,
		Y:        r.Y - buffer,
		Width:    r.Width + 2*buffer,
		Height:   r.Height + 2*buffer,
		Rotation: r.Rotation,
	}
}

// Corners returns the four corners after rotation about the center,
// in counterclockwise order.
func (r Rect) Corners() [4]Point2D {
	c := r.Center()
	pts := [4]Point2D{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	if r.Rotation == 0 {
		return pts
	}
	for i, p := range pts {
		pts[i] = p.RotateAround(c, r.Rotation)
	}
	return pts
}

// AABB returns the axis-aligned bounding box enclosing the (possibly
// rotated) rectangle.
func (r Rect) AABB() Rect {
	if r.Rotation == 0 {
		return r
	}
	corners := r.Corners()
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range corners[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ContainsPoint reports whether p lies inside the rectangle.
func (r Rect) ContainsPoint(p Point2D) bool {
	if r.Rotation != 0 {
		// Rotate p into the rectangle's frame.
		p = p.RotateAround(r.Center(), -r.Rotation)
	}
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Overlaps reports whether two (possibly rotated) rectangles overlap,
// using separating-axis tests on both rectangles' edge normals.
// Touching edges do not count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	a := r.Corners()
	b := o.Corners()
	return !hasSeparatingAxis(a, b) && !hasSeparatingAxis(b, a)
}

// hasSeparatingAxis reports whether any edge normal of a separates the
// two corner sets.
func hasSeparatingAxis(a, b [4]Point2D) bool {
	for i := 0; i < 4; i++ {
		edge := a[(i+1)%4].Sub(a[i])
		axis := edge.Perp()

		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA <= minB || maxB <= minA {
			return true
		}
	}
	return false
}

// project returns the min and max of the corners projected onto axis.
func project(pts [4]Point2D, axis Point2D) (float64, float64) {
	min := pts[0].Dot(axis)
	max := min
	for _, p := range pts[1:] {
		d := p.Dot(axis)
		min = math.Min(min, d)
		max = math.Max(max, d)
	}
	return min, max
}
