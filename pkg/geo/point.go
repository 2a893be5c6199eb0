package geo

import "math"

// Point2D represents a point (or free vector) in the XY layout plane.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the zero point.
var Origin = Point2D{0, 0}

// Pt is a shorthand constructor for Point2D.
func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Y * s}
}

// Length returns the Euclidean length of the vector.
func (p Point2D) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns the unit vector in the same direction.
// Returns zero vector if length is zero.
func (p Point2D) Normalize() Point2D {
	l := p.Length()
	if l < 1e-12 {
		return Point2D{}
	}
	return Point2D{p.X / l, p.Y / l}
}

// Dot returns the dot product of p and q.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (z-component of 3D cross).
func (p Point2D) Cross(q Point2D) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance returns the Euclidean distance from p to q.
func (p Point2D) Distance(q Point2D) float64 {
	return p.Sub(q).Length()
}

// AngleDeg returns the angle of the vector from the positive X axis in
// degrees, in (-180, 180].
func (p Point2D) AngleDeg() float64 {
	return math.Atan2(p.Y, p.X) * 180 / math.Pi
}

// Rotate returns p rotated by angle degrees around the origin.
func (p Point2D) Rotate(angleDeg float64) Point2D {
	rad := angleDeg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return Point2D{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
	}
}

// RotateAround returns p rotated by angle degrees around center.
func (p Point2D) RotateAround(center Point2D, angleDeg float64) Point2D {
	return p.Sub(center).Rotate(angleDeg).Add(center)
}

// Lerp returns the linear interpolation between p and q at t in [0,1].
func (p Point2D) Lerp(q Point2D, t float64) Point2D {
	return Point2D{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Perp returns a vector perpendicular to p (rotated 90 degrees
// counterclockwise).
func (p Point2D) Perp() Point2D {
	return Point2D{-p.Y, p.X}
}

// FromAngleDeg returns the unit vector at the given angle in degrees.
func FromAngleDeg(angleDeg float64) Point2D {
	rad := angleDeg * math.Pi / 180
	return Point2D{math.Cos(rad), math.Sin(rad)}
}

// MidPoint returns the midpoint between p and q.
func MidPoint(p, q Point2D) Point2D {
	return p.Lerp(q, 0.5)
}
