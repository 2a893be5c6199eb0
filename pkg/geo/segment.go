package geo

import "math"

// Segment is a directed line segment between two points.
type Segment struct {
	Start Point2D `json:"start"`
	End   Point2D `json:"end"`
}

// Seg is a shorthand constructor for Segment.
func Seg(start, end Point2D) Segment {
	return Segment{Start: start, End: end}
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// AngleDeg returns the direction of the segment in degrees.
func (s Segment) AngleDeg() float64 {
	return s.End.Sub(s.Start).AngleDeg()
}

// Dir returns the unit direction vector from Start to End.
func (s Segment) Dir() Point2D {
	return s.End.Sub(s.Start).Normalize()
}

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() Point2D {
	return MidPoint(s.Start, s.End)
}

// PointAt returns the point at parameter t in [0,1] along the segment.
func (s Segment) PointAt(t float64) Point2D {
	return s.Start.Lerp(s.End, t)
}

// Intersection tests two segments for a proper crossing. Crossings
// within buffer (as a fraction of either segment's length) of an
// endpoint are ignored, so segments that merely share an endpoint do
// not count as intersecting. Returns the crossing point, the parameter
// along a, and whether a crossing was found.
func Intersection(a, b Segment, buffer float64) (Point2D, float64, bool) {
	aDir := a.End.Sub(a.Start)
	bDir := b.End.Sub(b.Start)

	k := aDir.Cross(bDir)
	if k == 0 {
		return Point2D{}, 0, false // parallel or degenerate
	}

	toB := b.Start.Sub(a.Start)
	tA := toB.Cross(bDir) / k
	tB := toB.Cross(aDir) / k

	if tA > buffer && tA < 1-buffer && tB > buffer && tB < 1-buffer {
		return a.Start.Add(aDir.Scale(tA)), tA, true
	}
	return Point2D{}, 0, false
}

// PointSegmentDistance returns the minimum distance from p to the
// segment s.
func PointSegmentDistance(p Point2D, s Segment) float64 {
	d := s.End.Sub(s.Start)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return p.Distance(s.Start)
	}
	t := p.Sub(s.Start).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Distance(s.Start.Add(d.Scale(t)))
}

// MinDegreeDifference returns the smallest angular deviation between
// two directions treated as undirected lines, in [0, 90].
func MinDegreeDifference(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 180)
	return math.Min(diff, math.Abs(diff-180))
}

// AngleDifference returns the smallest difference between two directed
// angles, in [0, 180].
func AngleDifference(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	return math.Min(diff, 360-diff)
}
