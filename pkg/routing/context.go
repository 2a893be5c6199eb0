package routing

import (
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/layout"
)

// compass directions counterclockwise from east, each covering a 45
// degree sector.
var directions = [8]string{
	"East", "NorthEast", "North", "NorthWest",
	"West", "SouthWest", "South", "SouthEast",
}

// DirectionDescription names the compass direction from pivot to
// target.
func DirectionDescription(pivot, target geo.Point2D) string {
	deg := target.Sub(pivot).AngleDeg()
	if deg < 0 {
		deg += 360
	}
	idx := int((deg+22.5)/45) % 8
	return directions[idx]
}

// Context describes the surroundings of a point: element category
// counts and, per nearby building, the direction it lies in.
type Context struct {
	ElementStats  map[string]int    `json:"element_stats"`
	BuildingStats map[string]string `json:"building_stats"`
}

// PointContext summarizes the k nearest buildings and elements within
// the given radius of a point, for labeling route waypoints.
func PointContext(p geo.Point2D, l *layout.CityLayout, radius float64, k int) Context {
	region := geo.Rect{
		X:      p.X - radius,
		Y:      p.Y - radius,
		Width:  2 * radius,
		Height: 2 * radius,
	}

	ctx := Context{
		ElementStats:  map[string]int{},
		BuildingStats: map[string]string{},
	}

	elements := 0
	for _, e := range l.Elements {
		if elements >= k {
			break
		}
		if region.ContainsPoint(e.Center()) {
			ctx.ElementStats[e.Kind]++
			elements++
		}
	}
	buildings := 0
	for _, b := range l.Buildings {
		if buildings >= k {
			break
		}
		if region.ContainsPoint(b.Center()) {
			ctx.BuildingStats[b.Kind] = DirectionDescription(p, b.Center())
			buildings++
		}
	}
	return ctx
}
