package routing

import (
	"math/rand"
	"testing"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/layout"
)

// gridNetwork builds an L shaped road: (0,0)-(100,0)-(100,100).
func gridNetwork() *layout.RoadNetwork {
	cfg := config.Default()
	net := layout.NewRoadNetwork(cfg.Citygen.Quadtree, cfg.Citygen.Road)
	net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)
	net.AddSegment(geo.Pt(100, 0), geo.Pt(100, 100), false)
	return net
}

func TestAlongRoadWaypoints(t *testing.T) {
	cfg := config.Default()
	g := NewGenerator(gridNetwork(), cfg.Citygen.Route, rand.New(rand.NewSource(1)))

	route, err := g.AlongRoad(0)
	if err != nil {
		t.Fatalf("AlongRoad: %v", err)
	}
	if len(route.Points) < cfg.Citygen.Route.MinPointsPerRoute ||
		len(route.Points) > cfg.Citygen.Route.MaxPointsPerRoute {
		t.Fatalf("route has %d points, want between %d and %d",
			len(route.Points), cfg.Citygen.Route.MinPointsPerRoute, cfg.Citygen.Route.MaxPointsPerRoute)
	}
	// Waypoints sit on the segment and walk monotonically along it.
	for i, p := range route.Points {
		if p.Y != 0 || p.X < 0 || p.X > 100 {
			t.Errorf("waypoint %d at %+v is off the road", i, p)
		}
		if i > 0 && p.X < route.Points[i-1].X {
			t.Errorf("waypoint %d moves backwards along the road", i)
		}
	}
	if route.Start != route.Points[0] || route.End != route.Points[len(route.Points)-1] {
		t.Error("route endpoints do not match its waypoints")
	}
}

func TestAlongRoadMissingSegment(t *testing.T) {
	cfg := config.Default()
	g := NewGenerator(gridNetwork(), cfg.Citygen.Route, rand.New(rand.NewSource(1)))

	if _, err := g.AlongRoad(99); err == nil {
		t.Fatal("expected an error for a missing segment")
	}
}

func TestBetweenFollowsRoadGraph(t *testing.T) {
	cfg := config.Default()
	g := NewGenerator(gridNetwork(), cfg.Citygen.Route, rand.New(rand.NewSource(1)))

	route, err := g.Between(geo.Pt(5, 5), geo.Pt(95, 95))
	if err != nil {
		t.Fatalf("Between: %v", err)
	}
	// Snapped path: (0,0) -> (100,0) -> (100,100), framed by the raw
	// endpoints.
	want := []geo.Point2D{
		geo.Pt(5, 5), geo.Pt(0, 0), geo.Pt(100, 0), geo.Pt(100, 100), geo.Pt(95, 95),
	}
	if len(route.Points) != len(want) {
		t.Fatalf("route has %d points, want %d: %+v", len(route.Points), len(want), route.Points)
	}
	for i := range want {
		if route.Points[i] != want[i] {
			t.Errorf("waypoint %d is %+v, want %+v", i, route.Points[i], want[i])
		}
	}
}

func TestRouteIDsSequential(t *testing.T) {
	cfg := config.Default()
	g := NewGenerator(gridNetwork(), cfg.Citygen.Route, rand.New(rand.NewSource(1)))

	first, _ := g.AlongRoad(0)
	second, _ := g.AlongRoad(1)
	if first.ID != "route_00000" || second.ID != "route_00001" {
		t.Fatalf("unexpected route IDs %q, %q", first.ID, second.ID)
	}
	if len(g.Routes()) != 2 {
		t.Fatalf("generator holds %d routes, want 2", len(g.Routes()))
	}
}

func TestDirectionDescription(t *testing.T) {
	cases := []struct {
		target geo.Point2D
		want   string
	}{
		{geo.Pt(10, 0), "East"},
		{geo.Pt(10, 10), "NorthEast"},
		{geo.Pt(0, 10), "North"},
		{geo.Pt(-10, 0), "West"},
		{geo.Pt(0, -10), "South"},
		{geo.Pt(10, -10), "SouthEast"},
	}
	for _, tc := range cases {
		if got := DirectionDescription(geo.Origin, tc.target); got != tc.want {
			t.Errorf("direction to %+v is %q, want %q", tc.target, got, tc.want)
		}
	}
}

func TestPointContext(t *testing.T) {
	l := &layout.CityLayout{
		Buildings: []layout.Building{
			{ID: "building_00000", Kind: "Shop", Footprint: geo.RectAround(geo.Pt(20, 0), 10, 10, 0)},
		},
		Elements: []layout.StreetElement{
			{ID: "element_00000", Kind: "Tree", Category: "vegetation", Footprint: geo.RectAround(geo.Pt(0, 10), 3, 3, 0)},
			{ID: "element_00001", Kind: "Tree", Category: "vegetation", Footprint: geo.RectAround(geo.Pt(5, 10), 3, 3, 0)},
		},
	}
	ctx := PointContext(geo.Origin, l, 50, 5)

	if ctx.ElementStats["Tree"] != 2 {
		t.Errorf("counted %d trees, want 2", ctx.ElementStats["Tree"])
	}
	if ctx.BuildingStats["Shop"] != "East" {
		t.Errorf("shop direction is %q, want East", ctx.BuildingStats["Shop"])
	}
}
