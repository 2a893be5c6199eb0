package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
)

func scatterFixture(t *testing.T) (*RoadNetwork, []Building, *config.Config) {
	t.Helper()
	cfg := config.Default()
	net := singleRoad(cfg)
	buildings, _ := PlaceBuildings(net, cfg, rand.New(rand.NewSource(1)))
	if len(buildings) == 0 {
		t.Fatal("fixture placed no buildings")
	}
	return net, buildings, cfg
}

func TestScatterElementsOffPavedRoad(t *testing.T) {
	net, buildings, cfg := scatterFixture(t)
	elements, _ := ScatterElements(net, buildings, cfg, 42)
	if len(elements) == 0 {
		t.Fatal("scattered no elements")
	}

	for _, s := range net.Segments() {
		g := net.SegmentGeometry(s)
		paved := geo.RectAround(g.Midpoint(), g.Length(), net.Width(s), g.AngleDeg())
		for _, e := range elements {
			if e.Footprint.Overlaps(paved) {
				t.Errorf("%s sits on the paved surface of segment %d", e.ID, s.ID)
			}
		}
	}
}

func TestScatterElementsAvoidBuildings(t *testing.T) {
	net, buildings, cfg := scatterFixture(t)
	elements, _ := ScatterElements(net, buildings, cfg, 42)

	for _, e := range elements {
		for _, b := range buildings {
			if e.Footprint.Overlaps(b.Footprint) {
				t.Errorf("%s intersects %s", e.ID, b.ID)
			}
		}
	}
}

func TestScatterElementsAnchors(t *testing.T) {
	net, buildings, cfg := scatterFixture(t)
	elements, _ := ScatterElements(net, buildings, cfg, 42)

	bandNames := map[string]bool{}
	for _, band := range cfg.Citygen.Element.Bands {
		bandNames[band.Name] = true
	}
	for _, e := range elements {
		switch {
		case e.AnchorBuilding != "":
			if e.AnchorSegment != -1 {
				t.Errorf("%s is anchored to both a building and segment %d", e.ID, e.AnchorSegment)
			}
		case e.AnchorSegment >= 0:
			if !bandNames[e.AnchorBand] {
				t.Errorf("%s has unknown band %q", e.ID, e.AnchorBand)
			}
		default:
			t.Errorf("%s has no anchor", e.ID)
		}
	}
}

func TestScatterElementsZeroDensity(t *testing.T) {
	net, buildings, cfg := scatterFixture(t)
	for i := range cfg.Catalogs.Elements {
		cfg.Catalogs.Elements[i].Density = 0
	}
	elements, _ := ScatterElements(net, buildings, cfg, 42)
	if len(elements) != 0 {
		t.Fatalf("scattered %d elements with zero density everywhere", len(elements))
	}
}

func TestScatterElementsMayOverlapEachOther(t *testing.T) {
	cfg := config.Default()
	net := singleRoad(cfg)

	// Benches wider than the slot pitch. Accessibility only checks
	// roads, buildings and bounds, so every slot fills and neighbours
	// overlap.
	cfg.Citygen.Element.Bands = []config.BandConfig{
		{Name: "furniture", Offset: 12, Categories: []string{"furniture"}},
	}
	cfg.Catalogs.Elements = []config.ElementTemplate{
		{Name: "Bench", Width: 12, Depth: 1, Category: "furniture", Density: 1},
	}
	elements, _ := ScatterElements(net, nil, cfg, 42)

	pitch := cfg.Citygen.Element.ElementElementDistance
	wantSlots := 2 * int(200/pitch)
	if len(elements) != wantSlots {
		t.Fatalf("got %d elements, want all %d slots filled", len(elements), wantSlots)
	}
	overlaps := 0
	for i := range elements {
		for j := i + 1; j < len(elements); j++ {
			if elements[i].Footprint.Overlaps(elements[j].Footprint) {
				overlaps++
			}
		}
	}
	if overlaps == 0 {
		t.Fatal("12 unit benches on a 10 unit pitch should overlap their neighbours")
	}
}

func TestScatterElementsFractionalDensity(t *testing.T) {
	cfg := config.Default()
	net := singleRoad(cfg)

	cfg.Citygen.Element.ElementElementDistance = 1
	cfg.Citygen.Element.Bands = []config.BandConfig{
		{Name: "vegetation", Offset: 12, Categories: []string{"vegetation"}},
	}
	cfg.Catalogs.Elements = []config.ElementTemplate{
		{Name: "Tree", Width: 0.5, Depth: 0.5, Category: "vegetation", Density: 0.1},
	}
	elements, _ := ScatterElements(net, nil, cfg, 42)

	// 400 slots at density 0.1 is binomial with mean 40 and sigma 6.
	// Five sigma either side keeps the assertion safe for any seed.
	slots := 2 * int(200/cfg.Citygen.Element.ElementElementDistance)
	mean := 0.1 * float64(slots)
	sigma := math.Sqrt(float64(slots) * 0.1 * 0.9)
	lo, hi := mean-5*sigma, mean+5*sigma
	if float64(len(elements)) < lo || float64(len(elements)) > hi {
		t.Fatalf("placed %d of %d density-0.1 slots, want within [%.0f, %.0f]",
			len(elements), slots, lo, hi)
	}
}

func TestScatterElementsEmptyNetwork(t *testing.T) {
	cfg := config.Default()
	net := NewRoadNetwork(cfg.Citygen.Quadtree, cfg.Citygen.Road)

	elements, report := ScatterElements(net, nil, cfg, 42)
	if len(elements) != 0 {
		t.Fatalf("scattered %d elements with no roads and no buildings", len(elements))
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
}

func TestScatterElementsDensityBound(t *testing.T) {
	net, _, cfg := scatterFixture(t)

	// One full-density band, no building surround.
	cfg.Citygen.Element.Bands = []config.BandConfig{
		{Name: "vegetation", Offset: 12, Categories: []string{"vegetation"}},
	}
	cfg.Catalogs.Elements = []config.ElementTemplate{
		{Name: "Tree", Width: 1, Depth: 1, Category: "vegetation", Density: 1},
	}
	elements, _ := ScatterElements(net, nil, cfg, 42)

	// Slots per side: ceil(length / pitch) along a 200 unit road.
	pitch := cfg.Citygen.Element.ElementElementDistance
	maxSlots := 2 * int(200/pitch)
	if len(elements) == 0 || len(elements) > maxSlots {
		t.Fatalf("got %d elements, want between 1 and %d", len(elements), maxSlots)
	}
}

func TestScatterElementsWorkerCountInvariant(t *testing.T) {
	net, buildings, cfg := scatterFixture(t)

	cfg.Citygen.Element.Workers = 1
	serial, _ := ScatterElements(net, buildings, cfg, 42)
	cfg.Citygen.Element.Workers = 4
	parallel, _ := ScatterElements(net, buildings, cfg, 42)

	if len(serial) != len(parallel) {
		t.Fatalf("worker counts produced %d vs %d elements", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("element %d differs across worker counts: %+v vs %+v", i, serial[i], parallel[i])
		}
	}
}

func TestScatterElementsUnknownBandCategory(t *testing.T) {
	net, buildings, cfg := scatterFixture(t)
	cfg.Citygen.Element.Bands = append(cfg.Citygen.Element.Bands,
		config.BandConfig{Name: "fountains", Offset: 24, Categories: []string{"water"}})

	_, report := ScatterElements(net, buildings, cfg, 42)

	found := false
	for _, w := range report.Warnings {
		if w.Field == "citygen.element.bands" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a warning for the band with no matching templates")
	}
}
