package layout

import (
	"testing"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
)

func emptyNetwork() *RoadNetwork {
	cfg := config.Default()
	return NewRoadNetwork(cfg.Citygen.Quadtree, cfg.Citygen.Road)
}

func TestAddSegmentCreatesNodes(t *testing.T) {
	net := emptyNetwork()
	id := net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)

	if id < 0 {
		t.Fatal("AddSegment failed")
	}
	if net.NodeCount() != 2 {
		t.Fatalf("got %d nodes, want 2", net.NodeCount())
	}
	if net.SegmentCount() != 1 {
		t.Fatalf("got %d segments, want 1", net.SegmentCount())
	}
}

func TestAddSegmentSnapsToExistingNode(t *testing.T) {
	net := emptyNetwork()
	net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)

	// Start within snap distance of the (100, 0) node.
	net.AddSegment(geo.Pt(110, 5), geo.Pt(100, 150), false)

	if net.NodeCount() != 3 {
		t.Fatalf("got %d nodes, want 3 after snapping", net.NodeCount())
	}
	shared := net.findNearbyNode(geo.Pt(100, 0))
	if net.degree(shared) != 2 {
		t.Fatalf("shared node has degree %d, want 2", net.degree(shared))
	}
	node, _ := net.Node(shared)
	if node.Kind != NodeBranch {
		t.Fatalf("shared node has kind %q, want %q", node.Kind, NodeBranch)
	}
}

func TestAddSegmentDegenerateLeavesNoOrphan(t *testing.T) {
	net := emptyNetwork()

	// Both endpoints within one snap distance of each other would
	// collapse onto a single node.
	if id := net.AddSegment(geo.Pt(0, 0), geo.Pt(10, 0), false); id != -1 {
		t.Fatalf("got segment %d for a degenerate span, want -1", id)
	}
	if net.NodeCount() != 0 {
		t.Fatalf("degenerate AddSegment left %d orphan nodes", net.NodeCount())
	}

	// Same when both endpoints snap to one existing node.
	net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)
	if id := net.AddSegment(geo.Pt(95, 5), geo.Pt(105, -5), false); id != -1 {
		t.Fatalf("got segment %d for a span inside one snap radius, want -1", id)
	}
	if net.NodeCount() != 2 {
		t.Fatalf("got %d nodes, want 2", net.NodeCount())
	}
}

func TestRemoveSegment(t *testing.T) {
	net := emptyNetwork()
	id := net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)

	if !net.RemoveSegment(id) {
		t.Fatal("RemoveSegment returned false for a live segment")
	}
	if net.SegmentCount() != 0 {
		t.Fatalf("got %d segments after removal", net.SegmentCount())
	}
	if net.RemoveSegment(id) {
		t.Fatal("RemoveSegment returned true for an already removed segment")
	}
	// Node IDs stay stable even when orphaned.
	if net.NodeCount() != 2 {
		t.Fatalf("got %d nodes after removal, want 2", net.NodeCount())
	}
}

func TestRemoveSegmentDropsFromIndex(t *testing.T) {
	net := emptyNetwork()
	id := net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)
	net.RemoveSegment(id)

	hits := net.NearbySegmentIDs(geo.Rect{X: -50, Y: -50, Width: 200, Height: 100})
	for _, h := range hits {
		if h == id {
			t.Fatal("removed segment still retrievable from the spatial index")
		}
	}
}

func TestModifySegmentMovesPrivateEndpoint(t *testing.T) {
	net := emptyNetwork()
	id := net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)

	if !net.ModifySegment(id, geo.Pt(0, 0), geo.Pt(100, 80)) {
		t.Fatal("ModifySegment returned false")
	}
	if net.NodeCount() != 2 {
		t.Fatalf("got %d nodes, want 2: a private endpoint should move in place", net.NodeCount())
	}
	s, _ := net.Segment(id)
	g := net.SegmentGeometry(s)
	if g.End != geo.Pt(100, 80) {
		t.Fatalf("segment end is %+v, want (100, 80)", g.End)
	}
}

func TestModifySegmentPreservesSharedEndpoint(t *testing.T) {
	net := emptyNetwork()
	first := net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), false)
	net.AddSegment(geo.Pt(100, 0), geo.Pt(100, 150), false)

	net.ModifySegment(first, geo.Pt(0, 0), geo.Pt(200, 60))

	// The junction node must keep its position for the neighbour.
	other, _ := net.Segment(first + 1)
	g := net.SegmentGeometry(other)
	if g.Start != geo.Pt(100, 0) {
		t.Fatalf("neighbour segment moved: start is %+v, want (100, 0)", g.Start)
	}
	if net.NodeCount() != 4 {
		t.Fatalf("got %d nodes, want 4: shared endpoint should fork a new node", net.NodeCount())
	}
}

func TestNetworkFromLayoutRoundTrip(t *testing.T) {
	net := emptyNetwork()
	net.AddSegment(geo.Pt(0, 0), geo.Pt(100, 0), true)
	net.AddSegment(geo.Pt(100, 0), geo.Pt(100, 150), false)

	cfg := config.Default()
	layout := net.Layout(7)
	rebuilt := NetworkFromLayout(layout, cfg.Citygen.Quadtree, cfg.Citygen.Road)

	if rebuilt.NodeCount() != net.NodeCount() {
		t.Fatalf("rebuilt network has %d nodes, want %d", rebuilt.NodeCount(), net.NodeCount())
	}
	if rebuilt.SegmentCount() != net.SegmentCount() {
		t.Fatalf("rebuilt network has %d segments, want %d", rebuilt.SegmentCount(), net.SegmentCount())
	}
	added := rebuilt.AddSegment(geo.Pt(100, 150), geo.Pt(250, 150), false)
	if _, ok := net.Segment(added); ok {
		t.Fatal("rebuilt network reused a live segment ID")
	}
}
