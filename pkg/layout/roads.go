package layout

import (
	"fmt"
	"math/rand"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/validation"
)

// crossingBuffer excludes near-endpoint grazes from the crossing test,
// so segments meeting at a shared node are not reported as conflicts.
const crossingBuffer = 0.001

// GrowRoads grows a road tree from the center of the world bounds
// until the segment budget is spent or the frontier runs dry. Growth
// is fully determined by the rng.
func GrowRoads(cfg *config.Config, rng *rand.Rand) (*RoadNetwork, *validation.Report) {
	report := validation.NewReport()
	road := cfg.Citygen.Road
	net := NewRoadNetwork(cfg.Citygen.Quadtree, road)

	bounds := net.Bounds()
	center := geo.Pt(bounds.X+bounds.Width/2, bounds.Y+bounds.Height/2)
	rootDir := geo.FromAngleDeg(rng.Float64() * 360)
	root := net.addNode(center, rootDir, 0, NodeRoot)

	g := grower{net: net, cfg: road, rng: rng, frontier: newFrontier()}
	g.seed(root, rootDir)

	for !g.frontier.empty() && net.SegmentCount() < road.SegmentCountLimit {
		g.step()
	}

	if net.SegmentCount() < road.SegmentCountLimit {
		report.AddWarning(validation.Result{
			Level:    validation.LevelGrowth,
			Message:  "road growth exhausted the frontier before the segment budget",
			Field:    "citygen.road.segment_count_limit",
			Actual:   fmt.Sprintf("%d segments", net.SegmentCount()),
			Expected: fmt.Sprintf("%d segments", road.SegmentCountLimit),
		})
	}
	report.AddInfo(validation.Result{
		Level:   validation.LevelGrowth,
		Message: fmt.Sprintf("grew %d road segments over %d nodes", net.SegmentCount(), net.NodeCount()),
	})
	return net, report
}

type grower struct {
	net      *RoadNetwork
	cfg      config.RoadConfig
	rng      *rand.Rand
	frontier *frontier
}

// seed lays the initial segments from the root. With two-segment init
// the root grows in both directions at once, which keeps the city from
// lopsiding toward the first random heading.
func (g *grower) seed(root int, dir geo.Point2D) {
	if g.cfg.SegmentCountLimit < 1 {
		return
	}
	g.extend(root, dir, true)
	if g.cfg.TwoSegmentInit && g.net.SegmentCount() < g.cfg.SegmentCountLimit {
		g.extend(root, dir.Scale(-1), true)
	}
}

// step pops one frontier entry, spends one of its proposals, and
// re-queues whatever proposals remain.
func (g *grower) step() {
	e := g.frontier.pop()
	if e == nil {
		return
	}
	node := g.net.nodes[e.nodeID]

	var dir geo.Point2D
	highway := false
	switch {
	case e.made == 0:
		// First proposal continues the incoming direction and keeps
		// the road class.
		dir = node.Direction
		highway = g.isHighwayNode(e.nodeID)
	case e.made%2 == 1:
		dir = node.Direction.Rotate(90)
	default:
		dir = node.Direction.Rotate(-90)
	}
	jitter := (g.rng.Float64()*2 - 1) * g.cfg.TurnJitter
	dir = dir.Rotate(jitter).Normalize()

	g.extend(e.nodeID, dir, highway)

	e.remaining--
	e.made++
	if e.remaining > 0 {
		priority := float64(node.Depth) + g.cfg.BranchPenalty*float64(e.made)
		g.frontier.push(e.nodeID, priority, e.remaining, e.made)
	}
}

// isHighwayNode reports whether any segment incident to the node is a
// highway, so straight continuations inherit the class.
func (g *grower) isHighwayNode(nodeID int) bool {
	if g.net.nodes[nodeID].Kind == NodeRoot {
		return true
	}
	for _, s := range g.net.Segments() {
		if (s.From == nodeID || s.To == nodeID) && s.Highway {
			return true
		}
	}
	return false
}

// extend tries to grow one segment from a node in the given direction.
// The proposal is dropped when it leaves the world, crosses an existing
// segment, or snaps onto a junction at too shallow an angle.
func (g *grower) extend(fromID int, dir geo.Point2D, highway bool) {
	from := g.net.nodes[fromID]
	end := from.Position.Add(dir.Scale(g.cfg.SegmentLength))

	if !g.net.Bounds().ContainsPoint(end) {
		return
	}

	attached := g.net.findNearbyNode(end)
	toID := attached
	if attached == fromID {
		return
	}
	if attached >= 0 {
		end = g.net.nodes[attached].Position
		if !g.junctionAngleOK(attached, geo.Seg(from.Position, end)) {
			return
		}
	}

	proposed := geo.Seg(from.Position, end)
	if !g.cfg.IgnoreConflicts && g.crosses(proposed, fromID, attached) {
		return
	}

	if toID < 0 {
		toID = g.net.addNode(end, dir, from.Depth+1, NodeLeaf)
		g.pushNew(toID)
	}
	if g.hasEdge(fromID, toID) {
		return
	}
	g.net.addSegment(fromID, toID, highway)
}

// pushNew queues a freshly created node on the frontier with one
// straight proposal plus randomly drawn branch proposals.
func (g *grower) pushNew(nodeID int) {
	extras := 0
	if !g.cfg.OnlyHighway {
		for i := 1; i < g.cfg.MaxBranches; i++ {
			if g.rng.Float64() < g.cfg.BranchProbability {
				extras++
			}
		}
	}
	depth := g.net.nodes[nodeID].Depth
	g.frontier.push(nodeID, float64(depth), 1+extras, 0)
}

// junctionAngleOK checks the minimum angular deviation between the
// proposed segment and every segment already meeting at the junction.
func (g *grower) junctionAngleOK(nodeID int, proposed geo.Segment) bool {
	angle := proposed.AngleDeg()
	for _, s := range g.net.Segments() {
		if s.From != nodeID && s.To != nodeID {
			continue
		}
		existing := g.net.SegmentGeometry(s)
		if geo.MinDegreeDifference(angle, existing.AngleDeg()) < g.cfg.MinimumIntersectionDeviation {
			return false
		}
	}
	return true
}

// crosses reports whether the proposed segment intersects any existing
// segment not incident to its endpoints. Candidates come from the
// spatial index and are re-tested exactly.
func (g *grower) crosses(proposed geo.Segment, fromID, toID int) bool {
	region := g.net.segmentBounds(proposed)
	for _, id := range g.net.NearbySegmentIDs(region) {
		s, ok := g.net.Segment(id)
		if !ok {
			continue
		}
		if s.From == fromID || s.To == fromID {
			continue
		}
		if toID >= 0 && (s.From == toID || s.To == toID) {
			continue
		}
		if _, _, hit := geo.Intersection(proposed, g.net.SegmentGeometry(s), crossingBuffer); hit {
			return true
		}
	}
	return false
}

// hasEdge reports whether the two nodes are already directly linked.
func (g *grower) hasEdge(a, b int) bool {
	for _, s := range g.net.Segments() {
		if (s.From == a && s.To == b) || (s.From == b && s.To == a) {
			return true
		}
	}
	return false
}
