package layout

import (
	"math"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/quadtree"
)

// RoadNetwork is the mutable road graph used during growth and manual
// editing. Nodes are append-only (node ID equals slice index); segments
// may be removed, so they live in a map keyed by a stable ID, with a
// creation-order list for deterministic iteration.
type RoadNetwork struct {
	nodes    []RoadNode
	segments map[int]RoadSegment
	segOrder []int
	// segRects remembers the rect each segment was indexed under, so a
	// later Remove can hand the quadtree the exact same rect.
	segRects  map[int]geo.Rect
	nextSegID int

	index    *quadtree.Tree[int]
	roadCfg  config.RoadConfig
	worldCfg config.QuadtreeConfig
}

// NewRoadNetwork returns an empty network indexed over the configured
// world bounds.
func NewRoadNetwork(qt config.QuadtreeConfig, road config.RoadConfig) *RoadNetwork {
	return &RoadNetwork{
		segments: make(map[int]RoadSegment),
		segRects: make(map[int]geo.Rect),
		index:    quadtree.New[int](qt.Bounds.Rect(), qt.MaxObjects, qt.MaxLevels),
		roadCfg:  road,
		worldCfg: qt,
	}
}

// Bounds returns the world bounds the network is indexed over.
func (n *RoadNetwork) Bounds() geo.Rect {
	return n.worldCfg.Bounds.Rect()
}

// NodeCount reports how many nodes the network holds.
func (n *RoadNetwork) NodeCount() int { return len(n.nodes) }

// SegmentCount reports how many segments the network holds.
func (n *RoadNetwork) SegmentCount() int { return len(n.segments) }

// Node returns the node with the given ID.
func (n *RoadNetwork) Node(id int) (RoadNode, bool) {
	if id < 0 || id >= len(n.nodes) {
		return RoadNode{}, false
	}
	return n.nodes[id], true
}

// Segment returns the segment with the given ID.
func (n *RoadNetwork) Segment(id int) (RoadSegment, bool) {
	s, ok := n.segments[id]
	return s, ok
}

// Nodes returns a copy of all nodes in creation order.
func (n *RoadNetwork) Nodes() []RoadNode {
	out := make([]RoadNode, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Segments returns all segments in creation order. IDs may be sparse
// after removals.
func (n *RoadNetwork) Segments() []RoadSegment {
	out := make([]RoadSegment, 0, len(n.segments))
	for _, id := range n.segOrder {
		if s, ok := n.segments[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// SegmentGeometry returns a segment's geometry.
func (n *RoadNetwork) SegmentGeometry(s RoadSegment) geo.Segment {
	return geo.Seg(n.nodes[s.From].Position, n.nodes[s.To].Position)
}

// Width returns a segment's paved width.
func (n *RoadNetwork) Width(s RoadSegment) float64 {
	if s.Highway {
		return n.roadCfg.HighwayWidth
	}
	return n.roadCfg.StreetWidth
}

// degree counts segments incident to a node.
func (n *RoadNetwork) degree(nodeID int) int {
	d := 0
	for _, id := range n.segOrder {
		s, ok := n.segments[id]
		if !ok {
			continue
		}
		if s.From == nodeID || s.To == nodeID {
			d++
		}
	}
	return d
}

// segmentBounds is the rect a segment is indexed under: its axis-
// aligned bounds inflated by the snap distance, so endpoint queries
// within snapping range still hit it.
func (n *RoadNetwork) segmentBounds(g geo.Segment) geo.Rect {
	minX := math.Min(g.Start.X, g.End.X)
	minY := math.Min(g.Start.Y, g.End.Y)
	w := math.Abs(g.End.X - g.Start.X)
	h := math.Abs(g.End.Y - g.Start.Y)
	r := geo.Rect{X: minX, Y: minY, Width: w, Height: h}
	return r.Inflate(n.roadCfg.SnapDistance)
}

// NearbySegmentIDs returns candidate segment IDs whose indexed bounds
// intersect the query region. The result may include false positives;
// callers re-test geometry.
func (n *RoadNetwork) NearbySegmentIDs(region geo.Rect) []int {
	return n.index.Retrieve(region)
}

// findNearbyNode returns the closest existing node within the snap
// distance of p, or -1.
func (n *RoadNetwork) findNearbyNode(p geo.Point2D) int {
	best := -1
	bestDist := n.roadCfg.SnapDistance
	for i := range n.nodes {
		d := n.nodes[i].Position.Distance(p)
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// addNode appends a node and returns its ID.
func (n *RoadNetwork) addNode(pos, dir geo.Point2D, depth int, kind NodeKind) int {
	id := len(n.nodes)
	n.nodes = append(n.nodes, RoadNode{
		ID:        id,
		Position:  pos,
		Direction: dir,
		Depth:     depth,
		Kind:      kind,
	})
	return id
}

// addSegment links two existing nodes and indexes the edge. It updates
// the endpoints' kinds from their new degrees.
func (n *RoadNetwork) addSegment(from, to int, highway bool) int {
	id := n.nextSegID
	n.nextSegID++
	s := RoadSegment{ID: id, From: from, To: to, Highway: highway}
	n.segments[id] = s
	n.segOrder = append(n.segOrder, id)
	rect := n.segmentBounds(n.SegmentGeometry(s))
	n.segRects[id] = rect
	n.index.Insert(rect, id)
	n.refreshKind(from)
	n.refreshKind(to)
	return id
}

// refreshKind recomputes a non-root node's kind from its degree.
func (n *RoadNetwork) refreshKind(nodeID int) {
	if n.nodes[nodeID].Kind == NodeRoot {
		return
	}
	if n.degree(nodeID) > 1 {
		n.nodes[nodeID].Kind = NodeBranch
	} else {
		n.nodes[nodeID].Kind = NodeLeaf
	}
}

// AddSegment adds a road between two positions, reusing existing nodes
// within the snap distance of either endpoint. It returns the new
// segment's ID, or -1 when both endpoints resolve to the same node.
// Degenerate calls allocate no nodes.
func (n *RoadNetwork) AddSegment(start, end geo.Point2D, highway bool) int {
	from := n.findNearbyNode(start)
	to := n.findNearbyNode(end)
	if from >= 0 && from == to {
		return -1
	}
	if from < 0 && to < 0 && start.Distance(end) <= n.roadCfg.SnapDistance {
		// A node created at start would capture end too.
		return -1
	}
	dir := end.Sub(start).Normalize()
	if from < 0 {
		from = n.addNode(start, dir, 0, NodeLeaf)
	}
	if to < 0 {
		to = n.addNode(end, dir, n.nodes[from].Depth+1, NodeLeaf)
	}
	return n.addSegment(from, to, highway)
}

// RemoveSegment deletes a segment. Orphaned nodes stay in place so node
// IDs remain stable.
func (n *RoadNetwork) RemoveSegment(id int) bool {
	s, ok := n.segments[id]
	if !ok {
		return false
	}
	n.index.Remove(n.segRects[id], id)
	delete(n.segments, id)
	delete(n.segRects, id)
	for i, sid := range n.segOrder {
		if sid == id {
			n.segOrder = append(n.segOrder[:i], n.segOrder[i+1:]...)
			break
		}
	}
	n.refreshKind(s.From)
	n.refreshKind(s.To)
	return true
}

// ModifySegment moves a segment's endpoints. Endpoint nodes that no
// other segment shares are moved in place; shared nodes are left alone
// and the segment is re-pointed at fresh nodes, so neighbours keep
// their geometry.
func (n *RoadNetwork) ModifySegment(id int, start, end geo.Point2D) bool {
	s, ok := n.segments[id]
	if !ok {
		return false
	}
	n.index.Remove(n.segRects[id], id)

	s.From = n.retarget(s.From, start, s)
	s.To = n.retarget(s.To, end, s)
	n.segments[id] = s

	rect := n.segmentBounds(n.SegmentGeometry(s))
	n.segRects[id] = rect
	n.index.Insert(rect, id)
	n.refreshKind(s.From)
	n.refreshKind(s.To)
	return true
}

// retarget moves a private endpoint node, or allocates a new node when
// the endpoint is shared with other segments.
func (n *RoadNetwork) retarget(nodeID int, pos geo.Point2D, s RoadSegment) int {
	if n.nodes[nodeID].Position == pos {
		return nodeID
	}
	if n.degree(nodeID) <= 1 && n.nodes[nodeID].Kind != NodeRoot {
		n.nodes[nodeID].Position = pos
		return nodeID
	}
	return n.addNode(pos, n.nodes[nodeID].Direction, n.nodes[nodeID].Depth, NodeLeaf)
}

// Layout snapshots the network into a CityLayout with no buildings or
// elements.
func (n *RoadNetwork) Layout(seed int64) *CityLayout {
	return &CityLayout{
		Seed:     seed,
		Nodes:    n.Nodes(),
		Segments: n.Segments(),
	}
}

// NetworkFromLayout rebuilds a mutable road network from a saved
// layout so generation can resume on top of it.
func NetworkFromLayout(l *CityLayout, qt config.QuadtreeConfig, road config.RoadConfig) *RoadNetwork {
	n := NewRoadNetwork(qt, road)
	n.nodes = make([]RoadNode, len(l.Nodes))
	copy(n.nodes, l.Nodes)
	for _, s := range l.Segments {
		n.segments[s.ID] = s
		n.segOrder = append(n.segOrder, s.ID)
		rect := n.segmentBounds(n.SegmentGeometry(s))
		n.segRects[s.ID] = rect
		n.index.Insert(rect, s.ID)
		if s.ID >= n.nextSegID {
			n.nextSegID = s.ID + 1
		}
	}
	return n
}
