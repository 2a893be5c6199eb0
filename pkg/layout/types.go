// Package layout implements the city layout generation pipeline: road
// tree growth, building placement along the road network, and street
// element scatter. Generators are deterministic under a fixed seed.
package layout

import "github.com/maitrix-org/simworld/pkg/geo"

// NodeKind tags a road node's role in the road tree.
type NodeKind string

const (
	NodeRoot   NodeKind = "root"
	NodeBranch NodeKind = "branch"
	NodeLeaf   NodeKind = "leaf"
)

// RoadNode is a vertex of the road graph. Nodes are created during
// growth and never move afterward; the only creation-time rewrite is
// endpoint attachment, which reuses an existing node instead of
// creating a new one.
type RoadNode struct {
	ID        int         `json:"id"`
	Position  geo.Point2D `json:"position"`
	Direction geo.Point2D `json:"direction"` // unit vector of the incoming segment
	Depth     int         `json:"depth"`     // segments from the root
	Kind      NodeKind    `json:"kind"`
}

// RoadSegment is an edge between two road nodes. The ID is stable for
// the lifetime of the network, including across removals of other
// segments.
type RoadSegment struct {
	ID      int  `json:"id"`
	From    int  `json:"from"`
	To      int  `json:"to"`
	Highway bool `json:"highway"`
}

// Side distinguishes the two sides of a road segment, looking along
// its direction.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// sign returns +1 for the left side (along the direction's
// counterclockwise normal) and -1 for the right.
func (s Side) sign() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

// Building is a placed building footprint. Buildings are created once
// and read-only afterward.
type Building struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"` // catalog template name
	Footprint geo.Rect `json:"footprint"`
	SegmentID int      `json:"segment_id"` // road it was generated against
	Side      Side     `json:"side"`
}

// Center returns the footprint center.
func (b Building) Center() geo.Point2D {
	return b.Footprint.Center()
}

// Rotation returns the footprint's rotation in degrees.
func (b Building) Rotation() float64 {
	return b.Footprint.Rotation
}

// StreetElement is a small placed object (vegetation, furniture,
// parked vehicle). AnchorSegment is -1 for building-anchored elements.
type StreetElement struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`     // catalog template name
	Category       string   `json:"category"` // catalog category
	Footprint      geo.Rect `json:"footprint"`
	AnchorBuilding string   `json:"anchor_building,omitempty"`
	AnchorSegment  int      `json:"anchor_segment"`
	AnchorBand     string   `json:"anchor_band,omitempty"`
}

// Center returns the element's position.
func (e StreetElement) Center() geo.Point2D {
	return e.Footprint.Center()
}

// Rotation returns the element's rotation in degrees.
func (e StreetElement) Rotation() float64 {
	return e.Footprint.Rotation
}

// CityLayout is the aggregate output of the generation pipeline and
// the unit of export/import. Downstream consumers treat it as an
// immutable snapshot.
type CityLayout struct {
	Seed      int64           `json:"seed"`
	Nodes     []RoadNode      `json:"nodes"`
	Segments  []RoadSegment   `json:"segments"`
	Buildings []Building      `json:"buildings"`
	Elements  []StreetElement `json:"elements"`
}

// SegmentGeometry returns the geometry of a segment in the layout, or
// false if either endpoint is missing.
func (l *CityLayout) SegmentGeometry(s RoadSegment) (geo.Segment, bool) {
	from, okF := l.nodeByID(s.From)
	to, okT := l.nodeByID(s.To)
	if !okF || !okT {
		return geo.Segment{}, false
	}
	return geo.Seg(from.Position, to.Position), true
}

func (l *CityLayout) nodeByID(id int) (RoadNode, bool) {
	if id >= 0 && id < len(l.Nodes) && l.Nodes[id].ID == id {
		return l.Nodes[id], true
	}
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return RoadNode{}, false
}
