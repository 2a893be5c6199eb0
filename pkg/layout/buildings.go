package layout

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/quadtree"
	"github.com/maitrix-org/simworld/pkg/validation"
)

// PlaceBuildings walks every road segment and packs buildings along
// both sides, front wall facing the road. Placement failures are
// absorbed: a candidate that does not fit is skipped and the cursor
// moves on.
func PlaceBuildings(net *RoadNetwork, cfg *config.Config, rng *rand.Rand) ([]Building, *validation.Report) {
	report := validation.NewReport()
	templates := cfg.Catalogs.Buildings
	if len(templates) == 0 {
		report.AddWarning(validation.Result{
			Level:   validation.LevelPlacement,
			Message: "building catalog is empty, skipping building placement",
			Field:   "catalogs.buildings",
		})
		return nil, report
	}

	p := &placer{
		net:       net,
		cfg:       cfg.Citygen.Building,
		rng:       rng,
		templates: templates,
		index: quadtree.New[int](net.Bounds(),
			cfg.Citygen.Quadtree.MaxObjects, cfg.Citygen.Quadtree.MaxLevels),
	}
	for _, w := range templates {
		p.totalWeight += w.Weight
	}
	// Largest-first order for gap filling.
	p.byArea = append(p.byArea, templates...)
	sort.Slice(p.byArea, func(i, j int) bool {
		return p.byArea[i].Width*p.byArea[i].Depth > p.byArea[j].Width*p.byArea[j].Depth
	})

	for _, seg := range net.Segments() {
		p.fillSide(seg, SideLeft)
		p.fillSide(seg, SideRight)
	}

	report.AddInfo(validation.Result{
		Level:   validation.LevelPlacement,
		Message: fmt.Sprintf("placed %d buildings along %d segments", len(p.placed), net.SegmentCount()),
	})
	return p.placed, report
}

type placer struct {
	net         *RoadNetwork
	cfg         config.BuildingConfig
	rng         *rand.Rand
	templates   []config.BuildingTemplate
	byArea      []config.BuildingTemplate
	totalWeight float64
	index       *quadtree.Tree[int]
	placed      []Building
}

// draw picks a template by weight.
func (p *placer) draw() config.BuildingTemplate {
	r := p.rng.Float64() * p.totalWeight
	for _, t := range p.templates {
		r -= t.Weight
		if r < 0 {
			return t
		}
	}
	return p.templates[len(p.templates)-1]
}

// fillSide packs one side of a segment: weighted draws advance a
// cursor from one intersection margin to the other, and after too many
// consecutive misses the remaining span is gap-filled with the largest
// template that still fits.
func (p *placer) fillSide(seg RoadSegment, side Side) {
	g := p.net.SegmentGeometry(seg)
	length := g.Length()
	usable := length - 2*p.cfg.IntersectionDistance
	if usable <= 0 {
		return
	}

	cursor := p.cfg.IntersectionDistance
	limit := length - p.cfg.IntersectionDistance
	misses := 0
	for cursor < limit {
		t := p.draw()
		if cursor+t.Width > limit {
			break
		}
		if p.tryPlace(seg, g, side, cursor, t) {
			cursor += t.Width + p.cfg.BuildingBuildingDistance
			misses = 0
			continue
		}
		misses++
		cursor += p.cfg.CursorStep
		if misses > p.cfg.MaxRetries {
			break
		}
	}

	// Gap fill: one more pass from the current cursor with the
	// largest template that fits the remaining span.
	for _, t := range p.byArea {
		if cursor+t.Width > limit {
			continue
		}
		if p.tryPlace(seg, g, side, cursor, t) {
			break
		}
	}
}

// tryPlace commits a candidate footprint when it clears the world
// bounds, existing buildings, and every nearby road band.
func (p *placer) tryPlace(seg RoadSegment, g geo.Segment, side Side, cursor float64, t config.BuildingTemplate) bool {
	dir := g.Dir()
	normal := dir.Perp()
	angle := g.AngleDeg()
	along := cursor + t.Width/2
	offset := p.cfg.RoadDistance + t.Depth/2
	center := g.Start.Add(dir.Scale(along)).Add(normal.Scale(side.sign() * offset))
	fp := geo.RectAround(center, t.Width, t.Depth, angle)

	if !p.inBounds(fp) {
		return false
	}
	if p.hitsBuilding(fp) {
		return false
	}
	if p.hitsRoad(fp) {
		return false
	}

	idx := len(p.placed)
	p.placed = append(p.placed, Building{
		ID:        fmt.Sprintf("building_%05d", idx),
		Kind:      t.Name,
		Footprint: fp,
		SegmentID: seg.ID,
		Side:      side,
	})
	p.index.Insert(fp.AABB(), idx)
	return true
}

func (p *placer) inBounds(fp geo.Rect) bool {
	bounds := p.net.Bounds()
	for _, c := range fp.Corners() {
		if !bounds.ContainsPoint(c) {
			return false
		}
	}
	return true
}

// hitsBuilding checks the candidate, grown by the mutual spacing,
// against every indexed footprint. Index hits are re-tested exactly.
func (p *placer) hitsBuilding(fp geo.Rect) bool {
	grown := fp.Inflate(p.cfg.BuildingBuildingDistance)
	for _, idx := range p.index.Retrieve(grown.AABB()) {
		if grown.Overlaps(p.placed[idx].Footprint) {
			return true
		}
	}
	return false
}

// hitsRoad checks the candidate against the clearance band of every
// nearby segment. The band spans the road distance on both sides of
// the centerline, so a building at exactly the road distance touches
// the band without overlapping it.
func (p *placer) hitsRoad(fp geo.Rect) bool {
	query := fp.AABB().Inflate(p.cfg.RoadDistance)
	for _, id := range p.net.NearbySegmentIDs(query) {
		s, ok := p.net.Segment(id)
		if !ok {
			continue
		}
		sg := p.net.SegmentGeometry(s)
		band := geo.RectAround(sg.Midpoint(), sg.Length(), 2*p.cfg.RoadDistance, sg.AngleDeg())
		if fp.Overlaps(band) {
			return true
		}
	}
	return false
}
