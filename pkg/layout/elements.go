package layout

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/quadtree"
	"github.com/maitrix-org/simworld/pkg/validation"
)

// scatterZone is one independent unit of element scatter work: either
// the surround of a single building or one sidewalk band of a single
// segment. Zones are seeded individually so scatter output does not
// depend on worker scheduling.
type scatterZone struct {
	building int // index into buildings, or -1
	segID    int // segment ID, or -1
	band     config.BandConfig
	pool     []config.ElementTemplate
}

// ScatterElements scatters street elements around buildings and along
// sidewalk bands. Zones run on a bounded worker pool; each zone owns a
// rand source derived from the master seed and its zone index, and
// results are merged in zone order, so output is deterministic for a
// given seed regardless of worker count.
func ScatterElements(net *RoadNetwork, buildings []Building, cfg *config.Config, masterSeed int64) ([]StreetElement, *validation.Report) {
	report := validation.NewReport()
	ecfg := cfg.Citygen.Element

	zones := buildScatterZones(net, buildings, cfg, report)
	if len(zones) == 0 {
		return nil, report
	}

	s := &scatterer{
		net:       net,
		buildings: buildings,
		cfg:       ecfg,
		bIndex: quadtree.New[int](net.Bounds(),
			cfg.Citygen.Quadtree.MaxObjects, cfg.Citygen.Quadtree.MaxLevels),
	}
	for i, b := range buildings {
		s.bIndex.Insert(b.Footprint.AABB(), i)
	}

	workers := ecfg.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([][]StreetElement, len(zones))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for zi := range jobs {
				rng := rand.New(rand.NewSource(masterSeed*31 + int64(zi)))
				results[zi] = s.scatter(zones[zi], rng)
			}
		}()
	}
	for zi := range zones {
		jobs <- zi
	}
	close(jobs)
	wg.Wait()

	var out []StreetElement
	for _, zone := range results {
		for _, e := range zone {
			e.ID = fmt.Sprintf("element_%05d", len(out))
			out = append(out, e)
		}
	}
	report.AddInfo(validation.Result{
		Level:   validation.LevelPlacement,
		Message: fmt.Sprintf("scattered %d street elements over %d zones", len(out), len(zones)),
	})
	return out, report
}

// buildScatterZones enumerates zones in a fixed order: one per
// building, then one per segment per band. Bands whose categories
// match no catalog entry are dropped with a warning.
func buildScatterZones(net *RoadNetwork, buildings []Building, cfg *config.Config, report *validation.Report) []scatterZone {
	var zones []scatterZone
	if len(cfg.Catalogs.Elements) > 0 {
		for i := range buildings {
			zones = append(zones, scatterZone{
				building: i,
				segID:    -1,
				pool:     cfg.Catalogs.Elements,
			})
		}
	}
	warned := map[string]bool{}
	for _, band := range cfg.Citygen.Element.Bands {
		pool := cfg.Catalogs.ElementsInCategories(band.Categories)
		if len(pool) == 0 {
			if !warned[band.Name] {
				warned[band.Name] = true
				report.AddWarning(validation.Result{
					Level:   validation.LevelPlacement,
					Message: fmt.Sprintf("band %q matches no element templates, skipping", band.Name),
					Field:   "citygen.element.bands",
				})
			}
			continue
		}
		for _, seg := range net.Segments() {
			zones = append(zones, scatterZone{
				building: -1,
				segID:    seg.ID,
				band:     band,
				pool:     pool,
			})
		}
	}
	return zones
}

type scatterer struct {
	net       *RoadNetwork
	buildings []Building
	cfg       config.ElementConfig
	bIndex    *quadtree.Tree[int]
}

func (s *scatterer) scatter(z scatterZone, rng *rand.Rand) []StreetElement {
	if z.building >= 0 {
		return s.aroundBuilding(z, rng)
	}
	return s.alongBand(z, rng)
}

// aroundBuilding samples candidate positions in the building's local
// frame, skipping the footprint itself and the road-facing strip.
func (s *scatterer) aroundBuilding(z scatterZone, rng *rand.Rand) []StreetElement {
	b := s.buildings[z.building]
	halfW := b.Footprint.Width / 2
	halfD := b.Footprint.Height / 2
	r := s.cfg.AroundBuildingRadius
	center := b.Center()
	rot := b.Rotation()
	along := geo.FromAngleDeg(rot)
	across := along.Perp()

	var placed []StreetElement
	for i := 0; i < s.cfg.AroundBuildingCandidates; i++ {
		u := (rng.Float64()*2 - 1) * (halfW + r)
		v := (rng.Float64()*2 - 1) * (halfD + r)
		t := z.pool[rng.Intn(len(z.pool))]
		if rng.Float64() >= t.Density {
			continue
		}
		// Inside the footprint, or between the building and its road.
		if u >= -halfW && u <= halfW && v >= -halfD && v <= halfD {
			continue
		}
		if b.Side == SideLeft && v < -halfD {
			continue
		}
		if b.Side == SideRight && v > halfD {
			continue
		}
		pos := center.Add(along.Scale(u)).Add(across.Scale(v))
		fp := geo.RectAround(pos, t.Width, t.Depth, rot)
		if !s.accessible(fp) {
			continue
		}
		placed = append(placed, StreetElement{
			Kind:           t.Name,
			Category:       t.Category,
			Footprint:      fp,
			AnchorBuilding: b.ID,
			AnchorSegment:  -1,
		})
	}
	return placed
}

// alongBand walks evenly pitched slots down both sides of a segment at
// the band's offset from the centerline.
func (s *scatterer) alongBand(z scatterZone, rng *rand.Rand) []StreetElement {
	seg, ok := s.net.Segment(z.segID)
	if !ok {
		return nil
	}
	g := s.net.SegmentGeometry(seg)
	length := g.Length()
	dir := g.Dir()
	normal := dir.Perp()
	angle := g.AngleDeg()
	step := s.cfg.ElementElementDistance

	var placed []StreetElement
	for _, side := range []Side{SideLeft, SideRight} {
		for d := step / 2; d < length; d += step {
			t := z.pool[rng.Intn(len(z.pool))]
			if rng.Float64() >= t.Density {
				continue
			}
			pos := g.Start.Add(dir.Scale(d)).Add(normal.Scale(side.sign() * z.band.Offset))
			fp := geo.RectAround(pos, t.Width, t.Depth, angle)
			if !s.accessible(fp) {
				continue
			}
			placed = append(placed, StreetElement{
				Kind:          t.Name,
				Category:      t.Category,
				Footprint:     fp,
				AnchorSegment: seg.ID,
				AnchorBand:    z.band.Name,
			})
		}
	}
	return placed
}

// accessible rejects footprints that leave the world, sit on paved
// road surface, or intersect a building. Elements are free to overlap
// each other.
func (s *scatterer) accessible(fp geo.Rect) bool {
	bounds := s.net.Bounds()
	for _, c := range fp.Corners() {
		if !bounds.ContainsPoint(c) {
			return false
		}
	}
	query := fp.AABB().Inflate(s.cfg.ElementElementDistance)
	for _, id := range s.net.NearbySegmentIDs(query) {
		seg, ok := s.net.Segment(id)
		if !ok {
			continue
		}
		sg := s.net.SegmentGeometry(seg)
		paved := geo.RectAround(sg.Midpoint(), sg.Length(), s.net.Width(seg), sg.AngleDeg())
		if fp.Overlaps(paved) {
			return false
		}
	}
	for _, bi := range s.bIndex.Retrieve(fp.AABB()) {
		if fp.Overlaps(s.buildings[bi].Footprint) {
			return false
		}
	}
	return true
}
