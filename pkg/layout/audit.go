package layout

import (
	"fmt"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/validation"
)

// AuditLayout re-checks a finished layout's structural guarantees:
// planar roads, non-overlapping buildings with road clearance, and
// accessible street elements. It is a read-only pass intended for the
// validate command and for tests.
func AuditLayout(l *CityLayout, cfg *config.Config) *validation.Report {
	report := validation.NewReport()
	auditRoads(l, cfg, report)
	auditBuildings(l, cfg, report)
	auditElements(l, cfg, report)
	return report
}

func auditRoads(l *CityLayout, cfg *config.Config, report *validation.Report) {
	segs := make([]geo.Segment, 0, len(l.Segments))
	ids := make([]int, 0, len(l.Segments))
	for _, s := range l.Segments {
		g, ok := l.SegmentGeometry(s)
		if !ok {
			report.AddError(validation.Result{
				Level:   validation.LevelSpatial,
				Message: fmt.Sprintf("segment %d references a missing node", s.ID),
			})
			continue
		}
		segs = append(segs, g)
		ids = append(ids, s.ID)
	}
	if cfg.Citygen.Road.IgnoreConflicts {
		return
	}
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if _, _, hit := geo.Intersection(segs[i], segs[j], crossingBuffer); hit {
				report.AddError(validation.Result{
					Level:   validation.LevelSpatial,
					Message: fmt.Sprintf("segments %d and %d cross", ids[i], ids[j]),
				})
			}
		}
	}

	// A road tree stays connected: every node with at least one
	// segment should be reachable from node 0.
	if len(l.Segments) > 0 && !connected(l) {
		report.AddWarning(validation.Result{
			Level:   validation.LevelSpatial,
			Message: "road network is not a single connected component",
		})
	}
}

func connected(l *CityLayout) bool {
	adj := map[int][]int{}
	inUse := map[int]bool{}
	for _, s := range l.Segments {
		adj[s.From] = append(adj[s.From], s.To)
		adj[s.To] = append(adj[s.To], s.From)
		inUse[s.From] = true
		inUse[s.To] = true
	}
	start := l.Segments[0].From
	seen := map[int]bool{start: true}
	stack := []int{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range adj[n] {
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return len(seen) == len(inUse)
}

func auditBuildings(l *CityLayout, cfg *config.Config, report *validation.Report) {
	for i := 0; i < len(l.Buildings); i++ {
		for j := i + 1; j < len(l.Buildings); j++ {
			if l.Buildings[i].Footprint.Overlaps(l.Buildings[j].Footprint) {
				report.AddError(validation.Result{
					Level:   validation.LevelSpatial,
					Message: fmt.Sprintf("buildings %s and %s overlap", l.Buildings[i].ID, l.Buildings[j].ID),
				})
			}
		}
	}
	clearance := cfg.Citygen.Building.RoadDistance
	for _, s := range l.Segments {
		g, ok := l.SegmentGeometry(s)
		if !ok {
			continue
		}
		band := geo.RectAround(g.Midpoint(), g.Length(), 2*clearance, g.AngleDeg())
		for _, b := range l.Buildings {
			if b.Footprint.Overlaps(band) {
				report.AddError(validation.Result{
					Level:   validation.LevelSpatial,
					Message: fmt.Sprintf("building %s intrudes on the clearance band of segment %d", b.ID, s.ID),
				})
			}
		}
	}
}

func auditElements(l *CityLayout, cfg *config.Config, report *validation.Report) {
	road := cfg.Citygen.Road
	for _, s := range l.Segments {
		g, ok := l.SegmentGeometry(s)
		if !ok {
			continue
		}
		width := road.StreetWidth
		if s.Highway {
			width = road.HighwayWidth
		}
		paved := geo.RectAround(g.Midpoint(), g.Length(), width, g.AngleDeg())
		for _, e := range l.Elements {
			if e.Footprint.Overlaps(paved) {
				report.AddError(validation.Result{
					Level:   validation.LevelSpatial,
					Message: fmt.Sprintf("element %s sits on the paved surface of segment %d", e.ID, s.ID),
				})
			}
		}
	}
	for _, e := range l.Elements {
		for _, b := range l.Buildings {
			if e.Footprint.Overlaps(b.Footprint) {
				report.AddError(validation.Result{
					Level:   validation.LevelSpatial,
					Message: fmt.Sprintf("element %s intersects building %s", e.ID, b.ID),
				})
			}
		}
	}
}
