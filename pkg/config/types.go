// Package config holds the generation parameters and the building and
// element catalogs consumed by the layout pipeline. A Config is an
// immutable value passed into each generator call; nothing here is
// process-wide state, so multiple layouts can be generated concurrently
// from different configs.
package config

import "github.com/maitrix-org/simworld/pkg/geo"

// Config is the top-level configuration document.
type Config struct {
	Citygen  Citygen  `yaml:"citygen" json:"citygen"`
	Catalogs Catalogs `yaml:"catalogs" json:"catalogs"`
}

// Citygen groups the numeric generation parameters.
type Citygen struct {
	// Seed drives all random draws. Zero selects a time-based seed.
	Seed     int64          `yaml:"seed" json:"seed"`
	Quadtree QuadtreeConfig `yaml:"quadtree" json:"quadtree"`
	Road     RoadConfig     `yaml:"road" json:"road"`
	Building BuildingConfig `yaml:"building" json:"building"`
	Element  ElementConfig  `yaml:"element" json:"element"`
	Route    RouteConfig    `yaml:"route" json:"route"`
}

// QuadtreeConfig bounds the world and tunes the spatial index.
type QuadtreeConfig struct {
	Bounds     BoundsDef `yaml:"bounds" json:"bounds"`
	MaxObjects int       `yaml:"max_objects" json:"max_objects"`
	MaxLevels  int       `yaml:"max_levels" json:"max_levels"`
}

// BoundsDef is an axis-aligned world region.
type BoundsDef struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Rect returns the bounds as a geo.Rect.
func (b BoundsDef) Rect() geo.Rect {
	return geo.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// RoadConfig tunes road-tree growth.
type RoadConfig struct {
	SegmentLength     float64 `yaml:"segment_length" json:"segment_length"`
	SegmentCountLimit int     `yaml:"segment_count_limit" json:"segment_count_limit"`
	// SnapDistance is the attachment radius: a proposed endpoint within
	// this distance of an existing node is rewritten to that node.
	SnapDistance float64 `yaml:"snap_distance" json:"snap_distance"`
	// MinimumIntersectionDeviation rejects junctions whose segments
	// would meet at less than this angular deviation, in degrees.
	MinimumIntersectionDeviation float64 `yaml:"minimum_intersection_deviation" json:"minimum_intersection_deviation"`
	BranchProbability            float64 `yaml:"branch_probability" json:"branch_probability"`
	MaxBranches                  int     `yaml:"max_branches" json:"max_branches"`
	// TurnJitter perturbs each proposed direction by up to this many
	// degrees either side.
	TurnJitter float64 `yaml:"turn_jitter" json:"turn_jitter"`
	// BranchPenalty deprioritizes frontier nodes per existing child.
	BranchPenalty   float64 `yaml:"branch_penalty" json:"branch_penalty"`
	HighwayWidth    float64 `yaml:"highway_width" json:"highway_width"`
	StreetWidth     float64 `yaml:"street_width" json:"street_width"`
	IgnoreConflicts bool    `yaml:"ignore_conflicts" json:"ignore_conflicts"`
	OnlyHighway     bool    `yaml:"only_highway" json:"only_highway"`
	TwoSegmentInit  bool    `yaml:"two_segment_init" json:"two_segment_init"`
}

// BuildingConfig tunes building placement along road segments.
type BuildingConfig struct {
	// RoadDistance is the margin from a road centerline to the nearest
	// building wall.
	RoadDistance float64 `yaml:"road_distance" json:"road_distance"`
	// IntersectionDistance keeps both ends of a segment clear.
	IntersectionDistance     float64 `yaml:"intersection_distance" json:"intersection_distance"`
	BuildingBuildingDistance float64 `yaml:"building_building_distance" json:"building_building_distance"`
	// CursorStep is how far the cursor advances after a failed fit.
	CursorStep float64 `yaml:"cursor_step" json:"cursor_step"`
	// MaxRetries bounds consecutive failed fits before the side falls
	// through to gap filling.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`
}

// ElementConfig tunes street-element scatter.
type ElementConfig struct {
	// ElementElementDistance is the slot pitch along sidewalk bands.
	ElementElementDistance   float64      `yaml:"element_element_distance" json:"element_element_distance"`
	AroundBuildingCandidates int          `yaml:"around_building_candidates" json:"around_building_candidates"`
	AroundBuildingRadius     float64      `yaml:"around_building_radius" json:"around_building_radius"`
	Bands                    []BandConfig `yaml:"bands" json:"bands"`
	// Workers bounds the scatter worker pool.
	Workers int `yaml:"workers" json:"workers"`
}

// RouteConfig tunes waypoint route generation over the road network.
type RouteConfig struct {
	MinPointsPerRoute int `yaml:"min_points_per_route" json:"min_points_per_route"`
	MaxPointsPerRoute int `yaml:"max_points_per_route" json:"max_points_per_route"`
}

// BandConfig is one sidewalk distance band with its own category set.
type BandConfig struct {
	Name string `yaml:"name" json:"name"`
	// Offset is the band's distance from the road centerline.
	Offset     float64  `yaml:"offset" json:"offset"`
	Categories []string `yaml:"categories" json:"categories"`
}

// Catalogs holds the placement templates.
type Catalogs struct {
	Buildings []BuildingTemplate `yaml:"buildings" json:"buildings"`
	Elements  []ElementTemplate  `yaml:"elements" json:"elements"`
}

// BuildingTemplate is a building footprint with a selection weight.
type BuildingTemplate struct {
	Name   string  `yaml:"name" json:"name"`
	Width  float64 `yaml:"width" json:"width"`
	Depth  float64 `yaml:"depth" json:"depth"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// ElementTemplate is a street-element footprint. Density is the
// per-candidate placement probability for its category.
type ElementTemplate struct {
	Name     string  `yaml:"name" json:"name"`
	Width    float64 `yaml:"width" json:"width"`
	Depth    float64 `yaml:"depth" json:"depth"`
	Category string  `yaml:"category" json:"category"`
	Density  float64 `yaml:"density" json:"density"`
}

// ElementsInCategories returns the element templates whose category is
// in the given set.
func (c Catalogs) ElementsInCategories(categories []string) []ElementTemplate {
	var out []ElementTemplate
	for _, e := range c.Elements {
		for _, cat := range categories {
			if e.Category == cat {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
