package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigError reports an invalid or missing generation parameter. It is
// raised before generation starts; generation never begins with a bad
// config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load reads a configuration from a YAML file. Defaults are applied
// first, so a file only needs to name the values it overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// LoadProject loads a configuration from a project directory. It looks
// for citygen.yaml in the given directory.
func LoadProject(projectDir string) (*Config, error) {
	return Load(filepath.Join(projectDir, "citygen.yaml"))
}

// Default returns the documented default configuration, including a
// small building and element catalog.
func Default() *Config {
	return &Config{
		Citygen: Citygen{
			Seed: 42,
			Quadtree: QuadtreeConfig{
				Bounds:     BoundsDef{X: -500, Y: -500, Width: 1000, Height: 1000},
				MaxObjects: 10,
				MaxLevels:  4,
			},
			Road: RoadConfig{
				SegmentLength:                100,
				SegmentCountLimit:            200,
				SnapDistance:                 30,
				MinimumIntersectionDeviation: 30,
				BranchProbability:            0.4,
				MaxBranches:                  2,
				TurnJitter:                   15,
				BranchPenalty:                5,
				HighwayWidth:                 8,
				StreetWidth:                  6,
				TwoSegmentInit:               true,
			},
			Building: BuildingConfig{
				RoadDistance:             25,
				IntersectionDistance:     40,
				BuildingBuildingDistance: 10,
				CursorStep:               5,
				MaxRetries:               3,
			},
			Element: ElementConfig{
				ElementElementDistance:   10,
				AroundBuildingCandidates: 12,
				AroundBuildingRadius:     20,
				Bands: []BandConfig{
					{Name: "vegetation", Offset: 12, Categories: []string{"vegetation"}},
					{Name: "furniture", Offset: 16, Categories: []string{"furniture"}},
					{Name: "parking", Offset: 20, Categories: []string{"vehicle"}},
				},
				Workers: 4,
			},
			Route: RouteConfig{
				MinPointsPerRoute: 2,
				MaxPointsPerRoute: 5,
			},
		},
		Catalogs: Catalogs{
			Buildings: []BuildingTemplate{
				{Name: "Office", Width: 40, Depth: 30, Weight: 2},
				{Name: "Apartment", Width: 30, Depth: 20, Weight: 4},
				{Name: "Shop", Width: 20, Depth: 15, Weight: 3},
				{Name: "House", Width: 15, Depth: 10, Weight: 5},
			},
			Elements: []ElementTemplate{
				{Name: "Tree", Width: 3, Depth: 3, Category: "vegetation", Density: 0.6},
				{Name: "Bush", Width: 1.5, Depth: 1.5, Category: "vegetation", Density: 0.4},
				{Name: "Bench", Width: 2, Depth: 1, Category: "furniture", Density: 0.2},
				{Name: "StreetLamp", Width: 1, Depth: 1, Category: "furniture", Density: 0.5},
				{Name: "TrashBin", Width: 1, Depth: 1, Category: "furniture", Density: 0.15},
				{Name: "Car", Width: 4.5, Depth: 2, Category: "vehicle", Density: 0.3},
			},
		},
	}
}

// Validate rejects out-of-range parameters with a ConfigError rather
// than silently clamping.
func (c *Config) Validate() error {
	g := c.Citygen

	if g.Quadtree.Bounds.Width <= 0 || g.Quadtree.Bounds.Height <= 0 {
		return &ConfigError{Field: "citygen.quadtree.bounds", Reason: "width and height must be positive"}
	}
	if g.Quadtree.MaxObjects <= 0 {
		return &ConfigError{Field: "citygen.quadtree.max_objects", Reason: "must be positive"}
	}
	if g.Quadtree.MaxLevels <= 0 {
		return &ConfigError{Field: "citygen.quadtree.max_levels", Reason: "must be positive"}
	}

	if g.Road.SegmentLength <= 0 {
		return &ConfigError{Field: "citygen.road.segment_length", Reason: "must be positive"}
	}
	if g.Road.SegmentCountLimit < 0 {
		return &ConfigError{Field: "citygen.road.segment_count_limit", Reason: "must not be negative"}
	}
	if g.Road.SnapDistance < 0 {
		return &ConfigError{Field: "citygen.road.snap_distance", Reason: "must not be negative"}
	}
	if g.Road.SnapDistance >= g.Road.SegmentLength {
		return &ConfigError{Field: "citygen.road.snap_distance", Reason: "must be smaller than segment_length"}
	}
	if g.Road.MinimumIntersectionDeviation < 0 || g.Road.MinimumIntersectionDeviation > 90 {
		return &ConfigError{Field: "citygen.road.minimum_intersection_deviation", Reason: "must be in [0, 90] degrees"}
	}
	if g.Road.BranchProbability < 0 || g.Road.BranchProbability > 1 {
		return &ConfigError{Field: "citygen.road.branch_probability", Reason: "must be in [0, 1]"}
	}
	if g.Road.MaxBranches < 1 {
		return &ConfigError{Field: "citygen.road.max_branches", Reason: "must be at least 1"}
	}
	if g.Road.TurnJitter < 0 || g.Road.TurnJitter > 90 {
		return &ConfigError{Field: "citygen.road.turn_jitter", Reason: "must be in [0, 90] degrees"}
	}
	if g.Road.BranchPenalty < 0 {
		return &ConfigError{Field: "citygen.road.branch_penalty", Reason: "must not be negative"}
	}
	if g.Road.HighwayWidth <= 0 || g.Road.StreetWidth <= 0 {
		return &ConfigError{Field: "citygen.road", Reason: "highway_width and street_width must be positive"}
	}

	if g.Building.RoadDistance < 0 {
		return &ConfigError{Field: "citygen.building.road_distance", Reason: "must not be negative"}
	}
	if g.Building.IntersectionDistance < 0 {
		return &ConfigError{Field: "citygen.building.intersection_distance", Reason: "must not be negative"}
	}
	if g.Building.BuildingBuildingDistance < 0 {
		return &ConfigError{Field: "citygen.building.building_building_distance", Reason: "must not be negative"}
	}
	if g.Building.CursorStep <= 0 {
		return &ConfigError{Field: "citygen.building.cursor_step", Reason: "must be positive"}
	}
	if g.Building.MaxRetries < 0 {
		return &ConfigError{Field: "citygen.building.max_retries", Reason: "must not be negative"}
	}

	if g.Element.ElementElementDistance <= 0 {
		return &ConfigError{Field: "citygen.element.element_element_distance", Reason: "must be positive"}
	}
	if g.Element.AroundBuildingCandidates < 0 {
		return &ConfigError{Field: "citygen.element.around_building_candidates", Reason: "must not be negative"}
	}
	if g.Element.AroundBuildingRadius < 0 {
		return &ConfigError{Field: "citygen.element.around_building_radius", Reason: "must not be negative"}
	}
	if g.Element.Workers < 1 {
		return &ConfigError{Field: "citygen.element.workers", Reason: "must be at least 1"}
	}
	for _, band := range g.Element.Bands {
		if band.Offset <= 0 {
			return &ConfigError{Field: "citygen.element.bands." + band.Name + ".offset", Reason: "must be positive"}
		}
	}

	if g.Route.MinPointsPerRoute < 1 {
		return &ConfigError{Field: "citygen.route.min_points_per_route", Reason: "must be at least 1"}
	}
	if g.Route.MaxPointsPerRoute < g.Route.MinPointsPerRoute {
		return &ConfigError{Field: "citygen.route.max_points_per_route", Reason: "must be at least min_points_per_route"}
	}

	weightSum := 0.0
	for _, b := range c.Catalogs.Buildings {
		if b.Width <= 0 || b.Depth <= 0 {
			return &ConfigError{Field: "catalogs.buildings." + b.Name, Reason: "width and depth must be positive"}
		}
		if b.Weight < 0 {
			return &ConfigError{Field: "catalogs.buildings." + b.Name, Reason: "weight must not be negative"}
		}
		weightSum += b.Weight
	}
	if len(c.Catalogs.Buildings) > 0 && weightSum <= 0 {
		return &ConfigError{Field: "catalogs.buildings", Reason: "weights must sum to a positive value"}
	}
	for _, e := range c.Catalogs.Elements {
		if e.Width <= 0 || e.Depth <= 0 {
			return &ConfigError{Field: "catalogs.elements." + e.Name, Reason: "width and depth must be positive"}
		}
		if e.Density < 0 || e.Density > 1 {
			return &ConfigError{Field: "catalogs.elements." + e.Name, Reason: "density must be in [0, 1]"}
		}
	}

	return nil
}
