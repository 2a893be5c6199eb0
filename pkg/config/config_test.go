package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "negative segment length",
			mutate: func(c *Config) { c.Citygen.Road.SegmentLength = -5 },
			field:  "citygen.road.segment_length",
		},
		{
			name:   "zero sized bounds",
			mutate: func(c *Config) { c.Citygen.Quadtree.Bounds.Width = 0 },
			field:  "citygen.quadtree.bounds",
		},
		{
			name:   "snap distance exceeding segment length",
			mutate: func(c *Config) { c.Citygen.Road.SnapDistance = 500 },
			field:  "citygen.road.snap_distance",
		},
		{
			name:   "branch probability above one",
			mutate: func(c *Config) { c.Citygen.Road.BranchProbability = 1.5 },
			field:  "citygen.road.branch_probability",
		},
		{
			name:   "zero workers",
			mutate: func(c *Config) { c.Citygen.Element.Workers = 0 },
			field:  "citygen.element.workers",
		},
		{
			name:   "element density above one",
			mutate: func(c *Config) { c.Catalogs.Elements[0].Density = 2 },
			field:  "catalogs.elements.Tree",
		},
		{
			name:   "negative segment count limit",
			mutate: func(c *Config) { c.Citygen.Road.SegmentCountLimit = -1 },
			field:  "citygen.road.segment_count_limit",
		},
		{
			name:   "route point range inverted",
			mutate: func(c *Config) { c.Citygen.Route.MaxPointsPerRoute = 1 },
			field:  "citygen.route.max_points_per_route",
		},
		{
			name: "all building weights zero",
			mutate: func(c *Config) {
				for i := range c.Catalogs.Buildings {
					c.Catalogs.Buildings[i].Weight = 0
				}
			},
			field: "catalogs.buildings",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cerr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, cerr.Field)
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "citygen.yaml")
	doc := `
citygen:
  seed: 7
  road:
    segment_length: 250
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Citygen.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Citygen.Seed)
	}
	if cfg.Citygen.Road.SegmentLength != 250 {
		t.Errorf("expected segment_length 250, got %f", cfg.Citygen.Road.SegmentLength)
	}
	// Untouched values keep their defaults.
	if cfg.Citygen.Road.SnapDistance != 30 {
		t.Errorf("expected default snap_distance 30, got %f", cfg.Citygen.Road.SnapDistance)
	}
	if len(cfg.Catalogs.Buildings) == 0 {
		t.Error("expected default building catalog")
	}
}

func TestLoadProjectMissingFile(t *testing.T) {
	if _, err := LoadProject(t.TempDir()); err == nil {
		t.Fatal("expected error for missing citygen.yaml")
	}
}

func TestElementsInCategories(t *testing.T) {
	cat := Default().Catalogs
	veg := cat.ElementsInCategories([]string{"vegetation"})
	if len(veg) != 2 {
		t.Fatalf("expected 2 vegetation templates, got %d", len(veg))
	}
	for _, e := range veg {
		if e.Category != "vegetation" {
			t.Errorf("unexpected category %q", e.Category)
		}
	}
	if got := cat.ElementsInCategories([]string{"missing"}); len(got) != 0 {
		t.Errorf("expected no templates, got %d", len(got))
	}
}
