package layout

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/validation"
)

// Generate runs the full pipeline: road growth, building placement,
// element scatter. The returned report aggregates every stage; a nil
// error with an invalid report means generation finished best-effort.
func Generate(cfg *config.Config) (*CityLayout, *validation.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("generate: %w", err)
	}

	seed := cfg.Citygen.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	net, roadReport := GrowRoads(cfg, rng)
	buildings, buildingReport := PlaceBuildings(net, cfg, rng)
	elements, elementReport := ScatterElements(net, buildings, cfg, seed)

	report := validation.NewReport()
	report.Merge(roadReport)
	report.Merge(buildingReport)
	report.Merge(elementReport)

	layout := net.Layout(seed)
	layout.Buildings = buildings
	layout.Elements = elements
	return layout, report, nil
}

// Network rebuilds a mutable road network from the layout so roads can
// be edited or growth resumed with the given configuration.
func (l *CityLayout) Network(cfg *config.Config) *RoadNetwork {
	return NetworkFromLayout(l, cfg.Citygen.Quadtree, cfg.Citygen.Road)
}
