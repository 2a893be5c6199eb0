// Package export writes city layouts to the JSON documents consumed
// by downstream tooling: per-entity documents (roads, buildings,
// elements), a full layout snapshot for reloading, and the engine
// world format.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/layout"
	"github.com/maitrix-org/simworld/pkg/routing"
)

// DecodeError reports a structural problem in a loaded document, with
// enough context to point at the offending file and field.
type DecodeError struct {
	File   string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %s: %s", e.File, e.Field, e.Reason)
}

// RoadEntry is one road segment in roads.json.
type RoadEntry struct {
	Start     geo.Point2D `json:"start"`
	End       geo.Point2D `json:"end"`
	IsHighway bool        `json:"is_highway"`
}

// RoadsDocument is the roads.json payload.
type RoadsDocument struct {
	Roads []RoadEntry `json:"roads"`
}

// BuildingEntry is one building in buildings.json.
type BuildingEntry struct {
	Center   geo.Point2D `json:"center"`
	Rotation float64     `json:"rotation"`
	Type     string      `json:"type"`
	Bounds   geo.Rect    `json:"bounds"`
}

// BuildingsDocument is the buildings.json payload.
type BuildingsDocument struct {
	Buildings []BuildingEntry `json:"buildings"`
}

// ElementEntry is one street element in elements.json.
type ElementEntry struct {
	Center   geo.Point2D `json:"center"`
	Rotation float64     `json:"rotation"`
	Type     string      `json:"type"`
	Bounds   geo.Rect    `json:"bounds"`
}

// ElementsDocument is the elements.json payload.
type ElementsDocument struct {
	Elements []ElementEntry `json:"elements"`
}

// BuildRoads collects the roads document from a layout.
func BuildRoads(l *layout.CityLayout) (*RoadsDocument, error) {
	doc := &RoadsDocument{Roads: []RoadEntry{}}
	for _, s := range l.Segments {
		g, ok := l.SegmentGeometry(s)
		if !ok {
			return nil, fmt.Errorf("exporting roads: segment %d references a missing node", s.ID)
		}
		doc.Roads = append(doc.Roads, RoadEntry{Start: g.Start, End: g.End, IsHighway: s.Highway})
	}
	return doc, nil
}

// BuildBuildings collects the buildings document from a layout.
func BuildBuildings(l *layout.CityLayout) *BuildingsDocument {
	doc := &BuildingsDocument{Buildings: []BuildingEntry{}}
	for _, b := range l.Buildings {
		doc.Buildings = append(doc.Buildings, BuildingEntry{
			Center:   b.Center(),
			Rotation: b.Rotation(),
			Type:     b.Kind,
			Bounds:   b.Footprint,
		})
	}
	return doc
}

// BuildElements collects the elements document from a layout.
func BuildElements(l *layout.CityLayout) *ElementsDocument {
	doc := &ElementsDocument{Elements: []ElementEntry{}}
	for _, e := range l.Elements {
		doc.Elements = append(doc.Elements, ElementEntry{
			Center:   e.Center(),
			Rotation: e.Rotation(),
			Type:     e.Kind,
			Bounds:   e.Footprint,
		})
	}
	return doc
}

// WriteDir exports a layout into a directory: roads.json,
// buildings.json, elements.json, the reloadable layout.json, and the
// engine world document progen_world.json.
func WriteDir(l *layout.CityLayout, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	roads, err := BuildRoads(l)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "roads.json"), roads); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "buildings.json"), BuildBuildings(l)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "elements.json"), BuildElements(l)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "layout.json"), l); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "progen_world.json"), BuildWorld(l, DefaultBaseMap()))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteRoutes writes generated routes as routes.json in the output
// directory.
func WriteRoutes(routes []routing.Route, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if routes == nil {
		routes = []routing.Route{}
	}
	return writeJSON(filepath.Join(dir, "routes.json"), map[string]any{"routes": routes})
}

// LoadLayout reads a layout.json back into memory and checks its
// referential integrity before handing it to callers.
func LoadLayout(path string) (*layout.CityLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}
	var l layout.CityLayout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, &DecodeError{File: filepath.Base(path), Field: "(document)", Reason: err.Error()}
	}

	nodeIDs := map[int]bool{}
	for i, n := range l.Nodes {
		if nodeIDs[n.ID] {
			return nil, &DecodeError{
				File:   filepath.Base(path),
				Field:  fmt.Sprintf("nodes[%d].id", i),
				Reason: fmt.Sprintf("duplicate node ID %d", n.ID),
			}
		}
		nodeIDs[n.ID] = true
	}
	segIDs := map[int]bool{}
	for i, s := range l.Segments {
		if segIDs[s.ID] {
			return nil, &DecodeError{
				File:   filepath.Base(path),
				Field:  fmt.Sprintf("segments[%d].id", i),
				Reason: fmt.Sprintf("duplicate segment ID %d", s.ID),
			}
		}
		segIDs[s.ID] = true
		if !nodeIDs[s.From] || !nodeIDs[s.To] {
			return nil, &DecodeError{
				File:   filepath.Base(path),
				Field:  fmt.Sprintf("segments[%d]", i),
				Reason: fmt.Sprintf("segment %d references a missing node", s.ID),
			}
		}
	}
	return &l, nil
}
