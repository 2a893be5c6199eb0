package export

import (
	"fmt"
	"math"

	"github.com/maitrix-org/simworld/pkg/layout"
)

// Engine units are centimeters; layout units are meters. Road meshes
// are 20000 engine units long at scale 1 and get a small shrink so
// consecutive pieces do not z-fight at junctions.
const (
	engineUnitsPerMeter = 100
	roadMeshLength      = 20000
	roadScaleShrink     = 0.95
	roadWidthScale      = 0.9
)

// BaseMap is the header of a world document.
type BaseMap struct {
	Name   string `json:"name"`
	EnvBin string `json:"env_bin"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DefaultBaseMap returns the standard simulation map header.
func DefaultBaseMap() BaseMap {
	return BaseMap{
		Name:   "map_1",
		EnvBin: `gym_citynav\Binaries\Win64\gym_citynav.exe`,
		Width:  1000,
		Height: 1000,
	}
}

// Vec3 is an engine-space vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Orientation is an engine-space rotation in degrees.
type Orientation struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// NodeProperties is the transform of a world node.
type NodeProperties struct {
	Location    Vec3        `json:"location"`
	Orientation Orientation `json:"orientation"`
	Scale       Vec3        `json:"scale"`
}

// WorldNode is one placed instance in the world document.
type WorldNode struct {
	ID           string         `json:"id"`
	InstanceName string         `json:"instance_name"`
	Properties   NodeProperties `json:"properties"`
}

// WorldDocument is the progen_world.json payload.
type WorldDocument struct {
	BaseMap BaseMap     `json:"base_map"`
	Nodes   []WorldNode `json:"nodes"`
}

// BuildWorld converts a layout into the engine world format. Layout
// coordinates scale up to engine units and rotations become yaw in
// [0, 360). Roads are stretched mesh instances; buildings and elements
// place at unit scale.
func BuildWorld(l *layout.CityLayout, base BaseMap) *WorldDocument {
	doc := &WorldDocument{BaseMap: base, Nodes: []WorldNode{}}

	for _, s := range l.Segments {
		g, ok := l.SegmentGeometry(s)
		if !ok {
			continue
		}
		mid := g.Midpoint()
		scaleX := g.Length() * engineUnitsPerMeter / roadMeshLength
		doc.Nodes = append(doc.Nodes, WorldNode{
			ID:           fmt.Sprintf("GEN_Road_%d", len(doc.Nodes)),
			InstanceName: "BP_Road1_C",
			Properties: NodeProperties{
				Location: Vec3{
					X: round4(mid.X * engineUnitsPerMeter),
					Y: round4(mid.Y * engineUnitsPerMeter),
				},
				Orientation: Orientation{Yaw: round4(yaw(g.AngleDeg()))},
				Scale: Vec3{
					X: round4(scaleX * roadScaleShrink),
					Y: round4(roadWidthScale),
					Z: 1,
				},
			},
		})
	}

	for _, b := range l.Buildings {
		doc.Nodes = append(doc.Nodes, placedNode(
			fmt.Sprintf("GEN_%s_%d", b.Kind, len(doc.Nodes)),
			b.Kind, b.Center().X, b.Center().Y, b.Rotation()))
	}
	for _, e := range l.Elements {
		doc.Nodes = append(doc.Nodes, placedNode(
			fmt.Sprintf("GEN_%s_%d", e.Kind, len(doc.Nodes)),
			e.Kind, e.Center().X, e.Center().Y, e.Rotation()))
	}
	return doc
}

func placedNode(id, instance string, x, y, rotation float64) WorldNode {
	return WorldNode{
		ID:           id,
		InstanceName: instance,
		Properties: NodeProperties{
			Location: Vec3{
				X: round4(x * engineUnitsPerMeter),
				Y: round4(y * engineUnitsPerMeter),
			},
			Orientation: Orientation{Yaw: round4(yaw(rotation))},
			Scale:       Vec3{X: 1, Y: 1, Z: 1},
		},
	}
}

// yaw normalizes a degree angle into [0, 360).
func yaw(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
