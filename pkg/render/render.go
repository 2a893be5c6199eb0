// Package render draws a generated city layout to an image: roads
// stroked at their paved width, building footprints as filled rotated
// rectangles, street elements as small markers.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/geo"
	"github.com/maitrix-org/simworld/pkg/layout"
)

// ColourScheme defines how layout features are coloured.
type ColourScheme struct {
	Background color.Color
	Highways   color.Color
	Streets    color.Color
	Buildings  color.Color
	Elements   map[string]color.Color // keyed by element category
	Fallback   color.Color            // categories missing from Elements
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Background: colornames.Whitesmoke,
		Highways:   colornames.Dimgray,
		Streets:    colornames.Darkgray,
		Buildings:  colornames.Steelblue,
		Elements: map[string]color.Color{
			"vegetation": colornames.Forestgreen,
			"furniture":  colornames.Saddlebrown,
			"vehicle":    colornames.Crimson,
		},
		Fallback: colornames.Black,
	}
}

// Image renders the layout at the given pixels-per-unit scale. World
// coordinates come from the configured bounds, so the whole world fits
// the image regardless of where the city grew.
func Image(l *layout.CityLayout, cfg *config.Config, scale float64, scheme *ColourScheme) image.Image {
	if scheme == nil {
		scheme = DefaultScheme()
	}
	bounds := cfg.Citygen.Quadtree.Bounds
	w := int(bounds.Width * scale)
	h := int(bounds.Height * scale)
	ctx := gg.NewContext(w, h)

	ctx.SetColor(scheme.Background)
	ctx.Clear()

	// World to image: translate the bounds origin to (0, 0), then
	// scale up.
	toX := func(x float64) float64 { return (x - bounds.X) * scale }
	toY := func(y float64) float64 { return (y - bounds.Y) * scale }

	for _, s := range l.Segments {
		g, ok := l.SegmentGeometry(s)
		if !ok {
			continue
		}
		width := cfg.Citygen.Road.StreetWidth
		if s.Highway {
			ctx.SetColor(scheme.Highways)
			width = cfg.Citygen.Road.HighwayWidth
		} else {
			ctx.SetColor(scheme.Streets)
		}
		ctx.SetLineWidth(width * scale)
		ctx.DrawLine(toX(g.Start.X), toY(g.Start.Y), toX(g.End.X), toY(g.End.Y))
		ctx.Stroke()
	}

	for _, b := range l.Buildings {
		ctx.SetColor(scheme.Buildings)
		fillRect(ctx, b.Footprint.Corners(), toX, toY)
	}

	for _, e := range l.Elements {
		col, ok := scheme.Elements[e.Category]
		if !ok {
			col = scheme.Fallback
		}
		ctx.SetColor(col)
		fillRect(ctx, e.Footprint.Corners(), toX, toY)
	}

	return ctx.Image()
}

func fillRect(ctx *gg.Context, corners [4]geo.Point2D, toX, toY func(float64) float64) {
	ctx.MoveTo(toX(corners[0].X), toY(corners[0].Y))
	for _, c := range corners[1:] {
		ctx.LineTo(toX(c.X), toY(c.Y))
	}
	ctx.ClosePath()
	ctx.Fill()
}

// SavePNG renders the layout and writes it to disk as a PNG.
func SavePNG(path string, l *layout.CityLayout, cfg *config.Config, scale float64, scheme *ColourScheme) error {
	im := Image(l, cfg, scale, scheme)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, im); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
