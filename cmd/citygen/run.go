package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/export"
	"github.com/maitrix-org/simworld/pkg/layout"
	"github.com/maitrix-org/simworld/pkg/render"
	"github.com/maitrix-org/simworld/pkg/routing"
)

func runGenerate(projectPath, outDir string) error {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	l, report, err := layout.Generate(cfg)
	if err != nil {
		return err
	}
	printReport(report)

	if err := export.WriteDir(l, outDir); err != nil {
		return err
	}

	// Seed a patrol route along every highway for the simulation side.
	routes := routing.NewGenerator(l.Network(cfg), cfg.Citygen.Route,
		rand.New(rand.NewSource(l.Seed)))
	for _, s := range l.Segments {
		if !s.Highway {
			continue
		}
		if _, err := routes.AlongRoad(s.ID); err != nil {
			return err
		}
	}
	if err := export.WriteRoutes(routes.Routes(), outDir); err != nil {
		return err
	}

	fmt.Printf("Exported %d segments, %d buildings, %d elements, %d routes to %s\n",
		len(l.Segments), len(l.Buildings), len(l.Elements), len(routes.Routes()), outDir)
	return nil
}

func runValidate(projectPath, layoutFile string) error {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if layoutFile != "" {
		l, err := export.LoadLayout(layoutFile)
		if err != nil {
			return err
		}
		report := layout.AuditLayout(l, cfg)
		printReport(report)
		if !report.Valid {
			os.Exit(1)
		}
		return nil
	}

	fmt.Println("Config is valid.")
	return nil
}

func runRender(projectPath, out string, scale float64) error {
	cfg, err := config.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	l, report, err := layout.Generate(cfg)
	if err != nil {
		return err
	}
	printReport(report)

	if err := render.SavePNG(out, l, cfg, scale, nil); err != nil {
		return err
	}
	fmt.Printf("Rendered %s\n", out)
	return nil
}
