// Package convert runs the whole scene to level pipeline.
package convert

import (
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalls/config"
	"github.com/mogaika/scenewalls/level"
	"github.com/mogaika/scenewalls/scene"
	"github.com/mogaika/scenewalls/status"
	"github.com/mogaika/scenewalls/walls"
)

type Result struct {
	Nodes     []*scene.Node
	Obstacles []walls.Obstacle
	// patched level, not written yet
	Document *level.Document
}

// Generate loads the scene and converts it to time sorted walls.
func Generate(cfg *config.Config) ([]*scene.Node, []walls.Obstacle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	settings, err := walls.SettingsFromConfig(cfg)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Invalid settings")
	}

	status.Progress(0.1, "Loading scene %q", cfg.Scene)
	nodes, err := scene.Load(cfg.Scene, scene.OptionsFromConfig(cfg))
	if err != nil {
		return nil, nil, err
	}

	status.Progress(0.4, "Generating walls for %d nodes", len(nodes))
	obstacles, err := walls.NewGenerator(settings).Generate(nodes, walls.OffsetFromConfig(cfg.Offset))
	if err != nil {
		return nil, nil, err
	}
	walls.SortByTime(obstacles)
	return nodes, obstacles, nil
}

// Build does everything but writing the level.
func Build(cfg *config.Config) (*Result, error) {
	nodes, obstacles, err := Generate(cfg)
	if err != nil {
		status.Error("Conversion failed: %v", err)
		return nil, err
	}

	status.Progress(0.7, "Patching level %q", cfg.Level)
	doc, err := level.Load(cfg.Level)
	if err != nil {
		status.Error("Conversion failed: %v", err)
		return nil, err
	}

	patch := &level.Patch{
		Obstacles: obstacles,
		Events:    level.FadeEvents(cfg.Track, cfg.FadeOutTime, cfg.FadeOutDuration),
	}
	if err := patch.Apply(doc); err != nil {
		if de, ok := err.(*level.DocumentError); ok {
			de.Path = cfg.Level
		}
		status.Error("Conversion failed: %v", err)
		return nil, err
	}

	return &Result{Nodes: nodes, Obstacles: obstacles, Document: doc}, nil
}

// Run converts the scene and writes the level. Nothing is written when
// any step fails.
func Run(cfg *config.Config) (*Result, error) {
	r, err := Build(cfg)
	if err != nil {
		return nil, err
	}

	if err := r.Document.Save(cfg.Level); err != nil {
		status.Error("Conversion failed: %v", err)
		return nil, err
	}

	log.Printf("[convert] Wrote %d walls from %q to %q", len(r.Obstacles), cfg.Scene, cfg.Level)
	status.Progress(1, "Wrote %d walls to %q", len(r.Obstacles), cfg.Level)
	return r, nil
}
