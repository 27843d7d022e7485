package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// loadObstaclesFromDir loads all GeoJSON files from the given directory.
// Each Point feature becomes a circular obstacle; its radius comes from the
// "radius" property (1.0 when absent). Unreadable or malformed files are
// logged and skipped.
func loadObstaclesFromDir(dir string) ([]Obstacle, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	log.Printf("Loading obstacles from %d GeoJSON files...\n", len(files))

	var allObstacles []Obstacle
	for _, file := range files {
		obstacles, err := loadObstaclesFromFile(file)
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v\n", file, err)
			continue
		}
		allObstacles = append(allObstacles, obstacles...)
		log.Printf("   ✅ Loaded %d obstacles from %s\n", len(obstacles), filepath.Base(file))
	}

	log.Printf("Total obstacles loaded: %d\n", len(allObstacles))
	return allObstacles, nil
}

// loadObstaclesFromFile parses a single GeoJSON feature collection
func loadObstaclesFromFile(filename string) ([]Obstacle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	obstacles := make([]Obstacle, 0, len(fc.Features))
	for _, feature := range fc.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			continue // only Point features become obstacles
		}
		obstacles = append(obstacles, Obstacle{
			X:      point.X(),
			Y:      point.Y(),
			Radius: feature.Properties.MustFloat64("radius", 1.0),
		})
	}

	return obstacles, nil
}
