package main

import (
	"github.com/dhconnelly/rtreego"
)

// ObstacleEntry wraps an obstacle for R-tree storage
type ObstacleEntry struct {
	Obstacle Obstacle
	BBox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *ObstacleEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// ObstacleIndex answers which obstacles could possibly touch a region. The
// stored boxes bound each obstacle's inflated circle, so a query for a
// path's bounding box never misses an obstacle the exact test would flag.
type ObstacleIndex struct {
	tree *rtreego.Rtree
}

// NewObstacleIndex builds a spatial index over the inflated obstacles.
// Returns nil for an empty obstacle list.
func NewObstacleIndex(obstacles []Obstacle, inflation float64) *ObstacleIndex {
	if len(obstacles) == 0 {
		return nil
	}

	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, obs := range obstacles {
		r := obs.Radius + inflation
		if r <= 0 {
			r = 1e-9 // keep the box valid for point obstacles
		}
		bbox, err := rtreego.NewRect(
			rtreego.Point{obs.X - r, obs.Y - r},
			[]float64{2 * r, 2 * r},
		)
		if err != nil {
			continue
		}
		tree.Insert(&ObstacleEntry{Obstacle: obs, BBox: bbox})
	}

	return &ObstacleIndex{tree: tree}
}

// Candidates returns the obstacles whose inflated bounding box intersects
// the given region
func (oi *ObstacleIndex) Candidates(minX, minY, maxX, maxY float64) []Obstacle {
	// Degenerate query boxes (a purely horizontal or vertical path) get a
	// tiny padding so the rectangle stays valid.
	const pad = 1e-9
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX - pad, minY - pad},
		[]float64{maxX - minX + 2*pad, maxY - minY + 2*pad},
	)
	if err != nil {
		return []Obstacle{}
	}

	results := oi.tree.SearchIntersect(bbox)
	obstacles := make([]Obstacle, 0, len(results))

	for _, item := range results {
		entry := item.(*ObstacleEntry)
		obstacles = append(obstacles, entry.Obstacle)
	}

	return obstacles
}
