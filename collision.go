package main

// IsCollisionFree reports whether a steered node's recorded path clears
// every obstacle once its radius is inflated by the safety margin. A nil
// node is never collision-free.
func IsCollisionFree(node *Node, obstacles []Obstacle, inflation float64) bool {
	if node == nil {
		return false
	}

	for _, obs := range obstacles {
		center := obs.Center()
		limit := (obs.Radius + inflation) * (obs.Radius + inflation)
		for _, p := range node.Path {
			if center.SquaredDistance(p) <= limit {
				return false // collision
			}
		}
	}

	return true // safe
}

// pathBounds returns the axis-aligned bounding box of a recorded path
func pathBounds(path []Point) (minX, minY, maxX, maxY float64) {
	minX, minY = path[0].X, path[0].Y
	maxX, maxY = path[0].X, path[0].Y
	for _, p := range path[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return
}
