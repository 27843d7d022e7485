package main

import "math"

// Point is a position in the 2D plane
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Obstacle represents a circular obstacle
type Obstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Center returns the obstacle's center point
func (o Obstacle) Center() Point {
	return Point{X: o.X, Y: o.Y}
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// SquaredDistance calculates the squared Euclidean distance between two points
func (p Point) SquaredDistance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// distanceAndAngle returns the Euclidean distance from p to other and the
// angle of the vector p->other via atan2, in (-pi, pi]
func distanceAndAngle(p, other Point) (float64, float64) {
	dx := other.X - p.X
	dy := other.Y - p.Y
	return math.Hypot(dx, dy), math.Atan2(dy, dx)
}
