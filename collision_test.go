package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCollisionFreeNilNode(t *testing.T) {
	assert.False(t, IsCollisionFree(nil, nil, 0.8))
}

func TestIsCollisionFreeEmptyObstacles(t *testing.T) {
	node := &Node{X: 1, Y: 1, Path: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, Parent: 0}
	assert.True(t, IsCollisionFree(node, nil, 0.8))
}

func TestIsCollisionFree(t *testing.T) {
	obstacles := []Obstacle{{X: 5, Y: 5, Radius: 1}}
	inflation := 0.5 // inflated radius 1.5

	tests := []struct {
		name string
		path []Point
		free bool
	}{
		{"far away", []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, true},
		{"through the center", []Point{{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 6, Y: 5}}, false},
		{"inside inflation zone only", []Point{{X: 5, Y: 6.4}}, false},
		{"exactly on the inflated boundary", []Point{{X: 5, Y: 6.5}}, false},
		{"just outside the inflated boundary", []Point{{X: 5, Y: 6.501}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &Node{
				X:      tt.path[len(tt.path)-1].X,
				Y:      tt.path[len(tt.path)-1].Y,
				Path:   tt.path,
				Parent: 0,
			}
			assert.Equal(t, tt.free, IsCollisionFree(node, obstacles, inflation))
		})
	}
}

func TestPathBounds(t *testing.T) {
	path := []Point{{X: 2, Y: -1}, {X: -3, Y: 4}, {X: 1, Y: 0}}

	minX, minY, maxX, maxY := pathBounds(path)
	assert.Equal(t, -3.0, minX)
	assert.Equal(t, -1.0, minY)
	assert.Equal(t, 2.0, maxX)
	assert.Equal(t, 4.0, maxY)
}
