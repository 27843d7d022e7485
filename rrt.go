package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"
)

// Node is a vertex of the search tree
type Node struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// Path is the fine-grained trajectory from the parent to this node,
	// recorded at the planner's path resolution. It is the exact polyline
	// that gets collision-tested.
	Path []Point `json:"path"`
	// Parent is an index into the planner's node list, -1 for the root
	Parent int `json:"parent"`
}

// Position returns the node's coordinates as a Point
func (n *Node) Position() Point {
	return Point{X: n.X, Y: n.Y}
}

// Config holds the planner tuning parameters
type Config struct {
	ExpandDistance  float64 `json:"expandDistance"`  // max length of a single steered segment
	PathResolution  float64 `json:"pathResolution"`  // spacing of points recorded during steering
	GoalSampleRate  int     `json:"goalSampleRate"`  // goal bias in percent, 0-100
	MaxIterations   int     `json:"maxIterations"`   // iteration budget before giving up
	InflationRadius float64 `json:"inflationRadius"` // safety margin added to every obstacle radius
	ExpansionCoeff  float64 `json:"expansionCoeff"`  // sampling radius relaxation, coefficient
	ExpansionEps    float64 `json:"expansionEps"`    // sampling radius relaxation, step
	GoalBiased      bool    `json:"goalBiased"`      // disable to always sample uniformly
}

// DefaultConfig returns the standard planner parameters
func DefaultConfig() Config {
	return Config{
		ExpandDistance:  0.8,
		PathResolution:  0.2,
		GoalSampleRate:  5,
		MaxIterations:   100000,
		InflationRadius: 0.8,
		ExpansionCoeff:  2,
		ExpansionEps:    0.3,
		GoalBiased:      true,
	}
}

// Validate reports the first malformed parameter, if any
func (c Config) Validate() error {
	if c.ExpandDistance <= 0 {
		return fmt.Errorf("expandDistance must be positive, got %g", c.ExpandDistance)
	}
	if c.PathResolution <= 0 {
		return fmt.Errorf("pathResolution must be positive, got %g", c.PathResolution)
	}
	if c.GoalSampleRate < 0 || c.GoalSampleRate > 100 {
		return fmt.Errorf("goalSampleRate must be in [0,100], got %d", c.GoalSampleRate)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("maxIterations must be at least 1, got %d", c.MaxIterations)
	}
	if c.InflationRadius < 0 {
		return fmt.Errorf("inflationRadius must not be negative, got %g", c.InflationRadius)
	}
	if c.ExpansionCoeff <= 0 || c.ExpansionEps <= 0 {
		return fmt.Errorf("expansionCoeff and expansionEps must be positive, got %g and %g",
			c.ExpansionCoeff, c.ExpansionEps)
	}
	return nil
}

// Snapshot is the read-only view handed to an Observer each iteration.
// Nodes aliases the planner's live tree and is only valid for the duration
// of the callback.
type Snapshot struct {
	Iteration      int
	Sample         Point
	Nodes          []*Node
	SamplingRadius float64
}

// Observer is notified after every planning iteration, successful or not.
// It must not mutate the tree; the planner never consumes anything from it.
type Observer interface {
	OnIteration(Snapshot)
}

// RRT grows a rapidly-exploring random tree from Start toward Goal,
// concentrating its samples inside an adaptive radius around the goal
type RRT struct {
	Start          *Node
	Goal           *Node
	MinRand        float64
	MaxRand        float64
	Config         Config
	Obstacles      []Obstacle
	Nodes          []*Node
	SamplingRadius float64
	Observer       Observer

	index *ObstacleIndex
	rng   *rand.Rand
}

// NewRRT validates the configuration and builds a planner. A nil rng gets a
// time-seeded source; tests inject a fixed seed for reproducibility.
func NewRRT(start, goal Point, obstacles []Obstacle, minRand, maxRand float64, cfg Config, rng *rand.Rand) (*RRT, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if minRand >= maxRand {
		return nil, fmt.Errorf("sampling bounds must satisfy min < max, got [%g, %g]", minRand, maxRand)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RRT{
		Start:          &Node{X: start.X, Y: start.Y, Parent: -1},
		Goal:           &Node{X: goal.X, Y: goal.Y, Parent: -1},
		MinRand:        minRand,
		MaxRand:        maxRand,
		Config:         cfg,
		Obstacles:      obstacles,
		SamplingRadius: start.Distance(goal),
		index:          NewObstacleIndex(obstacles, cfg.InflationRadius),
		rng:            rng,
	}, nil
}

// Plan builds a planner and runs it in one call
func Plan(start, goal Point, obstacles []Obstacle, minRand, maxRand float64, cfg Config, rng *rand.Rand) ([]Point, bool, error) {
	rrt, err := NewRRT(start, goal, obstacles, minRand, maxRand, cfg, rng)
	if err != nil {
		return nil, false, err
	}
	path, found := rrt.Planning()
	return path, found, nil
}

// Planning grows the tree until a collision-free connection to the goal is
// found or the iteration budget runs out. The returned path is ordered from
// the goal back to the start; the second result is false when no path was
// found within the budget.
func (r *RRT) Planning() ([]Point, bool) {
	goal := r.Goal.Position()
	r.Nodes = []*Node{r.Start}

	for i := 0; i < r.Config.MaxIterations; i++ {
		rnd := r.sample()
		// Samples beyond the current radius around the goal are discarded;
		// a rejected sample still consumes an iteration.
		if goal.Distance(rnd) > r.SamplingRadius {
			r.notify(i, rnd)
			continue
		}

		nearestIdx := nearestNodeIndex(r.Nodes, rnd)
		newNode := r.steer(nearestIdx, rnd, r.Config.ExpandDistance)

		if !r.collisionFree(newNode) {
			// Trapped against an obstacle: widen the search space
			r.SamplingRadius += r.Config.ExpansionCoeff * r.Config.ExpansionEps
			r.notify(i, rnd)
			continue
		}
		r.Nodes = append(r.Nodes, newNode)
		// Tighten the radius to the new frontier
		r.SamplingRadius = newNode.Position().Distance(goal)
		r.notify(i, rnd)

		tipIdx := len(r.Nodes) - 1
		if r.Nodes[tipIdx].Position().Distance(goal) <= r.Config.ExpandDistance {
			finalNode := r.steer(tipIdx, goal, r.Config.ExpandDistance)
			if r.collisionFree(finalNode) {
				return r.finalCourse(tipIdx), true
			}
		}
	}

	return nil, false
}

// sample draws the next candidate point: the goal itself with probability
// GoalSampleRate percent, otherwise uniform over the sampling bounds
func (r *RRT) sample() Point {
	if r.Config.GoalBiased && r.rng.Intn(101) <= r.Config.GoalSampleRate {
		return r.Goal.Position()
	}
	return Point{
		X: r.MinRand + r.rng.Float64()*(r.MaxRand-r.MinRand),
		Y: r.MinRand + r.rng.Float64()*(r.MaxRand-r.MinRand),
	}
}

// steer extends from the node at fromIdx toward to by at most maxExtend,
// recording the traversed points at PathResolution spacing. The new node's
// coordinates are the last incrementally computed position; when the
// remainder to the target is positive but within one resolution step, the
// target itself is appended to the recorded path only.
func (r *RRT) steer(fromIdx int, to Point, maxExtend float64) *Node {
	from := r.Nodes[fromIdx]
	newNode := &Node{X: from.X, Y: from.Y, Parent: fromIdx}

	d, theta := distanceAndAngle(newNode.Position(), to)
	if maxExtend > d {
		maxExtend = d
	}
	newNode.Path = []Point{newNode.Position()}

	steps := int(math.Floor(maxExtend / r.Config.PathResolution))
	for s := 0; s < steps; s++ {
		newNode.X += r.Config.PathResolution * math.Cos(theta)
		newNode.Y += r.Config.PathResolution * math.Sin(theta)
		newNode.Path = append(newNode.Path, newNode.Position())
	}

	if rem := newNode.Position().Distance(to); rem > 0 && rem <= r.Config.PathResolution {
		newNode.Path = append(newNode.Path, to)
	}

	return newNode
}

// collisionFree narrows the obstacle set through the spatial index before
// running the exact test; results are identical to testing every obstacle
func (r *RRT) collisionFree(node *Node) bool {
	if node == nil {
		return false
	}
	if r.index == nil {
		return IsCollisionFree(node, r.Obstacles, r.Config.InflationRadius)
	}
	minX, minY, maxX, maxY := pathBounds(node.Path)
	return IsCollisionFree(node, r.index.Candidates(minX, minY, maxX, maxY), r.Config.InflationRadius)
}

// finalCourse walks parent links from the node at goalIdx back to the root.
// The first point is always the goal, the last is always the start.
func (r *RRT) finalCourse(goalIdx int) []Point {
	path := []Point{r.Goal.Position()}
	node := r.Nodes[goalIdx]
	for node.Parent != -1 {
		path = append(path, node.Position())
		node = r.Nodes[node.Parent]
	}
	path = append(path, node.Position())
	return path
}

func (r *RRT) notify(iteration int, sample Point) {
	if r.Observer == nil {
		return
	}
	r.Observer.OnIteration(Snapshot{
		Iteration:      iteration,
		Sample:         sample,
		Nodes:          r.Nodes,
		SamplingRadius: r.SamplingRadius,
	})
}

// nearestNodeIndex returns the index of the node closest to p, by squared
// distance; ties go to the lowest index
func nearestNodeIndex(nodes []*Node, p Point) int {
	minIdx := 0
	minDist := nodes[0].Position().SquaredDistance(p)
	for i := 1; i < len(nodes); i++ {
		if d := nodes[i].Position().SquaredDistance(p); d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return minIdx
}

// PlanResult is the serializable outcome of a planning run
type PlanResult struct {
	Start           Point      `json:"start"`
	Goal            Point      `json:"goal"`
	Obstacles       []Obstacle `json:"obstacles"`
	Path            []Point    `json:"path"`
	Success         bool       `json:"success"`
	Nodes           []*Node    `json:"nodes"`
	PlanTimeSeconds float64    `json:"planTimeSeconds"`
}

// SavePlanResult serializes and saves a planning result to a JSON file
func SavePlanResult(result *PlanResult, filename string) error {
	log.Printf("💾 Saving plan result to %s...\n", filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Result saved (%d bytes)\n", len(data))
	return nil
}

// LoadPlanResult deserializes a planning result from a JSON file
func LoadPlanResult(filename string) (*PlanResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var result PlanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}
