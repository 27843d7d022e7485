package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

// Bounds is the square sampling area, applied to both axes
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type PlanRequest struct {
	Start      *Point          `json:"start,omitempty"`     // default: demo course start
	Goal       *Point          `json:"goal,omitempty"`      // default: demo course goal
	Obstacles  []Obstacle      `json:"obstacles,omitempty"` // absent: server scene; []: empty world
	Bounds     *Bounds         `json:"bounds,omitempty"`
	Config     json.RawMessage `json:"config,omitempty"` // overrides on top of DefaultConfig
	Seed       int64           `json:"seed,omitempty"`   // nonzero for reproducible runs
	SaveToFile bool            `json:"saveToFile,omitempty"`
}

type PlanResponse struct {
	Path            []Point `json:"path"`
	Success         bool    `json:"success"`
	Message         string  `json:"message,omitempty"`
	PathLength      float64 `json:"pathLength,omitempty"`
	Nodes           int     `json:"nodes,omitempty"`
	Iterations      int     `json:"iterations,omitempty"`
	PlanTimeSeconds float64 `json:"planTimeSeconds,omitempty"`
}

// Demo course from the reference scenario
var (
	defaultStart  = Point{X: -5, Y: -8}
	defaultGoal   = Point{X: 6, Y: 10}
	defaultBounds = Bounds{Min: -15.0, Max: 15.0}
)

func defaultObstacleCourse() []Obstacle {
	return []Obstacle{
		{X: 5, Y: 5, Radius: 1},
		{X: 3, Y: 6, Radius: 2},
		{X: 3, Y: 8, Radius: 2},
		{X: 3, Y: 10, Radius: 2},
		{X: 7, Y: 5, Radius: 2},
		{X: 9, Y: 5, Radius: 2},
		{X: 8, Y: 10, Radius: 1},
	}
}

var (
	sceneObstacles []Obstacle
	lastResult     *PlanResult
	stateMutex     sync.RWMutex
)

// iterationCounter records how many planner iterations a run consumed
type iterationCounter struct {
	n int
}

func (c *iterationCounter) OnIteration(s Snapshot) {
	c.n = s.Iteration + 1
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// POST /plan - Run the RRT planner for a start/goal pair
func planHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Plan request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Fill defaults for anything the request left out
	start, goal := defaultStart, defaultGoal
	if req.Start != nil {
		start = *req.Start
	}
	if req.Goal != nil {
		goal = *req.Goal
	}
	bounds := defaultBounds
	if req.Bounds != nil {
		bounds = *req.Bounds
	}
	obstacles := req.Obstacles
	if obstacles == nil {
		stateMutex.RLock()
		obstacles = sceneObstacles
		stateMutex.RUnlock()
	}

	cfg := DefaultConfig()
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			log.Printf("❌ Invalid config: %v\n", err)
			http.Error(w, "Invalid config", http.StatusBadRequest)
			return
		}
	}

	var rng *rand.Rand
	if req.Seed != 0 {
		rng = rand.New(rand.NewSource(req.Seed))
	}

	log.Printf("   Start: (%.3f, %.3f)\n", start.X, start.Y)
	log.Printf("   Goal:  (%.3f, %.3f)\n", goal.X, goal.Y)
	log.Printf("   Obstacles: %d, bounds [%.1f, %.1f]\n", len(obstacles), bounds.Min, bounds.Max)

	rrt, err := NewRRT(start, goal, obstacles, bounds.Min, bounds.Max, cfg, rng)
	if err != nil {
		log.Printf("❌ Rejected: %v\n", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(PlanResponse{Success: false, Message: err.Error()})
		log.Println("========================================")
		return
	}

	counter := &iterationCounter{}
	rrt.Observer = counter

	log.Println("🌱 Growing RRT...")
	planStart := time.Now()
	path, found := rrt.Planning()
	elapsed := time.Since(planStart)

	var pathLength float64
	for i := 0; i+1 < len(path); i++ {
		pathLength += path[i].Distance(path[i+1])
	}

	result := &PlanResult{
		Start:           start,
		Goal:            goal,
		Obstacles:       obstacles,
		Path:            path,
		Success:         found,
		Nodes:           rrt.Nodes,
		PlanTimeSeconds: elapsed.Seconds(),
	}
	stateMutex.Lock()
	lastResult = result
	stateMutex.Unlock()

	if req.SaveToFile {
		if err := SavePlanResult(result, "rrt_result.json"); err != nil {
			log.Printf("⚠️  Failed to save result: %v\n", err)
		}
	}

	response := PlanResponse{
		Path:            path,
		Success:         found,
		PathLength:      pathLength,
		Nodes:           len(rrt.Nodes),
		Iterations:      counter.n,
		PlanTimeSeconds: elapsed.Seconds(),
	}

	if !found {
		log.Printf("❌ No path found after %d iterations\n", counter.n)
		response.Message = "No path found within the iteration budget"
	} else {
		log.Printf("✅ Path found with %d waypoints\n", len(path))
		log.Printf("   Length: %.3f, tree nodes: %d, iterations: %d\n",
			pathLength, len(rrt.Nodes), counter.n)
		log.Printf("   ⏱️  Plan time: %.4f seconds\n", elapsed.Seconds())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
	log.Println("========================================")
}

// GET /getTreeLines - Get the last run's steered segments for visualization
func getTreeLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stateMutex.RLock()
	result := lastResult
	stateMutex.RUnlock()

	if result == nil {
		log.Println("❌ No plan has run yet")
		http.Error(w, "No plan has run yet. Call /plan first", http.StatusBadRequest)
		return
	}

	lines := make([][]Point, 0, len(result.Nodes))
	for _, node := range result.Nodes {
		if node.Parent != -1 {
			lines = append(lines, node.Path)
		}
	}

	log.Printf("📊 Returning %d tree segments\n", len(lines))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"lines":    lines,
		"numNodes": len(result.Nodes),
		"path":     result.Path,
	})
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	stateMutex.RLock()
	numObstacles := len(sceneObstacles)
	hasResult := lastResult != nil
	stateMutex.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "ready",
		"numObstacles": numObstacles,
		"hasResult":    hasResult,
	})
}

func main() {
	log.Println("========================================")
	log.Println("🚀 RRT Path Planner Server")
	log.Println("========================================")
	log.Println("Checking for obstacle files...")

	if _, err := os.Stat("obstacles"); err == nil {
		obstacles, err := loadObstaclesFromDir("obstacles")
		if err == nil && len(obstacles) > 0 {
			sceneObstacles = obstacles
		}
	}
	if sceneObstacles == nil {
		log.Println("ℹ️  No obstacle files found, using the default course")
		sceneObstacles = defaultObstacleCourse()
	}
	log.Printf("Scene: %d obstacles\n", len(sceneObstacles))
	log.Println("")

	http.HandleFunc("/plan", corsMiddleware(planHandler))
	http.HandleFunc("/getTreeLines", corsMiddleware(getTreeLinesHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))

	log.Println("Server starting on :8080")
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /plan         - Run the RRT planner")
	log.Println("  GET  /getTreeLines - Get tree segments for visualization")
	log.Println("  GET  /health       - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal(err)
	}
}
