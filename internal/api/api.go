// Package api exposes the CBS solvers over HTTP with gin: POST /solve
// runs an instance to completion, GET /healthz is a liveness probe, and
// GET /metrics exports the Prometheus collectors registered in
// internal/metrics.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/distributed/centralized"
	"github.com/orange-dot/mapf-cbs/internal/distributed/decentralized"
	"github.com/orange-dot/mapf-cbs/internal/lowlevel"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/metrics"
)

// Server bundles the gin engine with a shared metrics registry.
type Server struct {
	Engine   *gin.Engine
	Registry *prometheus.Registry
}

// NewServer builds a Server with routes wired.
func NewServer() *Server {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{Engine: engine, Registry: reg}
	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	engine.POST("/solve", s.handleSolve)
	return s
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[INFO] api: %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// solveRequest is the POST /solve payload: a grid plus per-agent starts
// and goals, and which driver to run it with.
type solveRequest struct {
	Width     int     `json:"width" binding:"required"`
	Height    int     `json:"height" binding:"required"`
	Obstacles []byte  `json:"obstacles"`
	Starts    [][2]int `json:"starts" binding:"required"`
	Goals     [][2]int `json:"goals" binding:"required"`
	Driver    string  `json:"driver"` // "serial" (default), "centralized", "decentralized"
	TimeoutMs int     `json:"timeout_ms"`
}

type solveResponse struct {
	RunID         string           `json:"run_id"`
	SolutionFound bool             `json:"solution_found"`
	TimedOut      bool             `json:"timed_out"`
	Cost          float64          `json:"cost"`
	Paths         map[int][][2]int `json:"paths,omitempty"`
	NodesExpanded int64            `json:"nodes_expanded"`
	NodesGenerated int64           `json:"nodes_generated"`
	RuntimeSec    float64          `json:"runtime_sec"`
}

func (s *solveRequest) toInstance() *mapfcore.Instance {
	grid := mapfcore.NewGrid(s.Width, s.Height, s.Obstacles)
	starts := make([]mapfcore.Coord, len(s.Starts))
	for i, p := range s.Starts {
		starts[i] = mapfcore.Coord{X: p[0], Y: p[1]}
	}
	goals := make([]mapfcore.Coord, len(s.Goals))
	for i, p := range s.Goals {
		goals[i] = mapfcore.Coord{X: p[0], Y: p[1]}
	}
	return &mapfcore.Instance{Grid: grid, Starts: starts, Goals: goals}
}

func (s *Server) handleSolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst := req.toInstance()
	if err := inst.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver := req.Driver
	if driver == "" {
		driver = "serial"
	}
	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	runID := uuid.NewString()
	metrics.ActiveSolves.Inc()
	defer metrics.ActiveSolves.Dec()

	plan := func(agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool) {
		return lowlevel.SpaceTimeAStar(inst.Grid, constraints, agentID, start, goal, mapfcore.DefaultHorizon(inst.Grid.W, inst.Grid.H))
	}

	timer := prometheus.NewTimer(metrics.SolveDurationSeconds.WithLabelValues(driver))
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	var node *cbs.Node
	var stats mapfcore.Stats
	switch driver {
	case "centralized":
		cfg := centralized.DefaultConfig()
		cfg.Timeout = timeout
		node, stats = centralized.NewSolver(cfg, plan).Solve(ctx, inst)
	case "decentralized":
		cfg := decentralized.DefaultConfig()
		cfg.Timeout = timeout
		node, stats = decentralized.NewSolver(cfg, plan).Solve(ctx, inst)
	default:
		cfg := cbs.DefaultSerialConfig()
		cfg.Timeout = timeout
		node, stats = cbs.NewSerialSolver(cfg, plan).Solve(ctx, inst)
	}

	outcome := "failure"
	switch {
	case stats.SolutionFound:
		outcome = "success"
	case stats.TimedOut:
		outcome = "timeout"
	}
	metrics.SolvesTotal.WithLabelValues(driver, outcome).Inc()
	metrics.NodesExpandedTotal.WithLabelValues(driver).Add(float64(stats.NodesExpanded))

	cost := -1.0
	if stats.SolutionFound {
		cost = stats.BestCost
	}
	resp := solveResponse{
		RunID:          runID,
		SolutionFound:  stats.SolutionFound,
		TimedOut:       stats.TimedOut,
		Cost:           cost,
		NodesExpanded:  stats.NodesExpanded,
		NodesGenerated: stats.NodesGenerated,
		RuntimeSec:     stats.RuntimeSec,
	}
	if node != nil {
		resp.Paths = make(map[int][][2]int, len(node.Paths))
		for agent, path := range node.Paths {
			steps := make([][2]int, path.Len())
			for i, c := range path {
				steps[i] = [2]int{c.X, c.Y}
			}
			resp.Paths[agent] = steps
		}
	}

	status := http.StatusOK
	if !stats.SolutionFound {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}
