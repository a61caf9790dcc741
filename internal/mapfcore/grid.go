// Package mapfcore defines the shared domain model for grid-based
// multi-agent pathfinding: coordinates, the obstacle grid, constraints,
// time-indexed paths, and the problem instance bundle.
package mapfcore

// Coord is an integer grid coordinate.
type Coord struct {
	X, Y int
}

// Grid is an immutable-after-construction obstacle map, W*H cells in
// row-major order. A cell outside [0,W)x[0,H) is always treated as an
// obstacle.
type Grid struct {
	W, H      int
	obstacles []byte
}

// NewGrid builds a Grid from a row-major byte slice where a non-zero byte
// marks an obstacle. The slice is copied; the caller's copy may be reused.
func NewGrid(w, h int, obstacles []byte) *Grid {
	cells := make([]byte, w*h)
	copy(cells, obstacles)
	return &Grid{W: w, H: h, obstacles: cells}
}

// NewEmptyGrid builds a W*H grid with no obstacles.
func NewEmptyGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, obstacles: make([]byte, w*h)}
}

// InBounds reports whether (x, y) lies within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// IsObstacle reports whether (x, y) is blocked. Out-of-bounds cells count
// as obstacles.
func (g *Grid) IsObstacle(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.obstacles[y*g.W+x] != 0
}

// SetObstacle marks or clears a cell. Used by instance builders and tests;
// the grid is otherwise treated as read-only during search.
func (g *Grid) SetObstacle(x, y int, blocked bool) {
	if !g.InBounds(x, y) {
		return
	}
	if blocked {
		g.obstacles[y*g.W+x] = 1
	} else {
		g.obstacles[y*g.W+x] = 0
	}
}

// Cells returns the number of cells in the grid (W*H).
func (g *Grid) Cells() int {
	return g.W * g.H
}
