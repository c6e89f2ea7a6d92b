package pathfinding

import (
	"fmt"
	"log"
)

// maxIterations bounds the total number of search loop passes per call.
// Every pass counts, whether it advances or backtracks.
const maxIterations = 1000

// Pathfinder routes an agent between grid cells with a greedy best-first
// search: it always steps to the unvisited walkable neighbor closest to the
// goal by heuristic distance, backtracking on dead ends. The search is
// non-exhaustive and can miss paths that exist; callers treat a failed
// search as a normal outcome.
//
// A Pathfinder owns its grid's transient search state for the duration of a
// call, so at most one search may be in flight per grid. Callers that share
// a grid across goroutines must serialize externally.
type Pathfinder struct {
	grid     *Grid
	lastPath []*Cell
	visited  []*Cell
}

// NewPathfinder creates a pathfinder over the given grid.
func NewPathfinder(grid *Grid) *Pathfinder {
	return &Pathfinder{grid: grid}
}

// Heuristic scores the distance between two grid coordinates: 14 per
// diagonal step and 10 per straight step, a fixed-point stand-in for
// 10*sqrt(2). The integer-valued constants are part of the contract.
func Heuristic(a, b PointI) float64 {
	dx := absInt(a.X - b.X)
	dy := absInt(a.Y - b.Y)
	dMin, dMax := dx, dy
	if dMin > dMax {
		dMin, dMax = dMax, dMin
	}
	return float64(14*dMin + 10*(dMax-dMin))
}

// FindPath resolves the world positions to cells and searches between them.
func (pf *Pathfinder) FindPath(start, goal Point) ([]*Cell, error) {
	if pf.grid == nil {
		return nil, fmt.Errorf("no grid configured")
	}
	startCell, _ := pf.grid.CellAtWorld(start)
	goalCell, _ := pf.grid.CellAtWorld(goal)
	return pf.FindPathCells(startCell, goalCell)
}

// FindPathCells searches from start to goal and returns the cells walked,
// start and goal inclusive. On failure no path is returned; the grid's
// transient fields are left in their last-touched state and are only
// guaranteed pristine by the next call's reset.
func (pf *Pathfinder) FindPathCells(start, goal *Cell) ([]*Cell, error) {
	if pf.grid == nil {
		return nil, fmt.Errorf("no grid configured")
	}
	pf.grid.resetSearchState()
	pf.lastPath = nil
	pf.visited = nil

	if start == nil || goal == nil {
		log.Printf("WARNING: pathfinding aborted: start or goal does not resolve to a cell")
		return nil, fmt.Errorf("start or goal cell not found")
	}
	if !start.Walkable || !goal.Walkable {
		log.Printf("WARNING: pathfinding aborted: start (%d,%d) or goal (%d,%d) is not walkable",
			start.Coord.X, start.Coord.Y, goal.Coord.X, goal.Coord.Y)
		return nil, fmt.Errorf("start or goal cell is not walkable")
	}

	path := []*Cell{start}
	visited := map[*Cell]bool{start: true}
	order := []*Cell{start}
	current := start

	iterations := 0
	for current != goal {
		if iterations >= maxIterations {
			log.Printf("WARNING: pathfinding aborted after %d iterations with no route to (%d,%d)",
				maxIterations, goal.Coord.X, goal.Coord.Y)
			pf.visited = order
			return nil, fmt.Errorf("no path found within %d iterations", maxIterations)
		}
		iterations++

		// Pick the unvisited neighbor with the smallest heuristic distance
		// to the goal. Strictly-less comparison, so the first candidate in
		// scan order wins ties.
		var best *Cell
		var bestH float64
		for _, n := range pf.grid.Neighbors(current) {
			if visited[n] {
				continue
			}
			h := Heuristic(n.Coord, goal.Coord)
			if best == nil || h < bestH {
				best = n
				bestH = h
			}
		}

		if best == nil {
			// Dead end: undo the most recent step if there is one.
			if len(path) > 1 {
				path = path[:len(path)-1]
				current = path[len(path)-1]
				continue
			}
			log.Printf("WARNING: pathfinding failed: dead end at (%d,%d) with nothing to backtrack",
				current.Coord.X, current.Coord.Y)
			pf.visited = order
			return nil, fmt.Errorf("no path found: search exhausted")
		}

		best.hCost = bestH
		best.gCost = current.gCost + Heuristic(current.Coord, best.Coord)
		best.parent = current
		path = append(path, best)
		visited[best] = true
		order = append(order, best)
		current = best
	}

	pf.lastPath = path
	pf.visited = order
	return path, nil
}

// LastPath returns the most recently produced successful path. Exposed for
// debug visualization only; not part of the search contract.
func (pf *Pathfinder) LastPath() []*Cell { return pf.lastPath }

// Visited returns the cells visited during the most recent search, in visit
// order. Exposed for debug visualization only.
func (pf *Pathfinder) Visited() []*Cell { return pf.visited }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
