package pathfinding

import (
	"math"
)

// collisionRadiusFactor scales the cell size into the radius used for the
// circular collider probe when classifying a cell.
const collisionRadiusFactor = 0.4

// Point is a position in continuous world space.
type Point struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

// PointI is an integer grid coordinate.
type PointI struct {
	X int `json:"X"`
	Y int `json:"Y"`
}

// Cell is one grid slot: the unit of walkability and path composition.
// Cells are allocated once at grid build time and never reallocated; a
// search run only touches the transient cost/parent fields.
type Cell struct {
	Coord    PointI `json:"coord"`
	WorldPos Point  `json:"worldPos"`
	Walkable bool   `json:"walkable"`

	// Transient search bookkeeping, reset before each search run.
	gCost  float64
	hCost  float64
	parent *Cell
}

// ObstacleQuery answers the three static-obstacle probes the grid runs when
// classifying a cell: wall-layer occupancy, object-layer occupancy, and a
// circular collider overlap test. Implementations must be pure with respect
// to the underlying world state so that re-running a classification with
// unchanged obstacles yields the same result.
type ObstacleQuery interface {
	WallAt(p Point) bool
	ObjectAt(p Point) bool
	OverlapCircle(center Point, radius float64) bool
}

// Grid is a fixed-size 2D array of cells classified walkable or blocked
// from an ObstacleQuery. It answers coordinate conversion and neighbor
// enumeration for the pathfinder.
type Grid struct {
	width, height int
	cellSize      float64
	offset        Point
	cells         [][]*Cell // indexed [y][x]
	query         ObstacleQuery
}

// NewGrid allocates a width x height grid and runs the initial walkability
// classification. A nil query marks every cell walkable.
func NewGrid(width, height int, cellSize float64, offset Point, query ObstacleQuery) *Grid {
	g := &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		offset:   offset,
		query:    query,
	}
	g.cells = make([][]*Cell, height)
	for y := 0; y < height; y++ {
		g.cells[y] = make([]*Cell, width)
		for x := 0; x < width; x++ {
			g.cells[y][x] = &Cell{
				Coord:    PointI{X: x, Y: y},
				WorldPos: g.ToWorld(x, y),
			}
		}
	}
	g.Refresh()
	return g
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Height() int       { return g.height }
func (g *Grid) CellSize() float64 { return g.cellSize }

// Refresh re-runs the obstacle classification for every cell. It is called
// once at construction and may be invoked again after terrain changes. It
// overwrites the walkable flags in place and never reallocates cells.
func (g *Grid) Refresh() {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.cells[y][x]
			c.Walkable = g.classify(c.WorldPos)
		}
	}
}

// classify reports whether the world position is free of obstacles. The
// probes run in a fixed order: wall layer, object layer, collider overlap.
func (g *Grid) classify(pos Point) bool {
	if g.query == nil {
		return true
	}
	if g.query.WallAt(pos) {
		return false
	}
	if g.query.ObjectAt(pos) {
		return false
	}
	if g.query.OverlapCircle(pos, collisionRadiusFactor*g.cellSize) {
		return false
	}
	return true
}

// ToGrid converts a world position to a grid coordinate: round to nearest
// after removing the offset and dividing by the cell size, then clamp into
// range. Out-of-bounds world positions map to the nearest edge cell.
func (g *Grid) ToGrid(p Point) PointI {
	x := int(math.Round((p.X - g.offset.X) / g.cellSize))
	y := int(math.Round((p.Y - g.offset.Y) / g.cellSize))
	return PointI{
		X: clampInt(x, 0, g.width-1),
		Y: clampInt(y, 0, g.height-1),
	}
}

// ToWorld converts a grid coordinate to its world position. The inverse of
// ToGrid for in-range coordinates; no clamping is applied.
func (g *Grid) ToWorld(x, y int) Point {
	return Point{
		X: float64(x)*g.cellSize + g.offset.X,
		Y: float64(y)*g.cellSize + g.offset.Y,
	}
}

// CellAt returns the cell at (x, y), or false when the coordinate is out of
// bounds.
func (g *Grid) CellAt(x, y int) (*Cell, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil, false
	}
	return g.cells[y][x], true
}

// CellAtWorld resolves a world position to its cell via ToGrid. Because
// ToGrid clamps, every world position resolves to some cell.
func (g *Grid) CellAtWorld(p Point) (*Cell, bool) {
	coord := g.ToGrid(p)
	return g.CellAt(coord.X, coord.Y)
}

// Neighbors returns the walkable, in-bounds 8-neighbors of a cell. The scan
// order is fixed: dx runs -1,0,1 in the outer loop, dy runs -1,0,1 in the
// inner loop, skipping (0,0). Greedy tie-breaking depends on this order, so
// it is part of the contract. Blocked and out-of-bounds neighbors are
// omitted, never returned as nil entries.
func (g *Grid) Neighbors(c *Cell) []*Cell {
	out := make([]*Cell, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := c.Coord.X+dx, c.Coord.Y+dy
			if x < 0 || x >= g.width || y < 0 || y >= g.height {
				continue
			}
			if n := g.cells[y][x]; n.Walkable {
				out = append(out, n)
			}
		}
	}
	return out
}

// resetSearchState clears the transient cost and parent fields on every
// cell. Runs once at the start of each search call.
func (g *Grid) resetSearchState() {
	for y := range g.cells {
		for x := range g.cells[y] {
			c := g.cells[y][x]
			c.gCost = 0
			c.hCost = 0
			c.parent = nil
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
