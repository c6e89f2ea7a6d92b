package pathfinding

import (
	"math"
	"testing"
)

// layoutQuery backs an ObstacleQuery with a rune layout: '#' answers the
// wall probe, 'o' the object-layer probe, 'c' the collider probe, '.' is
// open. Rows are indexed [y][x].
type layoutQuery struct {
	rows       []string
	cellSize   float64
	lastRadius float64
}

func (q *layoutQuery) at(p Point) byte {
	x := int(math.Round(p.X / q.cellSize))
	y := int(math.Round(p.Y / q.cellSize))
	if y < 0 || y >= len(q.rows) || x < 0 || x >= len(q.rows[y]) {
		return '#'
	}
	return q.rows[y][x]
}

func (q *layoutQuery) WallAt(p Point) bool   { return q.at(p) == '#' }
func (q *layoutQuery) ObjectAt(p Point) bool { return q.at(p) == 'o' }
func (q *layoutQuery) OverlapCircle(center Point, radius float64) bool {
	q.lastRadius = radius
	return q.at(center) == 'c'
}

// gridFromRows builds a grid whose dimensions match the layout, cell size 1
// and zero offset.
func gridFromRows(t *testing.T, rows []string) *Grid {
	t.Helper()
	q := &layoutQuery{rows: rows, cellSize: 1}
	return NewGrid(len(rows[0]), len(rows), 1, Point{}, q)
}

func openGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	return NewGrid(w, h, 1, Point{}, nil)
}

func TestToGridRoundsAndClamps(t *testing.T) {
	g := NewGrid(10, 8, 2, Point{X: 1, Y: 1}, nil)

	tests := []struct {
		name  string
		world Point
		want  PointI
	}{
		{"origin", Point{X: 1, Y: 1}, PointI{0, 0}},
		{"rounds to nearest", Point{X: 5.9, Y: 3.1}, PointI{2, 1}},
		{"negative clamps to edge", Point{X: -50, Y: -50}, PointI{0, 0}},
		{"beyond max clamps to edge", Point{X: 500, Y: 500}, PointI{9, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.ToGrid(tt.world); got != tt.want {
				t.Errorf("ToGrid(%v) = %v, want %v", tt.world, got, tt.want)
			}
		})
	}
}

func TestToWorldInvertsToGrid(t *testing.T) {
	g := NewGrid(6, 6, 2.5, Point{X: -3, Y: 4}, nil)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			world := g.ToWorld(x, y)
			if got := g.ToGrid(world); got != (PointI{X: x, Y: y}) {
				t.Fatalf("ToGrid(ToWorld(%d,%d)) = %v", x, y, got)
			}
		}
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	g := openGrid(t, 4, 4)
	for _, coord := range []PointI{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if _, ok := g.CellAt(coord.X, coord.Y); ok {
			t.Errorf("CellAt(%d,%d) should report not found", coord.X, coord.Y)
		}
	}
	if _, ok := g.CellAt(3, 3); !ok {
		t.Error("CellAt(3,3) should be in bounds")
	}
}

func TestClassificationProbes(t *testing.T) {
	g := gridFromRows(t, []string{
		".#.",
		".o.",
		".c.",
	})
	tests := []struct {
		x, y     int
		walkable bool
	}{
		{0, 0, true},
		{1, 0, false}, // wall layer
		{1, 1, false}, // object layer
		{1, 2, false}, // collider overlap
		{2, 2, true},
	}
	for _, tt := range tests {
		c, ok := g.CellAt(tt.x, tt.y)
		if !ok {
			t.Fatalf("CellAt(%d,%d) not found", tt.x, tt.y)
		}
		if c.Walkable != tt.walkable {
			t.Errorf("cell (%d,%d) walkable = %v, want %v", tt.x, tt.y, c.Walkable, tt.walkable)
		}
	}
}

func TestColliderProbeRadius(t *testing.T) {
	q := &layoutQuery{rows: []string{"..", ".."}, cellSize: 2}
	NewGrid(2, 2, 2, Point{}, q)
	want := 0.4 * 2.0
	if q.lastRadius != want {
		t.Errorf("collider probe radius = %v, want %v", q.lastRadius, want)
	}
}

func TestRefreshReclassifiesInPlace(t *testing.T) {
	q := &layoutQuery{rows: []string{"..", ".."}, cellSize: 1}
	g := NewGrid(2, 2, 1, Point{}, q)

	before, _ := g.CellAt(1, 0)
	if !before.Walkable {
		t.Fatal("cell (1,0) should start walkable")
	}

	// Terrain change: a wall appears at (1,0).
	q.rows = []string{".#", ".."}
	g.Refresh()

	after, _ := g.CellAt(1, 0)
	if after != before {
		t.Fatal("Refresh must not reallocate cells")
	}
	if after.Walkable {
		t.Error("cell (1,0) should be blocked after refresh")
	}

	// Idempotent with unchanged obstacles.
	g.Refresh()
	if c, _ := g.CellAt(1, 0); c.Walkable {
		t.Error("second refresh changed classification")
	}
}

func TestNeighborsScanOrder(t *testing.T) {
	g := openGrid(t, 3, 3)
	center, _ := g.CellAt(1, 1)
	got := g.Neighbors(center)

	// dx outer -1..1, dy inner -1..1, (0,0) skipped.
	want := []PointI{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d", len(got), len(want))
	}
	for i, n := range got {
		if n.Coord != want[i] {
			t.Errorf("neighbor %d = %v, want %v", i, n.Coord, want[i])
		}
	}
}

func TestNeighborsOmitBlockedAndOutOfBounds(t *testing.T) {
	g := gridFromRows(t, []string{
		"#..",
		"...",
		"..#",
	})
	corner, _ := g.CellAt(1, 0)
	got := g.Neighbors(corner)
	for _, n := range got {
		if !n.Walkable {
			t.Errorf("Neighbors returned blocked cell %v", n.Coord)
		}
		if n.Coord == (PointI{0, 0}) {
			t.Error("Neighbors returned the wall at (0,0)")
		}
	}
	// (0,1), (1,1), (2,0), (2,1) are the walkable neighbors of (1,0).
	if len(got) != 4 {
		t.Errorf("got %d neighbors, want 4", len(got))
	}
}

func TestNeighborSymmetryOnOpenGrid(t *testing.T) {
	g := openGrid(t, 5, 5)
	contains := func(cells []*Cell, c *Cell) bool {
		for _, n := range cells {
			if n == c {
				return true
			}
		}
		return false
	}
	for y := 1; y < 4; y++ {
		for x := 1; x < 4; x++ {
			c, _ := g.CellAt(x, y)
			for _, n := range g.Neighbors(c) {
				if !contains(g.Neighbors(n), c) {
					t.Errorf("asymmetric adjacency between %v and %v", c.Coord, n.Coord)
				}
			}
		}
	}
}
