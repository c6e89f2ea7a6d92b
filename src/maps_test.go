package game

import (
	"testing"

	"shadowstep-server/levels"
	pf "shadowstep-server/pathfinding"
)

func testLevel(t *testing.T) *levels.Level {
	t.Helper()
	lvl, err := levels.Parse([]byte(`
name: fixture
width: 6
height: 5
cell_size: 1
walls:
  - "......"
  - ".####."
  - "......"
  - "......"
  - "......"
props:
  - name: shelf
    x: 1
    y: 3
    width: 2
    height: 1
    layer: object
  - name: barrel
    x: 4.5
    y: 3.5
    width: 1
    height: 1
    layer: collider
  - name: rug
    x: 0
    y: 0
    width: 6
    height: 5
    layer: decor
`))
	if err != nil {
		t.Fatalf("parse fixture level: %v", err)
	}
	return lvl
}

func TestLevelObstacleQueryProbes(t *testing.T) {
	lvl := testLevel(t)
	q := &levelObstacleQuery{level: lvl}

	if !q.WallAt(pf.Point{X: 2, Y: 1}) {
		t.Error("WallAt(2,1) = false, want true")
	}
	if q.WallAt(pf.Point{X: 0, Y: 0}) {
		t.Error("WallAt(0,0) = true, want false")
	}
	if q.WallAt(pf.Point{X: 2, Y: 2}) {
		t.Error("WallAt(2,2) = true, want false")
	}

	// Shelf spans [1,3) x [3,4) on the object layer.
	if !q.ObjectAt(pf.Point{X: 1.5, Y: 3.5}) {
		t.Error("ObjectAt inside shelf = false, want true")
	}
	if q.ObjectAt(pf.Point{X: 3.5, Y: 3.5}) {
		t.Error("ObjectAt outside shelf = true, want false")
	}
	// The decor rug covers everything but answers no probe.
	if q.ObjectAt(pf.Point{X: 5.5, Y: 0.5}) {
		t.Error("decor prop answered the object probe")
	}

	// Barrel spans [4.5,5.5) x [3.5,4.5) as a collider.
	if !q.OverlapCircle(pf.Point{X: 4, Y: 4}, 0.6) {
		t.Error("OverlapCircle near barrel = false, want true")
	}
	if q.OverlapCircle(pf.Point{X: 4, Y: 4}, 0.3) {
		t.Error("OverlapCircle far from barrel = true, want false")
	}
	if q.OverlapCircle(pf.Point{X: 0, Y: 0}, 0.4) {
		t.Error("OverlapCircle away from all colliders = true, want false")
	}
}

func TestNewMapStateClassifiesGrid(t *testing.T) {
	lvl := testLevel(t)
	ms := newMapState(lvl, "")

	cases := []struct {
		x, y     int
		walkable bool
		reason   string
	}{
		{0, 0, true, "open floor"},
		{2, 1, false, "wall tile"},
		{1, 3, false, "object-layer shelf"},
		{5, 4, false, "collider barrel"},
		{0, 4, true, "decor never blocks"},
	}
	for _, tc := range cases {
		c, ok := ms.grid.CellAt(tc.x, tc.y)
		if !ok {
			t.Fatalf("CellAt(%d, %d) out of bounds", tc.x, tc.y)
		}
		if c.Walkable != tc.walkable {
			t.Errorf("cell (%d,%d) walkable = %v, want %v (%s)", tc.x, tc.y, c.Walkable, tc.walkable, tc.reason)
		}
	}

	if len(ms.props) != 3 {
		t.Errorf("props = %d, want 3", len(ms.props))
	}
}

func TestClosestWalkable(t *testing.T) {
	lvl := testLevel(t)
	ms := newMapState(lvl, "")

	// A walkable cell maps to itself.
	got, err := closestWalkable(ms.grid, pf.PointI{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("closestWalkable: %v", err)
	}
	if got != (pf.PointI{X: 0, Y: 0}) {
		t.Errorf("walkable start moved to (%d,%d)", got.X, got.Y)
	}

	// A wall cell resolves to an adjacent walkable one.
	got, err = closestWalkable(ms.grid, pf.PointI{X: 2, Y: 1})
	if err != nil {
		t.Fatalf("closestWalkable from wall: %v", err)
	}
	c, ok := ms.grid.CellAt(got.X, got.Y)
	if !ok || !c.Walkable {
		t.Errorf("resolved cell (%d,%d) is not walkable", got.X, got.Y)
	}
	if dist := absInt(got.X-2) + absInt(got.Y-1); dist != 1 {
		t.Errorf("resolved cell (%d,%d) is %d steps away, want 1", got.X, got.Y, dist)
	}
}

func TestRequestPathReturnsWorldWaypoints(t *testing.T) {
	lvl := testLevel(t)
	ms := newMapState(lvl, "")

	from := ms.grid.ToWorld(0, 0)
	to := ms.grid.ToWorld(0, 4)
	points, err := requestPath(ms, from, to)
	if err != nil {
		t.Fatalf("requestPath: %v", err)
	}
	if len(points) < 2 {
		t.Fatalf("path has %d waypoints, want at least 2", len(points))
	}
	if points[0] != from {
		t.Errorf("path starts at %+v, want %+v", points[0], from)
	}
	if points[len(points)-1] != to {
		t.Errorf("path ends at %+v, want %+v", points[len(points)-1], to)
	}
}

func TestReloadLevelRefreshesWalkability(t *testing.T) {
	lvl := testLevel(t)
	ms := newMapState(lvl, "")

	c, _ := ms.grid.CellAt(0, 0)
	if !c.Walkable {
		t.Fatal("cell (0,0) should start walkable")
	}

	// Simulate the reload path: swap the level behind the query and refresh.
	edited := testLevel(t)
	edited.Walls[0] = "#....."
	ms.level = edited
	ms.query.level = edited
	ms.grid.Refresh()

	c, _ = ms.grid.CellAt(0, 0)
	if c.Walkable {
		t.Error("cell (0,0) still walkable after wall edit and refresh")
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
