package game

import (
	"testing"

	pf "shadowstep-server/pathfinding"
)

func TestUpdatePlayerPositionFollowsPath(t *testing.T) {
	s, ms := testServer(t)
	p := addPlayer(ms, "p1", ms.grid.ToWorld(0, 2))
	p.Mode = WALKING
	p.Path = []pf.Point{ms.grid.ToWorld(1, 2), ms.grid.ToWorld(2, 2)}

	for i := 0; i < 100 && p.Mode == WALKING; i++ {
		s.updatePlayerPosition(p)
	}
	if p.Mode != IDLE {
		t.Fatal("player never reached the end of its path")
	}
	if p.Pos != ms.grid.ToWorld(2, 2) {
		t.Errorf("player stopped at %+v, want %+v", p.Pos, ms.grid.ToWorld(2, 2))
	}
	if p.Direction != NONE {
		t.Errorf("idle player direction = %v, want NONE", p.Direction)
	}
}

func TestUpdatePlayerPositionSkipsGhosts(t *testing.T) {
	s, ms := testServer(t)
	p := addPlayer(ms, "p1", ms.grid.ToWorld(0, 2))
	p.Mode = WALKING
	p.Path = []pf.Point{ms.grid.ToWorld(1, 2)}
	p.Life = 0
	s.handlePlayerDeath(p)
	start := p.Pos

	s.updatePlayerPosition(p)

	if p.Pos != start {
		t.Error("ghost moved")
	}
}

func TestGetEntityCounts(t *testing.T) {
	s, ms := testServer(t)
	addPlayer(ms, "p1", ms.grid.ToWorld(0, 2))
	addPlayer(ms, "p2", ms.grid.ToWorld(0, 4))
	addGuard(ms, "g1", BehaviorPatrol, ms.grid.ToWorld(2, 3))

	counts := s.GetEntityCounts()
	if counts["players"] != 2 || counts["guards"] != 1 {
		t.Errorf("counts = %+v", counts)
	}
	// The fixture level carries three props.
	if counts["total"] != 2+1+3 {
		t.Errorf("total = %d, want 6", counts["total"])
	}
}

func TestGetMapStats(t *testing.T) {
	s, ms := testServer(t)
	addPlayer(ms, "p1", ms.grid.ToWorld(0, 2))

	stats, ok := s.GetMapStats(0)
	if !ok {
		t.Fatal("map 0 missing")
	}
	if stats["name"] != ms.level.Name || stats["players"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if _, ok := s.GetMapStats(99); ok {
		t.Error("GetMapStats(99) should report missing map")
	}
}

func TestGetDebugGridMirrorsWalkability(t *testing.T) {
	s, ms := testServer(t)

	rows, ok := s.GetDebugGrid(0)
	if !ok {
		t.Fatal("map 0 missing")
	}
	if len(rows) != ms.grid.Height() {
		t.Fatalf("rows = %d, want %d", len(rows), ms.grid.Height())
	}
	for y, row := range rows {
		if len(row) != ms.grid.Width() {
			t.Fatalf("row %d has %d columns, want %d", y, len(row), ms.grid.Width())
		}
		for x := 0; x < len(row); x++ {
			c, _ := ms.grid.CellAt(x, y)
			want := byte('.')
			if !c.Walkable {
				want = '#'
			}
			if row[x] != want {
				t.Errorf("rows[%d][%d] = %c, want %c", y, x, row[x], want)
			}
		}
	}
}

func TestGetDebugPathTracksLastSearch(t *testing.T) {
	s, ms := testServer(t)

	dp, ok := s.GetDebugPath(0)
	if !ok {
		t.Fatal("map 0 missing")
	}
	if len(dp.Path) != 0 || len(dp.Visited) != 0 {
		t.Errorf("fresh pathfinder reported a search: %+v", dp)
	}

	if _, err := requestPath(ms, ms.grid.ToWorld(0, 2), ms.grid.ToWorld(3, 4)); err != nil {
		t.Fatalf("requestPath: %v", err)
	}
	dp, _ = s.GetDebugPath(0)
	if len(dp.Path) == 0 || len(dp.Visited) == 0 {
		t.Error("debug snapshot missing after a successful search")
	}
	if dp.Path[0] != (pf.PointI{X: 0, Y: 2}) {
		t.Errorf("path starts at %+v, want (0,2)", dp.Path[0])
	}
	if dp.Path[len(dp.Path)-1] != (pf.PointI{X: 3, Y: 4}) {
		t.Errorf("path ends at %+v, want (3,4)", dp.Path[len(dp.Path)-1])
	}
}
