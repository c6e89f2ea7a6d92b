package game

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"shadowstep-server/config"
	"shadowstep-server/levels"
	pf "shadowstep-server/pathfinding"
)

// levelObstacleQuery adapts a level definition to the grid's three obstacle
// probes: the wall tile layer, object-layer props, and collider props.
type levelObstacleQuery struct {
	level *levels.Level
}

// NewLevelObstacleQuery exposes the adapter for external consumers such as
// the terminal visualizer.
func NewLevelObstacleQuery(lvl *levels.Level) pf.ObstacleQuery {
	return &levelObstacleQuery{level: lvl}
}

func (q *levelObstacleQuery) WallAt(p pf.Point) bool {
	x := int(math.Round(p.X / q.level.CellSize))
	y := int(math.Round(p.Y / q.level.CellSize))
	return q.level.WallAtCell(x, y)
}

func (q *levelObstacleQuery) ObjectAt(p pf.Point) bool {
	for _, prop := range q.level.Props {
		if prop.Layer == levels.LayerObject && pointInProp(p, prop) {
			return true
		}
	}
	return false
}

func (q *levelObstacleQuery) OverlapCircle(center pf.Point, radius float64) bool {
	for _, prop := range q.level.Props {
		if prop.Layer == levels.LayerCollider && circlePropOverlap(center, radius, prop) {
			return true
		}
	}
	return false
}

func pointInProp(p pf.Point, prop levels.Prop) bool {
	return p.X >= prop.X && p.X < prop.X+prop.Width &&
		p.Y >= prop.Y && p.Y < prop.Y+prop.Height
}

// circlePropOverlap clamps the circle center into the prop rectangle and
// compares the remaining distance against the radius.
func circlePropOverlap(center pf.Point, radius float64, prop levels.Prop) bool {
	nx := math.Max(prop.X, math.Min(center.X, prop.X+prop.Width))
	ny := math.Max(prop.Y, math.Min(center.Y, prop.Y+prop.Height))
	dx := center.X - nx
	dy := center.Y - ny
	return dx*dx+dy*dy <= radius*radius
}

// createMaps loads level definitions, builds each map's grid and pathfinder,
// and places props and guards.
func (s *GameServer) createMaps() error {
	log.Println("Creating game maps...")

	type namedLevel struct {
		lvl  *levels.Level
		path string
	}
	var loaded []namedLevel

	if s.cfg.LevelsDir != "" {
		entries, err := filepath.Glob(filepath.Join(s.cfg.LevelsDir, "*.yaml"))
		if err != nil || len(entries) == 0 {
			return fmt.Errorf("no levels found in %s", s.cfg.LevelsDir)
		}
		sort.Strings(entries)
		for _, path := range entries {
			lvl, err := levels.LoadFile(path)
			if err != nil {
				log.Printf("WARNING: skipping level %s: %v", path, err)
				continue
			}
			loaded = append(loaded, namedLevel{lvl: lvl, path: path})
		}
	} else {
		names, err := levels.Names()
		if err != nil {
			return err
		}
		sort.Strings(names)
		for _, name := range names {
			lvl, err := levels.Load(name)
			if err != nil {
				return fmt.Errorf("bundled level %s: %w", name, err)
			}
			loaded = append(loaded, namedLevel{lvl: lvl})
		}
	}
	if len(loaded) == 0 {
		return fmt.Errorf("no usable levels")
	}

	for i, nl := range loaded {
		ms := newMapState(nl.lvl, nl.path)
		s.instantiateGuards(ms, i)
		s.maps[i] = ms
		log.Printf("Map %d (%s): %dx%d grid, %d props, %d guards",
			i, nl.lvl.Name, nl.lvl.Width, nl.lvl.Height, len(ms.props), len(ms.guards))
	}
	return nil
}

func newMapState(lvl *levels.Level, sourcePath string) *MapState {
	query := &levelObstacleQuery{level: lvl}
	grid := pf.NewGrid(lvl.Width, lvl.Height, lvl.CellSize, pf.Point{}, query)
	ms := &MapState{
		level:      lvl,
		query:      query,
		grid:       grid,
		pathfinder: pf.NewPathfinder(grid),
		players:    make(map[string]*PlayerState),
		guards:     make(map[string]*GuardState),
		props:      make(map[string]*PropState),
		sourcePath: sourcePath,
	}
	for _, prop := range lvl.Props {
		p := &PropState{
			ID:    uuid.New().String(),
			Name:  prop.Name,
			Pos:   pf.Point{X: prop.X, Y: prop.Y},
			Dims:  Dimensions{Width: prop.Width, Height: prop.Height},
			Layer: prop.Layer,
			Type:  "prop",
		}
		ms.props[p.ID] = p
	}
	return ms
}

// reloadLevel re-parses a map's on-disk level and refreshes the grid's
// walkability in place. Grid dimensions are fixed at construction; a level
// edit that changes them is rejected.
func (s *GameServer) reloadLevel(mapID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.maps[mapID]
	if !ok || ms.sourcePath == "" {
		return
	}
	lvl, err := levels.LoadFile(ms.sourcePath)
	if err != nil {
		log.Printf("WARNING: level reload failed for %s: %v", ms.sourcePath, err)
		return
	}
	if lvl.Width != ms.level.Width || lvl.Height != ms.level.Height {
		log.Printf("WARNING: level %s changed dimensions (%dx%d -> %dx%d); restart required",
			ms.sourcePath, ms.level.Width, ms.level.Height, lvl.Width, lvl.Height)
		return
	}
	ms.level = lvl
	ms.query.level = lvl
	ms.grid.Refresh()
	log.Printf("Level %s reloaded; grid walkability refreshed.", lvl.Name)
}

// ReloadLevelByPath maps a changed file back to its map and reloads it.
func (s *GameServer) ReloadLevelByPath(path string) {
	s.mu.Lock()
	var target int = -1
	for id, ms := range s.maps {
		if ms.sourcePath == path {
			target = id
			break
		}
	}
	s.mu.Unlock()
	if target >= 0 {
		s.reloadLevel(target)
	}
}

// instantiateGuards places the level's guard spawns on a map.
func (s *GameServer) instantiateGuards(ms *MapState, mapID int) {
	for _, spawn := range ms.level.Guards {
		startCell, err := closestWalkable(ms.grid, ms.grid.ToGrid(pf.Point{X: spawn.X, Y: spawn.Y}))
		if err != nil {
			log.Printf("WARNING: could not place guard at (%.0f, %.0f): %v", spawn.X, spawn.Y, err)
			continue
		}
		behavior := spawn.Behavior
		if behavior != BehaviorHostile {
			behavior = BehaviorPatrol
		}
		start := ms.grid.ToWorld(startCell.X, startCell.Y)

		guard := &GuardState{
			ID:             uuid.New().String(),
			MapID:          mapID,
			Pos:            start,
			Dims:           Dimensions{Width: 1, Height: 1},
			Path:           []pf.Point{},
			Direction:      NONE,
			Mode:           IDLE,
			Behavior:       behavior,
			SpawnCenter:    start,
			PatrolRadius:   spawn.PatrolRadius,
			DetectionRange: s.detectionRange,
			MaxLife:        config.EntityBaseMaxLife,
			Life:           config.EntityBaseMaxLife,
		}
		if guard.PatrolRadius <= 0 {
			guard.PatrolRadius = 4
		}

		// Initial patrol leg: a random point within the patrol radius.
		if target, ok := s.randomPointWithinRadius(ms, guard.SpawnCenter, guard.PatrolRadius); ok {
			if path, err := requestPath(ms, guard.Pos, target); err == nil {
				guard.Path = path
				guard.TargetPos = target
				guard.Mode = WALKING
			}
		}
		ms.guards[guard.ID] = guard
	}
}

// requestPath runs the greedy search between two world positions and
// returns the simplified world-space waypoints.
func requestPath(ms *MapState, from, to pf.Point) ([]pf.Point, error) {
	cells, err := ms.pathfinder.FindPath(from, to)
	if err != nil {
		return nil, err
	}
	cells = pf.SimplifyPath(cells)
	points := make([]pf.Point, len(cells))
	for i, c := range cells {
		points[i] = c.WorldPos
	}
	return points, nil
}

// closestWalkable expands outward from a cell in a breadth-first ring until
// it hits a walkable one.
func closestWalkable(grid *pf.Grid, p pf.PointI) (pf.PointI, error) {
	if c, ok := grid.CellAt(p.X, p.Y); ok && c.Walkable {
		return p, nil
	}
	queue := []pf.PointI{p}
	visited := map[pf.PointI]bool{p: true}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if c, ok := grid.CellAt(current.X, current.Y); ok && c.Walkable {
			return current, nil
		}
		for _, move := range []pf.PointI{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			next := pf.PointI{X: current.X + move.X, Y: current.Y + move.Y}
			if next.X < 0 || next.X >= grid.Width() || next.Y < 0 || next.Y >= grid.Height() || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return pf.PointI{}, fmt.Errorf("no walkable cell near (%d, %d)", p.X, p.Y)
}

// findRandomWalkablePoint picks a random walkable world position.
func (s *GameServer) findRandomWalkablePoint(ms *MapState) (pf.Point, error) {
	for attempts := 0; attempts < config.RandomSpawnRetries; attempts++ {
		x := s.rng.Intn(ms.grid.Width())
		y := s.rng.Intn(ms.grid.Height())
		if c, ok := ms.grid.CellAt(x, y); ok && c.Walkable {
			return ms.grid.ToWorld(x, y), nil
		}
	}
	return pf.Point{}, fmt.Errorf("could not find a walkable point")
}

// randomPointWithinRadius returns a random walkable world position within
// radius of center, or false when none is found.
func (s *GameServer) randomPointWithinRadius(ms *MapState, center pf.Point, radius float64) (pf.Point, bool) {
	for tries := 0; tries < config.WanderAttempts; tries++ {
		ang := s.rng.Float64() * 2 * math.Pi
		r := s.rng.Float64() * radius
		candidate := pf.Point{
			X: center.X + math.Cos(ang)*r,
			Y: center.Y + math.Sin(ang)*r,
		}
		coord := ms.grid.ToGrid(candidate)
		if c, ok := ms.grid.CellAt(coord.X, coord.Y); ok && c.Walkable {
			return ms.grid.ToWorld(coord.X, coord.Y), true
		}
		if closest, err := closestWalkable(ms.grid, coord); err == nil {
			return ms.grid.ToWorld(closest.X, closest.Y), true
		}
	}
	return pf.Point{}, false
}

// statIfDir verifies a configured levels directory exists before watching.
func statIfDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
