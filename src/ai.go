package game

import (
	"math"

	pf "shadowstep-server/pathfinding"
)

// updateGuards runs one AI tick for every guard on a map.
func (s *GameServer) updateGuards(ms *MapState) {
	for _, guard := range ms.guards {
		if guard.Behavior == BehaviorHostile {
			s.updateHostileGuard(guard, ms)
		} else {
			s.updatePatrolGuard(guard, ms)
		}
		s.updateGuardPosition(guard)
	}
}

// updateHostileGuard pursues the nearest detectable player, falling back to
// patrol when nobody is in range.
func (s *GameServer) updateHostileGuard(guard *GuardState, ms *MapState) {
	nearestID := ""
	nearestDist := math.MaxFloat64
	var nearest *PlayerState
	for _, p := range ms.players {
		if p.IsGhost() {
			continue
		}
		dx := p.Pos.X - guard.Pos.X
		dy := p.Pos.Y - guard.Pos.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < nearestDist {
			nearestDist = dist
			nearestID = p.ID
			nearest = p
		}
	}

	if nearest != nil && nearestDist <= guard.DetectionRange {
		// Face the player while alerted; path-following overwrites this
		// when the guard is walking.
		dirX := nearest.Pos.X - guard.Pos.X
		dirY := nearest.Pos.Y - guard.Pos.Y
		if dirX != 0 || dirY != 0 {
			updateDirection(&guard.Direction, dirX, dirY)
		}

		// Re-path when newly acquired or when the player changed cell.
		playerCell := ms.grid.ToGrid(nearest.Pos)
		if guard.CurrentTarget != nearestID || guard.lastPursuitCell != playerCell {
			target, err := closestWalkable(ms.grid, playerCell)
			if err != nil {
				return
			}
			targetWorld := ms.grid.ToWorld(target.X, target.Y)
			if path, err := requestPath(ms, guard.Pos, targetWorld); err == nil && len(path) > 0 {
				guard.Path = path
				guard.TargetPos = targetWorld
				guard.Mode = WALKING
				guard.CurrentTarget = nearestID
				guard.lastPursuitCell = playerCell
			}
		}
		return
	}

	// Player escaped: clear pursuit and wander like a patrol guard.
	if guard.CurrentTarget != "" {
		guard.CurrentTarget = ""
		guard.lastPursuitCell = pf.PointI{X: -1, Y: -1}
	}
	s.updatePatrolGuard(guard, ms)
}

// updatePatrolGuard wanders to random points within the guard's patrol
// radius. A failed path request leaves the guard idle until the next tick.
func (s *GameServer) updatePatrolGuard(guard *GuardState, ms *MapState) {
	if guard.Mode == WALKING && len(guard.Path) > 0 {
		return
	}
	target, ok := s.randomPointWithinRadius(ms, guard.SpawnCenter, guard.PatrolRadius)
	if !ok {
		return
	}
	if path, err := requestPath(ms, guard.Pos, target); err == nil && len(path) > 0 {
		guard.Path = path
		guard.TargetPos = target
		guard.Mode = WALKING
	} else if len(guard.Path) == 0 {
		guard.Mode = IDLE
	}
}

// updateGuardPosition advances a guard along its waypoints.
func (s *GameServer) updateGuardPosition(guard *GuardState) {
	if guard.Mode != WALKING || len(guard.Path) == 0 {
		return
	}
	target := guard.Path[0]
	dx := target.X - guard.Pos.X
	dy := target.Y - guard.Pos.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	step := s.guardSpeed * s.tick.Seconds()

	if dist < step {
		guard.Pos = target
		guard.Path = guard.Path[1:]
		if len(guard.Path) == 0 {
			guard.Mode = IDLE
			return
		}
		next := guard.Path[0]
		updateDirection(&guard.Direction, next.X-guard.Pos.X, next.Y-guard.Pos.Y)
		return
	}
	dirX, dirY := dx/dist, dy/dist
	guard.Pos.X += dirX * step
	guard.Pos.Y += dirY * step
	updateDirection(&guard.Direction, dirX, dirY)
}

// updateDirection snaps a movement vector to the nearest of the eight
// facing directions.
func updateDirection(dir *Direction, dirX, dirY float64) {
	angle := math.Atan2(dirY, dirX)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	index := (int(math.Round(angle/(math.Pi/4))) + 2) % 8
	*dir = Direction(index)
}
