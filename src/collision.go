package game

import (
	"log"
	"time"
)

// rectsOverlap checks if two rectangles overlap.
func rectsOverlap(r1, r2 Rectangle) bool {
	return r1.MinX < r2.MaxX && r1.MaxX > r2.MinX && r1.MinY < r2.MaxY && r1.MaxY > r2.MinY
}

func playerRect(p *PlayerState) Rectangle {
	return Rectangle{MinX: p.Pos.X, MinY: p.Pos.Y, MaxX: p.Pos.X + p.Dims.Width, MaxY: p.Pos.Y + p.Dims.Height}
}

func guardRect(g *GuardState) Rectangle {
	return Rectangle{MinX: g.Pos.X, MinY: g.Pos.Y, MaxX: g.Pos.X + g.Dims.Width, MaxY: g.Pos.Y + g.Dims.Height}
}

// handleGuardContacts applies contact damage from hostile guards to players
// they overlap and queues damage events for the broadcast.
func (s *GameServer) handleGuardContacts(ms *MapState) {
	for _, guard := range ms.guards {
		if guard.Behavior != BehaviorHostile {
			continue
		}
		for _, player := range ms.players {
			if player.IsGhost() {
				continue
			}
			if !rectsOverlap(guardRect(guard), playerRect(player)) {
				continue
			}
			player.Life -= s.contactDamage
			ms.events = append(ms.events, DamageEvent{
				TargetID: player.ID,
				Amount:   s.contactDamage,
				Pos:      player.Pos,
			})
			if player.Life <= 0 {
				player.Life = 0
				s.handlePlayerDeath(player)
			}
		}
	}
}

// handlePlayerDeath puts a player into the ghost state until respawn.
func (s *GameServer) handlePlayerDeath(player *PlayerState) {
	player.RespawnTime = time.Now().Add(s.respawnDelay)
	player.Mode = IDLE
	player.Path = nil
	log.Printf("Player %s died; respawn in %s", player.ID, s.respawnDelay)
}

// handleRespawns revives dead players at a fresh walkable position.
func (s *GameServer) handleRespawns(ms *MapState) {
	for _, player := range ms.players {
		if player.RespawnTime.IsZero() || time.Now().Before(player.RespawnTime) {
			continue
		}
		player.Life = player.MaxLife
		player.RespawnTime = time.Time{}
		if pos, err := s.findRandomWalkablePoint(ms); err == nil {
			player.Pos = pos
		}
		player.Mode = IDLE
		player.Path = nil
	}
}

// IsGhost checks if a player is dead and waiting to respawn.
func (p *PlayerState) IsGhost() bool {
	return !p.RespawnTime.IsZero()
}
