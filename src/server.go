package game

import (
	"encoding/json"
	"log"
	"math"
	"math/rand"
	"time"

	"shadowstep-server/config"
	pf "shadowstep-server/pathfinding"
)

// NewGameServer creates a game server and builds its maps.
func NewGameServer(cfg config.Config) (*GameServer, error) {
	gs := &GameServer{
		maps:       make(map[int]*MapState),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),

		cfg:            cfg,
		aoiRadius:      cfg.AOIRadius,
		playerSpeed:    cfg.PlayerSpeed,
		guardSpeed:     cfg.GuardSpeed,
		contactDamage:  cfg.ContactDamage,
		respawnDelay:   cfg.RespawnDelay,
		detectionRange: cfg.DetectionRange,
		tick:           cfg.TickInterval,
	}
	if err := gs.createMaps(); err != nil {
		return nil, err
	}
	return gs, nil
}

func (s *GameServer) Run() {
	go s.listenForClients()
	go s.gameLoop()
	if s.cfg.LevelsDir != "" {
		if err := s.watchLevels(s.cfg.LevelsDir); err != nil {
			log.Printf("WARNING: level watching disabled: %v", err)
		}
	}
}

func (s *GameServer) listenForClients() {
	log.Println("Starting client listener...")
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.playerID] = client
			s.mu.Unlock()
		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.playerID]; ok {
				delete(s.clients, client.playerID)
				if ps := client.playerState; ps != nil {
					if ms, ok := s.maps[ps.MapID]; ok {
						delete(ms.players, client.playerID)
					}
				}
				close(client.send)
			}
			s.mu.Unlock()
		}
	}
}

func (s *GameServer) gameLoop() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for _, ms := range s.maps {
			// Phase 1: state changes (respawns, contact damage)
			s.handleRespawns(ms)
			s.handleGuardContacts(ms)

			// Phase 2: movement and AI
			for _, player := range ms.players {
				s.updatePlayerPosition(player)
			}
			s.updateGuards(ms)

			// Phase 3: broadcast the new state, then drain the tick's events
			s.updateAOIs(ms)
			ms.events = nil
		}
		s.mu.Unlock()
	}
}

// ---------- Player movement ----------

func (s *GameServer) updatePlayerPosition(player *PlayerState) {
	// Dead players can't move.
	if player.IsGhost() {
		return
	}
	if player.Mode != WALKING || len(player.Path) == 0 {
		return
	}

	target := player.Path[0]
	dx := target.X - player.Pos.X
	dy := target.Y - player.Pos.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	step := s.playerSpeed * s.tick.Seconds()

	if dist < step {
		player.Pos = target
		player.Path = player.Path[1:]
		if len(player.Path) == 0 {
			player.Mode = IDLE
			player.Direction = NONE
			return
		}
		next := player.Path[0]
		updateDirection(&player.Direction, next.X-player.Pos.X, next.Y-player.Pos.Y)
		return
	}
	dirX, dirY := dx/dist, dy/dist
	player.Pos.X += dirX * step
	player.Pos.Y += dirY * step
	updateDirection(&player.Direction, dirX, dirY)
}

// ---------- AOI and state push ----------

func (s *GameServer) updateAOIs(ms *MapState) {
	for _, player := range ms.players {
		player.AOI = Rectangle{
			MinX: player.Pos.X - s.aoiRadius,
			MinY: player.Pos.Y - s.aoiRadius,
			MaxX: player.Pos.X + player.Dims.Width + s.aoiRadius,
			MaxY: player.Pos.Y + player.Dims.Height + s.aoiRadius,
		}
		s.sendAOI(player)
	}
}

func (s *GameServer) sendAOI(player *PlayerState) {
	ms, ok := s.maps[player.MapID]
	if !ok {
		log.Printf("Map %d not found for player %s.", player.MapID, player.ID)
		return
	}

	visiblePlayers := make(map[string]VisiblePlayer)
	for _, other := range ms.players {
		if other.ID == player.ID {
			continue
		}
		if !rectsOverlap(player.AOI, playerRect(other)) {
			continue
		}
		data := VisiblePlayer{
			ID:        other.ID,
			Pos:       other.Pos,
			Dims:      other.Dims,
			Type:      "player",
			Direction: other.Direction,
			Mode:      other.Mode,
			Life:      other.Life,
			MaxLife:   other.MaxLife,
		}
		if other.IsGhost() {
			if remaining := time.Until(other.RespawnTime).Seconds(); remaining > 0 {
				respawnIn := math.Ceil(remaining)
				data.RespawnIn = &respawnIn
			}
		}
		visiblePlayers[other.ID] = data
	}

	visibleGridObjects := make(map[string]interface{})
	for _, prop := range ms.props {
		rect := Rectangle{MinX: prop.Pos.X, MinY: prop.Pos.Y, MaxX: prop.Pos.X + prop.Dims.Width, MaxY: prop.Pos.Y + prop.Dims.Height}
		if rectsOverlap(player.AOI, rect) {
			visibleGridObjects[prop.ID] = prop
		}
	}
	for _, guard := range ms.guards {
		if !rectsOverlap(player.AOI, guardRect(guard)) {
			continue
		}
		visibleGridObjects[guard.ID] = VisibleGuard{
			ID:        guard.ID,
			Pos:       guard.Pos,
			Dims:      guard.Dims,
			Type:      "guard",
			Behavior:  guard.Behavior,
			Direction: guard.Direction,
			Mode:      guard.Mode,
			Alerted:   guard.CurrentTarget != "",
			Life:      guard.Life,
			MaxLife:   guard.MaxLife,
		}
	}

	playerObj := PlayerObject{
		ID:        player.ID,
		MapID:     player.MapID,
		Pos:       player.Pos,
		Dims:      player.Dims,
		Path:      player.Path,
		TargetPos: player.TargetPos,
		AOI:       player.AOI,
		Direction: player.Direction,
		Mode:      player.Mode,
		Life:      player.Life,
		MaxLife:   player.MaxLife,
	}
	if player.IsGhost() {
		if remaining := time.Until(player.RespawnTime).Seconds(); remaining > 0 {
			respawnIn := math.Ceil(remaining)
			playerObj.RespawnIn = &respawnIn
		}
	}

	payload := AOIUpdatePayload{
		PlayerID:           player.ID,
		Player:             playerObj,
		VisiblePlayers:     visiblePlayers,
		VisibleGridObjects: visibleGridObjects,
		Events:             ms.events,
	}

	message, err := json.Marshal(map[string]interface{}{"type": "aoi_update", "payload": payload})
	if err != nil {
		log.Printf("Error marshaling AOI update: %v", err)
		return
	}
	select {
	case player.Client.send <- message:
	default:
		log.Printf("Client %s message channel is full.", player.ID)
	}
}

// ===== Metrics Methods =====

// GetEntityCounts returns counts of all entity types across maps.
func (s *GameServer) GetEntityCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int{
		"players": 0,
		"guards":  0,
		"props":   0,
		"total":   0,
	}
	for _, ms := range s.maps {
		counts["players"] += len(ms.players)
		counts["guards"] += len(ms.guards)
		counts["props"] += len(ms.props)
	}
	counts["total"] = counts["players"] + counts["guards"] + counts["props"]
	return counts
}

// GetMapStats returns statistics for a specific map.
func (s *GameServer) GetMapStats(mapID int) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.maps[mapID]
	if !ok {
		return nil, false
	}
	return map[string]interface{}{
		"name":    ms.level.Name,
		"width":   ms.level.Width,
		"height":  ms.level.Height,
		"players": len(ms.players),
		"guards":  len(ms.guards),
		"props":   len(ms.props),
	}, true
}

// GetConnectedClientsCount returns the number of connected WebSocket clients.
func (s *GameServer) GetConnectedClientsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// GetMapCount returns the number of loaded maps.
func (s *GameServer) GetMapCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.maps)
}

// ===== Debug Accessors =====

// DebugPath is a snapshot of a map pathfinder's most recent search, for
// debug visualization only.
type DebugPath struct {
	Path    []pf.PointI `json:"path"`
	Visited []pf.PointI `json:"visited"`
}

// GetDebugPath returns the last path and visited set of a map's pathfinder.
func (s *GameServer) GetDebugPath(mapID int) (DebugPath, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.maps[mapID]
	if !ok {
		return DebugPath{}, false
	}
	dp := DebugPath{}
	for _, c := range ms.pathfinder.LastPath() {
		dp.Path = append(dp.Path, c.Coord)
	}
	for _, c := range ms.pathfinder.Visited() {
		dp.Visited = append(dp.Visited, c.Coord)
	}
	return dp, true
}

// GetDebugGrid returns a map's walkability snapshot as rows of '#' and '.',
// the same shape the minimap renders from.
func (s *GameServer) GetDebugGrid(mapID int) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.maps[mapID]
	if !ok {
		return nil, false
	}
	rows := make([]string, ms.grid.Height())
	for y := 0; y < ms.grid.Height(); y++ {
		row := make([]byte, ms.grid.Width())
		for x := 0; x < ms.grid.Width(); x++ {
			c, _ := ms.grid.CellAt(x, y)
			if c.Walkable {
				row[x] = '.'
			} else {
				row[x] = '#'
			}
		}
		rows[y] = string(row)
	}
	return rows, true
}
