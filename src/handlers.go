package game

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"shadowstep-server/config"
	pf "shadowstep-server/pathfinding"
)

// HandleConnections handles WebSocket connections.
func (s *GameServer) HandleConnections(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	s.mu.Lock()

	playerID := uuid.New().String()

	startMapID := s.rng.Intn(len(s.maps))
	startMapState := s.maps[startMapID]
	startPos, err := s.findRandomWalkablePoint(startMapState)
	if err != nil {
		log.Printf("Could not place new player: %v", err)
		conn.Close()
		s.mu.Unlock()
		return
	}

	playerState := &PlayerState{
		ID:        playerID,
		MapID:     startMapID,
		Pos:       startPos,
		Dims:      Dimensions{Width: 1, Height: 1},
		Path:      []pf.Point{},
		TargetPos: startPos,
		Direction: NONE,
		Mode:      IDLE,
		MaxLife:   config.EntityBaseMaxLife,
		Life:      config.EntityBaseMaxLife,
	}
	client := &Client{
		conn:        conn,
		playerID:    playerID,
		send:        make(chan []byte, 256),
		lastAction:  time.Now(),
		playerState: playerState,
	}
	playerState.Client = client

	startMapState.players[playerID] = playerState

	// The walls snapshot lets the client draw the minimap without a second
	// request; walkability details come from /api/v1/debug/grid.
	initPayload := map[string]interface{}{
		"mapID":        startMapID,
		"levelName":    startMapState.level.Name,
		"gridW":        startMapState.level.Width,
		"gridH":        startMapState.level.Height,
		"cellSize":     startMapState.level.CellSize,
		"walls":        startMapState.level.Walls,
		"aoiRadius":    s.aoiRadius,
		"playerSpeed":  s.playerSpeed,
		"tickMs":       s.tick.Milliseconds(),
		"respawnDelay": s.respawnDelay.Seconds(),
	}
	initMsg, _ := json.Marshal(map[string]interface{}{"type": "init_data", "payload": initPayload})
	select {
	case client.send <- initMsg:
	default:
		log.Printf("Client %s init channel full.", client.playerID)
	}

	s.mu.Unlock()

	s.register <- client
	go client.writePump()
	go client.readPump(s)
}

// readPump handles incoming messages from the client.
func (c *Client) readPump(server *GameServer) {
	defer func() {
		server.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}
		if msg["type"] == "player_action" {
			payload, ok := msg["payload"].(map[string]interface{})
			if !ok {
				continue
			}
			targetX, okX := payload["targetX"].(float64)
			targetY, okY := payload["targetY"].(float64)
			if !okX || !okY {
				continue
			}
			server.handleMoveRequest(c, pf.Point{X: targetX, Y: targetY})
		}
	}
}

// handleMoveRequest paths a player toward a clicked world position. A blocked
// target is redirected to the closest walkable cell; an unreachable one
// leaves the player where they are.
func (s *GameServer) handleMoveRequest(c *Client, target pf.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.maps[c.playerState.MapID]
	if !ok {
		log.Println("Player map not found")
		return
	}
	player, ok := ms.players[c.playerID]
	if !ok {
		log.Println("Player not found in map")
		return
	}
	if player.IsGhost() {
		return
	}
	c.lastAction = time.Now()

	targetCell := ms.grid.ToGrid(target)
	if cell, ok := ms.grid.CellAt(targetCell.X, targetCell.Y); !ok || !cell.Walkable {
		closest, err := closestWalkable(ms.grid, targetCell)
		if err != nil {
			log.Printf("Move request for player %s: no walkable cell near target: %v", c.playerID, err)
			return
		}
		targetCell = closest
	}
	targetWorld := ms.grid.ToWorld(targetCell.X, targetCell.Y)

	path, err := requestPath(ms, player.Pos, targetWorld)
	if err != nil {
		log.Printf("Pathfinding failed for player %s: %v", c.playerID, err)
		return
	}
	if len(path) == 0 {
		player.Mode = IDLE
		return
	}

	player.Path = path
	player.TargetPos = targetWorld
	player.Mode = WALKING
	first := path[0]
	dx := first.X - player.Pos.X
	dy := first.Y - player.Pos.Y
	if dx != 0 || dy != 0 {
		updateDirection(&player.Direction, dx, dy)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
