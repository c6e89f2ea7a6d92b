package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"shadowstep-server/config"
	"shadowstep-server/levels"
	pf "shadowstep-server/pathfinding"
)

// 1. Data Structures & Interfaces

type Rectangle struct {
	MinX, MinY, MaxX, MaxY float64
}

type Dimensions struct {
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
}

type Direction int

const (
	UP Direction = iota
	UP_RIGHT
	RIGHT
	DOWN_RIGHT
	DOWN
	DOWN_LEFT
	LEFT
	UP_LEFT
	NONE
)

type Mode int

const (
	IDLE Mode = iota
	WALKING
)

// Guard behaviors.
const (
	BehaviorPatrol  = "patrol"
	BehaviorHostile = "hostile"
)

type PlayerState struct {
	ID          string     `json:"id"`
	MapID       int        `json:"MapID"`
	Pos         pf.Point   `json:"Pos"`
	Dims        Dimensions `json:"Dims"`
	Path        []pf.Point `json:"path"`
	TargetPos   pf.Point   `json:"targetPos"`
	AOI         Rectangle  `json:"AOI"`
	Client      *Client    `json:"-"`
	Direction   Direction  `json:"direction"`
	Mode        Mode       `json:"mode"`
	MaxLife     float64    `json:"maxLife"`
	Life        float64    `json:"life"`
	RespawnTime time.Time  `json:"-"`
}

type GuardState struct {
	ID             string     `json:"id"`
	MapID          int        `json:"MapID"`
	Pos            pf.Point   `json:"Pos"`
	Dims           Dimensions `json:"Dims"`
	Path           []pf.Point `json:"path"`
	TargetPos      pf.Point   `json:"targetPos"`
	Direction      Direction  `json:"direction"`
	Mode           Mode       `json:"mode"`
	Behavior       string     `json:"behavior"` // "hostile" or "patrol"
	SpawnCenter    pf.Point   `json:"spawnCenter"`
	PatrolRadius   float64    `json:"patrolRadius"`
	DetectionRange float64    `json:"detectionRange"`

	CurrentTarget   string    `json:"-"` // player ID currently pursued (if any)
	lastPursuitCell pf.PointI `json:"-"` // pursued player's last cell, to know when to re-path
	MaxLife         float64   `json:"maxLife"`
	Life            float64   `json:"life"`
}

type PropState struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Pos   pf.Point   `json:"Pos"`
	Dims  Dimensions `json:"Dims"`
	Layer string     `json:"layer"`
	Type  string     `json:"Type"`
}

// DamageEvent is broadcast with the AOI update so clients can render damage
// popups; the popup layer itself is client-side.
type DamageEvent struct {
	TargetID string   `json:"targetID"`
	Amount   float64  `json:"amount"`
	Pos      pf.Point `json:"Pos"`
}

type MapState struct {
	level      *levels.Level
	query      *levelObstacleQuery
	grid       *pf.Grid
	pathfinder *pf.Pathfinder
	players    map[string]*PlayerState
	guards     map[string]*GuardState
	props      map[string]*PropState
	events     []DamageEvent // drained after each broadcast
	sourcePath string        // on-disk origin when loaded from a watched dir
}

// AOI (Area of Interest) update payload structures.

type VisiblePlayer struct {
	ID        string     `json:"id"`
	Pos       pf.Point   `json:"Pos"`
	Dims      Dimensions `json:"Dims"`
	Type      string     `json:"Type"`
	Direction Direction  `json:"direction"`
	Mode      Mode       `json:"mode"`
	Life      float64    `json:"life"`
	MaxLife   float64    `json:"maxLife"`
	RespawnIn *float64   `json:"respawnIn,omitempty"`
}

type VisibleGuard struct {
	ID        string     `json:"id"`
	Pos       pf.Point   `json:"Pos"`
	Dims      Dimensions `json:"Dims"`
	Type      string     `json:"Type"`
	Behavior  string     `json:"behavior"`
	Direction Direction  `json:"direction"`
	Mode      Mode       `json:"mode"`
	Alerted   bool       `json:"alerted"`
	Life      float64    `json:"life"`
	MaxLife   float64    `json:"maxLife"`
}

type PlayerObject struct {
	ID        string     `json:"id"`
	MapID     int        `json:"MapID"`
	Pos       pf.Point   `json:"Pos"`
	Dims      Dimensions `json:"Dims"`
	Path      []pf.Point `json:"path"`
	TargetPos pf.Point   `json:"targetPos"`
	AOI       Rectangle  `json:"AOI"`
	Direction Direction  `json:"direction"`
	Mode      Mode       `json:"mode"`
	Life      float64    `json:"life"`
	MaxLife   float64    `json:"maxLife"`
	RespawnIn *float64   `json:"respawnIn,omitempty"`
}

type AOIUpdatePayload struct {
	PlayerID           string                   `json:"playerID"`
	Player             PlayerObject             `json:"player"`
	VisiblePlayers     map[string]VisiblePlayer `json:"visiblePlayers"`
	VisibleGridObjects map[string]interface{}   `json:"visibleGridObjects"`
	Events             []DamageEvent            `json:"events,omitempty"`
}

type Client struct {
	conn        *websocket.Conn
	playerID    string
	send        chan []byte
	lastAction  time.Time
	playerState *PlayerState
}

type GameServer struct {
	mu         sync.Mutex
	maps       map[int]*MapState
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	rng        *rand.Rand

	cfg            config.Config
	aoiRadius      float64
	playerSpeed    float64
	guardSpeed     float64
	contactDamage  float64
	respawnDelay   time.Duration
	detectionRange float64
	tick           time.Duration
}
