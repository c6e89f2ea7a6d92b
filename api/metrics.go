package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	game "shadowstep-server/src"

	"github.com/go-chi/chi/v5"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthOk       HealthStatus = "ok"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// EntityMetrics holds per-type entity counts across all maps.
type EntityMetrics struct {
	Players       int `json:"players"`
	Guards        int `json:"guards"`
	Props         int `json:"props"`
	TotalEntities int `json:"total_entities"`
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time     `json:"timestamp"`
	Health            HealthStatus  `json:"health"`
	HealthDescription string        `json:"health_description"`
	Entities          EntityMetrics `json:"entities"`
	ActiveConnections int           `json:"active_connections"`
	Maps              int           `json:"maps"`
	ServerUptime      int64         `json:"server_uptime_sec"`
}

// MetricsHandler manages metrics collection and reporting
type MetricsHandler struct {
	gameServer      *game.GameServer
	serverStartTime time.Time

	// Thresholds for health status
	warningEntityThreshold  int
	criticalEntityThreshold int
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(gameServer *game.GameServer) *MetricsHandler {
	return &MetricsHandler{
		gameServer:              gameServer,
		serverStartTime:         time.Now(),
		warningEntityThreshold:  800, // Warning at 80% capacity
		criticalEntityThreshold: 950, // Critical at 95% capacity
	}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
	r.Get("/metrics/entities", h.GetEntities)
	r.Get("/metrics/maps/{id}", h.GetMapStats)
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(metrics)
}

// GetHealth returns only health status
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()
	response := map[string]interface{}{
		"timestamp":   metrics.Timestamp,
		"health":      metrics.Health,
		"description": metrics.HealthDescription,
		"uptime_sec":  metrics.ServerUptime,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// GetEntities returns only entity metrics
func (h *MetricsHandler) GetEntities(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(metrics.Entities)
}

// GetMapStats returns statistics for a single map.
func (h *MetricsHandler) GetMapStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid map id"}`, http.StatusBadRequest)
		return
	}
	stats, ok := h.gameServer.GetMapStats(id)
	if !ok {
		http.Error(w, `{"error":"map not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}

// collectMetrics gathers all metrics from the system
func (h *MetricsHandler) collectMetrics() *MetricsResponse {
	counts := h.gameServer.GetEntityCounts()
	entities := EntityMetrics{
		Players:       counts["players"],
		Guards:        counts["guards"],
		Props:         counts["props"],
		TotalEntities: counts["total"],
	}
	connections := h.gameServer.GetConnectedClientsCount()
	health, healthDesc := h.determineHealth(entities, connections)

	return &MetricsResponse{
		Timestamp:         time.Now(),
		Health:            health,
		HealthDescription: healthDesc,
		Entities:          entities,
		ActiveConnections: connections,
		Maps:              h.gameServer.GetMapCount(),
		ServerUptime:      int64(time.Since(h.serverStartTime).Seconds()),
	}
}

// determineHealth determines overall system health based on metrics
func (h *MetricsHandler) determineHealth(entities EntityMetrics, connections int) (HealthStatus, string) {
	if entities.TotalEntities >= h.criticalEntityThreshold {
		return HealthCritical, "Entity count at critical levels - service may become unavailable"
	}
	if entities.TotalEntities >= h.warningEntityThreshold {
		return HealthWarning, "Entity count approaching threshold limits - monitor for escalation"
	}
	if connections > 0 {
		connStr := "connection"
		if connections > 1 {
			connStr = "connections"
		}
		return HealthHealthy, fmt.Sprintf("All systems operational - %d active %s", connections, connStr)
	}
	return HealthHealthy, "Server ready and operational - awaiting connections"
}
