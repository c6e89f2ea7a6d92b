package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	game "shadowstep-server/src"

	"github.com/go-chi/chi/v5"
)

// DebugHandler exposes pathfinding internals for development tooling: the
// walkability grid a minimap renders from and the most recent search trace.
type DebugHandler struct {
	gameServer *game.GameServer
}

func NewDebugHandler(gameServer *game.GameServer) *DebugHandler {
	return &DebugHandler{gameServer: gameServer}
}

// Routes registers debug routes
func (h *DebugHandler) Routes(r chi.Router) {
	r.Get("/debug/grid/{id}", h.GetGrid)
	r.Get("/debug/path/{id}", h.GetPath)
}

// GetGrid returns a map's walkability snapshot as rows of '#' and '.'.
func (h *DebugHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid map id"}`, http.StatusBadRequest)
		return
	}
	rows, ok := h.gameServer.GetDebugGrid(id)
	if !ok {
		http.Error(w, `{"error":"map not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"mapID": id, "rows": rows})
}

// GetPath returns the last path and visited set of a map's pathfinder.
func (h *DebugHandler) GetPath(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid map id"}`, http.StatusBadRequest)
		return
	}
	dp, ok := h.gameServer.GetDebugPath(id)
	if !ok {
		http.Error(w, `{"error":"map not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dp)
}
