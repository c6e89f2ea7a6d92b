package main

import (
	"log"
	"net/http"

	"shadowstep-server/api"
	"shadowstep-server/config"
	game "shadowstep-server/src"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.Load()

	// Core game server
	s, err := game.NewGameServer(cfg)
	if err != nil {
		log.Fatalf("game server init error: %v", err)
	}
	s.Run()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Mount REST API under /api
	r.Mount("/api", api.NewAPIRouter(s))
	// Keep websocket endpoint
	r.HandleFunc("/ws", s.HandleConnections)

	// Serve the static frontend application when configured.
	if cfg.StaticDir != "" {
		r.Handle("/*", game.StaticFileServer(cfg.StaticDir, "/index.html"))
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Println("Server started on", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("ListenAndServe:", err)
	}
}
