package game

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// StaticFileServer serves client assets from a directory, falling back to
// index.html for unknown paths so a single-page client can handle routing.
func StaticFileServer(dir string, fallbackPath string) http.Handler {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Fatalf("Static directory does not exist: %s", dir)
	}

	fs := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(filepath.Join(dir, r.URL.Path)); err == nil {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, fallbackPath))
	})
}
