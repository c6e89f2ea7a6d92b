package game

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchLevels reloads level files edited on disk while the server runs.
// Editors tend to fire several events per save, so changes are debounced
// per file.
func (s *GameServer) watchLevels(dir string) error {
	if err := statIfDir(dir); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()
		last := make(map[string]time.Time)
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if !isLevelFile(event.Name) {
					continue
				}
				now := time.Now()
				if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
					continue
				}
				last[event.Name] = now
				s.ReloadLevelByPath(event.Name)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("WARNING: level watcher: %v", err)
			}
		}
	}()
	log.Printf("Watching %s for level changes.", dir)
	return nil
}

func isLevelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
