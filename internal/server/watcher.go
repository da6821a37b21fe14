package server

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch broadcasts a reload once dir has been quiet for debounce after a
// change. It returns when ctx ends.
func (s *Server) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			s.logger.Warn("Failed to close file watcher", "error", err)
		}
	}()

	if err := addTree(w, s.dir); err != nil {
		return err
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Chmod != 0 {
				continue
			}
			// New directories (a fresh build output) need watching too.
			if event.Op&fsnotify.Create != 0 {
				_ = addTree(w, event.Name)
			}

			if debounceTimer != nil {
				debounceTimer.Reset(s.debounce)
			} else {
				debounceTimer = time.AfterFunc(s.debounce, func() {
					s.logger.Debug("reloading clients", "clients", s.hub.count())
					s.hub.broadcast()
				})
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", "error", err)
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
