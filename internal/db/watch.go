package db

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ramtk/ram/internal/config"
	"github.com/ramtk/ram/internal/types"
)

// Watcher is the query engine's front door: it watches a workspace
// directory and feeds every change to a matching file into a Database as
// a DurabilityMedium update, exercising the durability-tiered invalidation
// story end to end without the host having to drive Files.SetFileText by
// hand. An editor-buffer host would instead call Files.SetFileTextWithDurability
// at DurabilityLow directly, bypassing the watcher for the file currently
// open.
type Watcher struct {
	db  *Database
	cfg *config.Config
	fsw *fsnotify.Watcher

	done chan struct{}
}

// NewWatcher starts watching cfg.Project.Root, recursively, for creates and
// writes to paths cfg's Include/Exclude patterns accept. Each matching
// change is read and applied to db at DurabilityMedium.
func NewWatcher(db *Database, cfg *config.Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("db: starting workspace watcher: %w", err)
	}

	w := &Watcher{db: db, cfg: cfg, fsw: fsw, done: make(chan struct{})}
	if err := w.addTree(cfg.Project.Root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("db: watching workspace root %q: %w", cfg.Project.Root, err)
	}

	go w.run()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !w.cfg.Workspace.FollowSymlinks && isSymlink(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handle(event.Name)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(path string) {
	rel, err := filepath.Rel(w.cfg.Project.Root, path)
	if err != nil {
		return
	}
	if !w.cfg.MatchesWorkspace(filepath.ToSlash(rel)) {
		return
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return
	}
	id := w.db.Files.EnsureFileID(path)
	w.db.Files.SetFileTextWithDurability(id, string(text), types.DurabilityMedium)
}

// Close stops the watcher and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
