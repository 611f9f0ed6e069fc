// Package monitor reports filesystem changes using OS notifications.
package monitor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flowave-io/ctsh/pkg/log"
)

// Event is one coalesced change.
type Event struct {
	Path string
	Op   string
}

// debounce drops repeated events for the same path that arrive within this window.
const debounce = 75 * time.Millisecond

// Watch calls fn for every change under path until ctx is done, then
// returns ctx.Err(). A directory is watched together with its
// subdirectories; directories created later are added as they appear.
func Watch(ctx context.Context, path string, fn func(Event)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		if err := addTree(w, path); err != nil {
			return err
		}
	} else if err := w.Add(path); err != nil {
		return err
	}

	last := map[string]time.Time{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = addTree(w, ev.Name)
				}
			}
			now := time.Now()
			if t, seen := last[ev.Name]; seen && now.Sub(t) < debounce {
				continue
			}
			last[ev.Name] = now
			fn(Event{Path: ev.Name, Op: opName(ev.Op)})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error:", err)
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "created"
	case op.Has(fsnotify.Remove):
		return "removed"
	case op.Has(fsnotify.Rename):
		return "renamed"
	case op.Has(fsnotify.Write):
		return "modified"
	}
	return op.String()
}
