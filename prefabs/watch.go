package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reports edits to prefab yaml and tengo scripts on disk. Events
// carry the prefab-relative name ("player.yaml", "scripts/jumper.tengo").
// The game drains Events on its frame loop; nothing is applied from the
// watcher goroutine.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches root and its scripts directory when present.
func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(root); err != nil {
		_ = w.Close()
		return nil, err
	}
	// scripts are optional on disk
	_ = w.Add(filepath.Join(root, "scripts"))

	watcher := &Watcher{
		watcher: w,
		root:    root,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Drain returns the names changed since the last call without blocking.
func (w *Watcher) Drain() []string {
	if w == nil {
		return nil
	}
	var names []string
	seen := map[string]bool{}
	for {
		select {
		case name := <-w.Events:
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		default:
			return names
		}
	}
}

// Err returns a pending watch error, if any, without blocking.
func (w *Watcher) Err() error {
	if w == nil {
		return nil
	}
	select {
	case err := <-w.Errors:
		return err
	default:
		return nil
	}
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isSpecFile(event.Name) && !isScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- w.relative(event.Name):
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
