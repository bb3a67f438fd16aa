// Package watch reports changes to the entity documents of a store
// directory, grouping bursts of writes into one notification.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"distbuild/internal/config"
	"distbuild/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// Operation is what happened to a document.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Event is one changed document.
type Event struct {
	Kind      string
	Name      string
	Operation Operation
	FilePath  string
}

// Change is the set of documents changed within one debounce interval,
// sorted by kind then name.
type Change struct {
	Events []Event
	Time   time.Time
}

// Kinds returns the distinct kinds in the change.
func (c Change) Kinds() []string {
	var kinds []string
	for _, e := range c.Events {
		if len(kinds) == 0 || kinds[len(kinds)-1] != e.Kind {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

// Detector watches the kind directories below basePath.
type Detector struct {
	mu sync.Mutex

	basePath string
	kinds    map[string]bool
	watcher  *fsnotify.Watcher

	debounceInterval time.Duration
	pending          map[string]Event
	timer            *time.Timer

	stopCh  chan struct{}
	running bool
}

// NewDetector watches kinds below basePath; no kinds means every entity kind.
func NewDetector(basePath string, debounceInterval time.Duration, kinds ...string) *Detector {
	if debounceInterval == 0 {
		debounceInterval = config.DefaultWatchDebounce
	}
	if len(kinds) == 0 {
		kinds = config.Kinds
	}
	d := &Detector{
		basePath:         basePath,
		kinds:            make(map[string]bool, len(kinds)),
		debounceInterval: debounceInterval,
		pending:          make(map[string]Event),
	}
	for _, kind := range kinds {
		d.kinds[kind] = true
	}
	return d
}

// Start begins watching. Changes are sent on changes until ctx is done or
// Stop is called; a change is dropped when the channel is full.
func (d *Detector) Start(ctx context.Context, changes chan<- Change) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.watcher = watcher
	d.running = true
	d.stopCh = make(chan struct{})

	for kind := range d.kinds {
		dir := filepath.Join(d.basePath, kind)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Warn("Watch", "Failed to create %s: %v", dir, err)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logging.Warn("Watch", "Failed to watch %s: %v", dir, err)
			continue
		}
		logging.Debug("Watch", "Watching directory: %s", dir)
	}
	stopCh := d.stopCh
	d.mu.Unlock()

	go d.processEvents(ctx, watcher, stopCh, changes)

	logging.Info("Watch", "Started watching %s for changes", d.basePath)
	return nil
}

func (d *Detector) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh <-chan struct{}, changes chan<- Change) {
	for {
		select {
		case <-ctx.Done():
			d.Stop()
			return

		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			d.handle(event, changes)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watch", err, "Filesystem watcher error")
		}
	}
}

func (d *Detector) handle(fsEvent fsnotify.Event, changes chan<- Change) {
	if !isYAMLFile(fsEvent.Name) {
		return
	}
	kind, name := d.parseFilePath(fsEvent.Name)
	if kind == "" {
		return
	}

	var op Operation
	switch {
	case fsEvent.Op&fsnotify.Create == fsnotify.Create:
		op = OperationCreate
	case fsEvent.Op&fsnotify.Write == fsnotify.Write:
		op = OperationUpdate
	case fsEvent.Op&fsnotify.Remove == fsnotify.Remove:
		op = OperationDelete
	case fsEvent.Op&fsnotify.Rename == fsnotify.Rename:
		// the new name arrives as a create
		op = OperationDelete
	default:
		return
	}

	d.debounce(Event{Kind: kind, Name: name, Operation: op, FilePath: fsEvent.Name}, changes)
}

// debounce records the event and restarts the interval.
func (d *Detector) debounce(event Event, changes chan<- Change) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}

	key := event.Kind + "/" + event.Name
	if prev, ok := d.pending[key]; ok {
		event.Operation = mergeOperations(prev.Operation, event.Operation)
	}
	d.pending[key] = event

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounceInterval, func() { d.flush(changes) })
}

func (d *Detector) flush(changes chan<- Change) {
	d.mu.Lock()
	if len(d.pending) == 0 || !d.running {
		d.mu.Unlock()
		return
	}
	change := Change{Events: make([]Event, 0, len(d.pending)), Time: time.Now()}
	for _, e := range d.pending {
		change.Events = append(change.Events, e)
	}
	d.pending = make(map[string]Event)
	d.timer = nil
	d.mu.Unlock()

	sort.Slice(change.Events, func(i, j int) bool {
		a, b := change.Events[i], change.Events[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})

	select {
	case changes <- change:
		logging.Debug("Watch", "Emitted change of %d documents", len(change.Events))
	default:
		logging.Warn("Watch", "Change channel full, dropping change of %d documents", len(change.Events))
	}
}

// mergeOperations folds two operations on the same document.
func mergeOperations(old, new Operation) Operation {
	if old == OperationCreate {
		if new == OperationDelete {
			return OperationDelete
		}
		return OperationCreate
	}
	return new
}

// parseFilePath returns the kind and document name of path, or empty
// strings when path is not a document of a watched kind.
func (d *Detector) parseFilePath(path string) (string, string) {
	relPath, err := filepath.Rel(d.basePath, path)
	if err != nil {
		return "", ""
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) != 2 || !d.kinds[parts[0]] {
		return "", ""
	}
	name := strings.TrimSuffix(parts[1], filepath.Ext(parts[1]))
	return parts[0], name
}

// Stop ends watching. Pending events are discarded.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.running = false
	close(d.stopCh)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]Event)

	if err := d.watcher.Close(); err != nil {
		logging.Error("Watch", err, "Error closing filesystem watcher")
	}
	d.watcher = nil
	logging.Info("Watch", "Stopped watching %s", d.basePath)
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
