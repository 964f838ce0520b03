package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOp indicates a change operation in the filesystem.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

func (op WatchOp) String() string {
	switch {
	case op&OpRemove != 0:
		return "remove"
	case op&OpRename != 0:
		return "rename"
	case op&OpCreate != 0:
		return "create"
	case op&OpWrite != 0:
		return "write"
	}
	return "none"
}

// Event describes a change to a matching source file.
type Event struct {
	Path string
	Op   WatchOp
	Time time.Time
}

// Watcher reports changes to source files under a set of directory trees.
// Directories created after the watch started are picked up as well.
type Watcher struct {
	w      *fsnotify.Watcher
	filter Filter
	evC    chan Event
	erC    chan error
	done   chan struct{}
	once   sync.Once
}

// NewWatcher creates a Watcher for files accepted by filter.
func NewWatcher(filter Filter) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{w: w, filter: filter, evC: make(chan Event, 128), erC: make(chan error, 1), done: make(chan struct{})}
	go fw.loop()
	return fw, nil
}

// AddTree watches root and every directory below it.
func (fw *Watcher) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fw.filter.skipDir(root, path, d.Name()) {
			return filepath.SkipDir
		}
		return fw.w.Add(path)
	})
}

func (fw *Watcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := fw.AddTree(ev.Name); err != nil {
						fw.sendErr(err)
					}
					continue
				}
			}
			if !fw.filter.Match(ev.Name) {
				continue
			}
			var op WatchOp
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if op == 0 {
				continue
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: op, Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.sendErr(err)
		}
	}
}

// sendErr drops the error when the previous one has not been read yet.
func (fw *Watcher) sendErr(err error) {
	select {
	case fw.erC <- err:
	default:
	}
}

// Events returns the change stream. It is closed after Close.
func (fw *Watcher) Events() <-chan Event { return fw.evC }
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops the watch.
func (fw *Watcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// Debounce collects events until quiet has passed without a new one and
// returns the distinct paths seen, in arrival order. It returns nil when
// the event stream closes before any event arrives.
func Debounce(events <-chan Event, quiet time.Duration) []string {
	ev, ok := <-events
	if !ok {
		return nil
	}
	seen := map[string]bool{ev.Path: true}
	paths := []string{ev.Path}
	timer := time.NewTimer(quiet)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return paths
			}
			if !seen[ev.Path] {
				seen[ev.Path] = true
				paths = append(paths, ev.Path)
			}
			timer.Reset(quiet)
		case <-timer.C:
			return paths
		}
	}
}
