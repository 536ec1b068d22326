package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/j3dview/engine/core"
)

var ErrWatcherClosed = errors.New("asset watcher already closed")

// AssetChanged reports that a watched file was created or written.
type AssetChanged struct {
	Path string
	Kind SourceKind
	At   time.Time
}

// AssetManager watches the files the viewer has opened and reports when they
// change on disk. fsnotify watches directories, so each distinct parent
// directory is added once and reference counted.
type AssetManager struct {
	watched map[string]SourceKind
	dirs    map[string]int

	mutex sync.Mutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan AssetChanged
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		watched:  make(map[string]SourceKind),
		dirs:     make(map[string]int),
		fsnotify: fsWatch,
		changes:  make(chan AssetChanged, 16),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go am.start()
	return am, nil
}

// Watch starts reporting changes to the named file.
func (am *AssetManager) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return ErrWatcherClosed
	}
	if _, ok := am.watched[abs]; ok {
		return nil
	}

	dir := filepath.Dir(abs)
	if am.dirs[dir] == 0 {
		if err := am.fsnotify.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	am.dirs[dir]++
	am.watched[abs] = Classify(abs)
	core.LogDebug("Watching %s", abs)
	return nil
}

// Unwatch stops reporting changes to the named file. Unknown paths are ignored.
func (am *AssetManager) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return ErrWatcherClosed
	}
	if _, ok := am.watched[abs]; !ok {
		return nil
	}
	delete(am.watched, abs)

	dir := filepath.Dir(abs)
	am.dirs[dir]--
	if am.dirs[dir] > 0 {
		return nil
	}
	delete(am.dirs, dir)
	if err := am.fsnotify.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return fmt.Errorf("unwatch %s: %w", dir, err)
	}
	return nil
}

// Watched lists the files currently being watched.
func (am *AssetManager) Watched() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	paths := make([]string, 0, len(am.watched))
	for p := range am.watched {
		paths = append(paths, p)
	}
	return paths
}

// Changes is closed once the manager is closed.
func (am *AssetManager) Changes() <-chan AssetChanged {
	return am.changes
}

func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	defer close(am.changes)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("Asset watcher: %s", err.Error())

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogError("Closing asset watcher: %s", err.Error())
			}
			return
		}
	}
}

// handleFileEvent forwards changes to watched files without blocking. When the
// buffer is full the event is dropped.
func (am *AssetManager) handleFileEvent(path string) {
	am.mutex.Lock()
	kind, ok := am.watched[filepath.Clean(path)]
	am.mutex.Unlock()
	if !ok {
		return
	}

	select {
	case am.changes <- AssetChanged{Path: path, Kind: kind, At: time.Now()}:
	default:
		core.LogDebug("Dropped change notification for %s", path)
	}
}
