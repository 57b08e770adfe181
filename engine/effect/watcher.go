package effect

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/fsnotify/fsnotify"
)

// watcher is the implementation of the Watcher interface.
type watcher struct {
	fs      *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	options []LoaderOption
	reload  func(Effect)

	closeOnce sync.Once
	closeErr  error

	mu      sync.Mutex
	effects map[string]Effect
	// dependents maps a watched file to the effect files that read it.
	dependents map[string][]string
	dirs       map[string]bool
	pending    map[string]bool
}

// Watcher reloads effect files when they or their shader files change on disk. File events are
// collected in the background; reloading happens only in Drain so that passes are replaced on the
// goroutine driving the frame.
type Watcher interface {
	// Watch loads the effect at path and starts watching it and its shader files.
	//
	// Parameters:
	//   - path: the effect file
	//
	// Returns:
	//   - Effect: the initial effect
	//   - error: a load error or a file system error
	Watch(path string) (Effect, error)

	// Effect returns the latest successfully loaded version of a watched effect.
	//
	// Parameters:
	//   - path: the effect file
	//
	// Returns:
	//   - Effect: the effect
	//   - bool: true if path is watched
	Effect(path string) (Effect, bool)

	// Drain reloads every effect whose files changed since the last call and hands each reloaded
	// effect to the reload callback. A failed reload is logged and keeps the previous effect.
	//
	// Returns:
	//   - int: the number of effects reloaded
	Drain() int

	// Close stops watching. Calling it again is a no-op.
	//
	// Returns:
	//   - error: the error of closing the underlying watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher creates a Watcher.
//
// Parameters:
//   - reload: called from Drain with every reloaded effect, may be nil
//   - options: loader options used for every load
//
// Returns:
//   - Watcher: the new watcher
//   - error: an error if the file system watcher cannot be created
func NewWatcher(reload func(Effect), options ...LoaderOption) (Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create effect watcher: %w", err)
	}
	w := &watcher{
		fs:         fs,
		done:       make(chan struct{}),
		options:    options,
		reload:     reload,
		effects:    make(map[string]Effect),
		dependents: make(map[string][]string),
		dirs:       make(map[string]bool),
		pending:    make(map[string]bool),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			for _, path := range w.dependents[filepath.Clean(event.Name)] {
				w.pending[path] = true
			}
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("effect watcher error", "error", err)
		}
	}
}

func (w *watcher) Watch(path string) (Effect, error) {
	path = filepath.Clean(path)
	e, err := Load(path, w.options...)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.effects[path] = e
	if err := w.track(path, e); err != nil {
		return nil, err
	}
	return e, nil
}

// track registers the files of e as dependencies of the effect at path. Directories are watched
// rather than files so that editors replacing a file on save keep being observed.
// Must be called with mu held.
func (w *watcher) track(path string, e Effect) error {
	for _, file := range e.Files() {
		file = filepath.Clean(file)
		if !slices.Contains(w.dependents[file], path) {
			w.dependents[file] = append(w.dependents[file], path)
		}
		dir := filepath.Dir(file)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	return nil
}

func (w *watcher) Effect(path string) (Effect, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.effects[filepath.Clean(path)]
	return e, ok
}

func (w *watcher) Drain() int {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	reloaded := 0
	for _, path := range sortedKeys(pending) {
		e, err := Load(path, w.options...)
		if err != nil {
			common.Logger().Warn("effect reload failed", "path", path, "error", err)
			continue
		}

		w.mu.Lock()
		w.effects[path] = e
		err = w.track(path, e)
		w.mu.Unlock()
		if err != nil {
			common.Logger().Warn("effect reload failed", "path", path, "error", err)
		}

		common.Logger().Debug("effect reloaded", "path", path)
		reloaded++
		if w.reload != nil {
			w.reload(e)
		}
	}
	return reloaded
}

func (w *watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.fs.Close()
		w.wg.Wait()
	})
	return w.closeErr
}
