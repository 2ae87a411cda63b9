package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Change is delivered when a watched file settles with new contents
type Change struct {
	Path string
	Data []byte
	Sum  uint64
}

// Option configures a FileWatcher
type Option func(*FileWatcher)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(logger *zap.Logger) Option {
	return func(fw *FileWatcher) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// FileWatcher watches files for changes and reports them once they stop
// changing for the debounce interval. Saves that leave the contents
// unchanged are not reported.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	sums   map[string]uint64
	timers map[string]*time.Timer
	fired  chan string
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, opts ...Option) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		debounce: debounce,
		logger:   zap.NewNop(),
		sums:     make(map[string]uint64),
		timers:   make(map[string]*time.Timer),
		fired:    make(chan string, 16),
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// Watch adds files to the watch list. The parent directory is watched so
// editors that replace the file on save are still seen.
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		data, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", absPath, err)
		}
		if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		fw.sums[absPath] = xxhash.Sum64(data)
	}

	return nil
}

// Run delivers changes to onChange until ctx is cancelled or the watcher is
// closed. onChange runs on the calling goroutine, one change at a time.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(Change)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.handleFileChange(filepath.Clean(event.Name))
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("watcher error", zap.Error(err))

		case path := <-fw.fired:
			if change, ok := fw.settle(path); ok {
				onChange(change)
			}
		}
	}
}

// handleFileChange restarts the debounce timer of a watched file
func (fw *FileWatcher) handleFileChange(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, watched := fw.sums[path]; !watched {
		return
	}
	if timer, exists := fw.timers[path]; exists {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		select {
		case fw.fired <- path:
		default:
			fw.logger.Warn("change queue full, dropping", zap.String("path", path))
		}
	})
}

// settle reads a file whose timer fired and reports it if its contents changed
func (fw *FileWatcher) settle(path string) (Change, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		// mid-replace; the create event that follows restarts the timer
		fw.logger.Debug("changed file not readable", zap.String("path", path), zap.Error(err))
		return Change{}, false
	}
	sum := xxhash.Sum64(data)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	delete(fw.timers, path)
	if fw.sums[path] == sum {
		fw.logger.Debug("file saved without changes", zap.String("path", path))
		return Change{}, false
	}
	fw.sums[path] = sum
	return Change{Path: path, Data: data, Sum: sum}, true
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for path, timer := range fw.timers {
		timer.Stop()
		delete(fw.timers, path)
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}
