package monitor

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Reloader is a file-backed resource that can re-read its file
type Reloader interface {
	Filename() string
	Reload() error
}

// Monitor reloads resources when their backing files change
type Monitor struct {
	resources map[string]Reloader
	logger    zerolog.Logger

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// reloaded receives the path of every reloaded file; nil outside tests
	reloaded chan string
}

// New creates a new monitor instance
func New(logger zerolog.Logger, resources ...Reloader) *Monitor {
	m := &Monitor{
		resources: make(map[string]Reloader),
		logger:    logger,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}

	for _, r := range resources {
		abs, err := filepath.Abs(r.Filename())
		if err != nil {
			abs = r.Filename()
		}
		m.resources[abs] = r
	}

	return m
}

// Start begins watching. Directories are watched rather than files so that
// files replaced by rename are still picked up.
func (m *Monitor) Start() error {
	var err error
	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for path := range m.resources {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := m.watcher.Add(dir); err != nil {
			m.watcher.Close()
			m.watcher = nil
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go m.watchFiles()
	return nil
}

func (m *Monitor) watchFiles() {
	defer close(m.done)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			absEventPath, _ := filepath.Abs(event.Name)
			r, exists := m.resources[absEventPath]
			if !exists {
				continue
			}

			m.logger.Info().Str("file", event.Name).Msg("file modified, reloading")
			if err := r.Reload(); err != nil {
				m.logger.Error().Err(err).Str("file", event.Name).Msg("reload failed")
				continue
			}
			if m.reloaded != nil {
				select {
				case m.reloaded <- absEventPath:
				default:
				}
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn().Err(err).Msg("file watcher error")

		case <-m.stopCh:
			return
		}
	}
}

// Stop stops monitoring and waits for the watch loop to exit
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		if m.watcher != nil {
			m.watcher.Close()
			<-m.done
		}
	})
}
