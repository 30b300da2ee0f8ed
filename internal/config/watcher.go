package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// DefaultDebounceInterval is how long the watcher waits for further writes
// before reloading.
const DefaultDebounceInterval = 500 * time.Millisecond

// Watcher reloads config.yaml when it changes and publishes the new marker
// set. Invalid files are logged and ignored; the previous markers stay in
// effect.
//
// The directory is watched rather than the file so that editors which
// replace the file on save are seen.
type Watcher struct {
	mu sync.Mutex

	configPath       string
	debounceInterval time.Duration

	// overrides is applied to every reloaded config before validation, so
	// command-line flags keep precedence over the file.
	overrides func(*BotConfig)

	watcher *fsnotify.Watcher
	timer   *time.Timer
	updates chan []marker.Marker
	stopCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for configPath/config.yaml.
func NewWatcher(configPath string, debounceInterval time.Duration, overrides func(*BotConfig)) *Watcher {
	if debounceInterval == 0 {
		debounceInterval = DefaultDebounceInterval
	}
	return &Watcher{
		configPath:       configPath,
		debounceInterval: debounceInterval,
		overrides:        overrides,
		updates:          make(chan []marker.Marker, 1),
	}
}

// Updates delivers reloaded marker sets. Only the latest unread set is kept.
func (w *Watcher) Updates() <-chan []marker.Marker {
	return w.updates
}

// Start begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.configPath); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh)

	logging.Info("ConfigWatcher", "Watching %s for configuration changes", ConfigFilePath(w.configPath))
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh chan struct{}) {
	target := filepath.Clean(ConfigFilePath(w.configPath))
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("ConfigWatcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceInterval, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.configPath)
	if err != nil {
		logging.Warn("ConfigWatcher", "Ignoring invalid configuration: %v", err)
		return
	}
	if w.overrides != nil {
		w.overrides(&cfg)
	}
	if errs := ValidateMarkers(cfg.Markers); errs.HasErrors() {
		logging.Warn("ConfigWatcher", "Ignoring invalid markers: %v", errs)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	// Replace any unread set with the newer one.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg.Markers

	logging.Info("ConfigWatcher", "Reloaded %d markers from %s", len(cfg.Markers), ConfigFilePath(w.configPath))
}

// Stop stops watching. Pending reloads are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
	}

	err := w.watcher.Close()
	w.watcher = nil
	logging.Debug("ConfigWatcher", "Stopped config watcher")
	return err
}
