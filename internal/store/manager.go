package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"trading-risk-assistant/internal/logger"
)

// Manager owns the active rule-set snapshot. Readers get an immutable
// *Config; a reload swaps the whole pointer and never edits a live snapshot.
type Manager struct {
	path     string
	current  atomic.Pointer[Config]
	debounce time.Duration

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	onChange func(*Config)
}

type ManagerOption func(*Manager)

// WithDebounce sets how long file events are coalesced before a reload.
func WithDebounce(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.debounce = d
	}
}

// NewManager loads and validates path. An invalid file is fatal here.
func NewManager(path string, opts ...ManagerOption) (*Manager, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	m := &Manager{path: path, debounce: 300 * time.Millisecond}
	for _, opt := range opts {
		opt(m)
	}
	m.current.Store(cfg)
	return m, nil
}

// Static wraps an already validated config as a provider that never changes.
func Static(cfg *Config) *Manager {
	m := &Manager{}
	m.current.Store(cfg)
	return m
}

// Current returns the active snapshot.
func (m *Manager) Current() *Config {
	return m.current.Load()
}

func (m *Manager) Path() string {
	return m.path
}

// Reload re-reads the file. On error the previous snapshot stays active.
func (m *Manager) Reload() error {
	if m.path == "" {
		return fmt.Errorf("manager has no backing file")
	}
	cfg, err := LoadConfig(m.path)
	if err != nil {
		return err
	}
	m.current.Store(cfg)

	m.mu.Lock()
	cb := m.onChange
	m.mu.Unlock()
	if cb != nil {
		cb(cfg)
	}
	return nil
}

// Watch reloads the rule set whenever the file is written, until ctx ends.
func (m *Manager) Watch(ctx context.Context, onChange func(*Config)) error {
	if m.path == "" {
		return fmt.Errorf("manager has no backing file")
	}
	m.mu.Lock()
	m.onChange = onChange
	if m.watcher != nil {
		m.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.watcher = watcher
	m.mu.Unlock()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	go m.watchLoop(ctx, watcher)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		_ = watcher.Close()
		m.mu.Lock()
		m.watcher = nil
		m.mu.Unlock()
	}()

	var timerMu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(m.debounce, func() {
			if err := m.Reload(); err != nil {
				logger.ErrorWithErr(ctx, "Config reload rejected, keeping previous rules", err, "path", m.path)
				return
			}
			logger.Info(ctx, "Config reloaded", "path", m.path)
		})
	}

	target := filepath.Clean(m.path)
	for {
		select {
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn(ctx, "Config watcher error", "error", err)
		case <-ctx.Done():
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timerMu.Unlock()
			return
		}
	}
}
