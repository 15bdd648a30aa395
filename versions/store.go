package versions

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/foomo/docs-versionpanel/service/vo"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Store holds the current versions list, optionally backed by a data file.
type Store struct {
	logger *zap.Logger
	path   string
	mu     sync.RWMutex
	list   []vo.VersionDescriptor
}

// NewStore loads path. An empty path yields an in-memory store.
func NewStore(logger *zap.Logger, path string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		logger: logger,
		path:   path,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore returns a store serving list.
func NewMemoryStore(list []vo.VersionDescriptor) *Store {
	s := &Store{logger: zap.NewNop()}
	s.Set(list)
	return s
}

func (s *Store) Path() string {
	return s.path
}

// List returns a copy of the current versions.
func (s *Store) List() []vo.VersionDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.list)
}

func (s *Store) Set(list []vo.VersionDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = slices.Clone(list)
}

// Reload re-reads the data file. Malformed entries are logged and dropped.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	list, err := Load(s.path)
	if err != nil {
		if !errors.Is(err, vo.ErrMalformedDescriptor) {
			return err
		}
		for _, e := range multierr.Errors(err) {
			s.logger.Warn("skipping version entry", zap.String("path", s.path), zap.Error(e))
		}
	}
	s.Set(list)
	s.logger.Debug("loaded versions", zap.String("path", s.path), zap.Int("count", len(list)))
	return nil
}

// Watch reloads the store whenever the data file changes, until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and CI jobs replace the file instead of writing it.
	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Error("failed to reload versions", zap.String("path", s.path), zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("versions watcher error", zap.Error(err))
		}
	}
}
