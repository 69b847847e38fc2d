package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"

	"github.com/bassista/paddock/internal/logger"
)

// FileSource loads a lookup override document from disk and keeps a Table in sync with it.
type FileSource struct {
	path      string
	dir       string
	base      string
	validator *validator.Validate
	mu        sync.Mutex
}

// NewFileSource creates a source for the JSON file at path.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, errors.New("lookup file path is required")
	}
	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	return &FileSource{path: path, dir: dir, base: filepath.Base(path), validator: validator.New()}, nil
}

// Load reads, parses and validates the override file.
func (s *FileSource) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open lookup file: %w", err)
	}
	defer file.Close()

	var doc Document
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode lookup file: %w", err)
	}
	if err := s.validator.Struct(&doc); err != nil {
		return nil, fmt.Errorf("validate lookup file: %w", err)
	}
	return &doc, nil
}

// StartWatcher reloads table whenever the file changes. It watches the parent directory so
// atomic replaces (temp+rename) are seen, filters events by basename and debounces bursts.
// Cancel ctx to stop the watcher.
func (s *FileSource) StartWatcher(ctx context.Context, table *Table) error {
	if table == nil {
		return errors.New("lookup table is required")
	}
	onChange := s.MakeReloadCallback(table)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, onChange)
		}

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != s.base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("lookup").Errorf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

// MakeReloadCallback returns the function the watcher runs after a change.
// A file that fails to load leaves the table untouched.
func (s *FileSource) MakeReloadCallback(table *Table) func() {
	return func() {
		doc, err := s.Load()
		if err != nil {
			logger.WithComponent("lookup").Warnf("reload failed, keeping previous table: %v", err)
			return
		}
		table.Replace(*doc)
		logger.WithComponent("lookup").Infof("lookup table reloaded from %s", s.path)
	}
}
