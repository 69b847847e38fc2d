package store

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps one file per slot; the last write time is the file's mtime.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Exists(slot string) (bool, error) {
	_, err := os.Stat(s.path(slot))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat slot %s: %w", slot, err)
}

func (s *FileStore) Read(slot string) ([]byte, error) {
	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return data, nil
}

func (s *FileStore) LastModified(slot string) (time.Time, error) {
	info, err := os.Stat(s.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("stat slot %s: %w", slot, err)
	}
	return info.ModTime(), nil
}

// Write replaces the slot file atomically (temp file, fsync, rename).
func (s *FileStore) Write(slot string, data []byte) error {
	target := s.path(slot)

	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), target); err != nil {
		return fmt.Errorf("replace slot file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, sanitizeSlot(slot))
}

// sanitizeSlot makes a slot name safe to use as a file name.
func sanitizeSlot(slot string) string {
	if len(slot) > 200 {
		return fmt.Sprintf("hash_%x", md5.Sum([]byte(slot)))
	}
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "?", "_", "&", "_", "=", "_",
		"#", "_", "<", "_", ">", "_", "|", "_", "*", "_", "\"", "_", " ", "_",
	)
	return replacer.Replace(slot)
}
