package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

// fileKVRepo stores each key as <dir>/<key>.json.
// Writes go to a temp file in the same directory and are renamed into place,
// so a crash mid-write never leaves a truncated slot behind.
type fileKVRepo struct {
	dir string
}

// NewFileKVRepo constructs a KVRepo rooted at dir, creating it if needed.
func NewFileKVRepo(dir string) (KVRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repo.NewFileKVRepo: create dir: %w", err)
	}
	return &fileKVRepo{dir: dir}, nil
}

// ValidKey reports whether key can name a slot on every driver. Keys map
// to file names for the file driver, so separators and dot names are refused.
func ValidKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`) && key != "." && key != ".."
}

func (r *fileKVRepo) path(key string) (string, error) {
	if !ValidKey(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

func (r *fileKVRepo) Get(_ context.Context, key string) ([]byte, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, fmt.Errorf("repo.FileKVRepo.Get: %w", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("repo.FileKVRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.FileKVRepo.Get: %w", err)
	}
	return b, nil
}

func (r *fileKVRepo) Put(_ context.Context, key string, value []byte) error {
	p, err := r.path(key)
	if err != nil {
		return fmt.Errorf("repo.FileKVRepo.Put: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("repo.FileKVRepo.Put: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("repo.FileKVRepo.Put: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("repo.FileKVRepo.Put: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo.FileKVRepo.Put: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("repo.FileKVRepo.Put: rename: %w", err)
	}
	return nil
}

func (r *fileKVRepo) Close() error { return nil }
