package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempDirName is the subfolder in-flight uploads are written to before
// being renamed into place. The jobs sweeper clears stale leftovers.
const TempDirName = "tmp"

type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, TempDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Put writes into the temp subfolder first and renames into place, so a
// half-written upload never shows up under a serving path.
func (s *LocalStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	tempPath := filepath.Join(s.dir, TempDirName, name)
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	finalPath := filepath.Join(s.dir, name)
	if err := os.Rename(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return name, nil
}

func (s *LocalStore) Remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/uploads/%s", s.baseURL, key)
}
