package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"moviemind/internal/models"
)

var errInvalidKey = errors.New("invalid identity key")

// FileStore writes one indented JSON file per identity under a directory.
// Writes are serialized; concurrent saves of one identity end with the last
// one on disk.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", errInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(_ context.Context, key string) (models.UserPreferences, error) {
	path, err := s.path(key)
	if err != nil {
		return models.UserPreferences{}, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return models.UserPreferences{}, ErrBlobNotFound
	}
	if err != nil {
		return models.UserPreferences{}, fmt.Errorf("read preferences file: %w", err)
	}

	var prefs models.UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return models.UserPreferences{}, fmt.Errorf("decode preferences file: %w", err)
	}
	return prefs.Normalize(), nil
}

// Put writes to a temp file and renames it over the target, so a reader
// never sees a partial blob.
func (s *FileStore) Put(_ context.Context, key string, prefs models.UserPreferences) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	file, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create preferences temp file: %w", err)
	}
	tmp := file.Name()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(prefs.Normalize()); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode preferences: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close preferences temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace preferences file: %w", err)
	}
	return nil
}
