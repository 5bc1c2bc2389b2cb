package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/whisprhq/keybind/internal/log"
)

// FileStore persists settings as pretty-printed JSON at a fixed path.
// Writes are atomic: content goes to a temp file in the same directory and is
// renamed into place.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the settings file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads and parses the settings file. A missing file returns ErrNotExist
// so the caller can fall back to catalog defaults without treating it as a
// failure; anything else is a PersistenceError.
func (f *FileStore) Load() (Settings, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	log.Debug(log.CatStore, "settings loaded", "path", f.path, "commands", len(s))
	return s, nil
}

// Save writes the settings file atomically, creating the parent directory if
// needed. Returns true only once the rename has landed.
func (f *FileStore) Save(s Settings) (bool, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return false, &PersistenceError{Op: "save", Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, &PersistenceError{Op: "save", Err: err}
	}

	temp, err := os.CreateTemp(dir, ".settings.json.tmp.*")
	if err != nil {
		return false, &PersistenceError{Op: "save", Err: err}
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return false, &PersistenceError{Op: "save", Err: err}
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return false, &PersistenceError{Op: "save", Err: err}
	}

	if err := os.Rename(tempPath, f.path); err != nil {
		_ = os.Remove(tempPath)
		return false, &PersistenceError{Op: "save", Err: err}
	}

	log.Debug(log.CatStore, "settings saved", "path", f.path, "commands", len(s))
	return true, nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
