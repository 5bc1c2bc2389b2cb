package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/whisprhq/keybind/internal/catalog"
	"github.com/whisprhq/keybind/internal/platform"
	"github.com/whisprhq/keybind/internal/store"
)

// Store implements store.Store over the overrides table. Load composes the
// full persisted settings shape from the static catalog plus stored
// overrides, so both backends present identical data to the engine.
type Store struct {
	db       *DB
	commands []catalog.Command
}

// NewStore creates a SQLite-backed settings store for the given catalog.
func NewStore(db *DB, commands []catalog.Command) *Store {
	return &Store{db: db, commands: commands}
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Load reads all overrides and assembles the settings map. An empty overrides
// table is not ErrNotExist: an explicit "no overrides" state is still a valid
// persisted state once the database exists.
func (s *Store) Load() (store.Settings, error) {
	rows, err := s.db.conn.Query(`SELECT command_key, platform, binding FROM overrides`)
	if err != nil {
		return nil, &store.PersistenceError{Op: "load", Err: err}
	}
	defer rows.Close()

	overrides := make(map[string]map[platform.Platform]string)
	for rows.Next() {
		var key, plat, bindingStr string
		if err := rows.Scan(&key, &plat, &bindingStr); err != nil {
			return nil, &store.PersistenceError{Op: "load", Err: err}
		}
		if overrides[key] == nil {
			overrides[key] = make(map[platform.Platform]string, 2)
		}
		overrides[key][platform.Platform(plat)] = bindingStr
	}
	if err := rows.Err(); err != nil {
		return nil, &store.PersistenceError{Op: "load", Err: err}
	}

	settings := make(store.Settings, len(s.commands))
	for _, cmd := range s.commands {
		entry := store.Entry{
			Key:         cmd.Key,
			Title:       cmd.Title,
			Description: cmd.Description,
			Category:    string(cmd.Category),
			DefaultShortcut: store.PlatformShortcut{
				Mac:     cmd.Default.Mac,
				Windows: cmd.Default.Windows,
			},
		}
		if byPlatform, ok := overrides[cmd.Key]; ok {
			entry.CustomShortcut = &store.CustomShortcut{
				Mac:     byPlatform[platform.Mac],
				Windows: byPlatform[platform.Windows],
			}
		}
		settings[cmd.Key] = entry
	}
	return settings, nil
}

// Save replaces the overrides table contents with the customizations present
// in the settings map, inside a single transaction.
func (s *Store) Save(settings store.Settings) (bool, error) {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return false, &store.PersistenceError{Op: "save", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM overrides`); err != nil {
		return false, &store.PersistenceError{Op: "save", Err: err}
	}

	now := time.Now().Unix()
	for key, entry := range settings {
		if entry.CustomShortcut == nil {
			continue
		}
		if entry.CustomShortcut.Mac != "" {
			if err := insertOverride(tx, key, platform.Mac, entry.CustomShortcut.Mac, now); err != nil {
				return false, err
			}
		}
		if entry.CustomShortcut.Windows != "" {
			if err := insertOverride(tx, key, platform.Windows, entry.CustomShortcut.Windows, now); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, &store.PersistenceError{Op: "save", Err: err}
	}
	return true, nil
}

func insertOverride(tx *sql.Tx, key string, p platform.Platform, bindingStr string, now int64) error {
	_, err := tx.Exec(
		`INSERT INTO overrides (command_key, platform, binding, updated_at) VALUES (?, ?, ?, ?)`,
		key, p.String(), bindingStr, now,
	)
	if err != nil {
		return &store.PersistenceError{Op: "save", Err: fmt.Errorf("inserting override for %s/%s: %w", key, p, err)}
	}
	return nil
}
