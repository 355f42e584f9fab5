// Package sqlitelocal implements the local persistence adapter on SQLite.
// It is a plain key/value table: the key carries the historical
// "gameStats-" prefix so existing cached documents keep working.
package sqlitelocal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/services/stat-tracker/internal/store"
	"github.com/fortuna/services/stat-tracker/pkg/models"
	_ "modernc.org/sqlite"
)

const keyPrefix = "gameStats-"

const schema = `
CREATE TABLE IF NOT EXISTS game_stats (
	key  TEXT PRIMARY KEY,
	data TEXT NOT NULL
);
`

// Store is a SQLite-backed implementation of store.LocalStore.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the cache database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Load returns the cached game state, or store.ErrNotFound.
func (s *Store) Load(ctx context.Context, gameName string) (*models.GameState, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM game_stats WHERE key = ?", keyPrefix+gameName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading game %s: %w", gameName, err)
	}

	var game models.GameState
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("unmarshaling game %s: %w", gameName, err)
	}
	return &game, nil
}

// Save upserts the full game document under its key.
func (s *Store) Save(ctx context.Context, gameName string, game *models.GameState) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshaling game %s: %w", gameName, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_stats (key, data) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data
	`, keyPrefix+gameName, string(data))
	if err != nil {
		return fmt.Errorf("saving game %s: %w", gameName, err)
	}
	return nil
}

// ListGames returns the names of all locally cached games.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM game_stats WHERE key LIKE ? ORDER BY key", keyPrefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		names = append(names, strings.TrimPrefix(key, keyPrefix))
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
