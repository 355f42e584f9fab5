// Package pgremote implements the remote sync adapter on Postgres, for
// deployments that already run one instead of Redis. Games and teams are
// whole JSONB documents keyed by name, mirroring the Redis layout.
package pgremote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/services/stat-tracker/internal/store"
	"github.com/fortuna/services/stat-tracker/pkg/models"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	name TEXT PRIMARY KEY,
	data JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS teams (
	name TEXT PRIMARY KEY,
	data JSONB NOT NULL
);
`

// Store is a Postgres-backed implementation of store.RemoteStore.
type Store struct {
	db *sql.DB
}

// New connects to Postgres and ensures the document tables exist.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// PullGame fetches the full game document, or store.ErrNotFound.
func (s *Store) PullGame(ctx context.Context, gameName string) (*models.GameState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM games WHERE name = $1", gameName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pulling game %s: %w", gameName, err)
	}

	var game models.GameState
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("unmarshaling game %s: %w", gameName, err)
	}
	return &game, nil
}

// PushGame overwrites whatever the remote holds for this game.
func (s *Store) PushGame(ctx context.Context, gameName string, game *models.GameState) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshaling game %s: %w", gameName, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (name, data) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = excluded.data
	`, gameName, data)
	if err != nil {
		return fmt.Errorf("pushing game %s: %w", gameName, err)
	}
	return nil
}

// GetTeam fetches a roster template, or store.ErrNotFound.
func (s *Store) GetTeam(ctx context.Context, teamName string) (*models.Team, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM teams WHERE name = $1", teamName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching team %s: %w", teamName, err)
	}

	var team models.Team
	if err := json.Unmarshal(data, &team); err != nil {
		return nil, fmt.Errorf("unmarshaling team %s: %w", teamName, err)
	}
	return &team, nil
}

// ListGames returns the names of all remote game documents.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM games ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
