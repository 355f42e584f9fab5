// Package redisremote implements the remote sync adapter against Redis.
// Each game lives as one JSON document under games:<name>; team templates
// live under teams:<name>. Documents are authoritative, so no TTLs.
package redisremote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/services/stat-tracker/internal/store"
	"github.com/fortuna/services/stat-tracker/pkg/models"
	"github.com/redis/go-redis/v9"
)

const (
	gameKeyPrefix = "games:"
	teamKeyPrefix = "teams:"
)

// Store is a Redis-backed implementation of store.RemoteStore.
type Store struct {
	client *redis.Client
}

// New creates a remote store on an existing Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// PullGame fetches the full game document, or store.ErrNotFound.
func (s *Store) PullGame(ctx context.Context, gameName string) (*models.GameState, error) {
	data, err := s.client.Get(ctx, gameKeyPrefix+gameName).Result()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pulling game %s: %w", gameName, err)
	}

	var game models.GameState
	if err := json.Unmarshal([]byte(data), &game); err != nil {
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
	if err := s.client.Set(ctx, gameKeyPrefix+gameName, data, 0).Err(); err != nil {
		return fmt.Errorf("pushing game %s: %w", gameName, err)
	}
	return nil
}

// GetTeam fetches a roster template, or store.ErrNotFound.
func (s *Store) GetTeam(ctx context.Context, teamName string) (*models.Team, error) {
	data, err := s.client.Get(ctx, teamKeyPrefix+teamName).Result()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching team %s: %w", teamName, err)
	}

	var team models.Team
	if err := json.Unmarshal([]byte(data), &team); err != nil {
		return nil, fmt.Errorf("unmarshaling team %s: %w", teamName, err)
	}
	return &team, nil
}

// ListGames scans for all game documents and returns their names.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, gameKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), gameKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return names, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
