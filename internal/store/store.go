// Package store defines the narrow storage interfaces the session controller
// depends on: a durable local cache and a shared remote document store.
package store

import (
	"context"
	"errors"

	"github.com/fortuna/services/stat-tracker/pkg/models"
)

// ErrNotFound is returned when a game or team document does not exist.
var ErrNotFound = errors.New("not found")

// LocalStore is the durable on-device cache, keyed by game name. Writes are
// whole-document replacements; there is no transactionality beyond a single
// atomic put.
type LocalStore interface {
	Load(ctx context.Context, gameName string) (*models.GameState, error)
	Save(ctx context.Context, gameName string, game *models.GameState) error
	ListGames(ctx context.Context) ([]string, error)
	Close() error
}

// RemoteStore is the shared document store. Push wholly overwrites the remote
// document and Pull returns it wholesale; there is no field-level merge.
// Teams are read-only from this service.
type RemoteStore interface {
	PullGame(ctx context.Context, gameName string) (*models.GameState, error)
	PushGame(ctx context.Context, gameName string, game *models.GameState) error
	GetTeam(ctx context.Context, teamName string) (*models.Team, error)
	ListGames(ctx context.Context) ([]string, error)
	Close() error
}
