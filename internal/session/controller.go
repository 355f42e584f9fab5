// Package session owns per-game state. A Controller is the single writer for
// one game: it initializes state from the local cache or a roster template,
// routes mutations through the ledger and roster packages, mirrors every
// change to the local store, and performs explicit wholesale sync against the
// remote store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/fortuna/services/stat-tracker/internal/ledger"
	"github.com/fortuna/services/stat-tracker/internal/roster"
	"github.com/fortuna/services/stat-tracker/internal/store"
	"github.com/fortuna/services/stat-tracker/pkg/models"
	"github.com/google/uuid"
)

// ErrNotReady is returned by mutations and sync before initialization has
// finished (or after it failed).
var ErrNotReady = errors.New("game session not ready")

// State is the controller lifecycle: Uninitialized -> Loading -> Ready.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

const defaultRosterSize = 8

// onCourtStarters is how many template entries (by list position) start on
// court when a game is seeded.
const onCourtStarters = 5

// Publisher receives a state snapshot after every successful mutation and
// sync. Implementations must not block.
type Publisher interface {
	PublishState(gameName string, game *models.GameState)
}

// Controller is the exclusive owner of one game's in-memory state.
type Controller struct {
	gameName string
	local    store.LocalStore
	remote   store.RemoteStore
	pub      Publisher

	mu    sync.Mutex
	state State
	game  *models.GameState

	// Local saves are asynchronous but serialized: saveMu is the per-game
	// write queue and saveGen drops a stale write that would otherwise land
	// after a fresher one.
	saveMu   sync.Mutex
	nextGen  uint64
	savedGen uint64
	saves    sync.WaitGroup
}

// NewController creates an Uninitialized controller for one game.
func NewController(gameName string, local store.LocalStore, remote store.RemoteStore, pub Publisher) *Controller {
	return &Controller{
		gameName: gameName,
		local:    local,
		remote:   remote,
		pub:      pub,
	}
}

// GameName returns the game this controller owns.
func (c *Controller) GameName() string {
	return c.gameName
}

// Loading reports whether the controller has not reached Ready yet.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != Ready
}

// Init loads the game from the local cache, or synthesizes a fresh one (from
// the template if given, else a default 8-player roster) and persists it.
// It is called exactly once, before the controller is shared.
func (c *Controller) Init(ctx context.Context, team *models.Team) error {
	c.mu.Lock()
	if c.state != Uninitialized {
		c.mu.Unlock()
		return fmt.Errorf("game %s already initialized", c.gameName)
	}
	c.state = Loading
	c.mu.Unlock()

	game, err := c.local.Load(ctx, c.gameName)
	switch {
	case err == nil:
		// resume from cache
	case errors.Is(err, store.ErrNotFound):
		game = newGameState(c.gameName, team)
		if err := c.local.Save(ctx, c.gameName, game); err != nil {
			c.setState(Uninitialized)
			return fmt.Errorf("persisting new game %s: %w", c.gameName, err)
		}
	default:
		c.setState(Uninitialized)
		return fmt.Errorf("loading game %s: %w", c.gameName, err)
	}

	c.mu.Lock()
	c.game = game
	c.state = Ready
	snap := c.game.Clone()
	c.mu.Unlock()

	c.publish(snap)
	return nil
}

// Snapshot returns a deep copy of the current state, or ErrNotReady.
func (c *Controller) Snapshot() (*models.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Ready {
		return nil, ErrNotReady
	}
	return c.game.Clone(), nil
}

// UpdateStat applies one stat event. Made counters also move their paired
// attempt counter; the team aggregate moves in the same operation.
func (c *Controller) UpdateStat(playerID string, key models.StatKey, delta int) (*models.GameState, error) {
	return c.mutate(func(game *models.GameState) error {
		return ledger.Apply(game, playerID, key, delta)
	})
}

// Substitute benches outID and puts inID on court.
func (c *Controller) Substitute(outID, inID string) (*models.GameState, error) {
	return c.mutate(func(game *models.GameState) error {
		return roster.Substitute(game, outID, inID)
	})
}

// SetOnCourt wholly replaces court membership.
func (c *Controller) SetOnCourt(ids []string) (*models.GameState, error) {
	return c.mutate(func(game *models.GameState) error {
		roster.SetOnCourt(game, ids)
		return nil
	})
}

// ReplacePlayers substitutes the whole roster and recomputes the aggregate.
func (c *Controller) ReplacePlayers(players []models.Player) (*models.GameState, error) {
	return c.mutate(func(game *models.GameState) error {
		ledger.ReplacePlayers(game, players)
		return nil
	})
}

// mutate runs fn against the owned state under the lock; on success it
// schedules an async local save and publishes a snapshot. On failure the
// in-memory state is untouched and nothing is written.
func (c *Controller) mutate(fn func(*models.GameState) error) (*models.GameState, error) {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	if err := fn(c.game); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	snap := c.game.Clone()
	gen := c.nextGen
	c.nextGen++
	c.mu.Unlock()

	c.scheduleSave(snap, gen)
	c.publish(snap)
	return snap, nil
}

// SyncPush wholly overwrites the remote document with the current state,
// discarding any remote-only changes made since the last pull.
func (c *Controller) SyncPush(ctx context.Context) error {
	snap, err := c.Snapshot()
	if err != nil {
		return err
	}
	if err := c.remote.PushGame(ctx, c.gameName, snap); err != nil {
		return fmt.Errorf("sync push %s: %w", c.gameName, err)
	}
	return nil
}

// SyncPull replaces the in-memory state with the remote document and mirrors
// it into the local cache. store.ErrNotFound is surfaced with the in-memory
// state untouched; the same goes for any pull failure.
func (c *Controller) SyncPull(ctx context.Context) (*models.GameState, error) {
	c.mu.Lock()
	ready := c.state == Ready
	c.mu.Unlock()
	if !ready {
		return nil, ErrNotReady
	}

	remote, err := c.remote.PullGame(ctx, c.gameName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.game = remote
	snap := c.game.Clone()
	gen := c.nextGen
	c.nextGen++
	c.mu.Unlock()

	c.scheduleSave(snap, gen)
	c.publish(snap)
	return snap, nil
}

// Flush blocks until every scheduled local save has settled.
func (c *Controller) Flush() {
	c.saves.Wait()
}

// scheduleSave writes the snapshot to the local store in the background.
// Saves are serialized through saveMu; a save whose generation is older than
// one that already landed is dropped, so the last write always reflects the
// latest state.
func (c *Controller) scheduleSave(snap *models.GameState, gen uint64) {
	c.saves.Add(1)
	go func() {
		defer c.saves.Done()

		c.saveMu.Lock()
		defer c.saveMu.Unlock()
		if gen < c.savedGen {
			return // a newer snapshot already landed
		}
		c.savedGen = gen

		if err := c.local.Save(context.Background(), c.gameName, snap); err != nil {
			log.Printf("local save failed for game %s: %v", c.gameName, err)
		}
	}()
}

func (c *Controller) publish(snap *models.GameState) {
	if c.pub != nil {
		c.pub.PublishState(c.gameName, snap)
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// newGameState seeds a game: from the template when given (first 5 entries on
// court), otherwise the default placeholder roster.
func newGameState(gameName string, team *models.Team) *models.GameState {
	if team != nil {
		players := make([]models.Player, len(team.Players))
		for i, p := range team.Players {
			players[i] = models.Player{
				ID:           p.ID,
				Name:         p.Name,
				JerseyNumber: p.JerseyNumber,
				Position:     p.Position,
				OnCourt:      i < onCourtStarters,
			}
		}
		return &models.GameState{GameName: gameName, Players: players}
	}

	players := make([]models.Player, defaultRosterSize)
	for i := range players {
		players[i] = models.Player{
			ID:           uuid.New().String(),
			Name:         fmt.Sprintf("Player %d", i+1),
			JerseyNumber: fmt.Sprintf("%d", i+1),
			Position:     "N/A",
			OnCourt:      i < onCourtStarters,
		}
	}
	return &models.GameState{GameName: gameName, Players: players}
}
