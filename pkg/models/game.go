package models

import "errors"

// Mutation errors shared by the ledger and roster packages.
var (
	// ErrUnknownPlayer means a mutation targeted a player id that is not in
	// the game. The operation is a no-op.
	ErrUnknownPlayer = errors.New("player not found in game")

	// ErrUnknownStat means a counter name outside the closed StatKey set.
	ErrUnknownStat = errors.New("unknown stat counter")
)

// GameState is the full record for one game: the roster in insertion order
// plus the team aggregate. TeamStats is maintained transactionally with every
// per-player mutation so readers never observe it out of sync with the
// players it summarizes.
type GameState struct {
	GameName  string   `json:"gameName"`
	Players   []Player `json:"players"`
	TeamStats Stat     `json:"teamStats"`
}

// FindPlayer returns the player with the given id, or nil.
func (g *GameState) FindPlayer(id string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (g *GameState) Clone() *GameState {
	cp := *g
	cp.Players = make([]Player, len(g.Players))
	copy(cp.Players, g.Players)
	return &cp
}
