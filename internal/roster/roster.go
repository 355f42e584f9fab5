// Package roster manages on-court/bench membership within a game.
package roster

import (
	"fmt"

	"github.com/fortuna/services/stat-tracker/pkg/models"
)

// Substitute benches the out player and puts the in player on the court.
// Both ids must exist; otherwise the game is left untouched. The flags are
// set directly, so the operation does not require that out was on court or
// that in was on the bench, and no on-court head count is enforced — callers
// are expected to offer sane choices.
func Substitute(game *models.GameState, outID, inID string) error {
	out := game.FindPlayer(outID)
	if out == nil {
		return fmt.Errorf("%w: %s", models.ErrUnknownPlayer, outID)
	}
	in := game.FindPlayer(inID)
	if in == nil {
		return fmt.Errorf("%w: %s", models.ErrUnknownPlayer, inID)
	}

	out.OnCourt = false
	in.OnCourt = true
	return nil
}

// SetOnCourt wholly replaces court membership: every player whose id is in
// ids goes on court, everyone else to the bench. Ids that match no player
// are ignored.
func SetOnCourt(game *models.GameState, ids []string) {
	onCourt := make(map[string]bool, len(ids))
	for _, id := range ids {
		onCourt[id] = true
	}
	for i := range game.Players {
		game.Players[i].OnCourt = onCourt[game.Players[i].ID]
	}
}
