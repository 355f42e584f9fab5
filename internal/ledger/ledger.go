// Package ledger is the stat mutation engine. It owns the two rules every
// stat edit must respect: a made shot also counts as an attempt, and the team
// aggregate moves in the same operation as the player counter it summarizes.
package ledger

import (
	"fmt"

	"github.com/fortuna/services/stat-tracker/pkg/models"
)

// Apply increments one counter for one player by delta, updating the team
// aggregate in the same operation. Made counters (freeThrowMade, twoPtMade,
// threePtMade) also move their paired attempt counter by the same delta.
// Delta may be negative for manual corrections.
//
// On any error the game state is left untouched.
func Apply(game *models.GameState, playerID string, key models.StatKey, delta int) error {
	player := game.FindPlayer(playerID)
	if player == nil {
		return fmt.Errorf("%w: %s", models.ErrUnknownPlayer, playerID)
	}

	counter := player.Stats.Counter(key)
	if counter == nil {
		return fmt.Errorf("%w: %q", models.ErrUnknownStat, key)
	}

	*counter += delta
	*game.TeamStats.Counter(key) += delta

	if attempt, ok := key.PairedAttempt(); ok {
		*player.Stats.Counter(attempt) += delta
		*game.TeamStats.Counter(attempt) += delta
	}
	return nil
}

// ReplacePlayers substitutes the entire player collection, as the manual
// edit-all-stats flow does. This is the one path where the team aggregate is
// recomputed from scratch instead of maintained incrementally; any prior
// aggregate value is discarded.
func ReplacePlayers(game *models.GameState, players []models.Player) {
	game.Players = make([]models.Player, len(players))
	copy(game.Players, players)
	game.TeamStats = Sum(game.Players)
}

// Sum adds up every counter across the given players.
func Sum(players []models.Player) models.Stat {
	var total models.Stat
	for i := range players {
		for _, key := range models.StatKeys {
			*total.Counter(key) += players[i].Stats.Get(key)
		}
	}
	return total
}
