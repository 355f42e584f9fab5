package handlers

import (
	"net/http"
	"sort"

	"github.com/fortuna/services/stat-tracker/pkg/models"
)

// shootingLine is one made/attempt pair with its percentage.
type shootingLine struct {
	Made      int     `json:"made"`
	Attempted int     `json:"attempted"`
	Pct       float64 `json:"pct"`
}

// statLine is the derived view of one Stat record.
type statLine struct {
	Stats        models.Stat  `json:"stats"`
	Points       int          `json:"points"`
	Impact       int          `json:"impact"`
	FreeThrow    shootingLine `json:"freeThrow"`
	TwoPt        shootingLine `json:"twoPt"`
	ThreePt      shootingLine `json:"threePt"`
	FieldGoalPct float64      `json:"fieldGoalPct"`
}

type playerReport struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	JerseyNumber string `json:"jerseyNumber"`
	Position     string `json:"position"`
	OnCourt      bool   `json:"onCourt"`
	statLine
}

type reportResponse struct {
	GameName string         `json:"gameName"`
	Team     statLine       `json:"team"`
	Players  []playerReport `json:"players"`
}

// HandleReport returns the derived box-score view: team and per-player
// points, shooting percentages, and impact, players sorted by points.
// GET /api/v1/games/{game_name}/report
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}

	game, err := ctrl.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}

	report := reportResponse{
		GameName: game.GameName,
		Team:     buildStatLine(game.TeamStats),
		Players:  make([]playerReport, 0, len(game.Players)),
	}
	for _, p := range game.Players {
		report.Players = append(report.Players, playerReport{
			ID:           p.ID,
			Name:         p.Name,
			JerseyNumber: p.JerseyNumber,
			Position:     p.Position,
			OnCourt:      p.OnCourt,
			statLine:     buildStatLine(p.Stats),
		})
	}
	sort.SliceStable(report.Players, func(i, j int) bool {
		return report.Players[i].Points > report.Players[j].Points
	})

	writeJSON(w, http.StatusOK, report)
}

func buildStatLine(s models.Stat) statLine {
	return statLine{
		Stats:  s,
		Points: s.Points(),
		Impact: s.Impact(),
		FreeThrow: shootingLine{
			Made:      s.FreeThrowMade,
			Attempted: s.FreeThrowAttempt,
			Pct:       s.FreeThrowPct(),
		},
		TwoPt: shootingLine{
			Made:      s.TwoPtMade,
			Attempted: s.TwoPtAttempt,
			Pct:       s.TwoPtPct(),
		},
		ThreePt: shootingLine{
			Made:      s.ThreePtMade,
			Attempted: s.ThreePtAttempt,
			Pct:       s.ThreePtPct(),
		},
		FieldGoalPct: s.FieldGoalPct(),
	}
}
