package models

// Player is one roster entry within a game. Identity fields never change
// after game initialization; stats and the on-court flag do.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	JerseyNumber string `json:"jerseyNumber"`
	Position     string `json:"position"`
	Stats        Stat   `json:"stats"`
	OnCourt      bool   `json:"onCourt"`
}

// TeamPlayer is a roster template entry: identity only, no in-game stats.
type TeamPlayer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	JerseyNumber string `json:"jerseyNumber"`
	Position     string `json:"position"`
}

// Team is a reusable roster template. Teams are authored by a separate
// management flow; this service only reads them to seed new games.
type Team struct {
	TeamName string       `json:"teamName"`
	Players  []TeamPlayer `json:"players"`
}
