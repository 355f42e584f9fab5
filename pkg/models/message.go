package models

import "time"

// MessageTypeGameState labels websocket frames carrying a full state snapshot.
const MessageTypeGameState = "game_state"

// StateMessage is the frame pushed to websocket subscribers after every
// mutation and sync, and once on connect.
type StateMessage struct {
	Type      string     `json:"type"`
	GameName  string     `json:"gameName"`
	State     *GameState `json:"state"`
	Timestamp time.Time  `json:"timestamp"`
}
