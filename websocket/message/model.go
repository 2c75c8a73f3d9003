package message

import (
	"encoding/json"

	"github.com/thesrcielos/PokeMemory/internal/stats"
)

const (
	TypeLeaderboardUpdate = "LEADERBOARD_UPDATE"
	TypeRefresh           = "REFRESH"
	TypePing              = "PING"
	TypePong              = "PONG"
	TypeError             = "ERROR"
)

// Message is a frame received from a feed client.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type OutgoingMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type LeaderboardPayload struct {
	Leaderboard []stats.Position `json:"leaderboard"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func LeaderboardUpdate(board []stats.Position) OutgoingMessage {
	return OutgoingMessage{
		Type:    TypeLeaderboardUpdate,
		Payload: LeaderboardPayload{Leaderboard: board},
	}
}
