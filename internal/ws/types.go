package ws

import (
	"encoding/json"

	"github.com/benbeisheim/rulechess-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeRequestMoves MessageType = "requestMoves"
	MessageTypeMoves        MessageType = "moves"
	MessageTypeMove         MessageType = "move"
	MessageTypeMoveResult   MessageType = "moveResult"
	MessageTypeGameState    MessageType = "gameState"
	MessageTypeResign       MessageType = "resign"
	MessageTypeRematch      MessageType = "rematch"
	MessageTypeMatchFound   MessageType = "matchFound"
	MessageTypeError        MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RequestMovesPayload asks for the destinations of the piece on Square.
type RequestMovesPayload struct {
	Square string `json:"square"`
}

type MovesPayload struct {
	Square       model.Position   `json:"square"`
	Destinations []model.Position `json:"destinations"`
}

// MovePayload is an inbound move request. Promotion is a piece name such as
// "queen" or "q" and only matters for pawns reaching the last rank.
type MovePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a Message of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
