package service

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/ws"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameExists          = errors.New("game already exists")
	ErrGameFull            = errors.New("game is full")
	ErrNotInGame           = errors.New("player not in game")
	ErrNotYourColor        = errors.New("not your turn")
	ErrGameOver            = errors.New("game is over")
	ErrGameInProgress      = errors.New("game is still in progress")
	ErrDuplicateConnection = errors.New("connection already exists")
	ErrPlayerIDRequired    = errors.New("player id is required")
)

// Conn is the write side of a client connection.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Result is how a finished game ended. Winner is empty for a draw.
type Result struct {
	Winner model.Color `json:"winner,omitempty"`
	Reason string      `json:"reason"`
}

// SessionState is what clients see of a session.
type SessionState struct {
	ID      string          `json:"id"`
	Game    model.GameState `json:"game"`
	Players model.Seats     `json:"players"`
	Result  *Result         `json:"result"`
}

type MoveResult struct {
	Move  model.Move   `json:"move"`
	State SessionState `json:"state"`
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

// Session owns one game and its players. Every engine call goes through
// the session lock, so moves on one game are serialized while other games
// proceed independently.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *model.Game
	seats       model.Seats
	result      *Result
	connections *GameConnections
}

func newSession(id string, strict bool) *Session {
	return &Session{
		ID:    id,
		game:  model.NewGame(model.WithStrictLegality(strict)),
		seats: model.Seats{White: model.Player{Color: model.White}, Black: model.Player{Color: model.Black}},
		connections: &GameConnections{
			connections: make(map[string]Conn),
		},
	}
}

// AddPlayer seats playerID as white, then black. A seated player joining
// again gets their existing color.
func (s *Session) AddPlayer(playerID string) (model.Color, error) {
	if playerID == "" {
		return "", ErrPlayerIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if color, ok := s.seats.ColorOf(playerID); ok {
		return color, nil
	}
	switch {
	case s.seats.White.ID == "":
		s.seats.White.ID = playerID
		return model.White, nil
	case s.seats.Black.ID == "":
		s.seats.Black.ID = playerID
		return model.Black, nil
	}
	return "", ErrGameFull
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() SessionState {
	var result *Result
	if s.result != nil {
		r := *s.result
		result = &r
	}
	return SessionState{
		ID:      s.ID,
		Game:    s.game.Snapshot(),
		Players: s.seats,
		Result:  result,
	}
}

func (s *Session) LegalDestinations(from model.Position) []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return []model.Position{}
	}
	return s.game.LegalDestinations(from)
}

// MakeMove applies a move for playerID, who must hold the color to move.
func (s *Session) MakeMove(playerID string, from, to model.Position, promotion model.PieceType) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return MoveResult{}, ErrGameOver
	}
	color, ok := s.seats.ColorOf(playerID)
	if !ok {
		return MoveResult{}, ErrNotInGame
	}
	if color != s.game.ToMove() {
		return MoveResult{}, ErrNotYourColor
	}

	move, err := s.game.ApplyMove(from, to, promotion)
	if err != nil {
		return MoveResult{}, err
	}

	switch s.game.Status() {
	case model.StatusCheckmate:
		s.result = &Result{Winner: color, Reason: string(model.StatusCheckmate)}
	case model.StatusStalemate:
		s.result = &Result{Reason: string(model.StatusStalemate)}
	case model.StatusKingCaptured:
		s.result = &Result{Winner: color, Reason: string(model.StatusKingCaptured)}
	}
	return MoveResult{Move: move, State: s.state()}, nil
}

func (s *Session) Resign(playerID string) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.seats.ColorOf(playerID)
	if !ok {
		return SessionState{}, ErrNotInGame
	}
	if s.result != nil {
		return SessionState{}, ErrGameOver
	}
	s.result = &Result{Winner: color.Opponent(), Reason: "resignation"}
	return s.state(), nil
}

// Rematch discards the finished game and starts a fresh one with colors
// swapped.
func (s *Session) Rematch(playerID string) (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seats.ColorOf(playerID); !ok {
		return SessionState{}, ErrNotInGame
	}
	if s.result == nil {
		return SessionState{}, ErrGameInProgress
	}
	s.game = model.NewGame(model.WithStrictLegality(s.game.Strict()))
	s.seats = s.seats.Swapped()
	s.result = nil
	return s.state(), nil
}

func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if _, exists := s.connections.connections[playerID]; exists {
		return fmt.Errorf("%w for player %s", ErrDuplicateConnection, playerID)
	}
	s.connections.connections[playerID] = conn
	return nil
}

func (s *Session) UnregisterConnection(playerID string) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	delete(s.connections.connections, playerID)
}

// Broadcast sends the current state to every connection. Connections that
// fail to write are dropped.
func (s *Session) Broadcast() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, s.State())
	if err != nil {
		log.Printf("game %s: marshal state: %v", s.ID, err)
		return
	}

	s.connections.mu.RLock()
	active := make(map[string]Conn, len(s.connections.connections))
	for playerID, conn := range s.connections.connections {
		active[playerID] = conn
	}
	s.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: send state to %s: %v", s.ID, playerID, err)
			s.UnregisterConnection(playerID)
		}
	}
}
