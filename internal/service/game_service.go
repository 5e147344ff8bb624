package service

import (
	"fmt"
	"log"

	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/google/uuid"
)

// GameService is the entry point for controllers. It parses client input
// into engine types and broadcasts state after every change.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if _, err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	color, err := session.AddPlayer(playerID)
	if err != nil {
		return "", err
	}
	log.Printf("game %s: %s joined as %s", gameID, playerID, color)
	session.Broadcast()
	return color, nil
}

func (gs *GameService) ListGames() []string {
	return gs.gameManager.ListGames()
}

func (gs *GameService) GetGameState(gameID string) (SessionState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return SessionState{}, err
	}
	return session.State(), nil
}

func (gs *GameService) LegalDestinations(gameID string, square string) (model.Position, []model.Position, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Position{}, nil, err
	}
	from, err := model.ParsePosition(square)
	if err != nil {
		return model.Position{}, nil, err
	}
	return from, session.LegalDestinations(from), nil
}

// HandleMove applies a move requested in algebraic form. promotion may be
// empty.
func (gs *GameService) HandleMove(gameID, playerID, from, to, promotion string) (MoveResult, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return MoveResult{}, err
	}
	fromPos, err := model.ParsePosition(from)
	if err != nil {
		return MoveResult{}, err
	}
	toPos, err := model.ParsePosition(to)
	if err != nil {
		return MoveResult{}, err
	}
	var kind model.PieceType
	if promotion != "" {
		if kind, err = model.ParsePieceType(promotion); err != nil {
			return MoveResult{}, fmt.Errorf("%w: %v", model.ErrInvalidPromotionKind, err)
		}
	}

	result, err := session.MakeMove(playerID, fromPos, toPos, kind)
	if err != nil {
		log.Printf("game %s: rejected %s%s from %s: %v", gameID, from, to, playerID, err)
		return MoveResult{}, err
	}
	if result.State.Result != nil {
		log.Printf("game %s: finished by %s", gameID, result.State.Result.Reason)
	}
	session.Broadcast()
	return result, nil
}

func (gs *GameService) Resign(gameID, playerID string) (SessionState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return SessionState{}, err
	}
	state, err := session.Resign(playerID)
	if err != nil {
		return SessionState{}, err
	}
	log.Printf("game %s: %s resigned", gameID, playerID)
	session.Broadcast()
	return state, nil
}

func (gs *GameService) Rematch(gameID, playerID string) (SessionState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return SessionState{}, err
	}
	state, err := session.Rematch(playerID)
	if err != nil {
		return SessionState{}, err
	}
	log.Printf("game %s: rematch started by %s", gameID, playerID)
	session.Broadcast()
	return state, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) {
	gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := session.RegisterConnection(playerID, conn); err != nil {
		return err
	}
	log.Printf("game %s: connection registered for %s", gameID, playerID)
	session.Broadcast()
	return nil
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID)
	log.Printf("game %s: connection closed for %s", gameID, playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
