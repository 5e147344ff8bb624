package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/service"
	"github.com/benbeisheim/rulechess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// safeConn serializes writes; broadcasts from other players' handlers
// share the connection with this handler's replies.
type safeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *safeConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)
	conn := &safeConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Printf("Failed to register connection: %v", err)
		if errors.Is(err, service.ErrDuplicateConnection) {
			c.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
			)
		} else {
			sendError(conn, err)
		}
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("parse error: %v", err)
			sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(conn, gameID, playerID, msg); err != nil {
			log.Printf("handle error: %v", err)
			sendError(conn, err)
		}
	}
}

// handleMessage dispatches one inbound message. Replies go to conn; state
// changes reach every connection through the session broadcast.
func (wsc *WebSocketController) handleMessage(conn service.Conn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeRequestMoves:
		var req ws.RequestMovesPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		from, dests, err := wsc.gameService.LegalDestinations(gameID, req.Square)
		if err != nil {
			return err
		}
		return reply(conn, ws.MessageTypeMoves, ws.MovesPayload{Square: from, Destinations: dests})

	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		result, err := wsc.gameService.HandleMove(gameID, playerID, move.From, move.To, move.Promotion)
		if err != nil {
			return err
		}
		return reply(conn, ws.MessageTypeMoveResult, result)

	case ws.MessageTypeResign:
		_, err := wsc.gameService.Resign(gameID, playerID)
		return err

	case ws.MessageTypeRematch:
		_, err := wsc.gameService.Rematch(gameID, playerID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking queues the player and holds the connection open until a
// match is found or the client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("playerID").(string)
	conn := &safeConn{conn: c}

	ch := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		sendError(conn, err)
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		if err := conn.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}); err != nil {
			log.Printf("matchmaking: notify %s: %v", playerID, err)
		}
	case <-gone:
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		wsc.gameService.LeaveMatchmaking(playerID)
	}
}

func reply(conn service.Conn, t ws.MessageType, payload any) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func sendError(conn service.Conn, err error) {
	if werr := reply(conn, ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()}); werr != nil {
		log.Printf("send error: %v", werr)
	}
}
