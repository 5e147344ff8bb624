package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/rulechess-backend/internal/middleware"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/service"
	"github.com/benbeisheim/rulechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, *service.GameService) {
	t.Helper()
	gm := service.NewGameManager(service.Options{StrictLegality: true, MatchmakingInterval: time.Hour})
	t.Cleanup(gm.Close)
	gs := service.NewGameService(gm)

	app := fiber.New()
	api := app.Group("/api", middleware.EnsurePlayerID())
	NewGameController(gs).Register(api.Group("/game"))
	return app, gs
}

func do(t *testing.T, app *fiber.App, method, target, player, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	var payload map[string]json.RawMessage
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("%s %s: decode %s: %v", method, target, data, err)
		}
	}
	return resp.StatusCode, payload
}

func createAndSeat(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, payload := do(t, app, "POST", "/api/game/create", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("create status = %d", status)
	}
	var gameID string
	if err := json.Unmarshal(payload["game_id"], &gameID); err != nil {
		t.Fatalf("decode game id: %v", err)
	}
	for _, p := range []string{"alice", "bob"} {
		if status, _ := do(t, app, "POST", "/api/game/join/"+gameID, p, ""); status != fiber.StatusOK {
			t.Fatalf("join %s status = %d", p, status)
		}
	}
	return gameID
}

func TestMoveFlow(t *testing.T) {
	app, _ := newTestApp(t)
	gameID := createAndSeat(t, app)

	status, payload := do(t, app, "GET", "/api/game/"+gameID+"/moves/b1", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("moves status = %d", status)
	}
	var dests []model.Position
	if err := json.Unmarshal(payload["destinations"], &dests); err != nil {
		t.Fatalf("decode destinations: %v", err)
	}
	if len(dests) != 2 {
		t.Errorf("destinations = %v, want A3 and C3", dests)
	}

	status, payload = do(t, app, "POST", "/api/game/"+gameID+"/move", "alice", `{"from":"e2","to":"e4"}`)
	if status != fiber.StatusOK {
		t.Fatalf("move status = %d", status)
	}
	var move model.Move
	if err := json.Unmarshal(payload["move"], &move); err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if move.From != model.MustParsePosition("E2") || move.To != model.MustParsePosition("E4") {
		t.Errorf("move = %+v", move)
	}

	status, _ = do(t, app, "GET", "/api/game/"+gameID, "alice", "")
	if status != fiber.StatusOK {
		t.Errorf("state status = %d", status)
	}
}

func TestErrorStatuses(t *testing.T) {
	app, _ := newTestApp(t)
	gameID := createAndSeat(t, app)

	tests := []struct {
		name       string
		method     string
		target     string
		player     string
		body       string
		wantStatus int
	}{
		{"no player", "GET", "/api/game/" + gameID, "", "", fiber.StatusUnauthorized},
		{"unknown game", "GET", "/api/game/missing", "alice", "", fiber.StatusNotFound},
		{"game full", "POST", "/api/game/join/" + gameID, "carol", "", fiber.StatusConflict},
		{"bad square", "GET", "/api/game/" + gameID + "/moves/x9", "alice", "", fiber.StatusBadRequest},
		{"malformed body", "POST", "/api/game/" + gameID + "/move", "alice", `{"from":`, fiber.StatusBadRequest},
		{"not your turn", "POST", "/api/game/" + gameID + "/move", "bob", `{"from":"e7","to":"e5"}`, fiber.StatusForbidden},
		{"illegal move", "POST", "/api/game/" + gameID + "/move", "alice", `{"from":"e2","to":"e5"}`, fiber.StatusUnprocessableEntity},
		{"empty origin", "POST", "/api/game/" + gameID + "/move", "alice", `{"from":"e4","to":"e5"}`, fiber.StatusUnprocessableEntity},
		{"rematch mid game", "POST", "/api/game/" + gameID + "/rematch", "alice", "", fiber.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := do(t, app, tc.method, tc.target, tc.player, tc.body)
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %v)", status, tc.wantStatus, payload)
			}
			if _, ok := payload["error"]; !ok {
				t.Errorf("body has no error field: %v", payload)
			}
		})
	}
}

func TestResignAndList(t *testing.T) {
	app, _ := newTestApp(t)
	gameID := createAndSeat(t, app)

	status, payload := do(t, app, "POST", "/api/game/"+gameID+"/resign", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("resign status = %d", status)
	}
	var result service.Result
	if err := json.Unmarshal(payload["result"], &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Winner != model.Black {
		t.Errorf("winner = %s, want black", result.Winner)
	}
	if status, _ := do(t, app, "POST", "/api/game/"+gameID+"/rematch", "bob", ""); status != fiber.StatusOK {
		t.Errorf("rematch status = %d", status)
	}

	status, payload = do(t, app, "GET", "/api/game", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	var games []string
	if err := json.Unmarshal(payload["games"], &games); err != nil {
		t.Fatalf("decode games: %v", err)
	}
	if len(games) != 1 || games[0] != gameID {
		t.Errorf("games = %v, want [%s]", games, gameID)
	}
}

func TestMatchmakingRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	if status, _ := do(t, app, "POST", "/api/game/matchmaking/join", "alice", ""); status != fiber.StatusOK {
		t.Fatalf("join status = %d", status)
	}
	if status, _ := do(t, app, "POST", "/api/game/matchmaking/join", "alice", ""); status != fiber.StatusConflict {
		t.Fatalf("second join status = %d, want 409", status)
	}
	if status, _ := do(t, app, "POST", "/api/game/matchmaking/leave", "alice", ""); status != fiber.StatusOK {
		t.Fatalf("leave status = %d", status)
	}
	if status, _ := do(t, app, "POST", "/api/game/matchmaking/join", "alice", ""); status != fiber.StatusOK {
		t.Fatalf("rejoin status = %d", status)
	}
}

type fakeConn struct {
	messages []ws.Message
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func TestHandleMessage(t *testing.T) {
	_, gs := newTestApp(t)
	gameID, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	gs.JoinGame(gameID, "alice")
	gs.JoinGame(gameID, "bob")

	wsc := NewWebSocketController(gs)
	conn := &fakeConn{}

	send := func(t *testing.T, player string, mt ws.MessageType, payload any) error {
		t.Helper()
		msg, err := ws.NewMessage(mt, payload)
		if err != nil {
			t.Fatalf("NewMessage: %v", err)
		}
		return wsc.handleMessage(conn, gameID, player, msg)
	}

	if err := send(t, "alice", ws.MessageTypeRequestMoves, ws.RequestMovesPayload{Square: "G1"}); err != nil {
		t.Fatalf("requestMoves: %v", err)
	}
	last := conn.messages[len(conn.messages)-1]
	if last.Type != ws.MessageTypeMoves {
		t.Fatalf("reply type = %s, want moves", last.Type)
	}
	var moves ws.MovesPayload
	if err := json.Unmarshal(last.Payload, &moves); err != nil {
		t.Fatalf("decode moves: %v", err)
	}
	if moves.Square != model.MustParsePosition("G1") || len(moves.Destinations) != 2 {
		t.Errorf("moves = %+v", moves)
	}

	if err := send(t, "alice", ws.MessageTypeMove, ws.MovePayload{From: "G1", To: "F3"}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if last := conn.messages[len(conn.messages)-1]; last.Type != ws.MessageTypeMoveResult {
		t.Errorf("reply type = %s, want moveResult", last.Type)
	}

	if err := send(t, "alice", ws.MessageTypeMove, ws.MovePayload{From: "F3", To: "E5"}); err == nil {
		t.Error("out of turn move accepted")
	}
	if err := send(t, "bob", ws.MessageTypeResign, struct{}{}); err != nil {
		t.Errorf("resign: %v", err)
	}
	if err := send(t, "alice", ws.MessageTypeRematch, struct{}{}); err != nil {
		t.Errorf("rematch: %v", err)
	}
	if err := send(t, "alice", "dance", struct{}{}); err == nil {
		t.Error("unknown message type accepted")
	}
}

func TestSeatsSurviveOtherRequests(t *testing.T) {
	app, _ := newTestApp(t)
	gameID := createAndSeat(t, app)

	for _, p := range []string{"zzzzz", "xxxxx", "carol"} {
		do(t, app, "GET", "/api/game/"+gameID, p, "")
		do(t, app, "POST", "/api/game/matchmaking/join", p, "")
	}

	status, payload := do(t, app, "GET", "/api/game/"+gameID, "carol", "")
	if status != fiber.StatusOK {
		t.Fatalf("state status = %d", status)
	}
	var seats model.Seats
	if err := json.Unmarshal(payload["players"], &seats); err != nil {
		t.Fatalf("decode players: %v", err)
	}
	if seats.White.ID != "alice" || seats.Black.ID != "bob" {
		t.Fatalf("seats = white %q black %q, want alice and bob", seats.White.ID, seats.Black.ID)
	}

	if status, _ := do(t, app, "POST", "/api/game/"+gameID+"/move", "xxxxx", `{"from":"e2","to":"e4"}`); status != fiber.StatusForbidden {
		t.Errorf("outsider move status = %d, want 403", status)
	}
	if status, _ := do(t, app, "POST", "/api/game/"+gameID+"/resign", "zzzzz", ""); status != fiber.StatusForbidden {
		t.Errorf("outsider resign status = %d, want 403", status)
	}
	if status, _ := do(t, app, "POST", "/api/game/"+gameID+"/move", "alice", `{"from":"e2","to":"e4"}`); status != fiber.StatusOK {
		t.Errorf("alice move status = %d, want 200", status)
	}
}
