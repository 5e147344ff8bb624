package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(EnsurePlayerID())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})
	app.Get("/ws", WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "header", target: "/whoami", header: "alice", wantStatus: fiber.StatusOK, wantBody: "alice"},
		{name: "query", target: "/whoami?playerId=bob", wantStatus: fiber.StatusOK, wantBody: "bob"},
		{name: "header wins", target: "/whoami?playerId=bob", header: "alice", wantStatus: fiber.StatusOK, wantBody: "alice"},
		{name: "missing", target: "/whoami", wantStatus: fiber.StatusUnauthorized},
	}

	app := newApp()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				req.Header.Set("X-Player-ID", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if tc.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tc.wantBody {
					t.Errorf("body = %q, want %q", body, tc.wantBody)
				}
			}
		})
	}
}

func TestWebSocketUpgradeRejectsPlainRequests(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("X-Player-ID", "alice")
	resp, err := newApp().Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}
}

func TestEnsurePlayerIDOutlivesRequest(t *testing.T) {
	var seen []string
	app := fiber.New()
	app.Use(EnsurePlayerID())
	app.Get("/", func(c *fiber.Ctx) error {
		seen = append(seen, c.Locals("playerID").(string))
		return c.SendStatus(fiber.StatusOK)
	})

	want := []string{"alice", "bob", "zzzzz", "xxxxxxxx"}
	for _, id := range want[:2] {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Player-ID", id)
		if _, err := app.Test(req); err != nil {
			t.Fatalf("app.Test: %v", err)
		}
	}
	for _, id := range want[2:] {
		if _, err := app.Test(httptest.NewRequest("GET", "/?playerId="+id, nil)); err != nil {
			t.Fatalf("app.Test: %v", err)
		}
	}

	if len(seen) != len(want) {
		t.Fatalf("seen %d ids, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("id %d = %q after later requests, want %q", i, seen[i], want[i])
		}
	}
}
