package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/rulechess-backend/internal/config"
	"github.com/benbeisheim/rulechess-backend/internal/controller"
	"github.com/benbeisheim/rulechess-backend/internal/middleware"
	"github.com/benbeisheim/rulechess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

func main() {
	configPath := flag.String("config", os.Getenv("RULECHESS_CONFIG"), "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(service.Options{
		StrictLegality:      cfg.Engine.StrictLegality,
		MatchmakingInterval: cfg.Matchmaking.Interval.Duration,
	})
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins(cfg.Server.AllowOrigins),
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	log.Printf("listening on %s (strict legality: %v)", cfg.Server.Addr, cfg.Engine.StrictLegality)
	if err := app.Listen(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}

func origins(list string) []string {
	var out []string
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
