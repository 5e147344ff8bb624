package controller

import (
	"errors"

	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/service"
	"github.com/benbeisheim/rulechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/matchmaking/join", gc.JoinMatchmaking)
	router.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	router.Post("/create", gc.CreateGame)
	router.Post("/join/:gameId", gc.JoinGame)
	router.Get("/", gc.ListGames)
	router.Get("/:gameId", gc.GetGameState)
	router.Get("/:gameId/moves/:square", gc.GetLegalMoves)
	router.Post("/:gameId/move", gc.MakeMove)
	router.Post("/:gameId/resign", gc.Resign)
	router.Post("/:gameId/rematch", gc.Rematch)
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"games": gc.gameService.ListGames(),
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	from, dests, err := gc.gameService.LegalDestinations(c.Params("gameId"), c.Params("square"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(ws.MovesPayload{Square: from, Destinations: dests})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req ws.MovePayload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move request",
		})
	}
	result, err := gc.gameService.HandleMove(c.Params("gameId"), playerID(c), req.From, req.To, req.Promotion)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	state, err := gc.gameService.Resign(c.Params("gameId"), playerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Rematch(c *fiber.Ctx) error {
	state, err := gc.gameService.Rematch(c.Params("gameId"), playerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	gc.gameService.LeaveMatchmaking(playerID(c))
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameExists),
		errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrGameOver),
		errors.Is(err, service.ErrGameInProgress),
		errors.Is(err, service.ErrDuplicateConnection),
		errors.Is(err, model.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNotInGame),
		errors.Is(err, service.ErrNotYourColor):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrPlayerIDRequired):
		return fiber.StatusUnauthorized
	case errors.Is(err, model.ErrInvalidNotation),
		errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, model.ErrInvalidPieceType):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNoPieceAtOrigin),
		errors.Is(err, model.ErrWrongSideToMove),
		errors.Is(err, model.ErrMissingPromotionKind),
		errors.Is(err, model.ErrInvalidPromotionKind),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrKingInCheck),
		errors.Is(err, model.ErrCorruptPosition):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
