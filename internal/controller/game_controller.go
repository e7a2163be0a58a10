package controller

import (
	"errors"

	"chessmancer/internal/model"
	"chessmancer/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	VsOracle bool `json:"vsOracle"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(req.VsOracle)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":  "Game created",
		"game_id":  gameID,
		"vsOracle": req.VsOracle,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = fiber.StatusNotFound
		}
		if errors.Is(err, service.ErrGameFull) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch game state",
		})
	}

	return c.JSON(state)
}

func (gc *GameController) ResetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if err := gc.gameService.ResetGame(gameID); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game reset",
	})
}

type loadHistoryRequest struct {
	Moves []model.SimpleMove `json:"moves"`
}

// LoadHistory replaces a game's board with one replayed from the supplied
// moves. Entries the rules reject come back as warnings rather than a
// failed request.
func (gc *GameController) LoadHistory(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var req loadHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	warnings, err := gc.gameService.LoadHistory(gameID, req.Moves)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":  "History loaded",
		"applied":  len(req.Moves) - len(warnings),
		"warnings": warnings,
	})
}

// LegalMoves returns the legal destinations for the piece on the queried
// square, for client-side highlighting.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	row := c.QueryInt("row", -1)
	col := c.QueryInt("col", -1)
	from := model.Square{Row: row, Col: col}
	if !from.InBounds() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col must be in [0,7]",
		})
	}

	moves, err := gc.gameService.LegalMoves(gameID, from)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}
