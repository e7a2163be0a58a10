package controller

import (
	"chessmancer/internal/meta"
	"chessmancer/internal/service"

	"github.com/gofiber/fiber/v2"
)

// InventoryController exposes the collectible-piece inventory. Routes are
// only mounted when the server was started with an inventory file.
type InventoryController struct {
	gameService *service.GameService
}

func NewInventoryController(gameService *service.GameService) *InventoryController {
	return &InventoryController{gameService: gameService}
}

func (ic *InventoryController) GetInventory(c *fiber.Ctx) error {
	inv := ic.gameService.Inventory()
	if inv == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no inventory configured",
		})
	}
	return c.JSON(inv.Snapshot())
}

type rosterMoveRequest struct {
	Index  int    `json:"index"`
	Target string `json:"target"` // "active" or "reserve"
}

func (ic *InventoryController) MovePiece(c *fiber.Ctx) error {
	inv := ic.gameService.Inventory()
	if inv == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no inventory configured",
		})
	}

	var req rosterMoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	var moved bool
	switch req.Target {
	case "active":
		moved = inv.MoveToActive(req.Index)
	case "reserve":
		moved = inv.MoveToReserve(req.Index)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "target must be active or reserve",
		})
	}
	if !moved {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "piece could not be moved",
		})
	}
	if err := inv.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(inv.Snapshot())
}

type generatePieceRequest struct {
	MinRarity meta.Rarity `json:"minRarity"`
	MaxRarity meta.Rarity `json:"maxRarity"`
}

func (ic *InventoryController) GeneratePiece(c *fiber.Ctx) error {
	inv := ic.gameService.Inventory()
	if inv == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no inventory configured",
		})
	}

	req := generatePieceRequest{MinRarity: meta.RarityCommon, MaxRarity: meta.RarityRare}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	piece := inv.GenerateRandomPiece(req.MinRarity, req.MaxRarity)
	inv.AddPiece(piece, false)
	if err := inv.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(piece)
}
