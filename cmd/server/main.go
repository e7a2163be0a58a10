package main

import (
	"flag"
	"log/slog"
	"os"

	"chessmancer/internal/controller"
	"chessmancer/internal/meta"
	"chessmancer/internal/middleware"
	"chessmancer/internal/oracle"
	"chessmancer/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

func main() {
	addr := flag.String("addr", ":3000", "address to listen on")
	origins := flag.String("origins", "http://localhost:5173", "allowed CORS origins")
	stockfishPath := flag.String("stockfish", "", "path to the stockfish binary (defaults to PATH lookup)")
	skill := flag.Int("skill", 5, "engine skill level, 1-20")
	inventoryPath := flag.String("inventory", "", "inventory save file (inventory routes disabled when empty)")
	flag.Parse()

	log := slog.Default()

	orc := oracle.New(*stockfishPath, *skill)
	defer orc.Close()

	var inventory *meta.Inventory
	if *inventoryPath != "" {
		var err error
		inventory, err = meta.Load(*inventoryPath)
		if err != nil {
			log.Error("failed to load inventory", "path", *inventoryPath, "error", err)
			os.Exit(1)
		}
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     *origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameManager := service.NewGameManager(orc)
	gameService := service.NewGameService(gameManager, inventory)

	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Use("/ws/game/:gameId", middleware.WebSocketUpgrade())
	app.Get("/ws/game/:gameId", websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Post("/:gameId/reset", gameController.ResetGame)
	gameRoutes.Post("/:gameId/history", gameController.LoadHistory)
	gameRoutes.Get("/:gameId/moves", gameController.LegalMoves)
	gameRoutes.Get("/:gameId", gameController.GetGameState)

	if inventory != nil {
		inventoryController := controller.NewInventoryController(gameService)
		inventoryRoutes := api.Group("/inventory")
		inventoryRoutes.Get("/", inventoryController.GetInventory)
		inventoryRoutes.Post("/move", inventoryController.MovePiece)
		inventoryRoutes.Post("/generate", inventoryController.GeneratePiece)
	}

	log.Info("listening", "addr", *addr)
	if err := app.Listen(*addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
