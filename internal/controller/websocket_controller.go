package controller

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"chessmancer/internal/model"
	"chessmancer/internal/service"
	"chessmancer/internal/ws"

	"github.com/gofiber/websocket/v2"
)

var log = slog.Default().With("package", "controller")

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{gameService: gameService}
}

// HandleConnection runs the read loop for one game socket. The connection
// is registered with the session so it receives state broadcasts, and
// unregistered when the loop exits.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warn("failed to register connection", "game", gameID, "player", playerID, "error", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Info("connection closed", "game", gameID, "player", playerID, "error", err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn("unparseable message", "game", gameID, "player", playerID, "error", err)
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Warn("rejected message", "game", gameID, "player", playerID,
				"type", msg.Type, "error", err)
			c.WriteJSON(ws.NewError(err.Error()))
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var mv model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &mv); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, mv)

	case ws.MessageTypeReset:
		return wsc.gameService.ResetGame(gameID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
