package ws

import (
	"encoding/json"
)

// MessageType discriminates the messages exchanged over a game socket.
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeReset     MessageType = "reset"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope for every WebSocket message.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload carries a human-readable rejection back to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}

func NewError(msg string) Message {
	payload, _ := json.Marshal(ErrorPayload{Message: msg})
	return Message{Type: MessageTypeError, Payload: payload}
}
