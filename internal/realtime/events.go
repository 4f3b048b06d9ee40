package realtime

import (
	"encoding/json"

	"github.com/omdarshan-4964/chat-application-alignbox/internal/db"
)

// Wire event names. "load history" is pushed once per connection right
// after it becomes active; "chat message" flows both ways.
const (
	EventLoadHistory = "load history"
	EventChatMessage = "chat message"
)

// Envelope is the JSON frame exchanged over the websocket.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type outEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// ChatInput is the client-to-server chat payload.
type ChatInput struct {
	Text        string `json:"text"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// MessageEvent encodes a chat message frame carrying the full message.
func MessageEvent(msg db.Message) ([]byte, error) {
	return json.Marshal(outEnvelope{Event: EventChatMessage, Payload: msg})
}

// HistoryEvent encodes the one-time history batch for a new connection.
func HistoryEvent(msgs []db.Message) ([]byte, error) {
	if msgs == nil {
		msgs = []db.Message{}
	}
	return json.Marshal(outEnvelope{Event: EventLoadHistory, Payload: msgs})
}
