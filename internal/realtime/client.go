package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omdarshan-4964/chat-application-alignbox/internal/db"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

// Client is one active websocket connection. Its display name is fixed
// at connection time and attributed to every non-anonymous message it
// sends.
type Client struct {
	hub         *Hub
	store       db.Store
	conn        *websocket.Conn
	send        chan []byte
	displayName string
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("read error from %q: %v", c.displayName, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("invalid frame from %q: %v", c.displayName, err)
			continue
		}
		if env.Event != EventChatMessage {
			continue
		}
		var input ChatInput
		if err := json.Unmarshal(env.Payload, &input); err != nil {
			log.Printf("invalid chat payload from %q: %v", c.displayName, err)
			continue
		}
		c.handleChatMessage(input)
	}
}

// handleChatMessage persists an inbound text message and fans it out to
// every other connection. Persistence failures are logged and otherwise
// swallowed: no retry, no broadcast, and no error back to the sender,
// who already rendered its own copy.
func (c *Client) handleChatMessage(input ChatInput) {
	senderName := c.displayName
	if input.IsAnonymous {
		senderName = db.AnonymousName
	}
	msg := db.Message{
		SenderName:  senderName,
		MessageText: input.Text,
		IsAnonymous: input.IsAnonymous,
		MessageType: db.TypeText,
		CreatedAt:   time.Now().UTC(),
	}

	if err := c.store.Append(context.Background(), &msg); err != nil {
		log.Printf("failed to save message from %q: %v", c.displayName, err)
		return
	}

	payload, err := MessageEvent(msg)
	if err != nil {
		log.Printf("failed to encode message: %v", err)
		return
	}
	c.hub.BroadcastToOthers(c, payload)
}

// sendHistory pushes the full ordered message log to this connection as
// a single batch. A load failure leaves the connection up with no
// history delivered.
func (c *Client) sendHistory() {
	history, err := c.store.ListAll(context.Background())
	if err != nil {
		log.Printf("failed to load message history for %q: %v", c.displayName, err)
		return
	}
	payload, err := HistoryEvent(history)
	if err != nil {
		log.Printf("failed to encode history: %v", err)
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

			// Drain any frames queued behind this one.
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
