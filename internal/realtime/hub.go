// Package realtime implements the websocket side of the chat: a hub that
// fans messages out to active connections, and per-connection clients
// that replay history, accept text messages, and persist them.
package realtime

import (
	"log"
	"sync"
)

// broadcastFrame carries an encoded frame through the hub. A nil Sender
// means every active client receives it; otherwise the sender is skipped.
type broadcastFrame struct {
	Sender  *Client
	Payload []byte
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastFrame
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan broadcastFrame),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It must be running before any connection
// is registered; call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("client %q connected (%d active)", client.displayName, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("client %q disconnected (%d active)", client.displayName, len(h.clients))
			}
			h.mu.Unlock()

		case frame := <-h.broadcast:
			h.deliver(frame)
		}
	}
}

// BroadcastToOthers delivers the frame to every active connection except
// the sender. Text messages use this path: the sending client already
// rendered its own copy optimistically.
func (h *Hub) BroadcastToOthers(sender *Client, payload []byte) {
	h.broadcast <- broadcastFrame{Sender: sender, Payload: payload}
}

// BroadcastToAll delivers the frame to every active connection, the
// originator included. Upload-derived messages use this path: the upload
// travels over HTTP, so the uploader has nothing rendered locally and
// must receive the broadcast to see its own message.
func (h *Hub) BroadcastToAll(payload []byte) {
	h.broadcast <- broadcastFrame{Payload: payload}
}

func (h *Hub) deliver(frame broadcastFrame) {
	h.mu.RLock()
	var stalled []*Client
	for client := range h.clients {
		if frame.Sender != nil && client == frame.Sender {
			continue
		}
		select {
		case client.send <- frame.Payload:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.drop(client)
	}
}

// drop removes a client whose send buffer filled up.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		log.Printf("client %q dropped: send buffer full", client.displayName)
	}
}

// Stop shuts the hub down and closes every active connection.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		if client.conn != nil {
			client.conn.Close()
		}
	}
}
