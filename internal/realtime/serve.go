package realtime

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/omdarshan-4964/chat-application-alignbox/internal/db"
)

// DefaultName is used when a connection supplies no display name.
const DefaultName = "Guest"

// ServeWS upgrades the request and attaches the connection to the hub.
// The display name is resolved once, at connection time, from the
// request itself; whatever sits in front of this service (today a name
// query parameter, eventually an auth layer) supplies it. There is no
// process-wide current user.
func ServeWS(hub *Hub, store db.Store, checkOrigin func(*http.Request) bool, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = DefaultName
	}

	client := &Client{
		hub:         hub,
		store:       store,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		displayName: name,
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()

	client.sendHistory()
}
