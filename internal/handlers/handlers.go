// Package handlers wires the HTTP surface of the chat server: the
// upload endpoint, attachment serving, the websocket route, and the
// embedded client page.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/omdarshan-4964/chat-application-alignbox/internal/attachments"
	"github.com/omdarshan-4964/chat-application-alignbox/internal/config"
	"github.com/omdarshan-4964/chat-application-alignbox/internal/db"
	"github.com/omdarshan-4964/chat-application-alignbox/internal/realtime"
)

// AttachmentPathPrefix is the public path under which uploaded bytes are
// served; stored file_url values point beneath it.
const AttachmentPathPrefix = "/uploads/"

type Handler struct {
	store       db.Store
	attachments *attachments.Store
	hub         *realtime.Hub
	checkOrigin func(*http.Request) bool
}

func New(store db.Store, att *attachments.Store, hub *realtime.Hub, allowedOrigins []string) *Handler {
	return &Handler{
		store:       store,
		attachments: att,
		hub:         hub,
		checkOrigin: originChecker(allowedOrigins),
	}
}

// NewRouter builds the gin engine with every application route.
func NewRouter(cfg *config.Config, store db.Store, att *attachments.Store, hub *realtime.Hub) *gin.Engine {
	h := New(store, att, hub, cfg.AllowedOrigins)

	r := gin.Default()
	r.GET("/", h.ClientPage)
	r.GET("/healthz", h.Health)
	r.GET("/ws", h.WebSocket)
	r.POST("/upload", h.Upload)
	r.GET("/uploads/:name", h.ServeAttachment)
	return r
}

// Upload accepts exactly one file plus senderName and isAnonymous form
// fields, stores the bytes, appends a message record, and broadcasts it
// to every connection including the uploader.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "No file uploaded.")
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("failed to open uploaded file: %v", err)
		c.String(http.StatusInternalServerError, "Server error.")
		return
	}
	defer src.Close()

	name, err := h.attachments.Put(src, file.Filename)
	if err != nil {
		log.Printf("failed to store attachment: %v", err)
		c.String(http.StatusInternalServerError, "Server error.")
		return
	}

	isAnonymous := c.PostForm("isAnonymous") == "true"
	senderName := c.PostForm("senderName")
	if isAnonymous {
		senderName = db.AnonymousName
	}

	messageType := db.TypeFile
	if strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		messageType = db.TypeImage
	}

	fileURL := AttachmentPathPrefix + name
	msg := db.Message{
		SenderName: senderName,
		// The original filename doubles as the message text so file
		// messages render a download label.
		MessageText: file.Filename,
		IsAnonymous: isAnonymous,
		MessageType: messageType,
		FileURL:     &fileURL,
	}

	// No transaction spans the attachment write and the message append;
	// a failure here leaves an orphaned attachment behind.
	if err := h.store.Append(c.Request.Context(), &msg); err != nil {
		log.Printf("failed to save file message: %v", err)
		c.String(http.StatusInternalServerError, "Server error.")
		return
	}

	payload, err := realtime.MessageEvent(msg)
	if err != nil {
		log.Printf("failed to encode file message: %v", err)
	} else {
		h.hub.BroadcastToAll(payload)
	}

	c.JSON(http.StatusOK, gin.H{"message": "File uploaded and message sent."})
}

// ServeAttachment serves uploaded bytes by generated name.
func (h *Handler) ServeAttachment(c *gin.Context) {
	path, err := h.attachments.Resolve(c.Param("name"))
	if err != nil {
		if errors.Is(err, attachments.ErrNotFound) {
			c.String(http.StatusNotFound, "Not found.")
			return
		}
		log.Printf("failed to resolve attachment: %v", err)
		c.String(http.StatusInternalServerError, "Server error.")
		return
	}
	c.File(path)
}

func (h *Handler) WebSocket(c *gin.Context) {
	realtime.ServeWS(h.hub, h.store, h.checkOrigin, c.Writer, c.Request)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Chat server is running!")
}
