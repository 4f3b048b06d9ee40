package db

import "time"

// Message types. Uploads are classified as image or file from the
// declared content type; everything sent over the realtime channel is text.
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeFile  = "file"
)

// AnonymousName is the display name stored and broadcast when the sender
// has the anonymous toggle on.
const AnonymousName = "Anonymous"

// Message is the sole persisted entity: one row of the append-only chat
// log. Messages are never updated or deleted once created. FileURL is
// set iff MessageType is image or file.
type Message struct {
	ID          int64     `json:"id"`
	SenderName  string    `json:"sender_name"`
	MessageText string    `json:"message_text"`
	IsAnonymous bool      `json:"is_anonymous"`
	MessageType string    `json:"message_type"`
	FileURL     *string   `json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
}
