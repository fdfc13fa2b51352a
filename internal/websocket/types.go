package websocket

import (
	"time"

	"github.com/coder/websocket"
)

// Message types pushed to browsers.
const (
	MessagePreview = "preview"
	MessageEmpty   = "empty"
	MessageError   = "error"
)

// Client is one browser connection.
type Client struct {
	conn         *websocket.Conn
	send         chan []byte
	lastActivity time.Time
	remote       string
}

// UpdateMessage is the JSON payload sent to browsers.
type UpdateMessage struct {
	Type       string    `json:"type"`
	Content    string    `json:"content,omitempty"`
	Error      string    `json:"error,omitempty"`
	Generation uint64    `json:"generation,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// OriginValidator decides whether a browser origin may connect.
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}

// OriginValidatorFunc adapts a function to OriginValidator.
type OriginValidatorFunc func(origin string) bool

// IsAllowedOrigin calls f.
func (f OriginValidatorFunc) IsAllowedOrigin(origin string) bool { return f(origin) }
