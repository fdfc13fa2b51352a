// Package websocket tells connected browsers about new preview revisions.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/docket/internal/logging"
	"github.com/conneroisu/docket/internal/validation"
)

const (
	sendBuffer   = 16
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Manager is a hub: one goroutine owns registration and broadcast, one
// writer goroutine per client owns that client's connection writes.
type Manager struct {
	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn

	originValidator OriginValidator
	logger          logging.Logger

	// last is replayed to clients that connect after a broadcast.
	last      []byte
	lastMutex sync.RWMutex

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// AllowedOrigins returns a validator accepting the given origins or hosts.
func AllowedOrigins(origins []string) OriginValidator {
	return OriginValidatorFunc(func(origin string) bool {
		return validation.ValidateOrigin(origin, origins) == nil
	})
}

// NewManager starts a hub. A nil validator admits every origin.
func NewManager(originValidator OriginValidator, logger logging.Logger) *Manager {
	if originValidator == nil {
		originValidator = OriginValidatorFunc(func(string) bool { return true })
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		clients:         make(map[*websocket.Conn]*Client),
		broadcast:       make(chan []byte, 64),
		register:        make(chan *Client, 32),
		unregister:      make(chan *websocket.Conn, 32),
		originValidator: originValidator,
		logger:          logger.WithComponent("websocket"),
		ctx:             ctx,
		cancel:          cancel,
	}
	go m.runHub()
	return m
}

// HandleWebSocket upgrades the request and registers the client.
func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if m.IsShutdown() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	origin := r.Header.Get("Origin")
	if origin != "" && !m.originValidator.IsAllowedOrigin(origin) {
		m.logger.Warn(r.Context(), nil, "WebSocket origin rejected", "origin", origin, "remote", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origins were checked above.
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		m.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote", r.RemoteAddr)
		return
	}

	client := &Client{
		conn:         conn,
		send:         make(chan []byte, sendBuffer),
		lastActivity: time.Now(),
		remote:       r.RemoteAddr,
	}

	if last := m.lastMessage(); last != nil {
		client.send <- last
	}

	select {
	case m.register <- client:
	case <-m.ctx.Done():
		_ = conn.Close(websocket.StatusServiceRestart, "server shutting down")
		return
	}

	go m.handleClient(client)
}

func (m *Manager) runHub() {
	for {
		select {
		case client := <-m.register:
			m.registerClient(client)
		case conn := <-m.unregister:
			m.unregisterClient(conn)
		case message := <-m.broadcast:
			m.broadcastToClients(message)
		case <-m.ctx.Done():
			return
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	m.clients[client.conn] = client
	total := len(m.clients)
	m.clientsMutex.Unlock()

	m.logger.Debug(m.ctx, "WebSocket client connected", "remote", client.remote, "clients", total)
}

func (m *Manager) unregisterClient(conn *websocket.Conn) {
	m.clientsMutex.Lock()
	client, exists := m.clients[conn]
	if exists {
		delete(m.clients, conn)
		close(client.send)
	}
	total := len(m.clients)
	m.clientsMutex.Unlock()

	if exists {
		_ = conn.Close(websocket.StatusNormalClosure, "")
		m.logger.Debug(m.ctx, "WebSocket client disconnected", "remote", client.remote, "clients", total)
	}
}

func (m *Manager) broadcastToClients(message []byte) {
	var slow []*websocket.Conn

	m.clientsMutex.RLock()
	for conn, client := range m.clients {
		select {
		case client.send <- message:
		default:
			slow = append(slow, conn)
		}
	}
	m.clientsMutex.RUnlock()

	// A client that cannot keep up is dropped.
	for _, conn := range slow {
		m.unregisterClient(conn)
	}
}

func (m *Manager) handleClient(client *Client) {
	defer func() {
		select {
		case m.unregister <- client.conn:
		case <-m.ctx.Done():
		}
	}()

	go m.writeToClient(client)
	m.readFromClient(client)
}

// readFromClient drains client messages; browsers only send pings.
func (m *Manager) readFromClient(client *Client) {
	for {
		ctx, cancel := context.WithTimeout(m.ctx, readTimeout)
		_, _, err := client.conn.Read(ctx)
		cancel()
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && m.ctx.Err() == nil {
				m.logger.Debug(m.ctx, "WebSocket read ended", "remote", client.remote, "error", err.Error())
			}
			return
		}
		client.lastActivity = time.Now()
	}
}

func (m *Manager) writeToClient(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(m.ctx, writeTimeout)
			err := client.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(m.ctx, writeTimeout)
			err := client.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		case <-m.ctx.Done():
			return
		}
	}
}

func (m *Manager) lastMessage() []byte {
	m.lastMutex.RLock()
	defer m.lastMutex.RUnlock()
	return m.last
}

// Broadcast sends a message to every client and remembers it for clients
// that connect later.
func (m *Manager) Broadcast(message UpdateMessage) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	data, err := json.Marshal(message)
	if err != nil {
		m.logger.Error(m.ctx, err, "Failed to marshal broadcast message")
		return
	}

	m.lastMutex.Lock()
	m.last = data
	m.lastMutex.Unlock()

	select {
	case m.broadcast <- data:
	case <-m.ctx.Done():
	default:
		m.logger.Warn(m.ctx, nil, "Broadcast channel full, dropping message")
	}
}

// ConnectedClients returns the number of connected clients.
func (m *Manager) ConnectedClients() int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()
	return len(m.clients)
}

// Shutdown closes every connection and stops the hub.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.shutdownOnce.Do(func() {
		m.cancel()

		m.clientsMutex.Lock()
		for conn, client := range m.clients {
			close(client.send)
			_ = conn.Close(websocket.StatusGoingAway, "server shutdown")
		}
		m.clients = make(map[*websocket.Conn]*Client)
		m.clientsMutex.Unlock()

		m.logger.Info(ctx, "WebSocket manager shut down")
	})
	return nil
}

// IsShutdown reports whether Shutdown has been called.
func (m *Manager) IsShutdown() bool {
	return m.ctx.Err() != nil
}
