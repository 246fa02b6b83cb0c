package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "validate", "legal", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code, as in ErrorResponse
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	done     chan struct{} // closed when writePump stops
	ctx      context.Context
}

// WebSocket handles WebSocket connections. Requests on one connection
// are answered in order.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket-upgrade-failed")
		return
	}
	client := &WSClient{
		conn:     conn,
		handlers: h,
		sendChan: make(chan WSResponse, 256),
		done:     make(chan struct{}),
		ctx:      r.Context(),
	}
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket-connected")
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.sendChan:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	c.conn.SetReadLimit(wsMaxMessage)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.handlers.log.Debug().Err(err).Msg("websocket-closed")
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	switch msg.Type {
	case "validate":
		c.handleValidate(msg)
	case "legal":
		c.handleLegal(msg)
	case "ping":
		c.send(WSResponse{Type: "pong", ID: msg.ID})
	default:
		c.sendError(msg.ID, "unknown message type", "UNKNOWN_TYPE")
	}
}

// send queues a response. It drops the response once writePump has
// stopped so the reader never blocks on a dead connection.
func (c *WSClient) send(resp WSResponse) {
	select {
	case c.sendChan <- resp:
	case <-c.done:
	}
}

func (c *WSClient) sendError(id, errMsg, code string) {
	c.send(WSResponse{Type: "error", ID: id, Error: errMsg, Code: code})
}

// runFast executes fn in the fast lane without queueing behind a full pool.
func (c *WSClient) runFast(id string, fn func()) {
	pool := c.handlers.pool
	if pool == nil {
		fn()
		return
	}
	err := pool.TryRun(c.ctx, Fast, func(context.Context) error {
		fn()
		return nil
	})
	if err != nil {
		c.sendError(id, "server busy", "SERVER_BUSY")
	}
}

func (c *WSClient) handleValidate(msg WSMessage) {
	var req ValidateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendError(msg.ID, "invalid payload", "INVALID_JSON")
		return
	}
	c.runFast(msg.ID, func() {
		gs, p, moves, code, err := c.handlers.resolveTurn(&req)
		if err != nil {
			c.sendError(msg.ID, err.Error(), code)
			return
		}
		c.send(WSResponse{Type: "result", ID: msg.ID, Payload: c.handlers.judge(gs, p, moves)})
	})
}

func (c *WSClient) handleLegal(msg WSMessage) {
	var req LegalRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendError(msg.ID, "invalid payload", "INVALID_JSON")
		return
	}
	c.runFast(msg.ID, func() {
		resp, code, err := c.handlers.legal(&req)
		if err != nil {
			c.sendError(msg.ID, err.Error(), code)
			return
		}
		c.send(WSResponse{Type: "result", ID: msg.ID, Payload: resp})
	})
}
