package server

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type clientState int

const (
	stateAwaitingLogin clientState = iota
	stateAuthenticated
	stateClosed
)

func (s clientState) String() string {
	switch s {
	case stateAwaitingLogin:
		return "awaiting_login"
	case stateAuthenticated:
		return "authenticated"
	default:
		return "closed"
	}
}

// Client runs one websocket connection through login and then bridges its
// session's send queue to the socket.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	log     *zap.Logger
	state   clientState
	session *Session
}

func (h *Hub) newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(h.opts.AllowedOrigins, r.Header.Get("Origin"))
		},
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

// ServeWebsocket upgrades the connection and starts its read loop. The
// client is not registered until it logs in.
func (h *Hub) ServeWebsocket(w http.ResponseWriter, r *http.Request) {
	upgrader := h.newUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("error upgrading connection", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	c := &Client{
		hub:   h,
		conn:  conn,
		log:   h.log.With(zap.String("remote", conn.RemoteAddr().String())),
		state: stateAwaitingLogin,
	}
	c.log.Debug("client connected")

	go c.readMessage()
}

func (c *Client) readMessage() {
	defer c.close()

	c.conn.SetReadLimit(c.hub.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("error reading message", zap.Stringer("state", c.state), zap.Error(err))
			}
			return
		}

		if c.state == stateAwaitingLogin {
			if err := c.handleLogin(message); err != nil {
				c.log.Warn("error during login", zap.Error(err))
				return
			}
		}
		// nothing is processed once authenticated
	}
}

// handleLogin runs one handshake attempt. A returned error means the
// connection is unusable. On success the session is registered before the
// login frame is written and the write pump starts only after it, so the
// login frame is always the first thing the client reads and a client that
// has read it is already receiving ticks.
func (c *Client) handleLogin(message []byte) error {
	if string(message) != tycoon.CommandLogin {
		c.hub.metrics.RecordHandshakeFailure()
		return c.writeEvent(ErrorEvent{Reason: tycoon.LoginRequiredReason})
	}

	id := uuid.New()
	s := c.hub.register(id)
	c.session = s
	c.state = stateAuthenticated
	c.log = c.log.With(zap.Stringer("session", id))

	// written before the write pump starts, so it always precedes any update
	if err := c.writeEvent(LoginEvent{UserID: id.String()}); err != nil {
		return err
	}

	go c.writeMessage(s)
	return nil
}

// writeEvent writes straight to the socket. Only used before the write pump
// owns the connection.
func (c *Client) writeEvent(e Event) error {
	message, err := EncodeEvent(e)
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.hub.opts.WriteWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return err
	}
	c.hub.metrics.RecordEventSent(e.Type())
	return nil
}

func (c *Client) writeMessage(s *Session) {
	ticker := time.NewTicker(pingPeriod(c.hub.opts.PongWait))
	defer func() {
		ticker.Stop()
		c.hub.unregister(s)
		c.conn.Close()
	}()

	for {
		select {
		case message := <-s.Outbound():
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					c.log.Warn("error writing message", zap.Error(err))
				}
				return
			}
		case <-s.Done():
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.hub.opts.WriteWait))
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	if c.session != nil {
		c.hub.unregister(c.session)
	}
	c.state = stateClosed
	c.conn.Close()
	c.log.Debug("client connection closed")
}

func pingPeriod(pongWait time.Duration) time.Duration {
	return (pongWait * 9) / 10
}
