package webui

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sitewatch/internal/metrics"
	"sitewatch/internal/poller"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan wsMessage
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}

	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan wsMessage, 16),
	}

	// greet with whatever the poller already holds, queued before the
	// client is visible to broadcast so nothing else can touch the
	// channel yet
	client.send <- wsMessage{Type: "snapshot", Data: s.Poller.Held()}

	s.wsMu.Lock()
	s.wsClients[client] = true
	s.wsMu.Unlock()
	metrics.WSClients.Inc()

	go s.writePump(client)
	go s.readPump(client)
}

// BroadcastSnapshot fans a freshly committed snapshot out to every
// connected dashboard. Wired as the poller's OnSnapshot callback.
func (s *Server) BroadcastSnapshot(snap poller.Snapshot) {
	s.broadcast(wsMessage{Type: "snapshot", Data: snap})
}

// BroadcastError surfaces a failed poll cycle as a banner message.
func (s *Server) BroadcastError(err error) {
	s.broadcast(wsMessage{Type: "poll_error", Data: err.Error()})
}

func (s *Server) broadcast(msg wsMessage) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	for c := range s.wsClients {
		select {
		case c.send <- msg:
		default:
			// slow client; drop it rather than block the poller
			close(c.send)
			delete(s.wsClients, c)
			metrics.WSClients.Dec()
		}
	}
}

func (s *Server) dropClient(c *wsClient) {
	s.wsMu.Lock()
	if s.wsClients[c] {
		delete(s.wsClients, c)
		close(c.send)
		metrics.WSClients.Dec()
	}
	s.wsMu.Unlock()
	c.conn.Close()
}

func (s *Server) writePump(c *wsClient) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) readPump(c *wsClient) {
	defer s.dropClient(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
