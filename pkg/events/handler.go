package events

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// Handler upgrades feed requests and pumps broadcast events to subscribers
type Handler struct {
	manager *Manager
	logger  *log.Logger
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
		logger:  log.New(log.Writer(), "[events] ", log.LstdFlags),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, validate origin properly
		return true
	},
}

// HandleFeedGin upgrades the request and subscribes the connection to the
// ledger event feed. Subscribers are receive-only.
func (h *Handler) HandleFeedGin(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade error: %v", err)
		return
	}

	client := h.manager.AddClient(uuid.NewString(), conn)
	h.logger.Printf("subscriber %s connected", client.ID)

	go h.readLoop(client)
	go h.writeLoop(client)
}

// readLoop drains the connection so control frames are processed and closes
// the subscription when the peer goes away. Data frames are ignored.
func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.manager.RemoveClient(client.ID)
		client.Conn.Close()
		h.logger.Printf("subscriber %s disconnected", client.ID)
	}()

	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("websocket error for subscriber %s: %v", client.ID, err)
			}
			return
		}
	}
}

func (h *Handler) writeLoop(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case event := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteJSON(event); err != nil {
				h.logger.Printf("write to subscriber %s failed: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-client.Done:
			return
		}
	}
}
