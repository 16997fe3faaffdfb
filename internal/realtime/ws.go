package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/services"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

// WSConfig tunes slot room connections.
type WSConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration
	// Time allowed to read the next pong message from the peer
	PongWait time.Duration
	// Send pings to peer with this period, must be less than PongWait
	PingPeriod     time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

func DefaultWSConfig() WSConfig {
	return WSConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
		SendBuffer:     64,
	}
}

// SlotFinder resolves the slot a room is opened for.
type SlotFinder interface {
	GetSlot(ctx context.Context, slotID string) (*models.Slot, error)
}

// SlotRoomHandler serves GET /ws/slots/{id}. Clients authenticate with the
// token query parameter since browsers cannot set headers on upgrade.
type SlotRoomHandler struct {
	broker   Broker
	auth     services.Authenticator
	slots    SlotFinder
	cfg      WSConfig
	upgrader websocket.Upgrader
}

func NewSlotRoomHandler(b Broker, auth services.Authenticator, slots SlotFinder, allowedOrigins []string, cfg WSConfig) *SlotRoomHandler {
	return &SlotRoomHandler{
		broker: b,
		auth:   auth,
		slots:  slots,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

func (h *SlotRoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Slot not found", http.StatusNotFound)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	userID, err := h.auth.Authenticate(token)
	if err != nil {
		http.Error(w, "Not authorized, token failed", http.StatusUnauthorized)
		return
	}

	if _, err := h.slots.GetSlot(r.Context(), slotID.String()); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			http.Error(w, "Slot not found", http.StatusNotFound)
			return
		}
		logger.Ctx(r.Context()).Error("slot room lookup failed", zap.String("slot_id", slotID.String()), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &roomClient{
		conn:   conn,
		cfg:    h.cfg,
		send:   make(chan []byte, h.cfg.SendBuffer),
		done:   make(chan struct{}),
		slotID: slotID,
		userID: userID,
		log:    logger.L().With(zap.String("slot_id", slotID.String()), zap.String("user_id", userID.String())),
	}

	sub, err := h.broker.Subscribe(SlotSubject(slotID), c.enqueue)
	if err != nil {
		c.log.Error("slot room subscribe failed", zap.Error(err))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"))
		_ = conn.Close()
		return
	}
	c.sub = sub

	welcome, _ := json.Marshal(map[string]any{
		"type":   "welcome",
		"slotId": slotID,
		"at":     time.Now().UTC(),
	})
	c.enqueue(welcome)
	c.log.Info("slot room joined")

	go c.writePump()
	c.readPump()
}

type roomClient struct {
	conn      *websocket.Conn
	cfg       WSConfig
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	sub       Subscription
	slotID    uuid.UUID
	userID    uuid.UUID
	log       *zap.Logger
}

// enqueue drops the message for slow consumers instead of blocking the broker.
func (c *roomClient) enqueue(msg []byte) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		c.log.Warn("slot room buffer full, dropping event")
	}
}

// readPump only services control frames; clients do not send events.
func (c *roomClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("slot room read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *roomClient) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *roomClient) close() {
	c.closeOnce.Do(func() {
		if c.sub != nil {
			_ = c.sub.Unsubscribe()
		}
		close(c.done)
		_ = c.conn.Close()
		c.log.Info("slot room left")
	})
}
