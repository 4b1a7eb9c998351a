package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"req-entities/internal/service"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsInboundQueue = 16
)

// WSHandler atiende /ws: una sesion por conexion, mensajes en orden.
type WSHandler struct {
	logger          *zap.Logger
	sessions        *service.SessionManager
	upgrader        websocket.Upgrader
	maxMessageBytes int64
}

func NewWSHandler(logger *zap.Logger, sessions *service.SessionManager, maxMessageBytes int64) *WSHandler {
	return &WSHandler{
		logger:   logger,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		maxMessageBytes: maxMessageBytes,
	}
}

// wsChannel adapta *websocket.Conn a service.Channel con deadline de escritura.
type wsChannel struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsChannel) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.conn.WriteJSON(v)
}

// Serve maneja GET /ws.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.maxMessageBytes > 0 {
		conn.SetReadLimit(h.maxMessageBytes)
	}

	id := h.sessions.Connect(&wsChannel{conn: conn}, c.ClientIP())
	defer h.sessions.Disconnect(id)

	// La conexion ya fue secuestrada; el contexto de la sesion vive hasta que el lector falla.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan []byte, wsInboundQueue)
	go func() {
		defer close(frames)
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.Warn("websocket read failed", zap.String("session_id", id), zap.Error(err))
				}
				return
			}
			select {
			case frames <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-frames:
			if !ok {
				return
			}
			if err := h.sessions.Dispatch(ctx, id, data); err != nil {
				h.logger.Info("closing session", zap.String("session_id", id), zap.Error(err))
				return
			}
		}
	}
}
