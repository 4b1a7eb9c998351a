package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"req-entities/internal/service"
)

// ServiceInfo se expone en el health-check.
type ServiceInfo struct {
	LLMProvider string
	LLMModel    string
}

// Handlers mantiene dependencias para los endpoints HTTP.
type Handlers struct {
	logger    *zap.Logger
	extractor service.Extractor
	sessions  *service.SessionManager
	info      ServiceInfo
}

// NewHandlers crea una instancia de Handlers con las dependencias necesarias.
func NewHandlers(
	logger *zap.Logger,
	extractor service.Extractor,
	sessions *service.SessionManager,
	info ServiceInfo,
) *Handlers {
	return &Handlers{
		logger:    logger,
		extractor: extractor,
		sessions:  sessions,
		info:      info,
	}
}

// Health maneja GET / y GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"active_sessions": h.sessions.ActiveSessions(),
		"protocol":        h.sessions.Protocol(),
		"llm_provider":    h.info.LLMProvider,
		"llm_model":       h.info.LLMModel,
	})
}

// Process maneja POST /api/process: extraccion de una sola vez, sin sesion.
func (h *Handlers) Process(c *gin.Context) {
	start := time.Now()

	var req struct {
		Text    string `json:"text"`
		Command string `json:"command"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid process request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty text"})
		return
	}
	command := strings.TrimSpace(req.Command)
	if command == "" {
		command = "parse"
	}

	record := h.extractor.Extract(c.Request.Context(), text)
	record.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)

	h.logger.Info("process request handled", zap.String("command", command), zap.Bool("fallback", record.IsFallback))

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"entities": record,
			"command":  command,
		},
		"processing_time": time.Since(start).Seconds(),
	})
}
