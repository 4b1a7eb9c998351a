package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"req-entities/internal/domain"
)

// ErrSessionNotFound se devuelve al despachar sobre una identidad ya liberada o desconocida.
var ErrSessionNotFound = errors.New("session not found")

// Channel es el extremo duplex de una sesion. Solo el SessionManager escribe en el.
type Channel interface {
	WriteJSON(v any) error
}

type liveSession struct {
	info domain.Session
	ch   Channel
}

// SessionManager es dueño del registro identidad -> canal y enruta cada mensaje.
// Dispatch asume un mensaje en vuelo por sesion; sesiones distintas son independientes.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession

	extractor Extractor
	audio     *AudioService
	limiter   MessageRateLimiter
	protocol  string
	logger    *zap.Logger
	now       func() time.Time
}

func NewSessionManager(
	extractor Extractor,
	audio *AudioService,
	limiter MessageRateLimiter,
	protocol string,
	logger *zap.Logger,
) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if audio == nil {
		audio = NewAudioService(nil, "", 0, logger)
	}
	if protocol != domain.ProtocolPlain {
		protocol = domain.ProtocolEnvelope
	}
	return &SessionManager{
		sessions:  make(map[string]*liveSession),
		extractor: extractor,
		audio:     audio,
		limiter:   limiter,
		protocol:  protocol,
		logger:    logger,
		now:       time.Now,
	}
}

// Protocol devuelve la convencion de cable activa.
func (m *SessionManager) Protocol() string {
	return m.protocol
}

// Connect registra el canal y devuelve una identidad nueva.
func (m *SessionManager) Connect(ch Channel, clientKey string) string {
	id := uuid.NewString()
	sess := &liveSession{
		info: domain.Session{
			ID:          id,
			ClientKey:   clientKey,
			ConnectedAt: m.now().UTC(),
		},
		ch: ch,
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	m.logger.Info("session connected", zap.String("session_id", id), zap.String("client", clientKey))
	return id
}

// Disconnect libera la sesion. Liberar una identidad inexistente no es error.
func (m *SessionManager) Disconnect(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		m.logger.Info("session disconnected", zap.String("session_id", id))
	}
}

// ActiveSessions devuelve cuantas sesiones estan registradas.
func (m *SessionManager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *SessionManager) lookup(id string) (*liveSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Dispatch procesa un frame y envia exactamente una respuesta por el canal de la sesion.
// Solo devuelve error si la sesion no existe, si el envio falla o si ctx se cancelo;
// en esos casos el llamador debe cerrar la sesion.
func (m *SessionManager) Dispatch(ctx context.Context, id string, raw []byte) (err error) {
	sess, ok := m.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic while processing message", zap.String("session_id", id), zap.Any("panic", r))
			err = m.send(sess, m.errorResponse(id, "internal error while processing message"))
		}
	}()

	if m.limiter != nil && !m.limiter.Allow(sess.info.ClientKey) {
		m.logger.Warn("message rate limited", zap.String("session_id", id), zap.String("client", sess.info.ClientKey))
		return m.send(sess, m.errorResponse(id, "rate limit exceeded"))
	}

	var resp any
	if m.protocol == domain.ProtocolPlain {
		resp = m.handlePlain(ctx, id, raw)
	} else {
		resp = m.handleEnvelope(ctx, id, raw)
	}

	// Transporte cerrado a mitad de la extraccion: no se manda respuesta parcial.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("session %s cancelled: %w", id, ctxErr)
	}
	return m.send(sess, resp)
}

func (m *SessionManager) handleEnvelope(ctx context.Context, id string, raw []byte) domain.OutboundMessage {
	msg, err := DecodeInbound(raw)
	if err != nil {
		m.logger.Info("invalid inbound message", zap.String("session_id", id), zap.Error(err))
		return m.errorResponse(id, err.Error())
	}

	switch v := msg.(type) {
	case domain.TextMessage:
		return m.analyze(ctx, id, v.Content, domain.ResponseTypeAnalysis)
	case domain.AudioMessage:
		text, err := m.audio.Transcribe(ctx, v.Content, v.Format)
		if err != nil {
			m.logger.Warn("audio transcription failed", zap.String("session_id", id), zap.Error(err))
			return m.errorResponse(id, "audio transcription failed: "+err.Error())
		}
		m.logger.Info("audio transcribed", zap.String("session_id", id), zap.Int("text_len", len(text)))
		return m.analyze(ctx, id, text, domain.ResponseTypeAudio)
	default:
		return m.errorResponse(id, "unsupported message")
	}
}

func (m *SessionManager) analyze(ctx context.Context, id, text, responseType string) domain.OutboundMessage {
	text = strings.TrimSpace(text)
	if text == "" {
		return m.errorResponse(id, errEmptyRequirement.Error())
	}

	ts := m.timestamp()
	record := m.extractor.Extract(ctx, text).WithSession(id, ts)
	m.logger.Info("requirement analyzed",
		zap.String("session_id", id),
		zap.String("type", responseType),
		zap.Bool("fallback", record.IsFallback),
	)

	return domain.OutboundMessage{
		Type:      responseType,
		Text:      text,
		Entities:  &record,
		SessionID: id,
		Timestamp: ts,
	}
}

func (m *SessionManager) handlePlain(ctx context.Context, id string, raw []byte) any {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return m.errorResponse(id, errEmptyRequirement.Error())
	}
	return m.extractor.Extract(ctx, text).WithSession(id, m.timestamp())
}

func (m *SessionManager) errorResponse(id, message string) domain.OutboundMessage {
	return domain.OutboundMessage{
		Type:      domain.ResponseTypeError,
		Message:   message,
		SessionID: id,
		Timestamp: m.timestamp(),
	}
}

func (m *SessionManager) timestamp() string {
	return m.now().UTC().Format(time.RFC3339Nano)
}

func (m *SessionManager) send(sess *liveSession, v any) error {
	if err := sess.ch.WriteJSON(v); err != nil {
		m.logger.Warn("send failed", zap.String("session_id", sess.info.ID), zap.Error(err))
		return fmt.Errorf("send to session %s: %w", sess.info.ID, err)
	}
	return nil
}
