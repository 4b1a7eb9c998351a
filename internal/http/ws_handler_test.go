package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"req-entities/internal/domain"
	"req-entities/internal/llm"
	"req-entities/internal/service"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func waitForSessions(t *testing.T, sessions *service.SessionManager, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sessions.ActiveSessions() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d active sessions, got %d", want, sessions.ActiveSessions())
}

func TestWebSocketRoundTrip(t *testing.T) {
	r, sessions := setupRouter(&llm.MockClient{Response: modelReply}, domain.ProtocolEnvelope)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv)
	waitForSessions(t, sessions, 1)

	if err := conn.WriteJSON(map[string]string{"type": "text", "content": "Пользователь может войти в систему"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var first domain.OutboundMessage
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read: %v", err)
	}
	if first.Type != domain.ResponseTypeAnalysis || first.Entities == nil {
		t.Fatalf("unexpected response %+v", first)
	}
	if first.Entities.Actor != "пользователь" || first.Entities.SessionID == "" || first.Timestamp == "" {
		t.Fatalf("unexpected entities %+v", first.Entities)
	}

	if err := conn.WriteJSON(map[string]string{"type": "video", "content": "x"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var second domain.OutboundMessage
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read: %v", err)
	}
	if second.Type != domain.ResponseTypeError {
		t.Fatalf("expected error response, got %+v", second)
	}

	if err := conn.WriteJSON(map[string]string{"type": "text", "content": "Второе требование"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var third domain.OutboundMessage
	if err := conn.ReadJSON(&third); err != nil {
		t.Fatalf("read: %v", err)
	}
	if third.Type != domain.ResponseTypeAnalysis || third.SessionID != first.SessionID {
		t.Fatalf("expected same session to keep answering, got %+v", third)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitForSessions(t, sessions, 0)
}

func TestWebSocketAudioWithoutTranscriber(t *testing.T) {
	r, _ := setupRouter(&llm.MockClient{Response: modelReply}, domain.ProtocolEnvelope)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "audio", "content": "ZmFrZQ==", "format": "wav"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp domain.OutboundMessage
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != domain.ResponseTypeError || !strings.Contains(resp.Message, "not configured") {
		t.Fatalf("expected transcription error, got %+v", resp)
	}
}

func TestWebSocketPlainProtocol(t *testing.T) {
	r, _ := setupRouter(&llm.MockClient{Response: modelReply}, domain.ProtocolPlain)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("Пользователь может войти в систему")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var record domain.EntityRecord
	if err := conn.ReadJSON(&record); err != nil {
		t.Fatalf("read: %v", err)
	}
	if record.Actor != "пользователь" || record.SessionID == "" || record.Timestamp == "" {
		t.Fatalf("unexpected record %+v", record)
	}
}
