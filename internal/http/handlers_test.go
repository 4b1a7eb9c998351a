package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"req-entities/internal/domain"
	"req-entities/internal/llm"
	"req-entities/internal/service"
)

const modelReply = `{"actor":"пользователь","action":"может войти","object":"в систему","result":"доступ"}`

func setupRouter(client llm.LLMClient, protocol string) (*gin.Engine, *service.SessionManager) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	extractor := service.NewEntityExtractor(client, time.Second, logger)
	sessions := service.NewSessionManager(extractor, nil, nil, protocol, logger)
	h := NewHandlers(logger, extractor, sessions, ServiceInfo{LLMProvider: "ollama", LLMModel: "mistral"})
	ws := NewWSHandler(logger, sessions, 1<<20)
	return NewRouter(logger, h, ws), sessions
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(&llm.MockClient{Response: modelReply}, domain.ProtocolEnvelope)

	for _, path := range []string{"/", "/health"} {
		rec := performRequest(r, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", path, err)
		}
		if body["status"] != "ok" || body["protocol"] != domain.ProtocolEnvelope || body["llm_model"] != "mistral" {
			t.Fatalf("%s: unexpected health body %v", path, body)
		}
		if body["active_sessions"] != float64(0) {
			t.Fatalf("%s: expected 0 active sessions, got %v", path, body["active_sessions"])
		}
	}
}

func TestProcess_Success(t *testing.T) {
	r, _ := setupRouter(&llm.MockClient{Response: modelReply}, domain.ProtocolEnvelope)

	rec := performRequest(r, http.MethodPost, "/api/process", map[string]string{
		"text": "Пользователь может войти в систему",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Entities domain.EntityRecord `json:"entities"`
			Command  string              `json:"command"`
		} `json:"data"`
		ProcessingTime float64 `json:"processing_time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "success" || body.Data.Command != "parse" {
		t.Fatalf("unexpected envelope %+v", body)
	}
	if body.Data.Entities.Actor != "пользователь" || body.Data.Entities.IsFallback {
		t.Fatalf("unexpected entities %+v", body.Data.Entities)
	}
	if body.ProcessingTime < 0 {
		t.Fatalf("expected non-negative processing time")
	}
}

func TestProcess_FallbackOnModelGarbage(t *testing.T) {
	r, _ := setupRouter(&llm.MockClient{Response: "не JSON"}, domain.ProtocolEnvelope)

	rec := performRequest(r, http.MethodPost, "/api/process", map[string]string{
		"text":    "Администратор удаляет учетные записи пользователей.",
		"command": "analyze",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Data struct {
			Entities domain.EntityRecord `json:"entities"`
			Command  string              `json:"command"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Data.Entities.IsFallback || body.Data.Entities.Actor != "Администратор" {
		t.Fatalf("expected fallback record, got %+v", body.Data.Entities)
	}
	if body.Data.Command != "analyze" {
		t.Fatalf("expected command echoed, got %q", body.Data.Command)
	}
}

func TestProcess_EmptyText(t *testing.T) {
	client := &llm.MockClient{Response: modelReply}
	r, _ := setupRouter(client, domain.ProtocolEnvelope)

	rec := performRequest(r, http.MethodPost, "/api/process", map[string]string{"text": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "empty text" {
		t.Fatalf("unexpected error body %v", body)
	}
	if client.Calls() != 0 {
		t.Fatalf("expected no llm call")
	}
}

func TestProcess_InvalidJSON(t *testing.T) {
	r, _ := setupRouter(&llm.MockClient{Response: modelReply}, domain.ProtocolEnvelope)

	req := httptest.NewRequest(http.MethodPost, "/api/process", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
