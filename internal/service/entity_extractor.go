package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"req-entities/internal/domain"
	"req-entities/internal/llm"
)

// DefaultLLMTimeout acota la inferencia; los modelos generativos locales son lentos.
const DefaultLLMTimeout = 5 * time.Minute

var errEmptyRequirement = errors.New("empty requirement text")

// Extractor es lo que consume el SessionManager.
type Extractor interface {
	Extract(ctx context.Context, text string) domain.EntityRecord
}

// extractionAttempt es el resultado explicito de un intento contra el LLM:
// parsedAttempt o failedAttempt.
type extractionAttempt interface {
	isExtractionAttempt()
}

type parsedAttempt struct {
	record domain.EntityRecord
}

type failedAttempt struct {
	reason error
}

func (parsedAttempt) isExtractionAttempt() {}
func (failedAttempt) isExtractionAttempt() {}

// EntityExtractor produce exactamente un EntityRecord por requerimiento.
// Cualquier falla del modelo degrada al parser heuristico; nunca devuelve error.
type EntityExtractor struct {
	llmClient llm.LLMClient
	prompts   EntityPromptBuilder
	parser    EntityResponseParser
	timeout   time.Duration
	logger    *zap.Logger
}

func NewEntityExtractor(llmClient llm.LLMClient, timeout time.Duration, logger *zap.Logger) *EntityExtractor {
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityExtractor{
		llmClient: llmClient,
		timeout:   timeout,
		logger:    logger,
	}
}

func (e *EntityExtractor) Extract(ctx context.Context, text string) domain.EntityRecord {
	switch a := e.attempt(ctx, text).(type) {
	case parsedAttempt:
		return a.record
	case failedAttempt:
		e.logger.Warn("entity extraction fell back to heuristic parser",
			zap.Error(a.reason),
			zap.Int("text_len", len(text)),
		)
	}
	return ParseFallback(text)
}

func (e *EntityExtractor) attempt(ctx context.Context, text string) extractionAttempt {
	if strings.TrimSpace(text) == "" {
		return failedAttempt{reason: errEmptyRequirement}
	}
	if e.llmClient == nil {
		return failedAttempt{reason: errors.New("llm client not configured")}
	}

	prompt := e.prompts.BuildEntityPrompt(text)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.llmClient.Generate(callCtx, prompt)
	if err != nil {
		return failedAttempt{reason: fmt.Errorf("llm generate: %w", err)}
	}
	e.logger.Debug("llm completion received", zap.Duration("latency", time.Since(start)))

	record, err := e.parser.ParseEntities(raw)
	if err != nil {
		return failedAttempt{reason: fmt.Errorf("parse llm response: %w", err)}
	}
	return parsedAttempt{record: record}
}
