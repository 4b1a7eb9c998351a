package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"req-entities/internal/stt"
)

const DefaultSTTTimeout = 2 * time.Minute

var audioFormatRe = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

// AudioService pasa el audio por un archivo temporal hacia el Transcriber.
// El archivo vive solo durante la llamada y se borra en todos los caminos.
type AudioService struct {
	transcriber stt.Transcriber
	language    string
	timeout     time.Duration
	tempDir     string
	logger      *zap.Logger
}

func NewAudioService(transcriber stt.Transcriber, language string, timeout time.Duration, logger *zap.Logger) *AudioService {
	if transcriber == nil {
		transcriber = stt.NewDisabledTranscriber("speech-to-text not configured")
	}
	if timeout <= 0 {
		timeout = DefaultSTTTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioService{
		transcriber: transcriber,
		language:    language,
		timeout:     timeout,
		logger:      logger,
	}
}

// Transcribe devuelve el texto reconocido o error; no hay fallback sin voz reconocida.
func (s *AudioService) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio payload")
	}

	f, err := os.CreateTemp(s.tempDir, "requirement-*."+audioExtension(format))
	if err != nil {
		return "", fmt.Errorf("create temp audio: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("temp audio cleanup failed", zap.String("path", path), zap.Error(err))
		}
	}()

	if _, err := f.Write(audio); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write temp audio: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp audio: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.transcriber.TranscribeFile(callCtx, path, s.language)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty transcription result")
	}
	return text, nil
}

func audioExtension(format string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if !audioFormatRe.MatchString(f) {
		return "wav"
	}
	return f
}
