// Package stt expone el reconocimiento de voz como una capacidad externa.
package stt

import (
	"context"
	"errors"
)

// Transcriber convierte un archivo de audio en texto.
// Recibe una ruta porque los backends tipo Whisper trabajan con archivos.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string, language string) (string, error)
}

type disabledTranscriber struct {
	reason string
}

// NewDisabledTranscriber devuelve un Transcriber que siempre falla con reason.
func NewDisabledTranscriber(reason string) Transcriber {
	return &disabledTranscriber{reason: reason}
}

func (t *disabledTranscriber) TranscribeFile(_ context.Context, _ string, _ string) (string, error) {
	if t.reason == "" {
		return "", errors.New("speech-to-text disabled")
	}
	return "", errors.New(t.reason)
}
