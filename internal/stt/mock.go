package stt

import (
	"context"
	"os"
	"sync"
)

// MockTranscriber registra la ruta recibida y si el archivo existia al momento de la llamada.
type MockTranscriber struct {
	Text string
	Err  error

	mu           sync.Mutex
	lastPath     string
	lastLanguage string
	lastContent  []byte
}

func (m *MockTranscriber) TranscribeFile(_ context.Context, path string, language string) (string, error) {
	data, _ := os.ReadFile(path)

	m.mu.Lock()
	m.lastPath = path
	m.lastLanguage = language
	m.lastContent = data
	m.mu.Unlock()

	return m.Text, m.Err
}

func (m *MockTranscriber) LastPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPath
}

func (m *MockTranscriber) LastLanguage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLanguage
}

func (m *MockTranscriber) LastContent() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastContent
}
