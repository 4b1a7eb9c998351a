package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort          string        `env:"HTTP_PORT" envDefault:"8000"`
	WSProtocol        string        `env:"WS_PROTOCOL" envDefault:"envelope"`
	WSMaxMessageBytes int64         `env:"WS_MAX_MESSAGE_BYTES" envDefault:"10485760"`
	LLMProvider       string        `env:"LLM_PROVIDER" envDefault:"ollama"`
	LLMBaseURL        string        `env:"LLM_BASE_URL" envDefault:"http://localhost:11434"`
	LLMAPIKey         string        `env:"LLM_API_KEY"`
	LLMModel          string        `env:"LLM_MODEL" envDefault:"mistral"`
	LLMTimeout        time.Duration `env:"LLM_TIMEOUT" envDefault:"5m"`
	LLMPingOnStart    bool          `env:"LLM_PING_ON_START" envDefault:"true"`
	STTBaseURL        string        `env:"STT_BASE_URL"`
	STTAPIKey         string        `env:"STT_API_KEY"`
	STTModel          string        `env:"STT_MODEL" envDefault:"whisper-1"`
	STTLanguage       string        `env:"STT_LANGUAGE" envDefault:"ru"`
	STTTimeout        time.Duration `env:"STT_TIMEOUT" envDefault:"2m"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitMax      int           `env:"RATE_LIMIT_MAX" envDefault:"30"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
