package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"req-entities/internal/domain"
)

// DecodeError describe un sobre entrante invalido. Se reporta al cliente como "error".
type DecodeError struct {
	Code    string
	Message string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func badRequest(message string) *DecodeError {
	return &DecodeError{Code: "bad_request", Message: message}
}

func unsupported(message string) *DecodeError {
	return &DecodeError{Code: "unsupported", Message: message}
}

// DecodeInbound convierte un frame {"type": ...} en TextMessage o AudioMessage.
func DecodeInbound(data []byte) (domain.InboundMessage, error) {
	var env domain.InboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, badRequest("invalid json envelope")
	}

	typ := strings.TrimSpace(env.Type)
	switch typ {
	case "":
		return nil, badRequest("missing message type")
	case domain.MessageTypeText:
		return domain.TextMessage{Content: env.Content}, nil
	case domain.MessageTypeAudio:
		if strings.TrimSpace(env.Content) == "" {
			return nil, badRequest("audio content is required")
		}
		audio, err := base64.StdEncoding.DecodeString(strings.TrimSpace(env.Content))
		if err != nil {
			return nil, badRequest("audio content must be base64 encoded")
		}
		return domain.AudioMessage{Content: audio, Format: env.Format}, nil
	default:
		return nil, unsupported(fmt.Sprintf("unsupported message type %q", typ))
	}
}
