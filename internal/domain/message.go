package domain

// Tipos de mensaje entrantes.
const (
	MessageTypeText  = "text"
	MessageTypeAudio = "audio"
)

// Tipos de respuesta salientes.
const (
	ResponseTypeAnalysis = "analysis_result"
	ResponseTypeAudio    = "audio_result"
	ResponseTypeError    = "error"
)

// Convenciones de cable soportadas. Un despliegue usa solo una.
const (
	ProtocolEnvelope = "envelope"
	ProtocolPlain    = "plain"
)

// InboundEnvelope es el sobre JSON que manda el cliente.
// Para audio, Content viaja en base64.
type InboundEnvelope struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

// InboundMessage es la variante etiquetada ya decodificada: TextMessage o AudioMessage.
type InboundMessage interface {
	messageType() string
}

type TextMessage struct {
	Content string
}

func (TextMessage) messageType() string { return MessageTypeText }

type AudioMessage struct {
	Content []byte
	Format  string
}

func (AudioMessage) messageType() string { return MessageTypeAudio }

// OutboundMessage es el sobre de respuesta.
type OutboundMessage struct {
	Type      string        `json:"type"`
	Text      string        `json:"text,omitempty"`
	Entities  *EntityRecord `json:"entities,omitempty"`
	Message   string        `json:"message,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
	Timestamp string        `json:"timestamp"`
}
