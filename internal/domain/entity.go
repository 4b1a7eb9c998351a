package domain

// Valores por defecto del parser heuristico.
const (
	DefaultActor        = "Система"
	UndeterminedSegment = "не определено"
)

// EntityRecord es la salida canonica del pipeline: los cuatro campos siempre presentes.
// SessionID y Timestamp los agrega el SessionManager, nunca el extractor.
type EntityRecord struct {
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	Object     string `json:"object"`
	Result     string `json:"result"`
	IsFallback bool   `json:"is_fallback,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// WithSession devuelve una copia enriquecida con la identidad de la sesion y el timestamp.
func (r EntityRecord) WithSession(sessionID, timestamp string) EntityRecord {
	r.SessionID = sessionID
	r.Timestamp = timestamp
	return r
}
