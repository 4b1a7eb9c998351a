package domain

import "time"

// Session describe una conexion duplex viva. El canal en si lo guarda el SessionManager.
type Session struct {
	ID          string    `json:"id"`
	ClientKey   string    `json:"client_key"`
	ConnectedAt time.Time `json:"connected_at"`
}
