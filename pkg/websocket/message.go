package websocket

import "time"

// Envelope wraps every outbound frame so the frontend can switch on Type.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}
