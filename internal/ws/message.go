package ws

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgState    = "state"
	MsgSnapshot = "snapshot"
	MsgError    = "error"
)

// Message - конверт ws-сообщения
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
