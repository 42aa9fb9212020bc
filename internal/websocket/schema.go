package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSubscribe   Action = "subscribe"
	ActionUnsubscribe Action = "unsubscribe"
	ActionPing        Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
	Topic  string `json:"topic,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventSubscribed Event = "subscribed"
	EventPong       Event = "pong"
	EventMessage    Event = "message"
)

// TopicEvent is a pushed message on a subscribed topic: session lifecycle
// changes and finished generation jobs.
type TopicEvent struct {
	Event   Event       `json:"event"`
	Topic   string      `json:"topic"`
	Name    string      `json:"name"`
	Payload interface{} `json:"payload,omitempty"`
}

type SubscribedResponse struct {
	Event Event  `json:"event"`
	Topic string `json:"topic"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
