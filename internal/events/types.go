package events

const AggregateMessage = "message"

// Message delivery events
const (
	EventTypeMessageStateChanged = "message.state_changed"
	EventTypeMessageRead         = "message.read"
	EventTypeMessageDeleted      = "message.deleted"
)

// Sources of a state change.
const (
	SourceReceipt  = "receipt"
	SourcePipeline = "pipeline"
	SourceReaction = "reaction"
	SourceConsumed = "consumed"
)

type StateChangedPayload struct {
	MessageID string  `json:"message_id"`
	From      *string `json:"from,omitempty"`
	To        string  `json:"to"`
	Source    string  `json:"source"`
	Receipt   string  `json:"receipt,omitempty"`
}

type MessageReadPayload struct {
	MessageID string `json:"message_id"`
}

type MessageDeletedPayload struct {
	MessageID string `json:"message_id"`
	Remote    bool   `json:"remote"`
}
