package outbox

import "time"

const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// Message is an outbox row persisted in the same write as the state change it
// describes. The worker relay reads pending rows and publishes them.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}
