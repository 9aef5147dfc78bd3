// Package queue defines the change-feed messages exchanged over RabbitMQ and
// the consumer that turns them into the audit log.
package queue

import (
    "encoding/json"
    "time"
)

// ChangesQueue is the durable queue every write is published to.
const ChangesQueue = "party.changes"

// Action names the kind of write that produced a ChangeEvent.
type Action string

const (
    ActionCreated  Action = "created"
    ActionReplaced Action = "replaced"
    ActionPatched  Action = "patched"
    ActionDeleted  Action = "deleted"
)

// ChangeEvent is published after a write has been committed. Record holds
// the entity as returned to the client; it is empty for deletions.
type ChangeEvent struct {
    MessageID  string          `json:"message_id"`
    Entity     string          `json:"entity"` // table name, e.g. "parties"
    Action     Action          `json:"action"`
    ID         int64           `json:"id"`
    OccurredAt time.Time       `json:"occurred_at"`
    Record     json.RawMessage `json:"record,omitempty"`
}
