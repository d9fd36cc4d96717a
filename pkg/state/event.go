package state

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// EventKind classifies a progress log entry.
type EventKind string

const (
	EventTaken    EventKind = "taken"
	EventUsed     EventKind = "used"
	EventDropped  EventKind = "dropped"
	EventRevealed EventKind = "revealed"
	EventOption   EventKind = "option"
	EventMoved    EventKind = "moved"
)

// ProgressEvent is one entry of the append-only audit trail. ULIDs are
// lexicographically sortable by creation time, so the log's ID order
// matches its time order.
type ProgressEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"kind"`
	Scene     string    `json:"scene"`            // Scene the player was in when the event applied
	Item      string    `json:"item,omitempty"`   // taken / used / dropped
	Option    string    `json:"option,omitempty"` // option
	Direction string    `json:"direction,omitempty"`
	Target    string    `json:"target,omitempty"` // revealed: kind:scene:name key
}

// NewEvent creates a progress event stamped with a fresh ULID and the
// current UTC time.
func NewEvent(kind EventKind, scene string) ProgressEvent {
	return ProgressEvent{
		ID:        ulid.Make().String(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Scene:     scene,
	}
}
