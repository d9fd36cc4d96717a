package state

import (
	"time"
)

// PlayerState is the mutable progression snapshot for one user in one
// game. The canonical copy is owned by the progression store; resolvers
// mutate it only through a fully-applied action, never partially.
//
// Inventory, Points, Revealed, SelectedOptions, Scored and
// VisitedScenes are all derivable by replaying ProgressLog from an
// empty state; the log is the ground truth.
type PlayerState struct {
	UserID       string `json:"user_id"`
	GameID       string `json:"game_id"`
	CurrentScene string `json:"current_scene"`

	Inventory       []string        `json:"inventory,omitempty"`
	Revealed        map[string]bool `json:"revealed,omitempty"`         // Target keys (kind:scene:name); monotonic during play
	SelectedOptions map[string]bool `json:"selected_options,omitempty"` // Options chosen at least once
	Scored          map[string]bool `json:"scored,omitempty"`           // Items that already awarded their points
	Points          int             `json:"points"`
	VisitedScenes   map[string]bool `json:"visited_scenes,omitempty"`

	ProgressLog []ProgressEvent `json:"progress_log,omitempty"` // Append-only

	// Version guards saves: the store rejects a save whose version does
	// not match the stored snapshot. Managed by the storage layer.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty player state positioned nowhere. The engine
// places it at the world's opening scene.
func New(userID, gameID string) *PlayerState {
	now := time.Now().UTC()
	return &PlayerState{
		UserID:          userID,
		GameID:          gameID,
		Inventory:       make([]string, 0),
		Revealed:        make(map[string]bool),
		SelectedOptions: make(map[string]bool),
		Scored:          make(map[string]bool),
		VisitedScenes:   make(map[string]bool),
		ProgressLog:     make([]ProgressEvent, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasItem reports whether the item is currently held.
func (ps *PlayerState) HasItem(name string) bool {
	for _, item := range ps.Inventory {
		if item == name {
			return true
		}
	}
	return false
}

// AddItem appends an item to the inventory. The caller enforces the
// capacity rule first.
func (ps *PlayerState) AddItem(name string) {
	ps.Inventory = append(ps.Inventory, name)
}

// RemoveItem removes an item from the inventory, preserving order.
// Returns false if the item was not held.
func (ps *PlayerState) RemoveItem(name string) bool {
	for i, item := range ps.Inventory {
		if item == name {
			ps.Inventory = append(ps.Inventory[:i], ps.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// IsRevealed reports whether the target key has been promoted.
func (ps *PlayerState) IsRevealed(targetKey string) bool {
	return ps.Revealed[targetKey]
}

// HasSelectedOption reports whether the option was ever selected.
func (ps *PlayerState) HasSelectedOption(name string) bool {
	return ps.SelectedOptions[name]
}

// HasVisited reports whether the scene was ever entered.
func (ps *PlayerState) HasVisited(scene string) bool {
	return ps.VisitedScenes[scene]
}

// Append adds an event to the progress log. Every state-changing
// action funnels through here so each change has an audit entry.
func (ps *PlayerState) Append(event ProgressEvent) {
	ps.ProgressLog = append(ps.ProgressLog, event)
}

// EventsSince returns the log entries appended after index n.
func (ps *PlayerState) EventsSince(n int) []ProgressEvent {
	if n >= len(ps.ProgressLog) {
		return nil
	}
	return ps.ProgressLog[n:]
}
