package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventMove   EventType = "move"
	EventUndo   EventType = "undo"
	EventRedo   EventType = "redo"
	EventReject EventType = "reject"
)

// MoveEvent describes a change (or a rejected change) of the tree.
type MoveEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Org       string    `json:"org,omitempty"`
	Move      Move      `json:"move"`
	Cursor    int       `json:"cursor"`
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously, after the tree has been updated.
type LifecycleHooks struct {
	OnMove   func(*MoveEvent)
	OnUndo   func(*MoveEvent)
	OnRedo   func(*MoveEvent)
	OnReject func(*MoveEvent)
}
