package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventChoice    EventType = "choice"
	EventTerminate EventType = "terminate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID string   `json:"node_id"`
	Kind   NodeKind `json:"kind"`
}

// ChoiceEvent represents a learner selection.
type ChoiceEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Index  int    `json:"index"`
	Target string `json:"target"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnChoice    func(context.Context, *ChoiceEvent)
	OnTerminate func(context.Context, *NodeEvent)
}
