// Package events defines the editor events published after graph mutations.
package events

import (
	"time"

	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic every editor event is published on.
const Topic = "orpheusflows.editor.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Node events.
	NodeAddedEvent         EventType = "node.added"
	NodeMovedEvent         EventType = "node.moved"
	NodeDeletedEvent       EventType = "node.deleted"
	NodeValuesUpdatedEvent EventType = "node.values_updated"

	// Edge events.
	EdgeConnectedEvent    EventType = "edge.connected"
	EdgeDisconnectedEvent EventType = "edge.disconnected"

	// Graph lifecycle events.
	GraphSavedEvent  EventType = "graph.saved"
	GraphLoadedEvent EventType = "graph.loaded"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
}

// NewBaseEvent stamps a new event of the given type.
func NewBaseEvent(eventType EventType, userID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
	}
}

type NodeAdded struct {
	BaseEvent

	Node models.Node `json:"node"`
}

func (e NodeAdded) GetType() EventType {
	return NodeAddedEvent
}

type NodeMoved struct {
	BaseEvent

	NodeID   string          `json:"node_id"`
	Position models.Position `json:"position"`
}

func (e NodeMoved) GetType() EventType {
	return NodeMovedEvent
}

type NodeDeleted struct {
	BaseEvent

	NodeID       string   `json:"node_id"`
	RemovedEdges []string `json:"removed_edges,omitempty"`
}

func (e NodeDeleted) GetType() EventType {
	return NodeDeletedEvent
}

type NodeValuesUpdated struct {
	BaseEvent

	NodeID string            `json:"node_id"`
	Values map[string]string `json:"values"`
}

func (e NodeValuesUpdated) GetType() EventType {
	return NodeValuesUpdatedEvent
}

type EdgeConnected struct {
	BaseEvent

	Edge models.Edge `json:"edge"`
}

func (e EdgeConnected) GetType() EventType {
	return EdgeConnectedEvent
}

type EdgeDisconnected struct {
	BaseEvent

	EdgeID string `json:"edge_id"`
}

func (e EdgeDisconnected) GetType() EventType {
	return EdgeDisconnectedEvent
}

type GraphSaved struct {
	BaseEvent

	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func (e GraphSaved) GetType() EventType {
	return GraphSavedEvent
}

type GraphLoaded struct {
	BaseEvent

	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	Recovered string `json:"recovered,omitempty"` // Why the session started empty, if it did
}

func (e GraphLoaded) GetType() EventType {
	return GraphLoadedEvent
}
