package editor

import (
	"errors"

	"github.com/dukex/orpheusflows/pkg/graph"
	"github.com/dukex/orpheusflows/pkg/persistence"
)

// Kind names an error category shown to the user.
type Kind string

const (
	KindTriggerConflict        Kind = "trigger_conflict"
	KindSelfConnection         Kind = "self_connection"
	KindRoleViolation          Kind = "role_violation"
	KindSourceAlreadyConnected Kind = "source_already_connected"
	KindDuplicateEdge          Kind = "duplicate_edge"
	KindUnknownNode            Kind = "unknown_node"
	KindDefinitionMissing      Kind = "definition_missing"
	KindCorruptState           Kind = "corrupt_state"
	KindInvalidGraph           Kind = "invalid_graph"
	KindInvalidField           Kind = "invalid_field"
	KindNoPendingConnection    Kind = "no_pending_connection"
	KindNoCatalogDrag          Kind = "no_catalog_drag"
	KindFormClosed             Kind = "form_closed"
	KindStorage                Kind = "storage_error"
)

// Level is the severity a notification is rendered with.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a non-blocking message for the user.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

var messages = map[Kind]string{
	KindTriggerConflict:        "A workflow can only have one trigger. Remove the current trigger first.",
	KindSelfConnection:         "A node cannot be connected to itself.",
	KindRoleViolation:          "Triggers start the workflow and cannot receive connections.",
	KindSourceAlreadyConnected: "This node is already connected to a next step.",
	KindDuplicateEdge:          "These nodes share a link id with an existing connection.",
	KindUnknownNode:            "That node no longer exists.",
	KindDefinitionMissing:      "This node type is no longer available.",
	KindCorruptState:           "The saved workflow could not be read. Starting with an empty canvas.",
	KindInvalidGraph:           "The saved workflow breaks the workflow rules. Starting with an empty canvas.",
	KindInvalidField:           "That value cannot be used for this field.",
	KindNoPendingConnection:    "Start a connection from a node first.",
	KindNoCatalogDrag:          "Drag a node from the sidebar first.",
	KindFormClosed:             "The settings window was closed before saving.",
	KindStorage:                "The workflow storage is unavailable.",
}

// KindOf classifies an error. Errors outside the known kinds map to KindStorage.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidGraph):
		return KindInvalidGraph
	case errors.Is(err, graph.ErrTriggerConflict):
		return KindTriggerConflict
	case errors.Is(err, graph.ErrSelfConnection):
		return KindSelfConnection
	case errors.Is(err, graph.ErrRoleViolation):
		return KindRoleViolation
	case errors.Is(err, graph.ErrSourceAlreadyConnected):
		return KindSourceAlreadyConnected
	case errors.Is(err, graph.ErrDuplicateEdge):
		return KindDuplicateEdge
	case errors.Is(err, graph.ErrUnknownNode):
		return KindUnknownNode
	case errors.Is(err, ErrDefinitionMissing):
		return KindDefinitionMissing
	case persistence.IsCorruptState(err):
		return KindCorruptState
	case IsFieldError(err):
		return KindInvalidField
	case errors.Is(err, ErrNoPendingConnection):
		return KindNoPendingConnection
	case errors.Is(err, ErrNoCatalogDrag):
		return KindNoCatalogDrag
	case errors.Is(err, ErrFormClosed):
		return KindFormClosed
	default:
		return KindStorage
	}
}

// NotificationFor translates an error into the message shown to the user.
func NotificationFor(err error) Notification {
	kind := KindOf(err)

	level := LevelWarning
	if kind == KindStorage || kind == KindCorruptState || kind == KindInvalidGraph {
		level = LevelError
	}

	return Notification{Kind: kind, Level: level, Message: messages[kind]}
}
