// Package web provides the HTTP surface of the editing session.
package web

import (
	"github.com/dukex/orpheusflows/pkg/editor"
	"github.com/dukex/orpheusflows/pkg/models"
)

// DropRequest places a node. Either the dragged catalog entry is released at
// Client over Canvas, or DefinitionID is placed directly at Position.
type DropRequest struct {
	DefinitionID string           `json:"definition_id,omitempty" validate:"required_with=Position"`
	Position     *models.Position `json:"position,omitempty"      validate:"required_without=Client"`
	Client       *editor.Point    `json:"client,omitempty"        validate:"required_without=Position"`
	Canvas       *editor.Rect     `json:"canvas,omitempty"        validate:"required_with=Client"`
}

// PointerRequest reports a pointer event in viewport coordinates.
type PointerRequest struct {
	Client *editor.Point `json:"client" validate:"required"`
	Canvas *editor.Rect  `json:"canvas" validate:"required"`
}

// FormRequest carries the values of a node form to save.
type FormRequest struct {
	Values map[string]string `json:"values" validate:"required"`
}

// SessionResponse describes who is editing and what the sidebar offers.
type SessionResponse struct {
	User          models.User             `json:"user"`
	HasTrigger    bool                    `json:"has_trigger"`
	Palette       []models.NodeDefinition `json:"palette"`
	Notifications []editor.Notification   `json:"notifications"`
}

// NodeLinks are the actions the canvas wires to a rendered node. They are
// derived on every render and never stored with the graph.
type NodeLinks struct {
	Select           string `json:"select"`
	PointerDown      string `json:"pointer_down"`
	StartConnection  string `json:"start_connection"`
	AcceptConnection string `json:"accept_connection"`
	Form             string `json:"form"`
	Delete           string `json:"delete"`
}

// NodeView is a node as rendered on the canvas.
type NodeView struct {
	models.Node

	Label    string      `json:"label"`
	Role     models.Role `json:"role"`
	Missing  bool        `json:"definition_missing,omitempty"`
	Selected bool        `json:"selected,omitempty"`
	Links    NodeLinks   `json:"links"`
}

// EdgeView is an edge as rendered on the canvas.
type EdgeView struct {
	models.Edge

	Delete string `json:"delete"`
}

// GraphResponse is the full canvas: graph, transients and pending notifications.
type GraphResponse struct {
	Nodes         []NodeView            `json:"nodes"`
	Edges         []EdgeView            `json:"edges"`
	Chain         []string              `json:"chain"`
	State         editor.State          `json:"state"`
	Preview       *editor.Link          `json:"preview,omitempty"`
	Notifications []editor.Notification `json:"notifications"`
}

// FormResponse is an open node form.
type FormResponse struct {
	NodeID   string           `json:"node_id"`
	Title    string           `json:"title"`
	Controls []editor.Control `json:"controls"`
}

func newFormResponse(form *editor.Form) FormResponse {
	return FormResponse{NodeID: form.NodeID, Title: form.Title, Controls: form.Controls}
}
