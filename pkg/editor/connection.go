package editor

import (
	"context"

	"github.com/dukex/orpheusflows/pkg/events"
	"github.com/dukex/orpheusflows/pkg/graph"
	"github.com/dukex/orpheusflows/pkg/models"
)

// ConnectionState is the state of the connection state machine.
type ConnectionState string

const (
	ConnectionIdle    ConnectionState = "idle"
	ConnectionPending ConnectionState = "pending"
)

// Link is a provisional connection line from a node to the pointer.
type Link struct {
	Source string          `json:"source"`
	From   models.Position `json:"from"`
	To     models.Position `json:"to"`
}

// ConnectionController turns two node selections into one validated edge.
type ConnectionController struct {
	s *Session
}

// State returns the current state and, when pending, its source node.
func (c *ConnectionController) State() (ConnectionState, string) {
	if c.s.pendingSource == "" {
		return ConnectionIdle, ""
	}

	return ConnectionPending, c.s.pendingSource
}

// StartConnection starts a connection from node. Starting again from the pending
// source cancels it; starting from another node moves the pending source there.
func (c *ConnectionController) StartConnection(nodeID string) error {
	if _, ok := c.s.graph.Node(nodeID); !ok {
		return c.s.fail(&graph.NodeError{Op: "StartConnection", NodeID: nodeID, Err: graph.ErrUnknownNode})
	}

	if c.s.pendingSource == nodeID {
		c.s.pendingSource = ""

		return nil
	}

	c.s.pendingSource = nodeID

	return nil
}

// AcceptConnection connects the pending source to target. The machine returns
// to idle whether or not the edge was created.
func (c *ConnectionController) AcceptConnection(ctx context.Context, targetID string) (models.Edge, error) {
	source := c.s.pendingSource
	if source == "" {
		return models.Edge{}, c.s.fail(ErrNoPendingConnection)
	}

	c.s.pendingSource = ""

	edge, err := c.s.graph.Connect(source, targetID)
	if err != nil {
		c.s.logger.DebugContext(ctx, "Connection rejected", "source", source, "target", targetID, "error", err)

		return models.Edge{}, c.s.fail(err)
	}

	c.s.publish(ctx, edge.ID, events.EdgeConnected{
		BaseEvent: events.NewBaseEvent(events.EdgeConnectedEvent, c.s.user.ID),
		Edge:      edge,
	})

	return edge, nil
}

// Cancel abandons the pending connection, if any.
func (c *ConnectionController) Cancel() {
	c.s.pendingSource = ""
}

// TrackPointer records the pointer for the provisional link. It never touches the graph.
func (c *ConnectionController) TrackPointer(client Point, canvas Rect) {
	pointer := canvas.ToCanvas(client)
	c.s.pointer = &pointer
}

// Preview returns the provisional link from the pending source to the pointer.
func (c *ConnectionController) Preview() (Link, bool) {
	if c.s.pendingSource == "" || c.s.pointer == nil {
		return Link{}, false
	}

	source, ok := c.s.graph.Node(c.s.pendingSource)
	if !ok {
		return Link{}, false
	}

	return Link{Source: source.ID, From: source.Position, To: *c.s.pointer}, true
}
