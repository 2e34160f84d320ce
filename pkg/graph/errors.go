package graph

import (
	"errors"
	"fmt"
)

// Error kinds reported by graph mutations. None of them leaves the graph modified.
var (
	// ErrTriggerConflict indicates an attempt to place a second trigger node.
	ErrTriggerConflict = errors.New("workflow already has a trigger")

	// ErrSelfConnection indicates an edge whose source and target are the same node.
	ErrSelfConnection = errors.New("node cannot connect to itself")

	// ErrRoleViolation indicates an edge that targets a trigger node.
	ErrRoleViolation = errors.New("trigger node cannot be a connection target")

	// ErrSourceAlreadyConnected indicates the source node already has an outgoing edge.
	ErrSourceAlreadyConnected = errors.New("source node already has an outgoing connection")

	// ErrUnknownNode indicates a node id that is not part of the graph.
	ErrUnknownNode = errors.New("node not found")

	// ErrDuplicateNode indicates two nodes sharing the same id in a hydrated graph.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrEdgeID indicates an edge whose id is not derived from its endpoints.
	ErrEdgeID = errors.New("edge id does not match its endpoints")

	// ErrDuplicateEdge indicates two edges whose ids collide, e.g. a→b-c and a-b→c.
	ErrDuplicateEdge = errors.New("duplicate edge id")
)

// NodeError wraps a failed operation on a single node.
type NodeError struct {
	Op     string // Operation being performed
	NodeID string // Node ID
	Err    error  // Underlying error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s operation failed for node %s: %v", e.Op, e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (e *NodeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// ConnectionError wraps a rejected connection between two nodes.
type ConnectionError struct {
	Source string
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s -> %s: %v", e.Source, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsTriggerConflict checks if an error indicates a second trigger placement.
func IsTriggerConflict(err error) bool {
	return errors.Is(err, ErrTriggerConflict)
}

// IsUnknownNode checks if an error indicates a missing node.
func IsUnknownNode(err error) bool {
	return errors.Is(err, ErrUnknownNode)
}

// IsConnectionError checks if an error is one of the rejected connect kinds.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrSelfConnection) ||
		errors.Is(err, ErrRoleViolation) ||
		errors.Is(err, ErrSourceAlreadyConnected) ||
		errors.Is(err, ErrDuplicateEdge) ||
		errors.Is(err, ErrUnknownNode)
}
