// Package graph owns the workflow node/edge model and enforces its structural invariants.
package graph

import (
	"fmt"
	"slices"

	"github.com/dukex/orpheusflows/pkg/models"
)

// RoleResolver resolves the role of a node definition. The catalog implements it.
type RoleResolver interface {
	RoleOf(definitionID string) (models.Role, bool)
}

// Model is the authoritative set of nodes and edges of one workflow.
//
// Every mutation either commits completely or returns an error and leaves the
// model untouched. Model is not safe for concurrent use.
type Model struct {
	roles RoleResolver
	ids   IDGenerator
	nodes []models.Node
	edges []models.Edge
}

// Option configures a Model.
type Option func(*Model)

// WithIDGenerator overrides the default UUID based node ids.
func WithIDGenerator(ids IDGenerator) Option {
	return func(m *Model) {
		m.ids = ids
	}
}

// New creates an empty model.
func New(roles RoleResolver, opts ...Option) *Model {
	m := &Model{
		roles: roles,
		ids:   UUIDGenerator{},
		nodes: make([]models.Node, 0),
		edges: make([]models.Edge, 0),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddNode places a new node for the definition at position.
func (m *Model) AddNode(definition *models.NodeDefinition, position models.Position) (*models.Node, error) {
	if definition.IsTrigger() && m.HasTrigger() {
		return nil, &NodeError{Op: "AddNode", NodeID: definition.ID, Err: ErrTriggerConflict}
	}

	id := m.ids.NewID(definition.ID)
	if m.indexOf(id) >= 0 {
		return nil, &NodeError{Op: "AddNode", NodeID: id, Err: ErrDuplicateNode}
	}

	node := models.Node{
		ID:           id,
		DefinitionID: definition.ID,
		Position:     position,
		Values:       map[string]string{},
	}
	m.nodes = append(m.nodes, node)

	out := node.Clone()

	return &out, nil
}

// MoveNode replaces the node position. No bounds are enforced.
func (m *Model) MoveNode(id string, position models.Position) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return &NodeError{Op: "MoveNode", NodeID: id, Err: ErrUnknownNode}
	}

	m.nodes[idx].Position = position

	return nil
}

// DeleteNode removes the node together with every edge referencing it.
func (m *Model) DeleteNode(id string) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return &NodeError{Op: "DeleteNode", NodeID: id, Err: ErrUnknownNode}
	}

	m.nodes = slices.Delete(m.nodes, idx, idx+1)
	m.edges = slices.DeleteFunc(m.edges, func(e models.Edge) bool {
		return e.Source == id || e.Target == id
	})

	return nil
}

// UpdateNodeValues replaces the node values wholesale.
func (m *Model) UpdateNodeValues(id string, values map[string]string) error {
	idx := m.indexOf(id)
	if idx < 0 {
		return &NodeError{Op: "UpdateNodeValues", NodeID: id, Err: ErrUnknownNode}
	}

	m.nodes[idx].Values = models.CloneValues(values)

	return nil
}

// Connect creates the edge source -> target.
//
// Checks run in order: both endpoints exist and differ, the target is not a
// trigger, the source has no outgoing edge yet, and the derived edge id is free.
func (m *Model) Connect(sourceID, targetID string) (models.Edge, error) {
	fail := func(err error) (models.Edge, error) {
		return models.Edge{}, &ConnectionError{Source: sourceID, Target: targetID, Err: err}
	}

	if m.indexOf(sourceID) < 0 || m.indexOf(targetID) < 0 {
		return fail(ErrUnknownNode)
	}

	if sourceID == targetID {
		return fail(ErrSelfConnection)
	}

	if m.isTrigger(m.nodes[m.indexOf(targetID)]) {
		return fail(ErrRoleViolation)
	}

	if m.OutDegree(sourceID) > 0 {
		return fail(ErrSourceAlreadyConnected)
	}

	edge := models.Edge{
		ID:     models.EdgeID(sourceID, targetID),
		Source: sourceID,
		Target: targetID,
	}

	if _, taken := m.Edge(edge.ID); taken {
		return fail(ErrDuplicateEdge)
	}
	m.edges = append(m.edges, edge)

	return edge, nil
}

// Disconnect removes the edge if present.
func (m *Model) Disconnect(edgeID string) {
	m.edges = slices.DeleteFunc(m.edges, func(e models.Edge) bool {
		return e.ID == edgeID
	})
}

// HasTrigger reports whether any node resolves to a trigger definition.
func (m *Model) HasTrigger() bool {
	return slices.ContainsFunc(m.nodes, m.isTrigger)
}

// OutDegree returns the number of edges leaving the node.
func (m *Model) OutDegree(id string) int {
	count := 0

	for _, e := range m.edges {
		if e.Source == id {
			count++
		}
	}

	return count
}

// Node returns a copy of the node with the given id.
func (m *Model) Node(id string) (models.Node, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		return models.Node{}, false
	}

	return m.nodes[idx].Clone(), true
}

// Edge returns the edge with the given id.
func (m *Model) Edge(id string) (models.Edge, bool) {
	idx := slices.IndexFunc(m.edges, func(e models.Edge) bool { return e.ID == id })
	if idx < 0 {
		return models.Edge{}, false
	}

	return m.edges[idx], true
}

// Nodes returns copies of all nodes in insertion order.
func (m *Model) Nodes() []models.Node {
	return m.Snapshot().Nodes
}

// Edges returns all edges in insertion order.
func (m *Model) Edges() []models.Edge {
	return slices.Clone(m.edges)
}

// Snapshot returns a deep copy of the whole graph.
func (m *Model) Snapshot() models.Graph {
	return models.Graph{Nodes: m.nodes, Edges: m.edges}.Clone()
}

// Hydrate replaces the whole graph after checking every invariant.
// On error the model keeps its previous content.
func (m *Model) Hydrate(g models.Graph) error {
	if err := Validate(g, m.roles); err != nil {
		return err
	}

	clone := g.Clone()
	m.nodes = clone.Nodes
	m.edges = clone.Edges

	return nil
}

// Reset empties the graph.
func (m *Model) Reset() {
	m.nodes = make([]models.Node, 0)
	m.edges = make([]models.Edge, 0)
}

// Chain returns the nodes reachable from the trigger, in workflow order.
// Without a trigger it returns nil.
func (m *Model) Chain() []models.Node {
	start := slices.IndexFunc(m.nodes, m.isTrigger)
	if start < 0 {
		return nil
	}

	next := make(map[string]string, len(m.edges))
	for _, e := range m.edges {
		next[e.Source] = e.Target
	}

	visited := make(map[string]bool, len(m.nodes))
	chain := make([]models.Node, 0, len(m.nodes))

	for id := m.nodes[start].ID; id != "" && !visited[id]; id = next[id] {
		visited[id] = true

		if node, ok := m.Node(id); ok {
			chain = append(chain, node)
		}
	}

	return chain
}

// RoleOf resolves the role of a placed node. Nodes whose definition no longer
// resolves are treated as steps.
func (m *Model) RoleOf(node models.Node) models.Role {
	if m.isTrigger(node) {
		return models.RoleTrigger
	}

	return models.RoleStep
}

func (m *Model) isTrigger(n models.Node) bool {
	return isTrigger(m.roles, n)
}

func (m *Model) indexOf(id string) int {
	return slices.IndexFunc(m.nodes, func(n models.Node) bool { return n.ID == id })
}

func isTrigger(roles RoleResolver, n models.Node) bool {
	role, ok := roles.RoleOf(n.DefinitionID)

	return ok && role == models.RoleTrigger
}

// Validate checks every structural invariant of a graph.
func Validate(g models.Graph, roles RoleResolver) error {
	byID := make(map[string]models.Node, len(g.Nodes))
	triggers := 0

	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: empty node id", ErrUnknownNode)
		}

		if _, dup := byID[n.ID]; dup {
			return &NodeError{Op: "Validate", NodeID: n.ID, Err: ErrDuplicateNode}
		}

		byID[n.ID] = n

		if isTrigger(roles, n) {
			triggers++
		}
	}

	if triggers > 1 {
		return fmt.Errorf("graph has %d triggers: %w", triggers, ErrTriggerConflict)
	}

	outgoing := make(map[string]bool, len(g.Edges))
	edgeIDs := make(map[string]bool, len(g.Edges))

	for _, e := range g.Edges {
		cerr := func(err error) error {
			return &ConnectionError{Source: e.Source, Target: e.Target, Err: err}
		}

		_, sourceOK := byID[e.Source]
		target, targetOK := byID[e.Target]

		switch {
		case !sourceOK || !targetOK:
			return cerr(ErrUnknownNode)
		case e.Source == e.Target:
			return cerr(ErrSelfConnection)
		case isTrigger(roles, target):
			return cerr(ErrRoleViolation)
		case outgoing[e.Source]:
			return cerr(ErrSourceAlreadyConnected)
		case e.ID != models.EdgeID(e.Source, e.Target):
			return cerr(ErrEdgeID)
		case edgeIDs[e.ID]:
			return cerr(ErrDuplicateEdge)
		}

		outgoing[e.Source] = true
		edgeIDs[e.ID] = true
	}

	return nil
}
