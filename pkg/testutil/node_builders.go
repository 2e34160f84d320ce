// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a step node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) models.Node {
	node := models.Node{
		ID:           "delay-" + uuid.New().String(),
		DefinitionID: "delay",
		Position:     models.Position{X: 100, Y: 200},
		Values:       map[string]string{"duration": "5m"},
	}

	for _, override := range overrides {
		override(&node)
	}

	return node
}

// WithTriggerNode configures the node as a webhook trigger.
func WithTriggerNode() func(*models.Node) {
	return func(n *models.Node) {
		n.ID = "webhook-" + uuid.New().String()
		n.DefinitionID = "webhook"
		n.Values = map[string]string{"method": "POST"}
	}
}

// WithID sets the node id.
func WithID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithDefinition sets the definition the node was placed from.
func WithDefinition(definitionID string) func(*models.Node) {
	return func(n *models.Node) {
		n.DefinitionID = definitionID
	}
}

// WithValues sets the node values.
func WithValues(values map[string]string) func(*models.Node) {
	return func(n *models.Node) {
		n.Values = values
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Position = models.Position{X: x, Y: y}
	}
}

// CreateTestChain links the nodes in the given order into a graph.
func CreateTestChain(nodes ...models.Node) models.Graph {
	g := models.Graph{Nodes: nodes, Edges: make([]models.Edge, 0, len(nodes))}

	for i := 1; i < len(nodes); i++ {
		source, target := nodes[i-1].ID, nodes[i].ID
		g.Edges = append(g.Edges, models.Edge{ID: models.EdgeID(source, target), Source: source, Target: target})
	}

	return g
}
