package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_AddSub(t *testing.T) {
	p := Position{X: 10, Y: -5}
	o := Position{X: 2.5, Y: 5}

	assert.Equal(t, Position{X: 12.5, Y: 0}, p.Add(o))
	assert.Equal(t, Position{X: 7.5, Y: -10}, p.Sub(o))
	assert.Equal(t, p, p.Add(o).Sub(o))
}

func TestNode_Clone(t *testing.T) {
	n := Node{ID: "delay-1", DefinitionID: "delay", Values: map[string]string{"duration": "5m"}}

	c := n.Clone()
	c.Values["duration"] = "1h"

	assert.Equal(t, "5m", n.Values["duration"])

	empty := Node{ID: "delay-2"}.Clone()
	require.NotNil(t, empty.Values)
	assert.Empty(t, empty.Values)
}

func TestGraph_Clone(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "webhook-1", DefinitionID: "webhook", Values: map[string]string{"method": "POST"}},
			{ID: "delay-2", DefinitionID: "delay", Values: map[string]string{}},
		},
		Edges: []Edge{{ID: EdgeID("webhook-1", "delay-2"), Source: "webhook-1", Target: "delay-2"}},
	}

	c := g.Clone()
	assert.Equal(t, g, c)

	c.Nodes[0].Values["method"] = "GET"
	c.Edges[0].Target = "other"

	assert.Equal(t, "POST", g.Nodes[0].Values["method"])
	assert.Equal(t, "delay-2", g.Edges[0].Target)
}

func TestEdgeID(t *testing.T) {
	assert.Equal(t, "webhook-1-delay-2", EdgeID("webhook-1", "delay-2"))
}

func TestNodeDefinition(t *testing.T) {
	def := NodeDefinition{
		ID:    "schedule",
		Role:  RoleTrigger,
		Label: "Schedule",
		Fields: []FieldSchema{
			{ID: "interval", Label: "Interval", Type: FieldTypeSelect, Options: []string{"hourly", "daily"}},
		},
	}

	assert.True(t, def.IsTrigger())

	field, ok := def.Field("interval")
	require.True(t, ok)
	assert.True(t, field.HasOption("daily"))
	assert.False(t, field.HasOption("yearly"))

	_, ok = def.Field("missing")
	assert.False(t, ok)

	c := def.Clone()
	c.Fields[0].Options[0] = "minutely"
	assert.Equal(t, "hourly", def.Fields[0].Options[0])
}
