package graph

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleMap map[string]models.Role

func (r roleMap) RoleOf(id string) (models.Role, bool) {
	role, ok := r[id]

	return role, ok
}

var (
	triggerDef = &models.NodeDefinition{ID: "webhook", Role: models.RoleTrigger, Label: "Webhook"}
	otherTrig  = &models.NodeDefinition{ID: "schedule", Role: models.RoleTrigger, Label: "Schedule"}
	stepDef    = &models.NodeDefinition{ID: "log", Role: models.RoleStep, Label: "Log"}

	testRoles = roleMap{
		"webhook":  models.RoleTrigger,
		"schedule": models.RoleTrigger,
		"log":      models.RoleStep,
	}
)

func newTestModel() *Model {
	return New(testRoles, WithIDGenerator(NewSequenceGenerator(1)))
}

func TestModel_Scenario(t *testing.T) {
	m := newTestModel()

	trigger, err := m.AddNode(triggerDef, models.Position{X: 50, Y: 50})
	require.NoError(t, err)
	assert.Equal(t, "webhook-1", trigger.ID)
	assert.Empty(t, trigger.Values)

	step, err := m.AddNode(stepDef, models.Position{X: 50, Y: 150})
	require.NoError(t, err)

	edge, err := m.Connect(trigger.ID, step.ID)
	require.NoError(t, err)
	assert.Equal(t, trigger.ID+"-"+step.ID, edge.ID)

	_, err = m.AddNode(otherTrig, models.Position{})
	require.ErrorIs(t, err, ErrTriggerConflict)
	assert.Len(t, m.Nodes(), 2)

	_, err = m.Connect(step.ID, trigger.ID)
	require.ErrorIs(t, err, ErrRoleViolation)

	require.NoError(t, m.DeleteNode(trigger.ID))

	g := m.Snapshot()
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, step.ID, g.Nodes[0].ID)
	assert.Empty(t, g.Edges)
}

func TestModel_Connect(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *Model) (string, string)
		wantErr error
	}{
		{
			name: "trigger to step",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(triggerDef, models.Position{})
				b, _ := m.AddNode(stepDef, models.Position{})

				return a.ID, b.ID
			},
		},
		{
			name: "step to step",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(stepDef, models.Position{})
				b, _ := m.AddNode(stepDef, models.Position{})

				return a.ID, b.ID
			},
		},
		{
			name: "step to trigger",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(stepDef, models.Position{})
				b, _ := m.AddNode(triggerDef, models.Position{})

				return a.ID, b.ID
			},
			wantErr: ErrRoleViolation,
		},
		{
			name: "trigger to trigger",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(triggerDef, models.Position{})
				// a second trigger can only exist in a hydrated graph with a stale catalog
				m.nodes = append(m.nodes, models.Node{ID: "t2", DefinitionID: "schedule"})

				return a.ID, "t2"
			},
			wantErr: ErrRoleViolation,
		},
		{
			name: "colliding edge id",
			setup: func(m *Model) (string, string) {
				for _, id := range []string{"a", "b-c", "a-b", "c"} {
					m.nodes = append(m.nodes, models.Node{ID: id, DefinitionID: "log"})
				}

				_, _ = m.Connect("a", "b-c")

				return "a-b", "c"
			},
			wantErr: ErrDuplicateEdge,
		},
		{
			name: "self connection",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(stepDef, models.Position{})

				return a.ID, a.ID
			},
			wantErr: ErrSelfConnection,
		},
		{
			name: "unknown target",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(stepDef, models.Position{})

				return a.ID, "missing"
			},
			wantErr: ErrUnknownNode,
		},
		{
			name: "unknown source",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(stepDef, models.Position{})

				return "missing", a.ID
			},
			wantErr: ErrUnknownNode,
		},
		{
			name: "source already connected",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(triggerDef, models.Position{})
				b, _ := m.AddNode(stepDef, models.Position{})
				c, _ := m.AddNode(stepDef, models.Position{})
				_, _ = m.Connect(a.ID, b.ID)

				return a.ID, c.ID
			},
			wantErr: ErrSourceAlreadyConnected,
		},
		{
			name: "step with dangling definition acts as step",
			setup: func(m *Model) (string, string) {
				a, _ := m.AddNode(triggerDef, models.Position{})
				m.nodes = append(m.nodes, models.Node{ID: "ghost", DefinitionID: "removed"})

				return a.ID, "ghost"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			source, target := tt.setup(m)
			before := m.Edges()

			edge, err := m.Connect(source, target)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, IsConnectionError(err))
				assert.Equal(t, before, m.Edges())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, source, edge.Source)
			assert.Equal(t, target, edge.Target)
			assert.Contains(t, m.Edges(), edge)
		})
	}
}

func TestModel_DeleteNode_Cascades(t *testing.T) {
	m := newTestModel()

	a, _ := m.AddNode(triggerDef, models.Position{})
	b, _ := m.AddNode(stepDef, models.Position{})
	c, _ := m.AddNode(stepDef, models.Position{})

	_, err := m.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = m.Connect(b.ID, c.ID)
	require.NoError(t, err)

	require.NoError(t, m.DeleteNode(b.ID))

	for _, e := range m.Edges() {
		assert.NotEqual(t, b.ID, e.Source)
		assert.NotEqual(t, b.ID, e.Target)
	}

	assert.Empty(t, m.Edges())
	assert.Len(t, m.Nodes(), 2)

	err = m.DeleteNode(b.ID)
	assert.True(t, IsUnknownNode(err))
}

func TestModel_MoveNode(t *testing.T) {
	m := newTestModel()
	a, _ := m.AddNode(stepDef, models.Position{X: 1, Y: 1})

	require.NoError(t, m.MoveNode(a.ID, models.Position{X: -500, Y: 99999}))

	node, ok := m.Node(a.ID)
	require.True(t, ok)
	assert.Equal(t, models.Position{X: -500, Y: 99999}, node.Position)

	assert.ErrorIs(t, m.MoveNode("missing", models.Position{}), ErrUnknownNode)
}

func TestModel_UpdateNodeValues_Replaces(t *testing.T) {
	m := newTestModel()
	a, _ := m.AddNode(stepDef, models.Position{})

	require.NoError(t, m.UpdateNodeValues(a.ID, map[string]string{"message": "hi", "level": "info"}))
	require.NoError(t, m.UpdateNodeValues(a.ID, map[string]string{"message": "bye"}))

	node, _ := m.Node(a.ID)
	assert.Equal(t, map[string]string{"message": "bye"}, node.Values)

	values := map[string]string{"x": "1"}
	require.NoError(t, m.UpdateNodeValues(a.ID, values))
	values["x"] = "2"

	node, _ = m.Node(a.ID)
	assert.Equal(t, "1", node.Values["x"])

	assert.ErrorIs(t, m.UpdateNodeValues("missing", nil), ErrUnknownNode)
}

func TestModel_Disconnect_Idempotent(t *testing.T) {
	m := newTestModel()
	a, _ := m.AddNode(triggerDef, models.Position{})
	b, _ := m.AddNode(stepDef, models.Position{})
	edge, err := m.Connect(a.ID, b.ID)
	require.NoError(t, err)

	m.Disconnect(edge.ID)
	m.Disconnect(edge.ID)
	m.Disconnect("never-existed")

	assert.Empty(t, m.Edges())

	_, err = m.Connect(a.ID, b.ID)
	assert.NoError(t, err)
}

func TestModel_SingleTriggerProperty(t *testing.T) {
	seed := time.Now().UnixNano()
	t.Logf("random seed: %d", seed)

	rng := rand.New(rand.NewSource(seed))
	defs := []*models.NodeDefinition{triggerDef, otherTrig, stepDef}

	for round := 0; round < 50; round++ {
		m := newTestModel()

		for i := 0; i < 20; i++ {
			def := defs[rng.Intn(len(defs))]
			before := len(m.Nodes())

			_, err := m.AddNode(def, models.Position{})
			if err != nil {
				require.ErrorIs(t, err, ErrTriggerConflict)
				assert.Len(t, m.Nodes(), before)
			}
		}

		triggers := 0
		for _, n := range m.Nodes() {
			if m.RoleOf(n) == models.RoleTrigger {
				triggers++
			}
		}

		assert.LessOrEqual(t, triggers, 1)
	}
}

func TestModel_OutDegreeProperty(t *testing.T) {
	seed := time.Now().UnixNano()
	t.Logf("random seed: %d", seed)

	rng := rand.New(rand.NewSource(seed))

	for round := 0; round < 50; round++ {
		m := newTestModel()
		_, _ = m.AddNode(triggerDef, models.Position{})

		for i := 0; i < 6; i++ {
			_, _ = m.AddNode(stepDef, models.Position{})
		}

		nodes := m.Nodes()

		for i := 0; i < 40; i++ {
			if rng.Intn(4) == 0 && len(m.Edges()) > 0 {
				edges := m.Edges()
				m.Disconnect(edges[rng.Intn(len(edges))].ID)

				continue
			}

			a := nodes[rng.Intn(len(nodes))]
			b := nodes[rng.Intn(len(nodes))]
			_, _ = m.Connect(a.ID, b.ID)
		}

		for _, n := range nodes {
			assert.LessOrEqual(t, m.OutDegree(n.ID), 1)
		}

		assert.NoError(t, Validate(m.Snapshot(), testRoles))
	}
}

func TestModel_Chain(t *testing.T) {
	m := newTestModel()
	assert.Nil(t, m.Chain())

	s2, _ := m.AddNode(stepDef, models.Position{})
	tr, _ := m.AddNode(triggerDef, models.Position{})
	s1, _ := m.AddNode(stepDef, models.Position{})
	orphan, _ := m.AddNode(stepDef, models.Position{})

	_, err := m.Connect(tr.ID, s1.ID)
	require.NoError(t, err)
	_, err = m.Connect(s1.ID, s2.ID)
	require.NoError(t, err)
	_, err = m.Connect(s2.ID, s1.ID)
	require.NoError(t, err)

	chain := m.Chain()
	ids := make([]string, 0, len(chain))

	for _, n := range chain {
		ids = append(ids, n.ID)
	}

	assert.Equal(t, []string{tr.ID, s1.ID, s2.ID}, ids)
	assert.NotContains(t, ids, orphan.ID)
}

func TestModel_Hydrate(t *testing.T) {
	valid := models.Graph{
		Nodes: []models.Node{
			{ID: "t", DefinitionID: "webhook", Values: map[string]string{"method": "POST"}},
			{ID: "s", DefinitionID: "log", Position: models.Position{X: 1, Y: 2}},
		},
		Edges: []models.Edge{{ID: "t-s", Source: "t", Target: "s"}},
	}

	m := newTestModel()
	require.NoError(t, m.Hydrate(valid))
	assert.Len(t, m.Nodes(), 2)
	assert.True(t, m.HasTrigger())

	invalid := []struct {
		name    string
		graph   models.Graph
		wantErr error
	}{
		{
			name: "two triggers",
			graph: models.Graph{Nodes: []models.Node{
				{ID: "a", DefinitionID: "webhook"},
				{ID: "b", DefinitionID: "schedule"},
			}},
			wantErr: ErrTriggerConflict,
		},
		{
			name: "duplicate node",
			graph: models.Graph{Nodes: []models.Node{
				{ID: "a", DefinitionID: "log"},
				{ID: "a", DefinitionID: "log"},
			}},
			wantErr: ErrDuplicateNode,
		},
		{
			name: "dangling edge",
			graph: models.Graph{
				Nodes: []models.Node{{ID: "a", DefinitionID: "log"}},
				Edges: []models.Edge{{ID: "a-b", Source: "a", Target: "b"}},
			},
			wantErr: ErrUnknownNode,
		},
		{
			name: "branching",
			graph: models.Graph{
				Nodes: []models.Node{
					{ID: "a", DefinitionID: "log"},
					{ID: "b", DefinitionID: "log"},
					{ID: "c", DefinitionID: "log"},
				},
				Edges: []models.Edge{
					{ID: "a-b", Source: "a", Target: "b"},
					{ID: "a-c", Source: "a", Target: "c"},
				},
			},
			wantErr: ErrSourceAlreadyConnected,
		},
		{
			name: "edge into trigger",
			graph: models.Graph{
				Nodes: []models.Node{
					{ID: "a", DefinitionID: "log"},
					{ID: "t", DefinitionID: "webhook"},
				},
				Edges: []models.Edge{{ID: "a-t", Source: "a", Target: "t"}},
			},
			wantErr: ErrRoleViolation,
		},
		{
			name: "mismatched edge id",
			graph: models.Graph{
				Nodes: []models.Node{
					{ID: "a", DefinitionID: "log"},
					{ID: "b", DefinitionID: "log"},
				},
				Edges: []models.Edge{{ID: "x", Source: "a", Target: "b"}},
			},
			wantErr: ErrEdgeID,
		},
		{
			name: "colliding edge ids",
			graph: models.Graph{
				Nodes: []models.Node{
					{ID: "a", DefinitionID: "log"},
					{ID: "b-c", DefinitionID: "log"},
					{ID: "a-b", DefinitionID: "log"},
					{ID: "c", DefinitionID: "log"},
				},
				Edges: []models.Edge{
					{ID: "a-b-c", Source: "a", Target: "b-c"},
					{ID: "a-b-c", Source: "a-b", Target: "c"},
				},
			},
			wantErr: ErrDuplicateEdge,
		},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Hydrate(tt.graph)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, valid.Clone(), m.Snapshot(), "failed hydrate must keep previous graph")
		})
	}
}

func TestModel_SnapshotIsIsolated(t *testing.T) {
	m := newTestModel()
	a, _ := m.AddNode(stepDef, models.Position{})
	require.NoError(t, m.UpdateNodeValues(a.ID, map[string]string{"k": "v"}))

	g := m.Snapshot()
	g.Nodes[0].Values["k"] = "changed"
	g.Nodes[0].Position.X = 42

	node, _ := m.Node(a.ID)
	assert.Equal(t, "v", node.Values["k"])
	assert.Zero(t, node.Position.X)
}

func TestIDGenerators(t *testing.T) {
	seq := NewSequenceGenerator(7)
	assert.Equal(t, "log-7", seq.NewID("log"))
	assert.Equal(t, "log-8", seq.NewID("log"))

	fixed := time.UnixMilli(1000)
	clock := &ClockGenerator{Now: func() time.Time { return fixed }}
	assert.Equal(t, "log1000", clock.NewID("log"))
	assert.Equal(t, "log1001", clock.NewID("log"))

	a := UUIDGenerator{}.NewID("log")
	b := UUIDGenerator{}.NewID("log")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^log-[0-9a-f-]{36}$`, a)
}
