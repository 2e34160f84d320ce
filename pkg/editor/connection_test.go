package editor_test

import (
	"testing"

	"github.com/dukex/orpheusflows/pkg/editor"
	"github.com/dukex/orpheusflows/pkg/graph"
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_Toggle(t *testing.T) {
	f := newFixture(t)
	c := f.session.Connections()

	node := f.drop(t, "webhook", 0, 0)

	state, source := c.State()
	assert.Equal(t, editor.ConnectionIdle, state)
	assert.Empty(t, source)

	require.NoError(t, c.StartConnection(node.ID))

	state, source = c.State()
	assert.Equal(t, editor.ConnectionPending, state)
	assert.Equal(t, node.ID, source)

	require.NoError(t, c.StartConnection(node.ID))

	state, _ = c.State()
	assert.Equal(t, editor.ConnectionIdle, state)
	assert.Empty(t, f.session.Graph().Edges)
}

func TestConnection_StartFromAnotherNodeRetargets(t *testing.T) {
	f := newFixture(t)
	c := f.session.Connections()

	a := f.drop(t, "webhook", 0, 0)
	b := f.drop(t, "delay", 0, 100)

	require.NoError(t, c.StartConnection(a.ID))
	require.NoError(t, c.StartConnection(b.ID))

	_, source := c.State()
	assert.Equal(t, b.ID, source)
}

func TestConnection_Cancel(t *testing.T) {
	f := newFixture(t)
	c := f.session.Connections()

	node := f.drop(t, "webhook", 0, 0)

	require.NoError(t, c.StartConnection(node.ID))
	c.Cancel()

	state, _ := c.State()
	assert.Equal(t, editor.ConnectionIdle, state)

	c.Cancel()
}

func TestConnection_Accept(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		target  string
		prepare func(t *testing.T, f *fixture, ids map[string]string)
		wantErr error
	}{
		{
			name:   "trigger to step",
			source: "trigger",
			target: "step1",
		},
		{
			name:   "step to step",
			source: "step1",
			target: "step2",
		},
		{
			name:    "step to trigger",
			source:  "step1",
			target:  "trigger",
			wantErr: graph.ErrRoleViolation,
		},
		{
			name:    "self",
			source:  "step1",
			target:  "step1",
			wantErr: graph.ErrSelfConnection,
		},
		{
			name:   "source already connected",
			source: "trigger",
			target: "step2",
			prepare: func(t *testing.T, f *fixture, ids map[string]string) {
				t.Helper()
				require.NoError(t, f.session.Connections().StartConnection(ids["trigger"]))
				_, err := f.session.Connections().AcceptConnection(t.Context(), ids["step1"])
				require.NoError(t, err)
			},
			wantErr: graph.ErrSourceAlreadyConnected,
		},
		{
			name:   "deleted target",
			source: "trigger",
			target: "step1",
			prepare: func(t *testing.T, f *fixture, ids map[string]string) {
				t.Helper()
				require.NoError(t, f.session.DeleteNode(t.Context(), ids["step1"]))
			},
			wantErr: graph.ErrUnknownNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			c := f.session.Connections()

			ids := map[string]string{
				"trigger": f.drop(t, "webhook", 0, 0).ID,
				"step1":   f.drop(t, "delay", 0, 100).ID,
				"step2":   f.drop(t, "http-request", 0, 200).ID,
			}

			if tt.prepare != nil {
				tt.prepare(t, f, ids)
			}

			edgesBefore := f.session.Graph().Edges

			require.NoError(t, c.StartConnection(ids[tt.source]))
			edge, err := c.AcceptConnection(t.Context(), ids[tt.target])

			state, _ := c.State()
			assert.Equal(t, editor.ConnectionIdle, state, "accept always returns to idle")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, models.Edge{}, edge)
				assert.Equal(t, edgesBefore, f.session.Graph().Edges)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.EdgeID(ids[tt.source], ids[tt.target]), edge.ID)
			assert.Contains(t, f.session.Graph().Edges, edge)
		})
	}
}

func TestConnection_AcceptWhileIdle(t *testing.T) {
	f := newFixture(t)

	node := f.drop(t, "delay", 0, 0)

	_, err := f.session.Connections().AcceptConnection(t.Context(), node.ID)
	require.ErrorIs(t, err, editor.ErrNoPendingConnection)
	assert.Equal(t, editor.KindNoPendingConnection, f.session.Notifications()[0].Kind)
}

func TestConnection_StartUnknownNode(t *testing.T) {
	f := newFixture(t)

	require.ErrorIs(t, f.session.Connections().StartConnection("missing"), graph.ErrUnknownNode)

	state, _ := f.session.Connections().State()
	assert.Equal(t, editor.ConnectionIdle, state)
}

func TestConnection_Preview(t *testing.T) {
	f := newFixture(t)
	c := f.session.Connections()

	node := f.drop(t, "webhook", 50, 50)

	c.TrackPointer(editor.Point{X: 400, Y: 300}, canvas)

	_, ok := c.Preview()
	assert.False(t, ok, "no preview while idle")

	require.NoError(t, c.StartConnection(node.ID))

	link, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, editor.Link{
		Source: node.ID,
		From:   models.Position{X: 50, Y: 50},
		To:     models.Position{X: 300, Y: 280},
	}, link)

	before := f.session.Graph()
	c.TrackPointer(editor.Point{X: 0, Y: 0}, canvas)
	assert.Equal(t, before, f.session.Graph(), "pointer tracking never touches the graph")

	link, _ = c.Preview()
	assert.Equal(t, models.Position{X: -100, Y: -20}, link.To)
}
