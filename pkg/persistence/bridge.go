package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/dukex/orpheusflows/pkg/otelhelper"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SerializedGraph is the stored shape of a graph. It must stay stable across sessions.
type SerializedGraph struct {
	Nodes []SerializedNode `json:"nodes"`
	Edges []SerializedEdge `json:"edges"`
}

// SerializedNode holds only the durable fields of a node.
type SerializedNode struct {
	ID       string          `json:"id"`
	Position models.Position `json:"position"`
	Data     NodeData        `json:"data"`
}

// NodeData is the durable payload of a node.
type NodeData struct {
	Label        string            `json:"label"`
	DefinitionID string            `json:"definitionId"`
	Values       map[string]string `json:"values"`
}

// SerializedEdge is the stored shape of an edge.
type SerializedEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// DefinitionLookup resolves node definitions for labels. The catalog implements it.
type DefinitionLookup interface {
	GetByID(id string) (*models.NodeDefinition, bool)
}

// Bridge reads and writes the graph to a Medium under a single key.
type Bridge struct {
	medium  Medium
	lookup  DefinitionLookup
	logger  *slog.Logger
	tracer  trace.Tracer
	key     string
	checker *gojsonschema.Schema
}

// NewBridge creates a bridge storing the graph under GraphKey.
func NewBridge(logger *slog.Logger, medium Medium, lookup DefinitionLookup) *Bridge {
	checker, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(graphSchema))
	if err != nil {
		// graphSchema is a compile-time constant
		panic(fmt.Sprintf("invalid graph schema: %v", err))
	}

	return &Bridge{
		medium:  medium,
		lookup:  lookup,
		logger:  logger,
		tracer:  otelhelper.Tracer("github.com/dukex/orpheusflows/pkg/persistence"),
		key:     GraphKey,
		checker: checker,
	}
}

// Save serializes the durable part of the graph and writes it to the medium.
func (b *Bridge) Save(ctx context.Context, g models.Graph) (err error) {
	ctx, span := otelhelper.StartSpan(ctx, b.tracer, "persistence.save",
		attribute.String(otelhelper.StorageKeyKey, b.key),
		attribute.Int(otelhelper.NodeCountKey, len(g.Nodes)),
		attribute.Int(otelhelper.EdgeCountKey, len(g.Edges)),
	)
	defer func() { otelhelper.End(span, err) }()

	data, err := Marshal(g, b.lookup)
	if err != nil {
		return &StateError{Op: "Save", Key: b.key, Err: err}
	}

	if err := b.medium.Set(ctx, b.key, string(data)); err != nil {
		return &StateError{Op: "Save", Key: b.key, Err: err}
	}

	b.logger.DebugContext(ctx, "Graph saved", "nodes", len(g.Nodes), "edges", len(g.Edges))

	return nil
}

// Load reads the stored graph. It returns nil, nil when nothing has been saved,
// and an error matching ErrCorruptState when the blob cannot be trusted.
func (b *Bridge) Load(ctx context.Context) (g *models.Graph, err error) {
	ctx, span := otelhelper.StartSpan(ctx, b.tracer, "persistence.load",
		attribute.String(otelhelper.StorageKeyKey, b.key),
	)
	defer func() { otelhelper.End(span, err) }()

	value, ok, err := b.medium.Get(ctx, b.key)
	if err != nil {
		return nil, &StateError{Op: "Load", Key: b.key, Err: err}
	}

	if !ok {
		return nil, nil
	}

	g, err = b.unmarshal([]byte(value))
	if err != nil {
		return nil, &StateError{Op: "Load", Key: b.key, Err: err}
	}

	span.SetAttributes(
		attribute.Int(otelhelper.NodeCountKey, len(g.Nodes)),
		attribute.Int(otelhelper.EdgeCountKey, len(g.Edges)),
	)

	return g, nil
}

// Marshal produces the stored representation of a graph. Labels are resolved
// through lookup and fall back to the definition id.
func Marshal(g models.Graph, lookup DefinitionLookup) ([]byte, error) {
	out := SerializedGraph{
		Nodes: make([]SerializedNode, 0, len(g.Nodes)),
		Edges: make([]SerializedEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		label := n.DefinitionID
		if lookup != nil {
			if def, ok := lookup.GetByID(n.DefinitionID); ok {
				label = def.Label
			}
		}

		out.Nodes = append(out.Nodes, SerializedNode{
			ID:       n.ID,
			Position: n.Position,
			Data: NodeData{
				Label:        label,
				DefinitionID: n.DefinitionID,
				Values:       models.CloneValues(n.Values),
			},
		})
	}

	for _, e := range g.Edges {
		out.Edges = append(out.Edges, SerializedEdge(e))
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}

	return data, nil
}

// Unmarshal parses a stored graph, rejecting malformed blobs with ErrCorruptState.
func Unmarshal(data []byte) (*models.Graph, error) {
	return NewBridge(slog.Default(), nil, nil).unmarshal(data)
}

func (b *Bridge) unmarshal(data []byte) (*models.Graph, error) {
	result, err := b.checker.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	if !result.Valid() {
		first := result.Errors()[0]

		return nil, fmt.Errorf("%w: %s", ErrCorruptState, first.String())
	}

	var stored SerializedGraph

	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	g := &models.Graph{
		Nodes: make([]models.Node, 0, len(stored.Nodes)),
		Edges: make([]models.Edge, 0, len(stored.Edges)),
	}

	for _, n := range stored.Nodes {
		g.Nodes = append(g.Nodes, models.Node{
			ID:           n.ID,
			DefinitionID: n.Data.DefinitionID,
			Position:     n.Position,
			Values:       models.CloneValues(n.Data.Values),
		})
	}

	for _, e := range stored.Edges {
		g.Edges = append(g.Edges, models.Edge(e))
	}

	return g, nil
}
