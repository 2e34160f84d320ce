package editor

import (
	"context"

	"github.com/dukex/orpheusflows/pkg/events"
	"github.com/dukex/orpheusflows/pkg/graph"
	"github.com/dukex/orpheusflows/pkg/models"
)

// Point is a pointer location in viewport coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the bounding box of the canvas surface in viewport coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToCanvas converts a viewport point into canvas-relative coordinates.
func (r Rect) ToCanvas(p Point) models.Position {
	return models.Position{X: p.X - r.Left, Y: p.Y - r.Top}
}

// PlacementController turns sidebar drops and node drags into graph placements.
type PlacementController struct {
	s *Session
}

// BeginCatalogDrag records the catalog entry being dragged from the sidebar.
func (p *PlacementController) BeginCatalogDrag(definitionID string) error {
	if _, ok := p.s.catalog.GetByID(definitionID); !ok {
		return p.s.fail(&graph.NodeError{Op: "BeginCatalogDrag", NodeID: definitionID, Err: ErrDefinitionMissing})
	}

	p.s.catalogDrag = definitionID

	return nil
}

// CancelCatalogDrag drops the sidebar drag, e.g. when released outside the canvas.
func (p *PlacementController) CancelCatalogDrag() {
	p.s.catalogDrag = ""
}

// Drop places the dragged catalog entry where it was released over the canvas.
func (p *PlacementController) Drop(ctx context.Context, client Point, canvas Rect) (*models.Node, error) {
	definitionID := p.s.catalogDrag
	if definitionID == "" {
		return nil, p.s.fail(ErrNoCatalogDrag)
	}

	p.s.catalogDrag = ""

	return p.DropDefinition(ctx, definitionID, canvas.ToCanvas(client))
}

// DropDefinition adds a node for the definition at a canvas-relative position.
func (p *PlacementController) DropDefinition(ctx context.Context, definitionID string, position models.Position) (*models.Node, error) {
	definition, ok := p.s.catalog.GetByID(definitionID)
	if !ok {
		return nil, p.s.fail(&graph.NodeError{Op: "Drop", NodeID: definitionID, Err: ErrDefinitionMissing})
	}

	if definition.IsTrigger() && p.s.graph.HasTrigger() {
		return nil, p.s.fail(&graph.NodeError{Op: "Drop", NodeID: definitionID, Err: graph.ErrTriggerConflict})
	}

	node, err := p.s.graph.AddNode(definition, position)
	if err != nil {
		return nil, p.s.fail(err)
	}

	p.s.logger.DebugContext(ctx, "Node placed", "node_id", node.ID, "definition_id", definitionID)

	p.s.publish(ctx, node.ID, events.NodeAdded{
		BaseEvent: events.NewBaseEvent(events.NodeAddedEvent, p.s.user.ID),
		Node:      node.Clone(),
	})

	return node, nil
}

// PointerDown starts dragging a node. It is ignored while another drag is active.
func (p *PlacementController) PointerDown(nodeID string, client Point, canvas Rect) error {
	if p.s.drag != nil {
		return nil
	}

	node, ok := p.s.graph.Node(nodeID)
	if !ok {
		return p.s.fail(&graph.NodeError{Op: "PointerDown", NodeID: nodeID, Err: graph.ErrUnknownNode})
	}

	pointer := canvas.ToCanvas(client)
	p.s.pointer = &pointer
	p.s.drag = &nodeDrag{
		nodeID: nodeID,
		offset: pointer.Sub(node.Position),
	}

	return nil
}

// PointerMove tracks the pointer and moves the dragged node, if any, to pointer minus offset.
func (p *PlacementController) PointerMove(client Point, canvas Rect) error {
	pointer := canvas.ToCanvas(client)
	p.s.pointer = &pointer

	if p.s.drag == nil {
		return nil
	}

	if err := p.s.graph.MoveNode(p.s.drag.nodeID, pointer.Sub(p.s.drag.offset)); err != nil {
		p.s.drag = nil

		return p.s.fail(err)
	}

	p.s.drag.moved = true

	return nil
}

// PointerUp ends the node drag. The last reported position stays.
func (p *PlacementController) PointerUp(ctx context.Context) {
	drag := p.s.drag
	p.s.drag = nil

	if drag == nil || !drag.moved {
		return
	}

	node, ok := p.s.graph.Node(drag.nodeID)
	if !ok {
		return
	}

	p.s.publish(ctx, node.ID, events.NodeMoved{
		BaseEvent: events.NewBaseEvent(events.NodeMovedEvent, p.s.user.ID),
		NodeID:    node.ID,
		Position:  node.Position,
	})
}

// Dragging reports the node currently being dragged.
func (p *PlacementController) Dragging() (string, bool) {
	if p.s.drag == nil {
		return "", false
	}

	return p.s.drag.nodeID, true
}
