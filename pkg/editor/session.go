// Package editor implements the interactive editing session: placement, connection
// and field editing controllers operating on one workflow graph.
package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/orpheusflows/pkg/eventbus"
	"github.com/dukex/orpheusflows/pkg/events"
	"github.com/dukex/orpheusflows/pkg/graph"
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/dukex/orpheusflows/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Catalog is the read-only definition registry the session resolves nodes against.
type Catalog interface {
	GetByID(id string) (*models.NodeDefinition, bool)
	GetByRole(role models.Role) []models.NodeDefinition
	RoleOf(id string) (models.Role, bool)
}

// Store persists the durable graph. persistence.Bridge implements it.
type Store interface {
	Save(ctx context.Context, g models.Graph) error
	Load(ctx context.Context) (*models.Graph, error)
}

// Config holds the collaborators of a session.
type Config struct {
	Logger      *slog.Logger
	User        models.User
	Catalog     Catalog
	Store       Store
	Publisher   eventbus.EventPublisher // optional
	IDGenerator graph.IDGenerator       // optional, UUID based by default
}

type nodeDrag struct {
	nodeID string
	offset models.Position
	moved  bool
}

// State is a snapshot of the transient interaction state. It is never persisted.
type State struct {
	SelectedNode  string           `json:"selected_node,omitempty"`
	DraggingNode  string           `json:"dragging_node,omitempty"`
	DragOffset    *models.Position `json:"drag_offset,omitempty"`
	CatalogDrag   string           `json:"catalog_drag,omitempty"`
	PendingSource string           `json:"pending_source,omitempty"`
	Pointer       *models.Position `json:"pointer,omitempty"`
	EditingNode   string           `json:"editing_node,omitempty"`
}

// Session is the single editing session of one user on one canvas.
//
// Every controller mutates the graph through the session, which keeps the
// graph model as the only place invariants are enforced. Session is not safe
// for concurrent use; callers serialize events.
type Session struct {
	logger    *slog.Logger
	user      models.User
	catalog   Catalog
	store     Store
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	graph     *graph.Model

	selected      string
	drag          *nodeDrag
	catalogDrag   string
	pendingSource string
	pointer       *models.Position
	editing       string
	form          *Form
	notifications []Notification

	placement   *PlacementController
	connections *ConnectionController
	fields      *FieldEditor
}

// NewSession creates a session with an empty graph. Call Load to hydrate it.
func NewSession(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []graph.Option{}
	if cfg.IDGenerator != nil {
		opts = append(opts, graph.WithIDGenerator(cfg.IDGenerator))
	}

	s := &Session{
		logger:    logger.With("user_id", cfg.User.ID),
		user:      cfg.User,
		catalog:   cfg.Catalog,
		store:     cfg.Store,
		publisher: cfg.Publisher,
		tracer:    otelhelper.Tracer("github.com/dukex/orpheusflows/pkg/editor"),
		graph:     graph.New(cfg.Catalog, opts...),
	}

	s.placement = &PlacementController{s: s}
	s.connections = &ConnectionController{s: s}
	s.fields = &FieldEditor{s: s}

	return s
}

func (s *Session) Placement() *PlacementController {
	return s.placement
}

func (s *Session) Connections() *ConnectionController {
	return s.connections
}

func (s *Session) Fields() *FieldEditor {
	return s.fields
}

func (s *Session) User() models.User {
	return s.user
}

// Load hydrates the graph from the store and resets every transient.
//
// A missing, unreadable or invalid saved graph never blocks the session: it
// starts empty and a notification explains why.
func (s *Session) Load(ctx context.Context) (err error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "editor.load", attribute.String(otelhelper.UserIDKey, s.user.ID))
	defer func() { otelhelper.End(span, err) }()

	s.resetTransients()
	s.graph.Reset()

	var loaded *models.Graph

	loaded, err = s.store.Load(ctx)
	if err == nil && loaded != nil {
		if herr := s.graph.Hydrate(*loaded); herr != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidGraph, herr)
		}
	}

	event := events.GraphLoaded{BaseEvent: events.NewBaseEvent(events.GraphLoadedEvent, s.user.ID)}

	if err != nil {
		s.logger.WarnContext(ctx, "Starting with an empty graph", "error", err)
		s.notify(err)

		event.Recovered = string(KindOf(err))
	}

	g := s.graph.Snapshot()
	event.Nodes = len(g.Nodes)
	event.Edges = len(g.Edges)

	s.publish(ctx, "graph", event)

	return err
}

// Save writes the durable graph to the store.
func (s *Session) Save(ctx context.Context) (err error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "editor.save", attribute.String(otelhelper.UserIDKey, s.user.ID))
	defer func() { otelhelper.End(span, err) }()

	g := s.graph.Snapshot()

	if err = s.store.Save(ctx, g); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save graph", "error", err)

		return s.fail(err)
	}

	s.publish(ctx, "graph", events.GraphSaved{
		BaseEvent: events.NewBaseEvent(events.GraphSavedEvent, s.user.ID),
		Nodes:     len(g.Nodes),
		Edges:     len(g.Edges),
	})

	return nil
}

// Graph returns a copy of the current graph.
func (s *Session) Graph() models.Graph {
	return s.graph.Snapshot()
}

// Node returns a copy of a node.
func (s *Session) Node(id string) (models.Node, bool) {
	return s.graph.Node(id)
}

// HasTrigger reports whether the graph already has its trigger.
func (s *Session) HasTrigger() bool {
	return s.graph.HasTrigger()
}

// Chain returns the nodes in workflow order, starting at the trigger.
func (s *Session) Chain() []models.Node {
	return s.graph.Chain()
}

// Palette lists what the sidebar offers: triggers until one is placed, steps afterwards.
func (s *Session) Palette() []models.NodeDefinition {
	if s.graph.HasTrigger() {
		return s.catalog.GetByRole(models.RoleStep)
	}

	return s.catalog.GetByRole(models.RoleTrigger)
}

// Definition resolves the definition of a placed node.
func (s *Session) Definition(node models.Node) (*models.NodeDefinition, bool) {
	return s.catalog.GetByID(node.DefinitionID)
}

// Select marks a node as selected.
func (s *Session) Select(id string) error {
	if _, ok := s.graph.Node(id); !ok {
		return s.fail(&graph.NodeError{Op: "Select", NodeID: id, Err: graph.ErrUnknownNode})
	}

	s.selected = id

	return nil
}

// ClearSelection deselects any node.
func (s *Session) ClearSelection() {
	s.selected = ""
}

// DeleteNode removes a node and its edges, and drops every transient pointing at it.
func (s *Session) DeleteNode(ctx context.Context, id string) error {
	var removed []string

	for _, e := range s.graph.Edges() {
		if e.Source == id || e.Target == id {
			removed = append(removed, e.ID)
		}
	}

	if err := s.graph.DeleteNode(id); err != nil {
		return s.fail(err)
	}

	if s.selected == id {
		s.selected = ""
	}

	if s.pendingSource == id {
		s.pendingSource = ""
	}

	if s.drag != nil && s.drag.nodeID == id {
		s.drag = nil
	}

	if s.editing == id {
		s.closeForm()
	}

	s.publish(ctx, id, events.NodeDeleted{
		BaseEvent:    events.NewBaseEvent(events.NodeDeletedEvent, s.user.ID),
		NodeID:       id,
		RemovedEdges: removed,
	})

	return nil
}

// Disconnect removes an edge. Removing a missing edge is a no-op.
func (s *Session) Disconnect(ctx context.Context, edgeID string) {
	if _, ok := s.graph.Edge(edgeID); !ok {
		return
	}

	s.graph.Disconnect(edgeID)

	s.publish(ctx, edgeID, events.EdgeDisconnected{
		BaseEvent: events.NewBaseEvent(events.EdgeDisconnectedEvent, s.user.ID),
		EdgeID:    edgeID,
	})
}

// State returns the transient interaction state.
func (s *Session) State() State {
	st := State{
		SelectedNode:  s.selected,
		CatalogDrag:   s.catalogDrag,
		PendingSource: s.pendingSource,
		EditingNode:   s.editing,
	}

	if s.drag != nil {
		offset := s.drag.offset
		st.DraggingNode = s.drag.nodeID
		st.DragOffset = &offset
	}

	if s.pointer != nil {
		pointer := *s.pointer
		st.Pointer = &pointer
	}

	return st
}

// Notifications returns and clears the pending user notifications.
func (s *Session) Notifications() []Notification {
	out := s.notifications
	s.notifications = nil

	return out
}

// PendingNotifications returns the queued notifications without clearing them.
func (s *Session) PendingNotifications() []Notification {
	return append([]Notification(nil), s.notifications...)
}

// Dismiss removes the most recent notification when it was raised for err.
// Earlier notifications stay queued.
func (s *Session) Dismiss(err error) {
	last := len(s.notifications) - 1
	if last < 0 || s.notifications[last] != NotificationFor(err) {
		return
	}

	s.notifications = s.notifications[:last]
}

func (s *Session) resetTransients() {
	s.selected = ""
	s.drag = nil
	s.catalogDrag = ""
	s.pendingSource = ""
	s.pointer = nil
	s.closeForm()
}

func (s *Session) closeForm() {
	if s.form != nil {
		s.form.closed = true
	}

	s.form = nil
	s.editing = ""
}

func (s *Session) notify(err error) {
	s.notifications = append(s.notifications, NotificationFor(err))
}

// fail records a notification for err and returns it unchanged.
func (s *Session) fail(err error) error {
	s.notify(err)

	return err
}

func (s *Session) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish editor event", "event_type", event.GetType(), "error", err)
	}
}
