package web

import (
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/dukex/orpheusflows/pkg/catalog"
	"github.com/dukex/orpheusflows/pkg/editor"
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/dukex/orpheusflows/pkg/persistence"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// EditorHandlers serves one editing session. Requests are handled one at a
// time so the session sees the same ordering a single UI thread would.
type EditorHandlers struct {
	mu        sync.Mutex
	logger    *slog.Logger
	session   *editor.Session
	catalog   *catalog.Catalog
	medium    persistence.Medium
	validator *validator.Validate
}

func NewEditorHandlers(
	logger *slog.Logger,
	session *editor.Session,
	catalog *catalog.Catalog,
	medium persistence.Medium,
	validator *validator.Validate,
) *EditorHandlers {
	return &EditorHandlers{
		logger:    logger,
		session:   session,
		catalog:   catalog,
		medium:    medium,
		validator: validator,
	}
}

// Routes registers every editor endpoint on r.
func (h *EditorHandlers) Routes(r fiber.Router) {
	r.Get("/session", h.exclusive(h.GetSession))
	r.Get("/palette", h.exclusive(h.GetPalette))
	r.Get("/catalog", h.GetCatalog)
	r.Get("/catalog/:id", h.GetDefinition)
	r.Post("/catalog/:id/drag", h.exclusive(h.BeginCatalogDrag))

	r.Get("/graph", h.exclusive(h.GetGraph))
	r.Post("/graph/save", h.exclusive(h.SaveGraph))
	r.Post("/graph/load", h.exclusive(h.LoadGraph))

	r.Post("/canvas/drop", h.exclusive(h.Drop))
	r.Delete("/canvas/drag", h.exclusive(h.CancelCatalogDrag))
	r.Post("/canvas/pointer-move", h.exclusive(h.PointerMove))
	r.Post("/canvas/pointer-up", h.exclusive(h.PointerUp))

	r.Post("/nodes/:id/pointer-down", h.exclusive(h.PointerDown))
	r.Post("/nodes/:id/select", h.exclusive(h.SelectNode))
	r.Delete("/nodes/:id", h.exclusive(h.DeleteNode))

	r.Post("/nodes/:id/connection", h.exclusive(h.StartConnection))
	r.Post("/nodes/:id/connection/accept", h.exclusive(h.AcceptConnection))
	r.Delete("/connection", h.exclusive(h.CancelConnection))
	r.Delete("/edges/:id", h.exclusive(h.DeleteEdge))

	r.Get("/nodes/:id/form", h.exclusive(h.OpenForm))
	r.Put("/nodes/:id/form", h.exclusive(h.SaveForm))
	r.Delete("/nodes/:id/form", h.exclusive(h.CancelForm))

	r.Get("/health", h.HealthCheck)
}

func (h *EditorHandlers) exclusive(handler fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		h.mu.Lock()
		defer h.mu.Unlock()

		return handler(c)
	}
}

// fail renders err and dismisses the notification it produced; the problem body carries it.
func (h *EditorHandlers) fail(c fiber.Ctx, err error) error {
	h.session.Dismiss(err)

	return handleEditorError(c, err)
}

func (h *EditorHandlers) GetSession(c fiber.Ctx) error {
	return c.JSON(SessionResponse{
		User:          h.session.User(),
		HasTrigger:    h.session.HasTrigger(),
		Palette:       h.session.Palette(),
		Notifications: h.session.PendingNotifications(),
	})
}

func (h *EditorHandlers) GetPalette(c fiber.Ctx) error {
	return c.JSON(h.session.Palette())
}

func (h *EditorHandlers) GetCatalog(c fiber.Ctx) error {
	role := c.Query("role")

	switch models.Role(role) {
	case "":
		return c.JSON(h.catalog.All())
	case models.RoleTrigger, models.RoleStep:
		return c.JSON(h.catalog.GetByRole(models.Role(role)))
	default:
		return badRequest(c, "role must be trigger or step")
	}
}

func (h *EditorHandlers) GetDefinition(c fiber.Ctx) error {
	definition, ok := h.catalog.GetByID(c.Params("id"))
	if !ok {
		return notFound(c, "Node definition not found")
	}

	return c.JSON(definition)
}

func (h *EditorHandlers) BeginCatalogDrag(c fiber.Ctx) error {
	if err := h.session.Placement().BeginCatalogDrag(c.Params("id")); err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) CancelCatalogDrag(c fiber.Ctx) error {
	h.session.Placement().CancelCatalogDrag()

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) Drop(c fiber.Ctx) error {
	var req DropRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var (
		node *models.Node
		err  error
	)

	placement := h.session.Placement()

	switch {
	case req.DefinitionID != "" && req.Position != nil:
		node, err = placement.DropDefinition(c.Context(), req.DefinitionID, *req.Position)
	case req.DefinitionID != "":
		if err := placement.BeginCatalogDrag(req.DefinitionID); err != nil {
			return h.fail(c, err)
		}

		node, err = placement.Drop(c.Context(), *req.Client, *req.Canvas)
	default:
		node, err = placement.Drop(c.Context(), *req.Client, *req.Canvas)
	}

	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.nodeView(*node))
}

func (h *EditorHandlers) PointerDown(c fiber.Ctx) error {
	req, err := h.bindPointer(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.session.Placement().PointerDown(c.Params("id"), *req.Client, *req.Canvas); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(h.session.State())
}

func (h *EditorHandlers) PointerMove(c fiber.Ctx) error {
	req, err := h.bindPointer(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.session.Placement().PointerMove(*req.Client, *req.Canvas); err != nil {
		return h.fail(c, err)
	}

	if id, dragging := h.session.Placement().Dragging(); dragging {
		if node, ok := h.session.Node(id); ok {
			return c.JSON(h.nodeView(node))
		}
	}

	if link, ok := h.session.Connections().Preview(); ok {
		return c.JSON(link)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) PointerUp(c fiber.Ctx) error {
	h.session.Placement().PointerUp(c.Context())

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) bindPointer(c fiber.Ctx) (*PointerRequest, error) {
	var req PointerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return nil, err
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}

	return &req, nil
}

func (h *EditorHandlers) SelectNode(c fiber.Ctx) error {
	if err := h.session.Select(c.Params("id")); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(h.session.State())
}

func (h *EditorHandlers) DeleteNode(c fiber.Ctx) error {
	if err := h.session.DeleteNode(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) StartConnection(c fiber.Ctx) error {
	connections := h.session.Connections()

	if err := connections.StartConnection(c.Params("id")); err != nil {
		return h.fail(c, err)
	}

	state, source := connections.State()

	return c.JSON(fiber.Map{"state": state, "source": source})
}

func (h *EditorHandlers) AcceptConnection(c fiber.Ctx) error {
	edge, err := h.session.Connections().AcceptConnection(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.edgeView(edge))
}

func (h *EditorHandlers) CancelConnection(c fiber.Ctx) error {
	h.session.Connections().Cancel()

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) DeleteEdge(c fiber.Ctx) error {
	h.session.Disconnect(c.Context(), c.Params("id"))

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) OpenForm(c fiber.Ctx) error {
	id := c.Params("id")

	if form, ok := h.session.Fields().Current(); ok && form.NodeID == id {
		return c.JSON(newFormResponse(form))
	}

	form, err := h.session.Fields().OpenForm(id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(newFormResponse(form))
}

// SaveForm applies every submitted value to the node form and saves it in one update.
// Any rejected value cancels the form and leaves the node untouched.
func (h *EditorHandlers) SaveForm(c fiber.Ctx) error {
	var req FormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	id := c.Params("id")

	form, ok := h.session.Fields().Current()
	if !ok || form.NodeID != id {
		var err error

		form, err = h.session.Fields().OpenForm(id)
		if err != nil {
			return h.fail(c, err)
		}
	}

	fieldIDs := make([]string, 0, len(req.Values))
	for fieldID := range req.Values {
		fieldIDs = append(fieldIDs, fieldID)
	}

	sort.Strings(fieldIDs)

	values := form.Values()

	for _, fieldID := range fieldIDs {
		value := req.Values[fieldID]

		current, known := values[fieldID]
		if known && current == value {
			continue
		}

		if err := form.Set(fieldID, value); err != nil {
			form.Cancel()

			return h.fail(c, err)
		}
	}

	if err := form.Save(c.Context()); err != nil {
		return h.fail(c, err)
	}

	node, _ := h.session.Node(id)

	return c.JSON(h.nodeView(node))
}

func (h *EditorHandlers) CancelForm(c fiber.Ctx) error {
	if form, ok := h.session.Fields().Current(); ok && form.NodeID == c.Params("id") {
		form.Cancel()
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EditorHandlers) GetGraph(c fiber.Ctx) error {
	return c.JSON(h.graphResponse())
}

func (h *EditorHandlers) SaveGraph(c fiber.Ctx) error {
	if err := h.session.Save(c.Context()); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(h.graphResponse())
}

// LoadGraph reloads the saved graph. An unreadable graph is not a request
// failure: the session starts empty and the response carries the notification.
func (h *EditorHandlers) LoadGraph(c fiber.Ctx) error {
	if err := h.session.Load(c.Context()); err != nil {
		h.logger.WarnContext(c.Context(), "Graph reload recovered with an empty canvas", "error", err)
	}

	return c.JSON(h.graphResponse())
}

func (h *EditorHandlers) HealthCheck(c fiber.Ctx) error {
	catalogCheck, catalogOK := h.catalog.HealthCheck()

	storageCheck, storageOK := "ok", true
	if err := h.medium.HealthCheck(c.Context()); err != nil {
		storageCheck, storageOK = err.Error(), false
	}

	status := "unhealthy"
	message := "Orpheusflows editor is unhealthy"
	httpStatus := http.StatusInternalServerError

	if catalogOK && storageOK {
		status = "healthy"
		message = "Orpheusflows editor is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"catalog": catalogCheck,
			"storage": storageCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *EditorHandlers) graphResponse() GraphResponse {
	g := h.session.Graph()

	resp := GraphResponse{
		Nodes:         make([]NodeView, 0, len(g.Nodes)),
		Edges:         make([]EdgeView, 0, len(g.Edges)),
		Chain:         []string{},
		State:         h.session.State(),
		Notifications: h.session.Notifications(),
	}

	for _, n := range g.Nodes {
		resp.Nodes = append(resp.Nodes, h.nodeView(n))
	}

	for _, e := range g.Edges {
		resp.Edges = append(resp.Edges, h.edgeView(e))
	}

	for _, n := range h.session.Chain() {
		resp.Chain = append(resp.Chain, n.ID)
	}

	if link, ok := h.session.Connections().Preview(); ok {
		resp.Preview = &link
	}

	if resp.Notifications == nil {
		resp.Notifications = []editor.Notification{}
	}

	return resp
}

func (h *EditorHandlers) nodeView(n models.Node) NodeView {
	view := NodeView{
		Node:     n,
		Label:    n.DefinitionID,
		Role:     models.RoleStep,
		Selected: h.session.State().SelectedNode == n.ID,
		Links: NodeLinks{
			Select:           "/nodes/" + n.ID + "/select",
			PointerDown:      "/nodes/" + n.ID + "/pointer-down",
			StartConnection:  "/nodes/" + n.ID + "/connection",
			AcceptConnection: "/nodes/" + n.ID + "/connection/accept",
			Form:             "/nodes/" + n.ID + "/form",
			Delete:           "/nodes/" + n.ID,
		},
	}

	definition, ok := h.session.Definition(n)
	if !ok {
		view.Missing = true

		return view
	}

	view.Label = definition.Label
	view.Role = definition.Role

	return view
}

func (h *EditorHandlers) edgeView(e models.Edge) EdgeView {
	return EdgeView{Edge: e, Delete: "/edges/" + e.ID}
}
