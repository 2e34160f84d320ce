package web

import (
	"github.com/dukex/orpheusflows/pkg/editor"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

var kindStatus = map[editor.Kind]int{
	editor.KindTriggerConflict:        fiber.StatusConflict,
	editor.KindSourceAlreadyConnected: fiber.StatusConflict,
	editor.KindDuplicateEdge:          fiber.StatusConflict,
	editor.KindNoPendingConnection:    fiber.StatusConflict,
	editor.KindNoCatalogDrag:          fiber.StatusConflict,
	editor.KindFormClosed:             fiber.StatusConflict,
	editor.KindSelfConnection:         fiber.StatusUnprocessableEntity,
	editor.KindRoleViolation:          fiber.StatusUnprocessableEntity,
	editor.KindDefinitionMissing:      fiber.StatusUnprocessableEntity,
	editor.KindInvalidField:           fiber.StatusUnprocessableEntity,
	editor.KindUnknownNode:            fiber.StatusNotFound,
	editor.KindCorruptState:           fiber.StatusInternalServerError,
	editor.KindInvalidGraph:           fiber.StatusInternalServerError,
	editor.KindStorage:                fiber.StatusInternalServerError,
}

// handleEditorError renders a rejected editor operation as a problem whose type
// is the error kind and whose detail is the user-facing message.
func handleEditorError(c fiber.Ctx, err error) error {
	note := editor.NotificationFor(err)

	status, ok := kindStatus[note.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	problem := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(string(note.Kind))

	if status == fiber.StatusInternalServerError {
		problem = problem.WithError(err)
	} else {
		problem = problem.WithDetail(note.Message)
	}

	return c.Status(status).JSON(problem)
}
