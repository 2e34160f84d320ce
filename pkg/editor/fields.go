package editor

import (
	"context"

	"github.com/dukex/orpheusflows/pkg/events"
	"github.com/dukex/orpheusflows/pkg/graph"
	"github.com/dukex/orpheusflows/pkg/models"
)

// Choice is one entry of a select control. The empty value is the unselected state.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Control is one field of a node form bound to its current value.
type Control struct {
	Field   models.FieldSchema `json:"field"`
	Value   string             `json:"value"`
	Choices []Choice           `json:"choices,omitempty"`
}

// Form is the open settings modal of one node.
type Form struct {
	NodeID   string    `json:"node_id"`
	Title    string    `json:"title"`
	Controls []Control `json:"controls"`

	s      *Session
	index  map[string]int
	closed bool
}

// FieldEditor opens node forms and commits their values to the graph.
type FieldEditor struct {
	s *Session
}

// OpenForm opens the settings form of a node. An already open form is replaced.
func (f *FieldEditor) OpenForm(nodeID string) (*Form, error) {
	node, ok := f.s.graph.Node(nodeID)
	if !ok {
		return nil, f.s.fail(&graph.NodeError{Op: "OpenForm", NodeID: nodeID, Err: graph.ErrUnknownNode})
	}

	definition, ok := f.s.catalog.GetByID(node.DefinitionID)
	if !ok {
		return nil, f.s.fail(&graph.NodeError{Op: "OpenForm", NodeID: nodeID, Err: ErrDefinitionMissing})
	}

	form := &Form{
		s:        f.s,
		NodeID:   nodeID,
		Title:    definition.Label,
		Controls: make([]Control, 0, len(definition.Fields)),
		index:    make(map[string]int, len(definition.Fields)),
	}

	for _, field := range definition.Fields {
		form.index[field.ID] = len(form.Controls)
		form.Controls = append(form.Controls, newControl(field, node.Values))
	}

	f.s.closeForm()
	f.s.form = form
	f.s.editing = nodeID

	return form, nil
}

// Current returns the open form, if any.
func (f *FieldEditor) Current() (*Form, bool) {
	if f.s.form == nil {
		return nil, false
	}

	return f.s.form, true
}

func newControl(field models.FieldSchema, values map[string]string) Control {
	value, ok := values[field.ID]
	if !ok {
		value = field.DefaultValue
	}

	control := Control{Field: field, Value: value}

	if field.Type == models.FieldTypeSelect {
		control.Choices = make([]Choice, 0, len(field.Options)+1)
		control.Choices = append(control.Choices, Choice{Label: "-- Select " + field.Label + " --", Value: ""})

		for _, o := range field.Options {
			control.Choices = append(control.Choices, Choice{Label: o, Value: o})
		}
	}

	return control
}

// Set changes the value of one control. Read-only fields and select values
// outside the options are rejected.
func (fm *Form) Set(fieldID, value string) error {
	if fm.closed {
		return fm.s.fail(ErrFormClosed)
	}

	idx, ok := fm.index[fieldID]
	if !ok {
		return fm.s.fail(&graph.NodeError{Op: "SetField", NodeID: fm.NodeID, Err: ErrUnknownField})
	}

	field := fm.Controls[idx].Field

	if field.ReadOnly {
		return fm.s.fail(&graph.NodeError{Op: "SetField", NodeID: fm.NodeID, Err: ErrReadOnlyField})
	}

	if field.Type == models.FieldTypeSelect && value != "" && !field.HasOption(value) {
		return fm.s.fail(&graph.NodeError{Op: "SetField", NodeID: fm.NodeID, Err: ErrInvalidOption})
	}

	fm.Controls[idx].Value = value

	return nil
}

// Values returns the current value of every control.
func (fm *Form) Values() map[string]string {
	values := make(map[string]string, len(fm.Controls))
	for _, c := range fm.Controls {
		values[c.Field.ID] = c.Value
	}

	return values
}

// Closed reports whether the form was saved, cancelled or replaced.
func (fm *Form) Closed() bool {
	return fm.closed
}

// Save writes all control values to the node in one update and closes the form.
func (fm *Form) Save(ctx context.Context) error {
	if fm.closed {
		return fm.s.fail(ErrFormClosed)
	}

	values := fm.Values()

	if err := fm.s.graph.UpdateNodeValues(fm.NodeID, values); err != nil {
		fm.s.closeForm()

		return fm.s.fail(err)
	}

	fm.s.closeForm()

	fm.s.publish(ctx, fm.NodeID, events.NodeValuesUpdated{
		BaseEvent: events.NewBaseEvent(events.NodeValuesUpdatedEvent, fm.s.user.ID),
		NodeID:    fm.NodeID,
		Values:    values,
	})

	return nil
}

// Cancel closes the form without touching the node.
func (fm *Form) Cancel() {
	if fm.closed {
		return
	}

	fm.s.closeForm()
}
