package models

// Role tells whether a node definition starts a workflow or acts within it.
type Role string

const (
	RoleTrigger Role = "trigger" // Starts the workflow, at most one per graph
	RoleStep    Role = "step"    // Workflow action
)

// FieldType is the kind of input control a field is edited with.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
)

// FieldSchema describes one configurable field of a node definition.
type FieldSchema struct {
	ID           string    `json:"id"                     toml:"id"            validate:"required"`
	Label        string    `json:"label"                  toml:"label"         validate:"required"`
	Type         FieldType `json:"type"                   toml:"type"          validate:"required,oneof=text textarea select"`
	Options      []string  `json:"options,omitempty"      toml:"options"       validate:"omitempty,dive,required"`
	DefaultValue string    `json:"default_value,omitempty" toml:"default_value"`
	ReadOnly     bool      `json:"read_only,omitempty"    toml:"read_only"`
	Placeholder  string    `json:"placeholder,omitempty"  toml:"placeholder"`
}

// HasOption reports whether value is one of the select options.
func (f FieldSchema) HasOption(value string) bool {
	for _, o := range f.Options {
		if o == value {
			return true
		}
	}

	return false
}

// NodeDefinition is an immutable catalog entry for a kind of trigger or step.
type NodeDefinition struct {
	ID          string        `json:"id"          toml:"id"          validate:"required"`
	Role        Role          `json:"role"        toml:"role"        validate:"required,oneof=trigger step"`
	Label       string        `json:"label"       toml:"label"       validate:"required"`
	Description string        `json:"description" toml:"description"`
	Fields      []FieldSchema `json:"fields"      toml:"fields"      validate:"dive"`
}

// IsTrigger reports whether the definition has the trigger role.
func (d *NodeDefinition) IsTrigger() bool {
	return d.Role == RoleTrigger
}

// Field returns the schema of the field with the given id.
func (d *NodeDefinition) Field(id string) (FieldSchema, bool) {
	for _, f := range d.Fields {
		if f.ID == id {
			return f, true
		}
	}

	return FieldSchema{}, false
}

// Clone returns a deep copy of the definition.
func (d NodeDefinition) Clone() NodeDefinition {
	fields := make([]FieldSchema, len(d.Fields))
	for i, f := range d.Fields {
		f.Options = append([]string(nil), f.Options...)
		fields[i] = f
	}

	d.Fields = fields

	return d
}
