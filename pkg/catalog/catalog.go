// Package catalog provides the read-only registry of trigger and step definitions.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/go-playground/validator/v10"
)

//go:embed default.json
var defaultCatalog []byte

type catalogFile struct {
	Definitions []models.NodeDefinition `json:"definitions" toml:"definitions" validate:"dive"`
}

// Catalog is an immutable lookup table of node definitions.
// It is loaded once and never changes for the lifetime of an editor session.
type Catalog struct {
	logger      *slog.Logger
	definitions []models.NodeDefinition
	byID        map[string]int
}

// New builds a catalog from the given definitions after validating them.
func New(logger *slog.Logger, definitions []models.NodeDefinition) (*Catalog, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(catalogFile{Definitions: definitions})
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{
		logger:      logger,
		definitions: make([]models.NodeDefinition, 0, len(definitions)),
		byID:        make(map[string]int, len(definitions)),
	}

	for _, def := range definitions {
		if _, exists := c.byID[def.ID]; exists {
			return nil, &DefinitionError{DefinitionID: def.ID, Err: ErrDuplicateDefinition}
		}

		if err := checkFields(def); err != nil {
			return nil, err
		}

		c.byID[def.ID] = len(c.definitions)
		c.definitions = append(c.definitions, def.Clone())
	}

	logger.Debug("Catalog loaded", "definitions", len(c.definitions))

	return c, nil
}

func checkFields(def models.NodeDefinition) error {
	seen := make(map[string]bool, len(def.Fields))

	for _, field := range def.Fields {
		if seen[field.ID] {
			return &DefinitionError{DefinitionID: def.ID, FieldID: field.ID, Err: ErrDuplicateField}
		}

		seen[field.ID] = true

		if field.Type != models.FieldTypeSelect {
			continue
		}

		if len(field.Options) == 0 {
			return &DefinitionError{DefinitionID: def.ID, FieldID: field.ID, Err: fmt.Errorf("%w: no options", ErrInvalidSelect)}
		}

		if field.DefaultValue != "" && !field.HasOption(field.DefaultValue) {
			return &DefinitionError{
				DefinitionID: def.ID,
				FieldID:      field.ID,
				Err:          fmt.Errorf("%w: default %q is not an option", ErrInvalidSelect, field.DefaultValue),
			}
		}
	}

	return nil
}

// Default returns the catalog embedded in the binary.
func Default(logger *slog.Logger) (*Catalog, error) {
	return decodeJSON(logger, defaultCatalog)
}

// Load reads a catalog file. Files ending in .toml are decoded as TOML, anything else as JSON.
func Load(logger *slog.Logger, path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var file catalogFile

		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
		}

		return New(logger, file.Definitions)
	}

	return decodeJSON(logger, data)
}

func decodeJSON(logger *slog.Logger, data []byte) (*Catalog, error) {
	var file catalogFile

	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return New(logger, file.Definitions)
}

// GetByID returns the definition with the given id.
func (c *Catalog) GetByID(id string) (*models.NodeDefinition, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}

	def := c.definitions[idx].Clone()

	return &def, true
}

// GetByRole returns every definition with the given role, in declaration order.
func (c *Catalog) GetByRole(role models.Role) []models.NodeDefinition {
	out := make([]models.NodeDefinition, 0)

	for _, def := range c.definitions {
		if def.Role == role {
			out = append(out, def.Clone())
		}
	}

	return out
}

// All returns every definition in declaration order.
func (c *Catalog) All() []models.NodeDefinition {
	out := make([]models.NodeDefinition, 0, len(c.definitions))
	for _, def := range c.definitions {
		out = append(out, def.Clone())
	}

	return out
}

// RoleOf resolves the role of a definition id.
func (c *Catalog) RoleOf(id string) (models.Role, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return "", false
	}

	return c.definitions[idx].Role, true
}

// Palette returns what the sidebar offers for dragging: triggers until the
// workflow has one, steps afterwards.
func (c *Catalog) Palette(hasTrigger bool) []models.NodeDefinition {
	if hasTrigger {
		return c.GetByRole(models.RoleStep)
	}

	return c.GetByRole(models.RoleTrigger)
}

// HealthCheck reports whether the catalog can serve both sides of a workflow.
func (c *Catalog) HealthCheck() (string, bool) {
	triggers := len(c.GetByRole(models.RoleTrigger))
	steps := len(c.GetByRole(models.RoleStep))

	if triggers == 0 || steps == 0 {
		return fmt.Sprintf("catalog has %d triggers and %d steps", triggers, steps), false
	}

	return "ok", true
}
