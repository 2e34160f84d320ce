package catalog

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default(slog.Default())
	require.NoError(t, err)

	triggers := c.GetByRole(models.RoleTrigger)
	steps := c.GetByRole(models.RoleStep)

	assert.NotEmpty(t, triggers)
	assert.NotEmpty(t, steps)
	assert.Len(t, c.All(), len(triggers)+len(steps))

	for _, def := range triggers {
		assert.True(t, def.IsTrigger())
	}

	msg, ok := c.HealthCheck()
	assert.True(t, ok)
	assert.Equal(t, "ok", msg)
}

func TestCatalog_GetByID(t *testing.T) {
	c, err := Default(slog.Default())
	require.NoError(t, err)

	def, ok := c.GetByID("schedule")
	require.True(t, ok)
	assert.Equal(t, models.RoleTrigger, def.Role)
	assert.Equal(t, "Schedule", def.Label)

	_, ok = c.GetByID("missing")
	assert.False(t, ok)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c, err := Default(slog.Default())
	require.NoError(t, err)

	def, ok := c.GetByID("schedule")
	require.True(t, ok)

	def.Label = "changed"
	def.Fields[0].Options[0] = "changed"

	again, _ := c.GetByID("schedule")
	assert.Equal(t, "Schedule", again.Label)
	assert.Equal(t, "hourly", again.Fields[0].Options[0])
}

func TestCatalog_Palette(t *testing.T) {
	c, err := Default(slog.Default())
	require.NoError(t, err)

	for _, def := range c.Palette(false) {
		assert.Equal(t, models.RoleTrigger, def.Role)
	}

	for _, def := range c.Palette(true) {
		assert.Equal(t, models.RoleStep, def.Role)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		definitions []models.NodeDefinition
		wantErr     error
	}{
		{
			name: "missing role",
			definitions: []models.NodeDefinition{
				{ID: "a", Label: "A"},
			},
		},
		{
			name: "unknown field type",
			definitions: []models.NodeDefinition{
				{ID: "a", Label: "A", Role: models.RoleStep, Fields: []models.FieldSchema{
					{ID: "f", Label: "F", Type: "checkbox"},
				}},
			},
		},
		{
			name: "duplicate definition",
			definitions: []models.NodeDefinition{
				{ID: "a", Label: "A", Role: models.RoleStep},
				{ID: "a", Label: "A again", Role: models.RoleStep},
			},
			wantErr: ErrDuplicateDefinition,
		},
		{
			name: "duplicate field",
			definitions: []models.NodeDefinition{
				{ID: "a", Label: "A", Role: models.RoleStep, Fields: []models.FieldSchema{
					{ID: "f", Label: "F", Type: models.FieldTypeText},
					{ID: "f", Label: "F", Type: models.FieldTypeTextarea},
				}},
			},
			wantErr: ErrDuplicateField,
		},
		{
			name: "select without options",
			definitions: []models.NodeDefinition{
				{ID: "a", Label: "A", Role: models.RoleStep, Fields: []models.FieldSchema{
					{ID: "f", Label: "F", Type: models.FieldTypeSelect},
				}},
			},
			wantErr: ErrInvalidSelect,
		},
		{
			name: "select default outside options",
			definitions: []models.NodeDefinition{
				{ID: "a", Label: "A", Role: models.RoleStep, Fields: []models.FieldSchema{
					{ID: "f", Label: "F", Type: models.FieldTypeSelect, Options: []string{"x"}, DefaultValue: "y"},
				}},
			},
			wantErr: ErrInvalidSelect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(slog.Default(), tt.definitions)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")

	content := `
[[definitions]]
id = "manual"
role = "trigger"
label = "Manual"
description = "Run by hand"

[[definitions]]
id = "notify"
role = "step"
label = "Notify"

  [[definitions.fields]]
  id = "level"
  label = "Level"
  type = "select"
  options = ["info", "warn"]
  default_value = "info"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(slog.Default(), path)
	require.NoError(t, err)

	def, ok := c.GetByID("notify")
	require.True(t, ok)
	require.Len(t, def.Fields, 1)
	assert.Equal(t, models.FieldTypeSelect, def.Fields[0].Type)
	assert.Equal(t, []string{"info", "warn"}, def.Fields[0].Options)

	role, ok := c.RoleOf("manual")
	assert.True(t, ok)
	assert.Equal(t, models.RoleTrigger, role)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, defaultCatalog, 0o600))

	c, err := Load(slog.Default(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, c.All())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(slog.Default(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
