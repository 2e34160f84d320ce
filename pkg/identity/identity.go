// Package identity resolves the authenticated user an editing session belongs to.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/go-playground/validator/v10"
)

// ErrUserNotFound indicates an identifier no user is registered under.
var ErrUserNotFound = errors.New("user not found")

// Provider looks up an already authenticated user by its opaque identifier.
type Provider interface {
	Lookup(ctx context.Context, id string) (*models.User, error)
}

// StaticProvider serves a fixed set of users.
type StaticProvider struct {
	users map[string]models.User
}

func NewStaticProvider(users ...models.User) *StaticProvider {
	p := &StaticProvider{users: make(map[string]models.User, len(users))}
	for _, u := range users {
		p.users[u.ID] = u
	}

	return p
}

func (p *StaticProvider) Lookup(_ context.Context, id string) (*models.User, error) {
	u, ok := p.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}

	return &u, nil
}

type usersFile struct {
	Users []models.User `toml:"users" validate:"dive"`
}

// FileProvider serves users read once from a TOML file of [[users]] tables.
type FileProvider struct {
	*StaticProvider

	path string
}

// NewFileProvider reads and validates the users file at path.
func NewFileProvider(logger *slog.Logger, path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var file usersFile

	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to decode users file %s: %w", path, err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid users file %s: %w", path, err)
	}

	logger.Info("Loaded users", "path", path, "count", len(file.Users))

	return &FileProvider{StaticProvider: NewStaticProvider(file.Users...), path: path}, nil
}

func (p *FileProvider) Path() string {
	return p.path
}
