package cmd

import (
	"context"
	"log/slog"

	"github.com/dukex/orpheusflows/pkg/catalog"
	"github.com/dukex/orpheusflows/pkg/identity"
	"github.com/dukex/orpheusflows/pkg/models"
)

// NewCatalog loads the catalog at path, or the built-in one when path is empty.
func NewCatalog(logger *slog.Logger, path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(logger)
	}

	return catalog.Load(logger, path)
}

// NewIdentity resolves the session user. Without a users file the user id
// doubles as the display name.
func NewIdentity(ctx context.Context, logger *slog.Logger, usersPath, userID string) (*models.User, error) {
	var provider identity.Provider = identity.NewStaticProvider(models.User{ID: userID, Name: userID})

	if usersPath != "" {
		fileProvider, err := identity.NewFileProvider(logger, usersPath)
		if err != nil {
			return nil, err
		}

		provider = fileProvider
	}

	return provider.Lookup(ctx, userID)
}
