package mocks

import (
	"context"

	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockMedium is a mock implementation of persistence.Medium interface.
type MockMedium struct {
	mock.Mock
}

func (m *MockMedium) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)

	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockMedium) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)

	return args.Error(0)
}

func (m *MockMedium) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockMedium) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// MockStore is a mock implementation of the editor graph store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, g models.Graph) error {
	args := m.Called(ctx, g)

	return args.Error(0)
}

func (m *MockStore) Load(ctx context.Context) (*models.Graph, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Graph), args.Error(1)
}
