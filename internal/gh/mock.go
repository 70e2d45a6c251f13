package gh

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fleetvars/internal/testutil"
)

// MockClient is a mock implementation of the Client interface
type MockClient struct {
	mock.Mock
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ListRepositories mock implementation
func (m *MockClient) ListRepositories(ctx context.Context, owner string) ([]Repo, error) {
	args := m.Called(ctx, owner)
	return testutil.ExtractResult[[]Repo](args)
}

// ItemExists mock implementation
func (m *MockClient) ItemExists(ctx context.Context, repo Repo, kind ItemKind, name string) (bool, error) {
	args := m.Called(ctx, repo, kind, name)
	return args.Bool(0), args.Error(1)
}

// SetItem mock implementation
func (m *MockClient) SetItem(ctx context.Context, repo Repo, kind ItemKind, name, value string) error {
	args := m.Called(ctx, repo, kind, name, value)
	return args.Error(0)
}

// DeleteItem mock implementation
func (m *MockClient) DeleteItem(ctx context.Context, repo Repo, kind ItemKind, name string) error {
	args := m.Called(ctx, repo, kind, name)
	return args.Error(0)
}
