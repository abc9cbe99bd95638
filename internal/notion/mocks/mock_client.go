package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

// MockClient is a mock implementation of notion.DatabaseQuerier and notion.PageUpdater.
type MockClient struct {
	mock.Mock
}

//nolint:revive
func (m *MockClient) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

//nolint:revive
func (m *MockClient) QueryDatabase(ctx context.Context, databaseID string, q notion.Query) (*notion.Response, error) {
	args := m.Called(ctx, databaseID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notion.Response), args.Error(1)
}

//nolint:revive
func (m *MockClient) UpdatePage(ctx context.Context, pageID string, props notion.Properties) error {
	args := m.Called(ctx, pageID, props)
	return args.Error(0)
}
