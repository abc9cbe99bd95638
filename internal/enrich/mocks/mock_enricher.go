package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/lexicon/internal/enrich"
)

// MockEnricher is a mock implementation of enrich.Enricher.
type MockEnricher struct {
	mock.Mock
}

//nolint:revive
func (m *MockEnricher) Enrich(ctx context.Context, w enrich.Word) (*enrich.Enrichment, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrich.Enrichment), args.Error(1)
}
