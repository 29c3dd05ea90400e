package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lorrc/cw-dashboard/internal/core/domain"
	"github.com/lorrc/cw-dashboard/internal/core/ports"
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) GetTickets(ctx context.Context, query ports.TicketQuery) ([]domain.Ticket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// MockStaleViewBuilder is a mock implementation of ports.StaleViewBuilder
type MockStaleViewBuilder struct {
	mock.Mock
}

func NewMockStaleViewBuilder() *MockStaleViewBuilder {
	return &MockStaleViewBuilder{}
}

func (m *MockStaleViewBuilder) Build(ctx context.Context, now time.Time) (*domain.StaleView, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaleView), args.Error(1)
}

// MockClosedTrendBuilder is a mock implementation of ports.ClosedTrendBuilder
type MockClosedTrendBuilder struct {
	mock.Mock
}

func NewMockClosedTrendBuilder() *MockClosedTrendBuilder {
	return &MockClosedTrendBuilder{}
}

func (m *MockClosedTrendBuilder) Build(ctx context.Context, now time.Time) (*domain.ClosedTrend, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosedTrend), args.Error(1)
}
