package exec

import (
	"context"
	"log/slog"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

// MockExecutor only logs what it is asked to do. Safe default for dry runs.
type MockExecutor struct {
	logger *slog.Logger
}

func NewMockExecutor(logger *slog.Logger) *MockExecutor {
	return &MockExecutor{logger: logger}
}

func (m *MockExecutor) Execute(_ context.Context, batch Batch) error {
	for _, order := range batch.Cancel {
		m.logger.Info("MOCK: cancel order", "order", order.String())
	}
	if batch.CancelAll {
		m.logger.Info("MOCK: cancel all orders")
	}
	for _, order := range batch.Place {
		m.logger.Info("MOCK: place order", "order", order.String())
	}
	if batch.Crank {
		m.logger.Info("MOCK: crank event queue")
	}
	if batch.Settle {
		m.logger.Info("MOCK: settle funds")
	}
	if batch.Redeem {
		m.logger.Info("MOCK: redeem liquidity incentives")
	}
	return nil
}

func (m *MockExecutor) OpenOrders(_ context.Context) ([]domain.Order, error) {
	return nil, nil
}
