package exec

import (
	"context"
	"sync"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

// PaperExecutor simulates a venue by holding resting orders in memory.
// Post-only and limit placements rest, IOC orders evaporate, cancels and
// cancel-all remove. Used for pre-production validation and in tests.
type PaperExecutor struct {
	mu      sync.Mutex
	resting map[string]domain.Order
	batches []Batch
}

func NewPaperExecutor() *PaperExecutor {
	return &PaperExecutor{resting: make(map[string]domain.Order)}
}

func (p *PaperExecutor) Execute(_ context.Context, batch Batch) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.batches = append(p.batches, batch)

	if batch.CancelAll {
		p.resting = make(map[string]domain.Order)
	} else {
		for _, order := range batch.Cancel {
			delete(p.resting, order.ClientID)
		}
	}

	for _, order := range batch.Place {
		if order.Type == domain.IOC {
			continue
		}
		p.resting[order.ClientID] = order
	}
	return nil
}

func (p *PaperExecutor) OpenOrders(_ context.Context) ([]domain.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.Order, 0, len(p.resting))
	for _, order := range p.resting {
		out = append(out, order)
	}
	return out, nil
}

// Fill simulates a trade by removing the order from the book.
func (p *PaperExecutor) Fill(clientID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.resting, clientID)
}

// Batches returns every batch executed so far.
func (p *PaperExecutor) Batches() []Batch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Batch{}, p.batches...)
}
