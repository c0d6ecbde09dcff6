// Package maker runs the quoting pulse: fold fresh market data into the
// order tracker, evaluate the model graph, run the order chain, reconcile
// the result against resting orders and submit one batch of instructions.
// The caller schedules pulses and must not overlap them; everything here
// assumes a single pulse at a time.
package maker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/chain"
	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/exec"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/model"
	"github.com/ochaloup/mango-explorer/internal/reconcile"
	"github.com/ochaloup/mango-explorer/internal/storage"
	"github.com/ochaloup/mango-explorer/internal/track"
)

// Hooks observe pulse outcomes. Either hook may be nil. OnPulseComplete is
// the natural feed for an external heartbeat or health check.
type Hooks struct {
	OnPulseComplete func(at time.Time)
	OnPulseError    func(err error)
}

// Maker drives one market. It owns no goroutines of its own except the Run
// ticker loop; all collaborators are injected.
type Maker struct {
	state      *model.State
	graph      *model.Graph
	orderChain *chain.Chain
	reconciler reconcile.Reconciler
	tracker    track.Tracker
	executor   exec.Executor
	store      *storage.PulseStore

	venueSupportsCancelAll bool
	redeemThreshold        decimal.Decimal
	pollInterval           time.Duration

	hooks  Hooks
	logger *slog.Logger

	newClientID func() string
	now         func() time.Time
}

// New wires a market maker from its collaborators. store may be nil when no
// pulse history is wanted.
func New(
	cfg *infra.Config,
	state *model.State,
	graph *model.Graph,
	orderChain *chain.Chain,
	reconciler reconcile.Reconciler,
	tracker track.Tracker,
	executor exec.Executor,
	store *storage.PulseStore,
	hooks Hooks,
	logger *slog.Logger,
) *Maker {
	return &Maker{
		state:                  state,
		graph:                  graph,
		orderChain:             orderChain,
		reconciler:             reconciler,
		tracker:                tracker,
		executor:               executor,
		store:                  store,
		venueSupportsCancelAll: cfg.Market.VenueSupportsCancelAll,
		redeemThreshold:        cfg.Maker.RedeemThreshold.Decimal,
		pollInterval:           time.Duration(cfg.Maker.PollIntervalSeconds) * time.Second,
		hooks:                  hooks,
		logger:                 logger,
		newClientID:            uuid.NewString,
		now:                    time.Now,
	}
}

// Run pulses on the poll interval until the context is cancelled. Each pulse
// runs to completion on this goroutine, so pulses never overlap.
func (m *Maker) Run(ctx context.Context) {
	m.logger.Info("market maker started",
		slog.String("symbol", m.state.Symbol),
		slog.Duration("interval", m.pollInterval))

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	m.Pulse(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("market maker stopping")
			return
		case <-ticker.C:
			m.Pulse(ctx)
		}
	}
}

// Pulse runs one quoting iteration. It never returns an error: failures are
// logged, surfaced through the error hook and recorded in the pulse history,
// and the next pulse retries naturally.
func (m *Maker) Pulse(ctx context.Context) {
	rec := storage.PulseRecord{Symbol: m.state.Symbol, At: m.now()}

	err := m.runPulse(ctx, &rec)
	if err != nil {
		rec.Err = err.Error()
		if exec.IsTransient(err) {
			m.logger.Warn("pulse hit a transient venue error", slog.Any("err", err))
		} else {
			m.logger.Error("pulse failed", slog.Any("err", err))
		}
		if m.hooks.OnPulseError != nil {
			m.hooks.OnPulseError(err)
		}
	} else if m.hooks.OnPulseComplete != nil {
		m.hooks.OnPulseComplete(rec.At)
	}

	if m.store != nil {
		if serr := m.store.SavePulse(ctx, rec); serr != nil {
			m.logger.Error("failed to save pulse record", slog.Any("err", serr))
		}
	}
}

func (m *Maker) runPulse(ctx context.Context, rec *storage.PulseRecord) error {
	m.state.NotQuoting = false

	m.tracker.UpdateOnOrderbook(m.state)

	listed, err := m.executor.OpenOrders(ctx)
	if err != nil {
		return fmt.Errorf("listing open orders: %w", err)
	}
	m.tracker.UpdateOnExistingOrders(listed)
	existing := m.tracker.ExistingOrders()
	m.state.PlacedOrders.Update(existing)

	if err := m.graph.UpdateValues(m.state, existing); err != nil {
		return fmt.Errorf("updating model values: %w", err)
	}
	if m.state.Values.FairPrice != nil {
		rec.FairPrice = m.state.Values.FairPrice.String()
	}

	desired := m.orderChain.Process(m.state)

	if m.state.NotQuoting {
		m.logger.Info("not quoting, pulse aborted", slog.String("symbol", m.state.Symbol))
		return nil
	}

	reconciled, err := m.reconciler.Reconcile(m.state, existing, desired)
	if err != nil {
		return fmt.Errorf("reconciling orders: %w", err)
	}
	rec.Kept = len(reconciled.ToKeep)
	rec.Cancelled = len(reconciled.ToCancel)

	batch := exec.Batch{Crank: true, Settle: true}
	if reconciled.CancellingAll() && m.venueSupportsCancelAll {
		m.logger.Info("cancelling all orders",
			slog.String("symbol", m.state.Symbol),
			slog.Int("count", len(reconciled.ToCancel)))
		batch.CancelAll = true
	} else {
		for _, order := range reconciled.ToCancel {
			m.logger.Info("cancelling order", slog.String("order", order.String()))
			batch.Cancel = append(batch.Cancel, order)
		}
	}

	var placing []domain.Order
	for _, order := range reconciled.ToPlace {
		// A pending same-side placement means the book has not confirmed
		// the previous pulse yet. Placing again would duplicate the quote.
		if len(m.tracker.SideOrdersToBeInBook(order.Side)) > 0 {
			m.logger.Info("skipping placement, same-side order in flight",
				slog.String("order", order.String()))
			continue
		}
		withID := order.WithClientID(m.newClientID())
		m.logger.Info("placing order", slog.String("order", withID.String()))
		placing = append(placing, withID)
	}
	batch.Place = placing
	rec.Placed = len(placing)

	if !m.redeemThreshold.IsNegative() &&
		m.state.Inventory().Incentives.GreaterThan(m.redeemThreshold) {
		batch.Redeem = true
	}

	// Crank, settle and redeem ride along with order changes only.
	if len(batch.Cancel) == 0 && !batch.CancelAll && len(batch.Place) == 0 {
		return nil
	}

	if err := m.executor.Execute(ctx, batch); err != nil {
		return fmt.Errorf("executing pulse batch: %w", err)
	}

	m.tracker.UpdateOnReconcile(placing, reconciled.ToCancel)
	return nil
}

// Cleanup cancels everything resting on the venue and settles. Run before
// quoting starts and again on shutdown so no orphaned quotes stay behind.
func (m *Maker) Cleanup(ctx context.Context) error {
	orders, err := m.executor.OpenOrders(ctx)
	if err != nil {
		return fmt.Errorf("listing open orders: %w", err)
	}
	if len(orders) == 0 {
		return nil
	}

	m.logger.Info("cleaning up resting orders", slog.Int("count", len(orders)))
	batch := exec.Batch{Cancel: orders, Crank: true, Settle: true}
	if m.venueSupportsCancelAll {
		batch = exec.Batch{CancelAll: true, Crank: true, Settle: true}
	}
	if err := m.executor.Execute(ctx, batch); err != nil {
		return fmt.Errorf("cancelling resting orders: %w", err)
	}
	return nil
}

// Settle moves filled funds back to the account regardless of quoting state.
func (m *Maker) Settle(ctx context.Context) error {
	if err := m.executor.Execute(ctx, exec.Batch{Settle: true}); err != nil {
		return fmt.Errorf("settling funds: %w", err)
	}
	return nil
}
