// Package app wires the market maker from configuration: logger, pulse
// history store, market data watchers, oracle price feeds and the maker
// itself.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ochaloup/mango-explorer/internal/chain"
	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/exec"
	"github.com/ochaloup/mango-explorer/internal/infra"
	"github.com/ochaloup/mango-explorer/internal/maker"
	"github.com/ochaloup/mango-explorer/internal/model"
	"github.com/ochaloup/mango-explorer/internal/reconcile"
	"github.com/ochaloup/mango-explorer/internal/storage"
	"github.com/ochaloup/mango-explorer/internal/track"
	"github.com/ochaloup/mango-explorer/internal/watch"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config *infra.Config
	Store  *storage.PulseStore
	State  *model.State
	Feeds  []*watch.PriceFeed
	Maker  *maker.Maker
}

func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads the configuration and builds everything the maker reads
// from: logger, pulse store, the model state and one price feed per
// configured oracle provider. Feeds are built but not started.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Storage.Path != "" {
		store, err := storage.NewPulseStore(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening pulse store: %w", err)
		}
		b.Store = store
		slog.Info("pulse store opened", slog.String("path", cfg.Storage.Path))
	}

	state := &model.State{
		Symbol:           cfg.Market.Pair,
		OrderOwner:       cfg.Market.Owner,
		IsPerp:           cfg.Market.IsPerp,
		BookWatcher:      watch.NewWatcher[domain.OrderBook](),
		PriceWatchers:    make(map[string]*watch.Watcher[domain.Price]),
		InventoryWatcher: watch.NewWatcher[domain.Inventory](),
		PlacedOrders:     watch.NewWatcher[[]domain.Order](),
	}
	for _, provider := range cfg.Maker.OracleProviders {
		watcher := watch.NewWatcher[domain.Price]()
		state.PriceWatchers[provider] = watcher
		b.Feeds = append(b.Feeds,
			watch.NewPriceFeed(provider, cfg.Oracles[provider].WSURL, watcher))
	}
	b.State = state

	slog.Info("bootstrap complete",
		slog.String("market", cfg.Market.Pair),
		slog.Bool("perp", cfg.Market.IsPerp),
		slog.Int("oracles", len(b.Feeds)))
	return nil
}

// BuildMaker assembles the quoting pipeline around the given executor. The
// tracker and reconciler variants follow the venue's cancel capability: a
// venue with only a cancel-all instruction needs the in-flight machinery.
func (b *Bootstrap) BuildMaker(executor exec.Executor, hooks maker.Hooks) (*maker.Maker, error) {
	cfg := b.Config
	logger := slog.Default()

	graph, err := model.NewGraph(&cfg.Maker, cfg.Market.IsPerp, logger)
	if err != nil {
		return nil, fmt.Errorf("building model graph: %w", err)
	}
	orderChain := chain.Build(&cfg.Maker, cfg.Market.IsPerp, logger)

	priceTol := cfg.Maker.PriceTolerance.Decimal
	quantityTol := cfg.Maker.QuantityTolerance.Decimal
	iocWait := time.Duration(cfg.Maker.IOCOrderWaitSeconds.InexactFloat64() * float64(time.Second))

	var tracker track.Tracker
	var reconciler reconcile.Reconciler
	if cfg.Market.VenueSupportsCancelAll {
		tracker = track.NewCancelAllTracker(logger)
		reconciler = reconcile.NewInFlightReconciler(priceTol, quantityTol, iocWait)
	} else {
		tracker = track.NewOrderTracker(
			time.Duration(cfg.Maker.ThresholdLifeInFlight)*time.Second, logger)
		reconciler = reconcile.NewToleranceReconciler(priceTol, quantityTol, iocWait)
	}

	b.Maker = maker.New(cfg, b.State, graph, orderChain, reconciler, tracker,
		executor, b.Store, hooks, logger)
	return b.Maker, nil
}

// Close releases everything Initialize opened.
func (b *Bootstrap) Close() {
	for _, feed := range b.Feeds {
		feed.Stop()
	}
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			slog.Error("failed to close pulse store", slog.Any("err", err))
		}
	}
}
