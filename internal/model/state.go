package model

import (
	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/watch"
)

// State is the snapshot of market data a pulse works from. The watchers are
// owned by the market data layer and updated concurrently; reading through
// State gives the pulse the latest value each watcher has seen. Everything
// derived during the pulse accumulates in Values.
type State struct {
	Symbol     string
	OrderOwner string
	IsPerp     bool

	BookWatcher      *watch.Watcher[domain.OrderBook]
	PriceWatchers    map[string]*watch.Watcher[domain.Price]
	InventoryWatcher *watch.Watcher[domain.Inventory]
	PlacedOrders     *watch.Watcher[[]domain.Order]

	// NotQuoting is a cooperative short-circuit any pipeline stage may set.
	// The pulse checks it once, after the chain has run, and aborts with no
	// venue action for this pulse. Existing orders are left untouched.
	NotQuoting bool

	Values Values
}

// Book returns the latest order book snapshot.
func (s *State) Book() domain.OrderBook {
	return s.BookWatcher.Latest()
}

// Price returns the latest oracle price from the named provider.
func (s *State) Price(provider string) (domain.Price, bool) {
	w, ok := s.PriceWatchers[provider]
	if !ok || !w.Ready() {
		return domain.Price{}, false
	}
	return w.Latest(), true
}

// Inventory returns the latest account balances.
func (s *State) Inventory() domain.Inventory {
	return s.InventoryWatcher.Latest()
}
