package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

func newInFlightReconciler(priceTol, quantityTol string, wait time.Duration) (*InFlightReconciler, *fixedClock) {
	clock := newFixedClock()
	r := NewInFlightReconciler(
		decimal.RequireFromString(priceTol),
		decimal.RequireFromString(quantityTol),
		wait)
	r.now = clock.now
	r.latestTakerOrderAt[domain.Buy] = clock.at
	r.latestTakerOrderAt[domain.Sell] = clock.at
	return r, clock
}

func TestInFlightReconcilerKeepsWhenNothingDeviates(t *testing.T) {
	r, _ := newInFlightReconciler("0.01", "0.01", 0)

	existing := []domain.Order{
		order(domain.Buy, "99", "10", domain.PostOnly),
		order(domain.Sell, "101", "10", domain.PostOnly),
	}
	desired := []domain.Order{
		order(domain.Buy, "99.001", "10", domain.PostOnly),
		order(domain.Sell, "101.001", "10", domain.PostOnly),
	}

	got, err := r.Reconcile(nil, existing, desired)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ToKeep) != 2 || len(got.ToCancel) != 0 || len(got.ToPlace) != 0 || len(got.ToIgnore) != 2 {
		t.Fatalf("expected everything kept, got %+v", got)
	}
	if got.CancellingAll() {
		t.Fatal("keeping everything must not read as cancelling all")
	}
}

func TestInFlightReconcilerCancelsAllOnDeviation(t *testing.T) {
	r, _ := newInFlightReconciler("0.01", "0.01", 0)

	existing := []domain.Order{
		order(domain.Buy, "99", "10", domain.PostOnly),
		order(domain.Buy, "95", "10", domain.PostOnly),
		order(domain.Sell, "101", "10", domain.PostOnly),
	}
	// The desired buy is within tolerance of the 99 bid but not of the
	// stale 95 bid that might still be live.
	desired := []domain.Order{
		order(domain.Buy, "99.001", "10", domain.PostOnly),
		order(domain.Sell, "101.001", "10", domain.PostOnly),
	}

	got, err := r.Reconcile(nil, existing, desired)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ToCancel) != 3 || len(got.ToPlace) != 2 || len(got.ToKeep) != 0 {
		t.Fatalf("expected a full restart, got %+v", got)
	}
	if !got.CancellingAll() {
		t.Fatal("a full restart should report CancellingAll")
	}
}

func TestInFlightReconcilerCancelsAbandonedSide(t *testing.T) {
	r, _ := newInFlightReconciler("0.01", "0.01", 0)

	existing := []domain.Order{
		order(domain.Buy, "99", "10", domain.PostOnly),
		order(domain.Sell, "101", "10", domain.PostOnly),
	}
	// No desire to quote the sell side any more.
	desired := []domain.Order{
		order(domain.Buy, "99.001", "10", domain.PostOnly),
	}

	got, err := r.Reconcile(nil, existing, desired)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ToCancel) != 2 || len(got.ToPlace) != 1 || len(got.ToKeep) != 0 {
		t.Fatalf("expected the abandoned side to force a full restart, got %+v", got)
	}
}

func TestInFlightReconcilerPlacesIntoEmptySide(t *testing.T) {
	r, _ := newInFlightReconciler("0.01", "0.01", 0)

	existing := []domain.Order{
		order(domain.Buy, "99", "10", domain.PostOnly),
	}
	desired := []domain.Order{
		order(domain.Buy, "99.001", "10", domain.PostOnly),
		order(domain.Sell, "101", "10", domain.PostOnly),
	}

	got, err := r.Reconcile(nil, existing, desired)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ToKeep) != 1 || len(got.ToPlace) != 1 || len(got.ToIgnore) != 1 || len(got.ToCancel) != 0 {
		t.Fatalf("expected the empty sell side to be quoted, got %+v", got)
	}
	if got.ToPlace[0].Side != domain.Sell {
		t.Fatalf("expected a sell placement, got %s", got.ToPlace[0])
	}
}

func TestInFlightReconcilerIOCJoinsRestart(t *testing.T) {
	r, clock := newInFlightReconciler("0.01", "0.01", time.Second)
	clock.advance(2 * time.Second)

	existing := []domain.Order{
		order(domain.Buy, "95", "10", domain.PostOnly),
	}
	desired := []domain.Order{
		order(domain.Buy, "99", "10", domain.PostOnly),
		order(domain.Buy, "98", "2", domain.IOC),
	}

	got, err := r.Reconcile(nil, existing, desired)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ToCancel) != 1 || len(got.ToPlace) != 2 {
		t.Fatalf("expected restart placing both maker and taker orders, got %+v", got)
	}
}
