package infra

import (
	"testing"
	"time"
)

func TestCircuitBreaker_AllowInClosed(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("test"))

	if !cb.Allow() {
		t.Error("Allow() should be true in CLOSED state")
	}
	if cb.State() != BreakerClosed {
		t.Errorf("state = %s, want CLOSED", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          100 * time.Millisecond,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != BreakerClosed {
		t.Error("should still be CLOSED after 2 failures")
	}

	cb.RecordFailure()
	if cb.State() != BreakerOpen {
		t.Errorf("state = %s, want OPEN after 3 failures", cb.State())
	}
	if cb.Allow() {
		t.Error("Allow() should be false in OPEN state")
	}
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
	})

	cb.RecordFailure()
	if cb.State() != BreakerOpen {
		t.Fatalf("state = %s, want OPEN", cb.State())
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("Allow() should be true after the open timeout")
	}
	if cb.State() != BreakerHalfOpen {
		t.Fatalf("state = %s, want HALF_OPEN", cb.State())
	}

	cb.RecordSuccess()
	cb.RecordSuccess()
	if cb.State() != BreakerClosed {
		t.Errorf("state = %s, want CLOSED after recovery", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
	})

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	cb.Allow() // transitions to half-open

	cb.RecordFailure()
	if cb.State() != BreakerOpen {
		t.Errorf("state = %s, want OPEN after half-open failure", cb.State())
	}
}
