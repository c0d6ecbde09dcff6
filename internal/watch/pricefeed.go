package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/ochaloup/mango-explorer/internal/domain"
	"github.com/ochaloup/mango-explorer/internal/infra"
)

// priceFrame is the generic quote frame the feed expects from a provider
// stream. Provider-specific shapes are translated upstream of this worker.
type priceFrame struct {
	Bid string `json:"bid"`
	Ask string `json:"ask"`
}

// PriceFeed keeps one oracle provider's Watcher fresh over a WebSocket
// stream. It reconnects with exponential backoff and trips a circuit breaker
// when the provider keeps failing, so a flapping oracle cannot hot-loop us.
type PriceFeed struct {
	provider string
	url      string
	watcher  *Watcher[domain.Price]
	breaker  *infra.CircuitBreaker

	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	ReadTimeout  time.Duration
	PingInterval time.Duration
}

// NewPriceFeed creates a feed worker for one provider.
func NewPriceFeed(provider, url string, watcher *Watcher[domain.Price]) *PriceFeed {
	return &PriceFeed{
		provider:     provider,
		url:          url,
		watcher:      watcher,
		breaker:      infra.NewCircuitBreaker(infra.DefaultCircuitBreakerConfig("pricefeed-" + provider)),
		ReadTimeout:  60 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// Watcher returns the latest-value holder this feed updates.
func (f *PriceFeed) Watcher() *Watcher[domain.Price] { return f.watcher }

// Start initiates the connect/read loop.
func (f *PriceFeed) Start(ctx context.Context) {
	ctx, f.cancel = context.WithCancel(ctx)
	f.wg.Add(1)
	go f.runLoop(ctx)
}

// Stop terminates the worker and waits for the loop to exit.
func (f *PriceFeed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.close()
	f.wg.Wait()
}

func (f *PriceFeed) runLoop(ctx context.Context) {
	defer f.wg.Done()
	retry := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !f.breaker.Allow() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
				continue
			}
		}

		if err := f.connect(ctx); err != nil {
			slog.Warn("price feed connection failed",
				"provider", f.provider, "err", err, "retry", retry)
			f.breaker.RecordFailure()
			delay := infra.CalculateBackoff(retry)
			retry++

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		retry = 0
		f.breaker.RecordSuccess()
		f.process(ctx)
	}
}

func (f *PriceFeed) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.url, http.Header{})
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	if f.PingInterval > 0 {
		go f.pingLoop(ctx)
	}

	slog.Info("price feed connected", "provider", f.provider)
	return nil
}

func (f *PriceFeed) process(ctx context.Context) {
	for {
		f.mu.RLock()
		c := f.conn
		f.mu.RUnlock()
		if c == nil {
			return
		}

		c.SetReadDeadline(time.Now().Add(f.ReadTimeout))
		_, msg, err := c.ReadMessage()
		if err != nil {
			slog.Warn("price feed read error", "provider", f.provider, "err", err)
			f.close()
			return
		}

		f.onMessage(msg)
	}
}

func (f *PriceFeed) onMessage(msg []byte) {
	var frame priceFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		slog.Warn("price feed bad frame", "provider", f.provider, "err", err)
		return
	}

	bid, err := decimal.NewFromString(frame.Bid)
	if err != nil {
		slog.Warn("price feed bad bid", "provider", f.provider, "bid", frame.Bid)
		return
	}
	ask, err := decimal.NewFromString(frame.Ask)
	if err != nil {
		slog.Warn("price feed bad ask", "provider", f.provider, "ask", frame.Ask)
		return
	}

	f.watcher.Update(domain.Price{Bid: bid, Ask: ask})
}

func (f *PriceFeed) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(f.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.mu.RLock()
			c := f.conn
			f.mu.RUnlock()
			if c == nil {
				return
			}
			if err := f.write(c, websocket.PingMessage, nil); err != nil {
				slog.Warn("price feed ping error", "provider", f.provider, "err", err)
				f.close()
				return
			}
		}
	}
}

func (f *PriceFeed) write(c *websocket.Conn, msgType int, data []byte) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	if c == nil {
		return fmt.Errorf("ws not connected")
	}
	return c.WriteMessage(msgType, data)
}

func (f *PriceFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
}
