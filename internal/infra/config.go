package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ochaloup/mango-explorer/internal/domain"
)

// Decimal wraps shopspring decimal so policy knobs survive YAML without a
// float round-trip. Methods of the embedded decimal are promoted.
type Decimal struct {
	decimal.Decimal
}

// Dec builds a config Decimal from a literal, mostly for tests and defaults.
func Dec(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("bad decimal literal %q: %v", s, err))
	}
	return Decimal{d}
}

// UnmarshalYAML parses the scalar as an exact decimal. Reading the node
// value directly keeps unquoted YAML numbers off the float path.
func (d *Decimal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("decimal value must be a scalar, got %v", node.Kind)
	}
	parsed, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("parsing decimal %q: %w", node.Value, err)
	}
	d.Decimal = parsed
	return nil
}

// MarketConfig identifies the market and the venue's capabilities.
type MarketConfig struct {
	Pair   string `yaml:"pair"`
	IsPerp bool   `yaml:"is_perp"`
	// VenueSupportsCancelAll selects the cancel-all order tracker and the
	// in-flight reconciler instead of the per-order variants.
	VenueSupportsCancelAll bool `yaml:"venue_supports_cancel_all"`
	// Owner is our identity in the book, used to skip our own resting
	// orders in book-derived computations.
	Owner string `yaml:"owner"`
}

// MakerConfig is the flat record of numeric policy knobs driving the
// quoting model, the order chain, the reconciler and the tracker.
type MakerConfig struct {
	SpreadRatio             Decimal   `yaml:"spread_ratio"`
	Leverage                Decimal   `yaml:"leverage"`
	PositionSizeRatios      []Decimal `yaml:"position_size_ratios"`
	MinQuoteSize            Decimal   `yaml:"min_quote_size"`
	EWMAHalflife            Decimal   `yaml:"ewma_halflife"`
	EWMAWeight              Decimal   `yaml:"ewma_weight"`
	OracleProviders         []string  `yaml:"oracle_providers"`
	PriceWeights            []Decimal `yaml:"price_weights"`
	PriceCenterVolume       Decimal   `yaml:"price_center_volume"`
	BookQuoteCutoff         Decimal   `yaml:"book_quote_cutoff"`
	MaxOrderDepth           Decimal   `yaml:"max_order_depth"`
	BookSpreadCoef          Decimal   `yaml:"book_spread_coef"`
	HedgePriceBiasFactor    Decimal   `yaml:"hedge_price_bias_factor"`
	SpreadNarrowingCoef     Decimal   `yaml:"spread_narrowing_coef"`
	MinPriceIncrementRatio  Decimal   `yaml:"min_price_increment_ratio"`
	TakerQuantityProportion Decimal   `yaml:"taker_quantity_proportion"`
	// TakerMinProfitability below zero disables the taker chain.
	TakerMinProfitability Decimal `yaml:"taker_min_profitability"`
	// RedeemThreshold below zero disables incentive redemption.
	RedeemThreshold     Decimal `yaml:"redeem_threshold"`
	IOCOrderWaitSeconds Decimal `yaml:"ioc_order_wait_seconds"`
	PriceTolerance      Decimal `yaml:"price_tolerance"`
	QuantityTolerance   Decimal `yaml:"quantity_tolerance"`
	// ThresholdLifeInFlight is how long (seconds) an unconfirmed order may
	// be tracked before the tracker forgets it.
	ThresholdLifeInFlight int `yaml:"threshold_life_in_flight"`
	PollIntervalSeconds   int `yaml:"poll_interval_seconds"`
}

// OracleConfig points at one provider's quote stream.
type OracleConfig struct {
	WSURL string `yaml:"ws_url"`
}

// Config is the whole application configuration.
type Config struct {
	Market  MarketConfig            `yaml:"market"`
	Maker   MakerConfig             `yaml:"maker"`
	Oracles map[string]OracleConfig `yaml:"oracles"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Maker.TakerMinProfitability = Dec("-1")
	cfg.Maker.RedeemThreshold = Dec("-1")
	cfg.Maker.PriceCenterVolume = Dec("1000")
	cfg.Maker.BookQuoteCutoff = Dec("1000")
	cfg.Maker.MinPriceIncrementRatio = Dec("0.00005")
	cfg.Maker.EWMAWeight = Dec("1")
	cfg.Maker.Leverage = Dec("1")
	cfg.Maker.ThresholdLifeInFlight = 60
	cfg.Maker.PollIntervalSeconds = 10
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// LoadConfig reads, parses and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate applies the startup-fatal policy checks. Any failure is a
// domain.ConfigurationError; the process must not start on one.
func (c *Config) Validate() error {
	m := &c.Maker

	if c.Market.Pair == "" {
		return domain.NewConfigurationError("market.pair", "must be set")
	}
	if m.EWMAHalflife.IsNegative() {
		return domain.NewConfigurationError("ewma_halflife", "must be >= 0, got %s", m.EWMAHalflife)
	}
	if len(m.OracleProviders) == 0 {
		return domain.NewConfigurationError("oracle_providers", "at least one provider is required")
	}
	if len(m.OracleProviders) != len(m.PriceWeights) {
		return domain.NewConfigurationError("price_weights",
			"got %d weights for %d providers", len(m.PriceWeights), len(m.OracleProviders))
	}
	weightSum := decimal.Zero
	for _, w := range m.PriceWeights {
		weightSum = weightSum.Add(w.Decimal)
	}
	if weightSum.IsNegative() || weightSum.GreaterThan(decimal.NewFromInt(1)) {
		return domain.NewConfigurationError("price_weights",
			"sum %s is outside [0,1]", weightSum)
	}
	for _, provider := range m.OracleProviders {
		if _, ok := c.Oracles[provider]; !ok {
			return domain.NewConfigurationError("oracles",
				"provider %q has a price weight but no oracle mapping", provider)
		}
	}
	if len(m.PositionSizeRatios) != 2 {
		return domain.NewConfigurationError("position_size_ratios",
			"need exactly 2 (bid, ask), got %d", len(m.PositionSizeRatios))
	}
	for _, r := range m.PositionSizeRatios {
		if r.IsNegative() {
			return domain.NewConfigurationError("position_size_ratios", "must be >= 0, got %s", r)
		}
	}
	if m.Leverage.LessThan(decimal.NewFromInt(1)) {
		return domain.NewConfigurationError("leverage", "must be >= 1, got %s", m.Leverage)
	}
	if m.MinQuoteSize.IsNegative() {
		return domain.NewConfigurationError("min_quote_size", "must be >= 0, got %s", m.MinQuoteSize)
	}
	if !m.PriceCenterVolume.IsPositive() {
		return domain.NewConfigurationError("price_center_volume", "must be > 0, got %s", m.PriceCenterVolume)
	}
	if !m.BookQuoteCutoff.IsPositive() {
		return domain.NewConfigurationError("book_quote_cutoff", "must be > 0, got %s", m.BookQuoteCutoff)
	}
	if m.PriceTolerance.IsNegative() || m.QuantityTolerance.IsNegative() {
		return domain.NewConfigurationError("price_tolerance",
			"tolerances must be >= 0, got %s / %s", m.PriceTolerance, m.QuantityTolerance)
	}
	// A quote nudged by one minimum increment must still match its resting
	// counterpart, or every pulse cancels and replaces the whole book.
	if m.PriceTolerance.LessThan(m.MinPriceIncrementRatio.Decimal) {
		return domain.NewConfigurationError("price_tolerance",
			"%s is below min_price_increment_ratio %s", m.PriceTolerance, m.MinPriceIncrementRatio)
	}
	if m.IOCOrderWaitSeconds.IsNegative() {
		return domain.NewConfigurationError("ioc_order_wait_seconds", "must be >= 0, got %s", m.IOCOrderWaitSeconds)
	}
	if m.ThresholdLifeInFlight <= 0 {
		return domain.NewConfigurationError("threshold_life_in_flight", "must be > 0, got %d", m.ThresholdLifeInFlight)
	}
	if m.PollIntervalSeconds <= 0 {
		return domain.NewConfigurationError("poll_interval_seconds", "must be > 0, got %d", m.PollIntervalSeconds)
	}
	return nil
}
