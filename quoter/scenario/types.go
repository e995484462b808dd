package scenario

// Scenario is a pool snapshot followed by trades that settle against it in
// order.
type Scenario struct {
	Name   string      `toml:"name"`
	Pool   PoolSpec    `toml:"pool"`
	Oracle *OracleSpec `toml:"oracle"`
	Trades []TradeSpec `toml:"trades"`
}

// PoolSpec holds the starting reserves in human units.
type PoolSpec struct {
	Quote string `toml:"quote"`
	Asset string `toml:"asset"`
}

// OracleSpec describes the pool's TWAP oracle. Observations are raw u128
// values written as decimal strings since they do not fit TOML integers.
type OracleSpec struct {
	CreatedAt                     int64  `toml:"created_at"`
	InitialObservation            string `toml:"initial_observation"`
	MaxObservationChangePerUpdate string `toml:"max_observation_change_per_update"`
	StartDelaySeconds             uint32 `toml:"start_delay_seconds"`
	QuoteDecimals                 int32  `toml:"quote_decimals"`
	BaseDecimals                  int32  `toml:"base_decimals"`
}

// TradeSpec is a single trade. SlippageBps falls back to the configured
// default when omitted.
type TradeSpec struct {
	Side        string `toml:"side"` // "buy" or "sell"
	Amount      string `toml:"amount"`
	SlippageBps *int   `toml:"slippage_bps"`
	Timestamp   int64  `toml:"timestamp"`
}

const (
	SideBuy  = "buy"
	SideSell = "sell"
)
