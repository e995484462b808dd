package scenario

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/twap"
)

// Leg is the outcome of one trade in a scenario.
type Leg struct {
	Index     int
	Trade     amm.Trade
	Breakdown amm.SwapBreakdown

	// Set only when the scenario has an oracle and the trade recorded an
	// observation.
	Observation *uint256.Int
}

// Result is the outcome of a full scenario run.
type Result struct {
	Name  string
	Start amm.Pool
	Final amm.Pool
	Legs  []Leg

	// nil when the scenario has no oracle
	Oracle *twap.Oracle
}

// StartPool returns the starting reserves.
func (s *Scenario) StartPool() (amm.Pool, error) {
	quote, err := decimal.NewFromString(s.Pool.Quote)
	if err != nil {
		return amm.Pool{}, fmt.Errorf("pool.quote: %w", err)
	}
	asset, err := decimal.NewFromString(s.Pool.Asset)
	if err != nil {
		return amm.Pool{}, fmt.Errorf("pool.asset: %w", err)
	}
	return amm.Pool{Quote: quote, Asset: asset}, nil
}

// AMMTrades converts the trade list, filling in defaultSlippageBps where a
// trade does not set its own.
func (s *Scenario) AMMTrades(defaultSlippageBps int) ([]amm.Trade, error) {
	trades := make([]amm.Trade, 0, len(s.Trades))
	for i, t := range s.Trades {
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("trades[%d].amount: %w", i, err)
		}
		slippage := defaultSlippageBps
		if t.SlippageBps != nil {
			slippage = *t.SlippageBps
		}
		trades = append(trades, amm.Trade{
			AmountIn:    amount,
			IsBuy:       t.Side == SideBuy,
			SlippageBps: slippage,
		})
	}
	return trades, nil
}

// NewOracle builds the oracle as it stands at pool creation.
func (o *OracleSpec) NewOracle() (twap.Oracle, error) {
	initial, err := parseU128(o.InitialObservation)
	if err != nil {
		return twap.Oracle{}, fmt.Errorf("initial_observation: %w", err)
	}
	maxChange, err := parseU128(o.MaxObservationChangePerUpdate)
	if err != nil {
		return twap.Oracle{}, fmt.Errorf("max_observation_change_per_update: %w", err)
	}
	return twap.NewOracle(o.CreatedAt, initial, maxChange, o.StartDelaySeconds), nil
}

// Simulate runs every trade against the reserves left by the one before it.
// With an oracle configured, each trade first feeds the oracle the pre-trade
// reserves at its timestamp, as the ledger does.
func Simulate(s *Scenario, defaultSlippageBps int) (*Result, error) {
	pool, err := s.StartPool()
	if err != nil {
		return nil, err
	}
	trades, err := s.AMMTrades(defaultSlippageBps)
	if err != nil {
		return nil, err
	}

	result := &Result{Name: s.Name, Start: pool}

	if s.Oracle == nil {
		breakdowns, final, err := amm.SimulateTrades(pool, trades)
		result.Legs = legsFrom(trades, breakdowns)
		result.Final = final
		if err != nil {
			return result, err
		}
		return result, nil
	}

	oracle, err := s.Oracle.NewOracle()
	if err != nil {
		return nil, err
	}

	for i, t := range trades {
		quoteRaw, err := twap.RawUnits(pool.Quote, s.Oracle.QuoteDecimals)
		if err != nil {
			return result, fmt.Errorf("trade %d: quote reserves: %w", i, err)
		}
		baseRaw, err := twap.RawUnits(pool.Asset, s.Oracle.BaseDecimals)
		if err != nil {
			return result, fmt.Errorf("trade %d: asset reserves: %w", i, err)
		}

		leg := Leg{Index: i, Trade: t}
		next, recorded := oracle.Update(quoteRaw, baseRaw, s.Trades[i].Timestamp)
		if recorded {
			leg.Observation = next.LastObservation.Clone()
			log.Debug().
				Int("trade", i).
				Int64("timestamp", s.Trades[i].Timestamp).
				Str("observation", leg.Observation.Dec()).
				Msg("oracle observation recorded")
		}

		breakdown, after, err := pool.Apply(t)
		if err != nil {
			result.Final = pool
			result.Oracle = &oracle
			return result, fmt.Errorf("trade %d: %w", i, err)
		}
		leg.Breakdown = breakdown
		result.Legs = append(result.Legs, leg)
		oracle = next
		pool = after
	}

	result.Final = pool
	result.Oracle = &oracle
	return result, nil
}

func legsFrom(trades []amm.Trade, breakdowns []amm.SwapBreakdown) []Leg {
	legs := make([]Leg, 0, len(breakdowns))
	for i, b := range breakdowns {
		legs = append(legs, Leg{Index: i, Trade: trades[i], Breakdown: b})
	}
	return legs
}

func parseU128(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, err
	}
	if v.BitLen() > 128 {
		return nil, fmt.Errorf("%s does not fit in 128 bits", s)
	}
	return v, nil
}
