package amm

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pool is a two-sided reserve snapshot in human units, keyed by asset role
// rather than by trade direction.
type Pool struct {
	Quote decimal.Decimal
	Asset decimal.Decimal
}

// Trade is one leg of a simulated sequence.
type Trade struct {
	AmountIn    decimal.Decimal
	IsBuy       bool
	SlippageBps int
}

// SpotPrice returns quote units per asset unit at the current reserves,
// floored at the ninth fractional digit.
func (p Pool) SpotPrice() (decimal.Decimal, error) {
	quote, err := ToScaledDecimal(p.Quote)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote reserve: %w", err)
	}
	asset, err := ToScaledDecimal(p.Asset)
	if err != nil {
		return decimal.Zero, fmt.Errorf("asset reserve: %w", err)
	}
	price, err := MulDivFloor(quote, scale, asset)
	if err != nil {
		return decimal.Zero, err
	}
	return FromScaled(price), nil
}

// Params orients the pool for t: buys spend quote, sells spend asset.
func (p Pool) Params(t Trade) SwapParams {
	params := SwapParams{
		AmountIn:    t.AmountIn,
		IsBuy:       t.IsBuy,
		SlippageBps: t.SlippageBps,
	}
	if t.IsBuy {
		params.ReserveIn, params.ReserveOut = p.Quote, p.Asset
	} else {
		params.ReserveIn, params.ReserveOut = p.Asset, p.Quote
	}
	return params
}

// Apply quotes t against p and returns the pool as it would be after t
// settles.
func (p Pool) Apply(t Trade) (SwapBreakdown, Pool, error) {
	breakdown, err := CalculateSwapBreakdown(p.Params(t))
	if err != nil {
		return SwapBreakdown{}, p, err
	}

	next := Pool{Quote: breakdown.NewReserveIn, Asset: breakdown.NewReserveOut}
	if !t.IsBuy {
		next = Pool{Quote: breakdown.NewReserveOut, Asset: breakdown.NewReserveIn}
	}
	return breakdown, next, nil
}

// SimulateTrades applies trades in order, each against the reserves left by
// the previous one. On error it returns the breakdowns computed so far and
// the pool before the failing trade.
func SimulateTrades(pool Pool, trades []Trade) ([]SwapBreakdown, Pool, error) {
	breakdowns := make([]SwapBreakdown, 0, len(trades))
	for i, t := range trades {
		breakdown, next, err := pool.Apply(t)
		if err != nil {
			return breakdowns, pool, fmt.Errorf("trade %d: %w", i, err)
		}
		breakdowns = append(breakdowns, breakdown)
		pool = next
	}
	return breakdowns, pool, nil
}
