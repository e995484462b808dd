package models

import (
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/scenario"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/twap"
)

// QuoteRequest echoes the trade a quote was computed for
type QuoteRequest struct {
	ReserveIn   string `json:"reserve_in"`   // e.g., "1000"
	ReserveOut  string `json:"reserve_out"`  // e.g., "1000"
	AmountIn    string `json:"amount_in"`    // e.g., "100"
	Direction   string `json:"direction"`    // "buy" or "sell"
	SlippageBps int    `json:"slippage_bps"` // e.g., 200 (2%)
}

// Quote is the JSON view of a swap breakdown. Amounts are decimal strings
// so no precision is lost on the way to the client.
type Quote struct {
	Request        QuoteRequest `json:"request"`
	ExactAmountOut string       `json:"exact_amount_out"`
	MinAmountOut   string       `json:"min_amount_out"`  // pass to the swap instruction
	AmmFee         string       `json:"amm_fee"`         // input asset for buys, output asset for sells
	NewReserveIn   string       `json:"new_reserve_in"`  // reserves after settlement
	NewReserveOut  string       `json:"new_reserve_out"`
	StartPrice     string       `json:"start_price"`     // quote per asset before the trade
	FinalPrice     string       `json:"final_price"`     // quote per asset after the trade
	AveragePrice   string       `json:"average_price"`   // quote per asset paid or received
	PriceImpact    string       `json:"price_impact"`    // signed percent, e.g., "20.934008999"
	ImpactSeverity string       `json:"impact_severity"` // none, low, moderate, high, extreme
}

// ScenarioLeg is one trade of a scenario run
type ScenarioLeg struct {
	Index       int    `json:"index"`
	Quote       Quote  `json:"quote"`
	Observation string `json:"oracle_observation,omitempty"` // raw oracle value recorded before the trade
}

// ScenarioResult is the JSON view of a scenario run
type ScenarioResult struct {
	Name       string        `json:"name,omitempty"`
	StartQuote string        `json:"start_quote_reserve"`
	StartAsset string        `json:"start_asset_reserve"`
	FinalQuote string        `json:"final_quote_reserve"`
	FinalAsset string        `json:"final_asset_reserve"`
	Legs       []ScenarioLeg `json:"legs"`
	TWAP       string        `json:"twap,omitempty"` // raw oracle TWAP, empty until the oracle has started
	TWAPPrice  string        `json:"twap_price,omitempty"`
}

// NewQuote converts a breakdown computed for params.
func NewQuote(params amm.SwapParams, b amm.SwapBreakdown) Quote {
	return Quote{
		Request: QuoteRequest{
			ReserveIn:   params.ReserveIn.String(),
			ReserveOut:  params.ReserveOut.String(),
			AmountIn:    params.AmountIn.String(),
			Direction:   params.Direction().String(),
			SlippageBps: params.SlippageBps,
		},
		ExactAmountOut: b.ExactAmountOut.String(),
		MinAmountOut:   b.MinAmountOut.String(),
		AmmFee:         b.AmmFee.String(),
		NewReserveIn:   b.NewReserveIn.String(),
		NewReserveOut:  b.NewReserveOut.String(),
		StartPrice:     b.StartPrice.String(),
		FinalPrice:     b.FinalPrice.String(),
		AveragePrice:   b.AveragePrice.String(),
		PriceImpact:    b.PriceImpact.String(),
		ImpactSeverity: string(amm.ClassifyImpact(b.PriceImpact)),
	}
}

// NewScenarioResult converts a scenario run. oracleSpec may be nil.
func NewScenarioResult(r *scenario.Result, oracleSpec *scenario.OracleSpec) ScenarioResult {
	out := ScenarioResult{
		Name:       r.Name,
		StartQuote: r.Start.Quote.String(),
		StartAsset: r.Start.Asset.String(),
		FinalQuote: r.Final.Quote.String(),
		FinalAsset: r.Final.Asset.String(),
		Legs:       make([]ScenarioLeg, 0, len(r.Legs)),
	}

	pool := r.Start
	for _, leg := range r.Legs {
		sl := ScenarioLeg{
			Index: leg.Index,
			Quote: NewQuote(pool.Params(leg.Trade), leg.Breakdown),
		}
		if leg.Observation != nil {
			sl.Observation = leg.Observation.Dec()
		}
		out.Legs = append(out.Legs, sl)
		pool = nextPool(leg)
	}

	if r.Oracle != nil && oracleSpec != nil {
		if avg, err := r.Oracle.TWAP(); err == nil {
			out.TWAP = avg.Dec()
			out.TWAPPrice = twap.UIPrice(avg, oracleSpec.BaseDecimals, oracleSpec.QuoteDecimals).String()
		}
	}
	return out
}

func nextPool(leg scenario.Leg) amm.Pool {
	if leg.Trade.IsBuy {
		return amm.Pool{Quote: leg.Breakdown.NewReserveIn, Asset: leg.Breakdown.NewReserveOut}
	}
	return amm.Pool{Quote: leg.Breakdown.NewReserveOut, Asset: leg.Breakdown.NewReserveIn}
}
