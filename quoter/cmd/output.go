package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/models"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/scenario"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func writeQuoteJSON(w io.Writer, params amm.SwapParams, b amm.SwapBreakdown) error {
	return writeJSON(w, models.NewQuote(params, b))
}

func writeScenarioJSON(w io.Writer, r *scenario.Result, oracle *scenario.OracleSpec) error {
	return writeJSON(w, models.NewScenarioResult(r, oracle))
}

func writeQuoteTable(w io.Writer, params amm.SwapParams, b amm.SwapBreakdown) error {
	q := models.NewQuote(params, b)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Direction", q.Request.Direction},
		{"Amount in", q.Request.AmountIn},
		{"Amount out", q.ExactAmountOut},
		{"Min amount out", fmt.Sprintf("%s (%d bps)", q.MinAmountOut, q.Request.SlippageBps)},
		{"Fee", q.AmmFee},
		{"Start price", q.StartPrice},
		{"Average price", q.AveragePrice},
		{"Final price", q.FinalPrice},
		{"Price impact", fmt.Sprintf("%s%% (%s)", q.PriceImpact, q.ImpactSeverity)},
		{"Reserves", fmt.Sprintf("%s / %s -> %s / %s",
			q.Request.ReserveIn, q.Request.ReserveOut, q.NewReserveIn, q.NewReserveOut)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func writeScenarioTable(w io.Writer, r *scenario.Result, oracle *scenario.OracleSpec) error {
	res := models.NewScenarioResult(r, oracle)
	if res.Name != "" {
		fmt.Fprintf(w, "Scenario: %s\n", res.Name)
	}
	fmt.Fprintf(w, "Pool: %s quote / %s asset\n\n", res.StartQuote, res.StartAsset)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSIDE\tIN\tOUT\tMIN OUT\tFEE\tAVG PRICE\tIMPACT %\tOBSERVATION")
	for _, leg := range res.Legs {
		observation := "-"
		if leg.Observation != "" {
			observation = leg.Observation
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			leg.Index,
			leg.Quote.Request.Direction,
			leg.Quote.Request.AmountIn,
			leg.Quote.ExactAmountOut,
			leg.Quote.MinAmountOut,
			leg.Quote.AmmFee,
			leg.Quote.AveragePrice,
			leg.Quote.PriceImpact,
			observation,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nFinal pool: %s quote / %s asset\n", res.FinalQuote, res.FinalAsset)
	if res.TWAP != "" {
		fmt.Fprintf(w, "TWAP: %s (%s)\n", res.TWAPPrice, res.TWAP)
	}
	return nil
}
