package amm

import "github.com/shopspring/decimal"

// SwapParams describes one trade in human units.
type SwapParams struct {
	ReserveIn  decimal.Decimal
	ReserveOut decimal.Decimal
	AmountIn   decimal.Decimal
	// IsBuy is true when the quote asset is spent to acquire the base asset.
	IsBuy bool
	// SlippageBps bounds the accepted shortfall against ExactAmountOut.
	SlippageBps int
}

// Direction returns the TradeDirection selected by IsBuy.
func (p SwapParams) Direction() TradeDirection {
	return DirectionFromBuy(p.IsBuy)
}

// SwapBreakdown is the predicted settlement of a trade.
type SwapBreakdown struct {
	ExactAmountOut decimal.Decimal
	// MinAmountOut is the revert guard to pass to the settlement transaction.
	MinAmountOut decimal.Decimal
	// AmmFee is denominated in the input asset for buys and in the output
	// asset for sells.
	AmmFee        decimal.Decimal
	NewReserveIn  decimal.Decimal
	NewReserveOut decimal.Decimal
	StartPrice    decimal.Decimal
	FinalPrice    decimal.Decimal
	AveragePrice  decimal.Decimal
	// PriceImpact is a signed percentage, positive when the trade pushes the
	// asset price up.
	PriceImpact decimal.Decimal
}

// CalculateSwapBreakdown predicts the result of swapping params.AmountIn
// against the pool. It is a pure function of its input.
func CalculateSwapBreakdown(params SwapParams) (SwapBreakdown, error) {
	if err := validateParams(params); err != nil {
		return SwapBreakdown{}, err
	}

	breakdown, err := calculate(params)
	if err != nil {
		if isInvariantError(err) {
			log.Error().
				Err(err).
				Str("reserve_in", params.ReserveIn.String()).
				Str("reserve_out", params.ReserveOut.String()).
				Str("amount_in", params.AmountIn.String()).
				Str("direction", params.Direction().String()).
				Int("slippage_bps", params.SlippageBps).
				Msg("swap breakdown hit an unreachable invariant")
		}
		return SwapBreakdown{}, err
	}
	return breakdown, nil
}

func validateParams(params SwapParams) error {
	if params.AmountIn.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if params.ReserveIn.Sign() <= 0 || params.ReserveOut.Sign() <= 0 {
		return ErrInvalidPoolState
	}
	if params.SlippageBps < 0 || params.SlippageBps >= MaxBps {
		return ErrInvalidSlippage
	}
	return nil
}

func calculate(params SwapParams) (SwapBreakdown, error) {
	reserveIn, err := ToScaledDecimal(params.ReserveIn)
	if err != nil {
		return SwapBreakdown{}, err
	}
	reserveOut, err := ToScaledDecimal(params.ReserveOut)
	if err != nil {
		return SwapBreakdown{}, err
	}
	amountIn, err := ToScaledDecimal(params.AmountIn)
	if err != nil {
		return SwapBreakdown{}, err
	}
	// Reserves below the scale's precision floor truncate to zero.
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return SwapBreakdown{}, ErrInvalidPoolState
	}

	dir := params.Direction()
	amounts, err := computeSwapAmounts(amountIn, reserveIn, reserveOut, dir)
	if err != nil {
		return SwapBreakdown{}, err
	}

	minOut, err := MinAmountOut(amounts.exactAmountOut, params.SlippageBps)
	if err != nil {
		return SwapBreakdown{}, err
	}

	prices, err := computePriceMetrics(reserveIn, reserveOut, amounts, dir)
	if err != nil {
		return SwapBreakdown{}, err
	}

	return SwapBreakdown{
		ExactAmountOut: FromScaled(amounts.exactAmountOut),
		MinAmountOut:   FromScaled(minOut),
		AmmFee:         FromScaled(amounts.ammFee),
		NewReserveIn:   FromScaled(amounts.newReserveIn),
		NewReserveOut:  FromScaled(amounts.newReserveOut),
		StartPrice:     FromScaled(prices.startPrice),
		FinalPrice:     FromScaled(prices.finalPrice),
		AveragePrice:   FromScaled(prices.averagePrice),
		PriceImpact:    FromScaled(prices.priceImpact),
	}, nil
}
