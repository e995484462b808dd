package amm

import "math/big"

var hundred = big.NewInt(100)

// priceMetrics holds scaled quote-per-asset prices and the impact percentage.
type priceMetrics struct {
	startPrice   *big.Int
	finalPrice   *big.Int
	averagePrice *big.Int
	priceImpact  *big.Int
}

// computePriceMetrics derives prices from the pre and post trade reserves.
// Prices are always quoted as quote units per asset unit, so the stable side
// is reserveIn for buys and reserveOut for sells.
func computePriceMetrics(reserveIn, reserveOut *big.Int, amounts swapAmounts, dir TradeDirection) (priceMetrics, error) {
	var stable, asset, newStable, newAsset, stableMoved, assetMoved *big.Int
	switch dir {
	case BuyAsset:
		stable, asset = reserveIn, reserveOut
		newStable, newAsset = amounts.newReserveIn, amounts.newReserveOut
		stableMoved, assetMoved = amounts.amountInAfterFee, amounts.exactAmountOut
	case SellAsset:
		stable, asset = reserveOut, reserveIn
		newStable, newAsset = amounts.newReserveOut, amounts.newReserveIn
		// The ledger measures sells against the pre-fee output.
		stableMoved, assetMoved = amounts.preFeeAmountOut, amounts.amountInAfterFee
	default:
		return priceMetrics{}, ErrUnknownDirection
	}

	start, err := MulDivFloor(stable, scale, asset)
	if err != nil {
		return priceMetrics{}, err
	}
	final, err := MulDivFloor(newStable, scale, newAsset)
	if err != nil {
		return priceMetrics{}, err
	}

	average := new(big.Int).Set(start)
	if assetMoved.Sign() != 0 {
		if average, err = MulDivFloor(stableMoved, scale, assetMoved); err != nil {
			return priceMetrics{}, err
		}
	}

	impact, err := priceImpact(stable, asset, newStable, newAsset)
	if err != nil {
		return priceMetrics{}, err
	}

	return priceMetrics{
		startPrice:   start,
		finalPrice:   final,
		averagePrice: average,
		priceImpact:  impact,
	}, nil
}

// priceImpact returns (final/start - 1) * 100 as a scaled integer. It works
// from the reserves rather than the already floored prices, so a pool whose
// start price is below 1e-9 still gets a meaningful figure.
//
//	final/start = (newStable * asset) / (newAsset * stable)
func priceImpact(stable, asset, newStable, newAsset *big.Int) (*big.Int, error) {
	num := new(big.Int).Mul(newStable, asset)
	den := new(big.Int).Mul(newAsset, stable)
	ratio, err := MulDivFloor(num, new(big.Int).Mul(hundred, scale), den)
	if err != nil {
		return nil, err
	}
	return ratio.Sub(ratio, new(big.Int).Mul(hundred, scale)), nil
}
