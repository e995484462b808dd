package amm

import (
	"fmt"
	"math/big"
)

const (
	// FeeBps is the taker fee charged on every swap.
	FeeBps = 30
	// MaxBps is the basis point denominator.
	MaxBps = 10_000
)

var (
	feeBps = big.NewInt(FeeBps)
	maxBps = big.NewInt(MaxBps)
)

// swapAmounts holds the scaled result of one swap against the pool.
type swapAmounts struct {
	ammFee           *big.Int
	exactAmountOut   *big.Int
	amountInAfterFee *big.Int
	// preFeeAmountOut equals exactAmountOut for buys. For sells it is the
	// output before the fee was skimmed.
	preFeeAmountOut *big.Int
	newReserveIn    *big.Int
	newReserveOut   *big.Int
}

// feePolicy applies the constant-product curve with the fee taken on one leg.
type feePolicy func(amountIn, reserveIn, reserveOut *big.Int) (swapAmounts, error)

func (d TradeDirection) feePolicy() (feePolicy, error) {
	switch d {
	case BuyAsset:
		return feeOnInput, nil
	case SellAsset:
		return feeOnOutput, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, d)
	}
}

// computeSwapAmounts runs the fee policy for dir on scaled amounts.
func computeSwapAmounts(amountIn, reserveIn, reserveOut *big.Int, dir TradeDirection) (swapAmounts, error) {
	apply, err := dir.feePolicy()
	if err != nil {
		return swapAmounts{}, err
	}
	return apply(amountIn, reserveIn, reserveOut)
}

func takerFee(amount *big.Int) (*big.Int, error) {
	return MulDivFloor(amount, feeBps, maxBps)
}

// feeOnInput deducts the fee before the input reaches the pool, so the fee
// never shows up in either reserve.
func feeOnInput(amountIn, reserveIn, reserveOut *big.Int) (swapAmounts, error) {
	fee, err := takerFee(amountIn)
	if err != nil {
		return swapAmounts{}, err
	}
	afterFee := new(big.Int).Sub(amountIn, fee)

	newReserveIn := new(big.Int).Add(reserveIn, afterFee)
	out, err := MulDivFloor(afterFee, reserveOut, newReserveIn)
	if err != nil {
		return swapAmounts{}, err
	}

	return swapAmounts{
		ammFee:           fee,
		exactAmountOut:   out,
		amountInAfterFee: afterFee,
		preFeeAmountOut:  new(big.Int).Set(out),
		newReserveIn:     newReserveIn,
		newReserveOut:    new(big.Int).Sub(reserveOut, out),
	}, nil
}

// feeOnOutput swaps the full input, then skims the fee from the output.
// Reserves move by the pre-fee output, which leaves the fee inside the pool.
func feeOnOutput(amountIn, reserveIn, reserveOut *big.Int) (swapAmounts, error) {
	newReserveIn := new(big.Int).Add(reserveIn, amountIn)
	preFee, err := MulDivFloor(amountIn, reserveOut, newReserveIn)
	if err != nil {
		return swapAmounts{}, err
	}
	fee, err := takerFee(preFee)
	if err != nil {
		return swapAmounts{}, err
	}

	return swapAmounts{
		ammFee:           fee,
		exactAmountOut:   new(big.Int).Sub(preFee, fee),
		amountInAfterFee: new(big.Int).Set(amountIn),
		preFeeAmountOut:  preFee,
		newReserveIn:     newReserveIn,
		newReserveOut:    new(big.Int).Sub(reserveOut, preFee),
	}, nil
}
