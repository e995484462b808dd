package amm

import (
	"fmt"
	"math/big"
)

// MinAmountOut reduces expected by slippageBps basis points:
// expected * (10000 - slippageBps) / 10000, floored.
func MinAmountOut(expected *big.Int, slippageBps int) (*big.Int, error) {
	factor := MaxBps - slippageBps
	if factor < 0 {
		return nil, fmt.Errorf("%w: %d bps", ErrNegativeSlippageFactor, slippageBps)
	}
	return MulDivFloor(expected, big.NewInt(int64(factor)), maxBps)
}

// CalculateMinOutput applies MinAmountOut to a decimal string, for callers
// that carry amounts as text all the way to the settlement transaction.
// slippageBps is basis points (e.g., 100 = 1%)
func CalculateMinOutput(expectedOutput string, slippageBps uint32) (string, error) {
	expected, err := ToScaled(expectedOutput)
	if err != nil {
		return "", fmt.Errorf("failed to parse expected output: %w", err)
	}
	if slippageBps >= MaxBps {
		return "", fmt.Errorf("%w: %d", ErrInvalidSlippage, slippageBps)
	}

	minOutput, err := MinAmountOut(expected, int(slippageBps))
	if err != nil {
		return "", err
	}
	return FromScaled(minOutput).String(), nil
}
