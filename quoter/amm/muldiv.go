package amm

import "math/big"

// MulDivFloor returns floor(a * b / denominator). The product is formed on
// math/big so nothing overflows before the division narrows it.
//
// Every ratio in this package goes through here so there is exactly one
// rounding rule, the ledger's truncating integer division.
func MulDivFloor(a, b, denominator *big.Int) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int), nil
	}

	product := new(big.Int).Mul(a, b)
	quotient, remainder := new(big.Int).QuoRem(product, denominator, new(big.Int))
	// Quo truncates toward zero; step down when the exact result is negative.
	if remainder.Sign() != 0 && (remainder.Sign() < 0) != (denominator.Sign() < 0) {
		quotient.Sub(quotient, big.NewInt(1))
	}
	return quotient, nil
}
