package amm

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

func TestPool_ParamsOrientation(t *testing.T) {
	pool := Pool{Quote: dec("2000"), Asset: dec("1000")}

	buy := pool.Params(Trade{AmountIn: dec("1"), IsBuy: true})
	assert.Equal(t, buy.ReserveIn.String(), "2000")
	assert.Equal(t, buy.ReserveOut.String(), "1000")

	sell := pool.Params(Trade{AmountIn: dec("1")})
	assert.Equal(t, sell.ReserveIn.String(), "1000")
	assert.Equal(t, sell.ReserveOut.String(), "2000")
}

func TestPool_SpotPrice(t *testing.T) {
	price, err := Pool{Quote: dec("2000"), Asset: dec("1000")}.SpotPrice()
	assert.NoError(t, err)
	assert.Equal(t, price.String(), "2")

	_, err = Pool{Quote: dec("1"), Asset: decimal.Zero}.SpotPrice()
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestPool_SpotPrice_OutOfRangeReserve(t *testing.T) {
	// 1e5000 is past the widest literal ToScaled accepts
	price, err := Pool{Quote: decimal.New(1, 5000), Asset: dec("1")}.SpotPrice()
	assert.True(t, errors.Is(err, ErrInvalidDecimal))
	assert.True(t, price.IsZero())

	_, err = Pool{Quote: dec("1"), Asset: decimal.New(1, 5000)}.SpotPrice()
	assert.True(t, errors.Is(err, ErrInvalidDecimal))
}

func TestSimulateTrades_ChainsReserves(t *testing.T) {
	start := Pool{Quote: dec("1000"), Asset: dec("1000")}
	trades := []Trade{
		{AmountIn: dec("100"), IsBuy: true, SlippageBps: 100},
		{AmountIn: dec("40")},
		{AmountIn: dec("12.5"), IsBuy: true},
	}

	breakdowns, end, err := SimulateTrades(start, trades)
	assert.NoError(t, err)
	assert.Equal(t, len(breakdowns), 3)

	// Replaying each leg by hand against the previous leg's reserves gives
	// the same answers.
	first, err := CalculateSwapBreakdown(SwapParams{
		ReserveIn: dec("1000"), ReserveOut: dec("1000"), AmountIn: dec("100"), IsBuy: true, SlippageBps: 100,
	})
	assert.NoError(t, err)
	assert.Equal(t, breakdowns[0].ExactAmountOut.String(), first.ExactAmountOut.String())

	second, err := CalculateSwapBreakdown(SwapParams{
		ReserveIn: first.NewReserveOut, ReserveOut: first.NewReserveIn, AmountIn: dec("40"),
	})
	assert.NoError(t, err)
	assert.Equal(t, breakdowns[1].ExactAmountOut.String(), second.ExactAmountOut.String())
	assert.Equal(t, breakdowns[1].StartPrice.String(), breakdowns[0].FinalPrice.String())

	third, err := CalculateSwapBreakdown(SwapParams{
		ReserveIn: second.NewReserveOut, ReserveOut: second.NewReserveIn, AmountIn: dec("12.5"), IsBuy: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, end.Quote.String(), third.NewReserveIn.String())
	assert.Equal(t, end.Asset.String(), third.NewReserveOut.String())
}

func TestSimulateTrades_StopsAtFailingLeg(t *testing.T) {
	start := Pool{Quote: dec("500"), Asset: dec("500")}
	trades := []Trade{
		{AmountIn: dec("10"), IsBuy: true},
		{AmountIn: dec("5"), SlippageBps: 10_000},
		{AmountIn: dec("1"), IsBuy: true},
	}

	breakdowns, pool, err := SimulateTrades(start, trades)
	assert.True(t, errors.Is(err, ErrInvalidSlippage))
	assert.True(t, strings.HasPrefix(err.Error(), "trade 1:"))
	assert.Equal(t, len(breakdowns), 1)
	assert.Equal(t, pool.Quote.String(), breakdowns[0].NewReserveIn.String())
}

func TestClassifyImpact(t *testing.T) {
	tests := []struct {
		impact string
		want   ImpactSeverity
	}{
		{"0", SeverityNone},
		{"0.99", SeverityNone},
		{"-0.5", SeverityNone},
		{"1", SeverityLow},
		{"-2.9", SeverityLow},
		{"3", SeverityModerate},
		{"4.999", SeverityModerate},
		{"-5", SeverityHigh},
		{"9.9", SeverityHigh},
		{"10", SeverityExtreme},
		{"680.97", SeverityExtreme},
	}
	for _, tc := range tests {
		assert.Equal(t, ClassifyImpact(dec(tc.impact)), tc.want)
	}
}
