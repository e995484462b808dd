package telemetry_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/telemetry"
)

func quote(t *testing.T, isBuy bool) amm.SwapBreakdown {
	t.Helper()
	b, err := amm.CalculateSwapBreakdown(amm.SwapParams{
		ReserveIn:   decimal.NewFromInt(1000),
		ReserveOut:  decimal.NewFromInt(1000),
		AmountIn:    decimal.NewFromInt(100),
		IsBuy:       isBuy,
		SlippageBps: 100,
	})
	assert.NoError(t, err)
	return b
}

func TestMetrics_WriteTextfile(t *testing.T) {
	ctx := context.Background()
	m, err := telemetry.New(telemetry.DefaultConfig())
	assert.NoError(t, err)
	defer func() { _ = m.Shutdown(ctx) }()

	m.RecordQuote(ctx, amm.BuyAsset, quote(t, true))
	m.RecordQuote(ctx, amm.BuyAsset, quote(t, true))
	m.RecordQuote(ctx, amm.SellAsset, quote(t, false))

	_, err = amm.CalculateSwapBreakdown(amm.SwapParams{
		ReserveIn:  decimal.NewFromInt(1000),
		ReserveOut: decimal.NewFromInt(1000),
		AmountIn:   decimal.Zero,
		IsBuy:      true,
	})
	assert.Error(t, err)
	m.RecordError(ctx, err)

	path := filepath.Join(t.TempDir(), "quoter.prom")
	assert.NoError(t, m.WriteTextfile(path))

	body, err := os.ReadFile(path)
	assert.NoError(t, err)
	text := string(body)

	assert.True(t, strings.Contains(text, "quoter_quotes_total"))
	assert.True(t, strings.Contains(text, `direction="buy"`))
	assert.True(t, strings.Contains(text, `direction="sell"`))
	assert.True(t, strings.Contains(text, `severity="extreme"`))
	assert.True(t, strings.Contains(text, "quoter_errors_total"))
	assert.True(t, strings.Contains(text, `kind="invalid_amount"`))
	assert.True(t, strings.Contains(text, "quoter_price_impact_percent_bucket"))
}

func TestMetrics_Gatherer(t *testing.T) {
	ctx := context.Background()
	m, err := telemetry.New(telemetry.DefaultConfig())
	assert.NoError(t, err)
	defer func() { _ = m.Shutdown(ctx) }()

	m.RecordQuote(ctx, amm.SellAsset, quote(t, false))

	families, err := m.Gatherer().Gather()
	assert.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "quoter_quotes_total" {
			found = true
			assert.Equal(t, len(f.GetMetric()), 1)
			assert.Equal(t, f.GetMetric()[0].GetCounter().GetValue(), 1.0)
		}
	}
	assert.True(t, found)
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{amm.ErrInvalidAmount, "invalid_amount"},
		{amm.ErrInvalidPoolState, "invalid_pool_state"},
		{amm.ErrInvalidSlippage, "invalid_slippage"},
		{amm.ErrNegativeSlippageFactor, "negative_slippage_factor"},
		{amm.ErrDivisionByZero, "division_by_zero"},
		{fmt.Errorf("trade 3: %w", amm.ErrInvalidDecimal), "invalid_decimal"},
		{fmt.Errorf("something else"), "other"},
	}
	for _, tc := range cases {
		assert.Equal(t, telemetry.ErrorKind(tc.err), tc.kind)
	}
}
