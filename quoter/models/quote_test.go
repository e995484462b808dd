package models_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/models"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/scenario"
)

func TestNewQuote(t *testing.T) {
	params := amm.SwapParams{
		ReserveIn:   decimal.NewFromInt(1000),
		ReserveOut:  decimal.NewFromInt(1000),
		AmountIn:    decimal.NewFromInt(100),
		IsBuy:       true,
		SlippageBps: 200,
	}
	b, err := amm.CalculateSwapBreakdown(params)
	assert.NoError(t, err)

	q := models.NewQuote(params, b)
	assert.Equal(t, q.Request.Direction, "buy")
	assert.Equal(t, q.Request.SlippageBps, 200)
	assert.Equal(t, q.ExactAmountOut, "90.661089388")
	assert.Equal(t, q.MinAmountOut, "88.8478676")
	assert.Equal(t, q.AmmFee, "0.3")
	assert.Equal(t, q.PriceImpact, "20.934008999")
	assert.Equal(t, q.ImpactSeverity, "extreme")

	body, err := json.Marshal(q)
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, decoded["exact_amount_out"], "90.661089388")
	assert.Equal(t, decoded["impact_severity"], "extreme")
}

func TestNewScenarioResult(t *testing.T) {
	s, err := scenario.Decode([]byte(`
name = "round trip"

[pool]
quote = "1000"
asset = "1000"

[oracle]
initial_observation = "1000000000000"
max_observation_change_per_update = "10000000000"
quote_decimals = 6
base_decimals = 6

[[trades]]
side = "buy"
amount = "100"
timestamp = 60

[[trades]]
side = "sell"
amount = "90"
timestamp = 120
`))
	assert.NoError(t, err)

	r, err := scenario.Simulate(s, 100)
	assert.NoError(t, err)

	out := models.NewScenarioResult(r, s.Oracle)
	assert.Equal(t, out.Name, "round trip")
	assert.Equal(t, len(out.Legs), 2)
	assert.Equal(t, out.StartQuote, "1000")

	first := out.Legs[0]
	assert.Equal(t, first.Quote.Request.Direction, "buy")
	assert.Equal(t, first.Quote.Request.ReserveIn, "1000")
	assert.Equal(t, first.Observation, "1000000000000")

	// the sell leg is reported against the reserves the buy left behind
	second := out.Legs[1]
	assert.Equal(t, second.Quote.Request.Direction, "sell")
	assert.Equal(t, second.Quote.Request.ReserveIn, "909.338910612")
	assert.Equal(t, second.Quote.Request.ReserveOut, "1099.7")
	assert.Equal(t, second.Observation, "1010000000000")

	assert.Equal(t, out.FinalQuote, r.Final.Quote.String())
	assert.Equal(t, out.TWAP, "1005000000000")
	assert.Equal(t, out.TWAPPrice, "1.005")
}
