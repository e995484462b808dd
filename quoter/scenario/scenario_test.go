package scenario_test

import (
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/scenario"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/twap"
)

type fakeReader struct {
	files map[string]string
}

func (f *fakeReader) ReadFile(path string) ([]byte, error) {
	body, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(body), nil
}

const twoLegs = `
name = "buy then sell"

[pool]
quote = "1000"
asset = "1000"

[[trades]]
side = "buy"
amount = "100"
slippage_bps = 200

[[trades]]
side = "sell"
amount = "50"
`

const withOracle = `
[pool]
quote = "1000"
asset = "1000"

[oracle]
created_at = 0
initial_observation = "1000000000000"
max_observation_change_per_update = "10000000000"
start_delay_seconds = 0
quote_decimals = 6
base_decimals = 6

[[trades]]
side = "buy"
amount = "100"
timestamp = 60

[[trades]]
side = "buy"
amount = "10"
timestamp = 90

[[trades]]
side = "sell"
amount = "5"
timestamp = 120
`

func TestLoader_Load(t *testing.T) {
	loader := scenario.NewLoader(&fakeReader{files: map[string]string{"legs.toml": twoLegs}})

	s, err := loader.Load("legs.toml")
	assert.NoError(t, err)
	assert.Equal(t, s.Name, "buy then sell")
	assert.Equal(t, len(s.Trades), 2)
	assert.Equal(t, *s.Trades[0].SlippageBps, 200)
	assert.True(t, s.Trades[1].SlippageBps == nil)
	assert.True(t, s.Oracle == nil)
}

func TestLoader_Load_WrongExtension(t *testing.T) {
	loader := scenario.NewLoader(&fakeReader{files: map[string]string{"legs.yaml": twoLegs}})
	_, err := loader.Load("legs.yaml")
	assert.Error(t, err)
}

func TestLoader_Load_Missing(t *testing.T) {
	loader := scenario.NewLoader(&fakeReader{files: map[string]string{}})
	_, err := loader.Load("missing.toml")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecode_Invalid(t *testing.T) {
	cases := map[string]string{
		"not toml":    `pool = [`,
		"no trades":   "[pool]\nquote = \"1\"\nasset = \"1\"\n",
		"bad side":    "[pool]\nquote = \"1\"\nasset = \"1\"\n[[trades]]\nside = \"hold\"\namount = \"1\"\n",
		"bad amount":  "[pool]\nquote = \"1\"\nasset = \"1\"\n[[trades]]\nside = \"buy\"\namount = \"one\"\n",
		"bad reserve": "[pool]\nquote = \"x\"\nasset = \"1\"\n[[trades]]\nside = \"buy\"\namount = \"1\"\n",
		"time goes backwards": "[pool]\nquote = \"1\"\nasset = \"1\"\n[oracle]\nquote_decimals = 6\nbase_decimals = 6\n" +
			"[[trades]]\nside = \"buy\"\namount = \"1\"\ntimestamp = 100\n[[trades]]\nside = \"buy\"\namount = \"1\"\ntimestamp = 50\n",
		"observation too wide": "[pool]\nquote = \"1\"\nasset = \"1\"\n[oracle]\ninitial_observation = \"340282366920938463463374607431768211456\"\n" +
			"[[trades]]\nside = \"buy\"\namount = \"1\"\n",
		"bad decimals": "[pool]\nquote = \"1\"\nasset = \"1\"\n[oracle]\nquote_decimals = 19\n[[trades]]\nside = \"buy\"\namount = \"1\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scenario.Decode([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestSimulate_ChainsReserves(t *testing.T) {
	s, err := scenario.Decode([]byte(twoLegs))
	assert.NoError(t, err)

	result, err := scenario.Simulate(s, 50)
	assert.NoError(t, err)
	assert.Equal(t, len(result.Legs), 2)
	assert.True(t, result.Oracle == nil)

	first := result.Legs[0].Breakdown
	assert.Equal(t, first.ExactAmountOut.String(), "90.661089388")
	assert.Equal(t, first.MinAmountOut.String(), "88.8478676")
	assert.Equal(t, result.Legs[1].Trade.SlippageBps, 50)
	assert.False(t, result.Legs[1].Trade.IsBuy)

	// the second leg sells into the pool left by the first
	mid := amm.Pool{Quote: first.NewReserveIn, Asset: first.NewReserveOut}
	expected, after, err := mid.Apply(result.Legs[1].Trade)
	assert.NoError(t, err)
	assert.Equal(t, result.Legs[1].Breakdown.ExactAmountOut.String(), expected.ExactAmountOut.String())
	assert.True(t, result.Final.Quote.Equal(after.Quote))
	assert.True(t, result.Final.Asset.Equal(after.Asset))
}

func TestSimulate_FailingLeg(t *testing.T) {
	s, err := scenario.Decode([]byte(twoLegs))
	assert.NoError(t, err)
	s.Trades[1].Amount = "0"

	result, err := scenario.Simulate(s, 50)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, amm.ErrInvalidAmount))
	assert.Equal(t, len(result.Legs), 1)
	assert.True(t, result.Final.Quote.Equal(decimal.RequireFromString("1099.7")))
}

func TestSimulate_Oracle(t *testing.T) {
	s, err := scenario.Decode([]byte(withOracle))
	assert.NoError(t, err)

	result, err := scenario.Simulate(s, 100)
	assert.NoError(t, err)
	assert.Equal(t, len(result.Legs), 3)

	// equal reserves price at exactly the initial observation
	assert.Equal(t, result.Legs[0].Observation.Dec(), "1000000000000")
	// inside the update interval
	assert.True(t, result.Legs[1].Observation == nil)
	// the price ran up, the observation moves by the cap only
	assert.Equal(t, result.Legs[2].Observation.Dec(), "1010000000000")

	assert.True(t, result.Oracle != nil)
	assert.Equal(t, result.Oracle.LastUpdatedTimestamp, int64(120))
	avg, err := result.Oracle.TWAP()
	assert.NoError(t, err)
	assert.Equal(t, avg.Dec(), "1005000000000")
	assert.Equal(t, twap.UIPrice(avg, 6, 6).String(), "1.005")
}
