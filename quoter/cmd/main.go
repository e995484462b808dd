// Command quoter predicts the settlement of swaps against a constant-product
// pool: output, minimum output under slippage, fee and price impact.
//
// Usage:
//
//	go run ./quoter/cmd \
//	  -reserve-in 1000 -reserve-out 1000 -amount 100 -buy -slippage-bps 200
//
//	go run ./quoter/cmd -scenario ./trades.toml -json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/amm"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/config"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/scenario"
	"github.com/Cogwheel-Validator/spectra-amm-quoter/quoter/telemetry"
)

var log zerolog.Logger

func init() {
	// Initialize zerolog with console writer
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()

	// Share the logger with the engine and scenario runner
	amm.SetLogger(log)
	scenario.SetLogger(log)
}

// options are the parsed command line flags
type options struct {
	configPath    string
	reserveIn     string
	reserveOut    string
	amount        string
	isBuy         bool
	slippageBps   int
	slippageSet   bool // -slippage-bps was given, even if negative
	asJSON        bool
	scenarioPath  string
	metricsOut    string
	metricsStdout bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "quoter config file (toml), QUOTER_* env vars are used when empty")
	flag.StringVar(&opts.reserveIn, "reserve-in", "", "reserve of the asset being spent")
	flag.StringVar(&opts.reserveOut, "reserve-out", "", "reserve of the asset being received")
	flag.StringVar(&opts.amount, "amount", "", "amount being spent")
	flag.BoolVar(&opts.isBuy, "buy", false, "spend the quote asset to buy the base asset, default is sell")
	flag.IntVar(&opts.slippageBps, "slippage-bps", 0, "slippage tolerance in basis points, defaults to the configured value")
	flag.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	flag.StringVar(&opts.scenarioPath, "scenario", "", "run a scenario file (toml) instead of a single quote")
	flag.StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile")
	flag.BoolVar(&opts.metricsStdout, "metrics-stdout", false, "also dump collected metrics to stderr")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "slippage-bps" {
			opts.slippageSet = true
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, opts, os.Stdout)
	stop()
	os.Exit(code)
}

// run returns the process exit code: 0 on success, 2 for input the user can
// fix, 1 for everything else.
func run(ctx context.Context, opts options, stdout io.Writer) int {
	var configPath *string
	if opts.configPath != "" {
		configPath = &opts.configPath
	}
	cfg, err := config.LoadQuoterConfig(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load quoter config")
		return 1
	}
	zerolog.SetGlobalLevel(cfg.Level())

	if opts.asJSON {
		cfg.OutputFormat = config.OutputJSON
	}
	if opts.metricsOut != "" {
		cfg.MetricsTextfile = opts.metricsOut
	}
	slippage := cfg.DefaultSlippageBps
	if opts.slippageSet {
		slippage = opts.slippageBps
	}

	metricsConfig := telemetry.DefaultConfig()
	metricsConfig.DevelopmentMode = opts.metricsStdout
	metrics, err := telemetry.New(metricsConfig)
	if err != nil {
		log.Error().Err(err).Msg("Failed to set up metrics")
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Metrics shutdown error")
		}
	}()

	q := &quoter{cfg: cfg, metrics: metrics, out: stdout}
	if opts.scenarioPath != "" {
		err = q.runScenario(ctx, opts.scenarioPath, slippage)
	} else {
		err = q.runSingle(ctx, opts, slippage)
	}

	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			log.Error().Err(werr).Str("path", cfg.MetricsTextfile).Msg("Failed to write metrics")
		}
	}

	if err != nil {
		if amm.IsUserError(err) || errors.Is(err, errUsage) || errors.Is(err, amm.ErrInvalidDecimal) {
			log.Error().Err(err).Msg("Invalid input")
			return 2
		}
		log.Error().Err(err).Msg("Quote failed")
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

type quoter struct {
	cfg     *config.QuoterConfig
	metrics *telemetry.Metrics
	out     io.Writer
}

func (q *quoter) runSingle(ctx context.Context, opts options, slippage int) error {
	if opts.reserveIn == "" || opts.reserveOut == "" || opts.amount == "" {
		return fmt.Errorf("%w: -reserve-in, -reserve-out and -amount are required without -scenario", errUsage)
	}

	params := amm.SwapParams{IsBuy: opts.isBuy, SlippageBps: slippage}
	var err error
	if params.ReserveIn, err = parseAmount("reserve-in", opts.reserveIn); err != nil {
		return err
	}
	if params.ReserveOut, err = parseAmount("reserve-out", opts.reserveOut); err != nil {
		return err
	}
	if params.AmountIn, err = parseAmount("amount", opts.amount); err != nil {
		return err
	}

	breakdown, err := amm.CalculateSwapBreakdown(params)
	if err != nil {
		q.metrics.RecordError(ctx, err)
		return err
	}
	q.metrics.RecordQuote(ctx, params.Direction(), breakdown)
	q.warnOnImpact(0, breakdown)

	if q.cfg.OutputFormat == config.OutputJSON {
		return writeQuoteJSON(q.out, params, breakdown)
	}
	return writeQuoteTable(q.out, params, breakdown)
}

func (q *quoter) runScenario(ctx context.Context, path string, slippage int) error {
	s, err := scenario.NewDefaultLoader().Load(path)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	log.Info().Str("scenario", path).Int("trades", len(s.Trades)).Msg("Running scenario")

	result, err := scenario.Simulate(s, slippage)
	if result != nil {
		for _, leg := range result.Legs {
			q.metrics.RecordQuote(ctx, amm.DirectionFromBuy(leg.Trade.IsBuy), leg.Breakdown)
			q.warnOnImpact(leg.Index, leg.Breakdown)
		}
	}
	if err != nil {
		q.metrics.RecordError(ctx, err)
		// show the legs that settled before the failing one
		if result != nil && len(result.Legs) > 0 {
			if werr := q.writeScenario(result, s.Oracle); werr != nil {
				log.Warn().Err(werr).Msg("Failed to write partial scenario result")
			}
		}
		return err
	}

	return q.writeScenario(result, s.Oracle)
}

func (q *quoter) writeScenario(result *scenario.Result, oracle *scenario.OracleSpec) error {
	if q.cfg.OutputFormat == config.OutputJSON {
		return writeScenarioJSON(q.out, result, oracle)
	}
	return writeScenarioTable(q.out, result, oracle)
}

func (q *quoter) warnOnImpact(index int, b amm.SwapBreakdown) {
	if q.cfg.ImpactWarnBps <= 0 {
		return
	}
	threshold := decimal.NewFromInt(int64(q.cfg.ImpactWarnBps))
	if b.PriceImpact.Abs().Mul(decimal.NewFromInt(100)).LessThan(threshold) {
		return
	}
	log.Warn().
		Int("trade", index).
		Str("price_impact", b.PriceImpact.String()).
		Str("severity", string(amm.ClassifyImpact(b.PriceImpact))).
		Msg("High price impact")
}

func parseAmount(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: -%s %q: %w", amm.ErrInvalidDecimal, name, value, err)
	}
	return d, nil
}
