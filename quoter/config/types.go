package config

// QuoterConfig holds the quoter's defaults. Every field may come from the
// TOML file or from a QUOTER_ prefixed environment variable.
type QuoterConfig struct {
	// slippage applied when a trade does not set its own
	DefaultSlippageBps int `toml:"default_slippage_bps" mapstructure:"default_slippage_bps"`

	LogLevel     string `toml:"log_level" mapstructure:"log_level"`         // trace, debug, info, warn, error
	OutputFormat string `toml:"output_format" mapstructure:"output_format"` // table or json

	// Price impact, in basis points of a percent, above which a quote is
	// logged as a warning. 500 = 5%.
	ImpactWarnBps int `toml:"impact_warn_bps" mapstructure:"impact_warn_bps"`

	// Prometheus textfile written after each run, empty to disable
	MetricsTextfile string `toml:"metrics_textfile" mapstructure:"metrics_textfile"`
}

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// defaults are applied before the file or environment is read.
var defaults = map[string]any{
	"default_slippage_bps": 50,
	"log_level":            "info",
	"output_format":        OutputTable,
	"impact_warn_bps":      500,
	"metrics_textfile":     "",
}
