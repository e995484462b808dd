package scenario

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// FileReader defines the interface for reading files
type FileReader interface {
	// ReadFile reads the file at the given path and returns the contents
	ReadFile(path string) ([]byte, error)
}

// DefaultFileReader implements FileReader using os.ReadFile
type DefaultFileReader struct{}

func (d *DefaultFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader wraps a FileReader so scenario loading can be tested without disk
type Loader struct {
	fileReader FileReader
}

// NewLoader creates a new Loader with the given FileReader
func NewLoader(fileReader FileReader) *Loader {
	return &Loader{fileReader: fileReader}
}

// NewDefaultLoader creates a Loader backed by the filesystem
func NewDefaultLoader() *Loader {
	return NewLoader(&DefaultFileReader{})
}

// Load reads and validates the scenario at path.
func (l *Loader) Load(path string) (*Scenario, error) {
	if !strings.HasSuffix(path, ".toml") {
		return nil, fmt.Errorf("scenario file must be a toml file")
	}
	body, err := l.fileReader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Decode(body)
}

// Decode parses and validates a TOML scenario document.
func Decode(body []byte) (*Scenario, error) {
	var s Scenario
	if err := toml.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Validate checks the document shape. Amount and reserve values are only
// checked for syntax; the pricing engine rejects non-positive ones.
func (s *Scenario) Validate() error {
	if _, err := decimal.NewFromString(s.Pool.Quote); err != nil {
		return fmt.Errorf("pool.quote: %w", err)
	}
	if _, err := decimal.NewFromString(s.Pool.Asset); err != nil {
		return fmt.Errorf("pool.asset: %w", err)
	}
	if len(s.Trades) == 0 {
		return fmt.Errorf("at least one trade is required")
	}

	var lastTimestamp int64
	for i, t := range s.Trades {
		if t.Side != SideBuy && t.Side != SideSell {
			return fmt.Errorf("trades[%d].side must be %q or %q, got %q", i, SideBuy, SideSell, t.Side)
		}
		if _, err := decimal.NewFromString(t.Amount); err != nil {
			return fmt.Errorf("trades[%d].amount: %w", i, err)
		}
		if s.Oracle != nil {
			if t.Timestamp < lastTimestamp {
				return fmt.Errorf("trades[%d].timestamp goes backwards", i)
			}
			lastTimestamp = t.Timestamp
		}
	}

	if s.Oracle != nil {
		if err := s.Oracle.validate(); err != nil {
			return fmt.Errorf("oracle: %w", err)
		}
	}
	return nil
}

func (o *OracleSpec) validate() error {
	if o.QuoteDecimals < 0 || o.QuoteDecimals > 18 {
		return fmt.Errorf("quote_decimals must be between 0 and 18")
	}
	if o.BaseDecimals < 0 || o.BaseDecimals > 18 {
		return fmt.Errorf("base_decimals must be between 0 and 18")
	}
	if _, err := parseU128(o.InitialObservation); err != nil {
		return fmt.Errorf("initial_observation: %w", err)
	}
	if _, err := parseU128(o.MaxObservationChangePerUpdate); err != nil {
		return fmt.Errorf("max_observation_change_per_update: %w", err)
	}
	return nil
}
