package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// LoadQuoterConfig loads the quoter config from the given path, or from the
// environment when configPath is nil.
func LoadQuoterConfig(configPath *string) (*QuoterConfig, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if configPath == nil {
		config, err := loadEnv(v)
		if err != nil {
			return nil, fmt.Errorf("failed to load env config: %w", err)
		}
		return config, nil
	}

	config, err := loadFile(v, *configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load file config: %w", err)
	}
	return config, nil
}

func loadEnv(v *viper.Viper) (*QuoterConfig, error) {
	// a missing .env is fine, the variables may come from the shell or a unit file
	_ = godotenv.Load()
	v.SetEnvPrefix("QUOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k := range defaults {
		_ = v.BindEnv(k)
	}

	var config QuoterConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal env config: %w", err)
	}
	if err := verifyConfig(&config); err != nil {
		return nil, fmt.Errorf("failed to verify config: %w", err)
	}
	return &config, nil
}

func loadFile(v *viper.Viper, configPath string) (*QuoterConfig, error) {
	if !strings.HasSuffix(configPath, ".toml") {
		return nil, fmt.Errorf("config file must be a toml file")
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config QuoterConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := verifyConfig(&config); err != nil {
		return nil, fmt.Errorf("failed to verify config: %w", err)
	}
	return &config, nil
}

func verifyConfig(config *QuoterConfig) error {
	if config.DefaultSlippageBps < 0 || config.DefaultSlippageBps >= 10_000 {
		return fmt.Errorf("default_slippage_bps must be between 0 and 9999")
	}

	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
	if _, err := zerolog.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("log_level %q is not a valid level", config.LogLevel)
	}

	config.OutputFormat = strings.ToLower(strings.TrimSpace(config.OutputFormat))
	switch config.OutputFormat {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output_format must be %q or %q", OutputTable, OutputJSON)
	}

	if config.ImpactWarnBps < 0 {
		return fmt.Errorf("impact_warn_bps must not be negative")
	}

	return nil
}

// Level returns the parsed log level. verifyConfig has already checked it.
func (c *QuoterConfig) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
