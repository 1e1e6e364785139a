package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dexspread/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// activeVenueCount is how many configured venues are polled.
const activeVenueCount = 2

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	CheckIntervalSeconds int    `mapstructure:"check_interval_seconds"`
	LogLevel             string `mapstructure:"log_level"`
	RPC                  RPCConfig
	Arbitrage            ArbitrageConfig
	Tokens               TokensConfig
	Venues               []VenueConfig
	Database             DatabaseConfig
	Redis                RedisConfig
	Server               ServerConfig
}

// RPCConfig defines the chain node connection and per-request policy.
type RPCConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutMS      int    `mapstructure:"timeout_ms"`
	Retries        int    `mapstructure:"retries"`
	RetryBackoffMS int    `mapstructure:"retry_backoff_ms"`
}

// ArbitrageConfig defines the arbitrage-related settings.
type ArbitrageConfig struct {
	MinimumProfitThreshold float64 `mapstructure:"minimum_profit_threshold"`
	SimulatedCost          float64 `mapstructure:"simulated_cost"`
	AmountIn               float64 `mapstructure:"amount_in"`
}

// TokensConfig defines the traded pair.
type TokensConfig struct {
	Base  TokenConfig
	Quote TokenConfig
}

// TokenConfig defines a single token.
type TokenConfig struct {
	Symbol   string
	Address  string
	Decimals int
}

// VenueConfig defines settings for a specific DEX.
type VenueConfig struct {
	Name          string
	RouterAddress string `mapstructure:"router_address"`
	Protocol      string
}

// DatabaseConfig defines the opportunity journal. An empty DSN disables it.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig defines the pub/sub sink. An empty address disables it.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TLSEnabled bool `mapstructure:"tls_enabled"`
	Channel    string
}

// ServerConfig defines the HTTP status and live-feed server.
type ServerConfig struct {
	Enabled bool
	Addr    string
}

var requiredKeys = []string{
	"check_interval_seconds",
	"arbitrage.minimum_profit_threshold",
	"arbitrage.simulated_cost",
	"arbitrage.amount_in",
	"tokens.base.address",
	"tokens.base.decimals",
	"tokens.quote.address",
	"tokens.quote.decimals",
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("log_level", "info")
	v.SetDefault("rpc.timeout_ms", 5000)
	v.SetDefault("rpc.retries", 0)
	v.SetDefault("rpc.retry_backoff_ms", 500)
	v.SetDefault("redis.channel", "dexspread:ticks")
	v.SetDefault("server.addr", ":8080")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err = v.BindEnv("rpc.url", "RPC_URL", "POLYGON_RPC_URL"); err != nil {
		return
	}

	if err = v.ReadInConfig(); err != nil {
		err = fmt.Errorf("%w: %w", model.ErrConfigurationInvalid, err)
		return
	}

	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			err = fmt.Errorf("%w: missing %s", model.ErrConfigurationInvalid, key)
			return
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		err = fmt.Errorf("%w: %w", model.ErrConfigurationInvalid, err)
	}
	return
}

// Validate checks every field the poller depends on. All errors wrap
// model.ErrConfigurationInvalid.
func (c *Config) Validate() error {
	var errs []error
	if c.CheckIntervalSeconds < 1 {
		errs = append(errs, fmt.Errorf("check_interval_seconds must be at least 1, got %d", c.CheckIntervalSeconds))
	}
	if strings.TrimSpace(c.RPC.URL) == "" {
		errs = append(errs, errors.New("rpc.url is required"))
	}
	if c.RPC.Retries < 0 {
		errs = append(errs, fmt.Errorf("rpc.retries must not be negative, got %d", c.RPC.Retries))
	}
	if c.Arbitrage.AmountIn <= 0 {
		errs = append(errs, fmt.Errorf("arbitrage.amount_in must be positive, got %v", c.Arbitrage.AmountIn))
	}
	errs = append(errs, validateToken("tokens.base", c.Tokens.Base)...)
	errs = append(errs, validateToken("tokens.quote", c.Tokens.Quote)...)
	if len(c.Venues) < activeVenueCount {
		errs = append(errs, fmt.Errorf("at least %d venues are required, got %d", activeVenueCount, len(c.Venues)))
	}
	for i, venue := range c.Venues {
		if strings.TrimSpace(venue.Name) == "" {
			errs = append(errs, fmt.Errorf("venues[%d].name is required", i))
		}
		if !common.IsHexAddress(venue.RouterAddress) {
			errs = append(errs, fmt.Errorf("venues[%d].router_address %q is not a hex address", i, venue.RouterAddress))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrConfigurationInvalid, errors.Join(errs...))
	}
	return nil
}

func validateToken(prefix string, t TokenConfig) []error {
	var errs []error
	if !common.IsHexAddress(t.Address) {
		errs = append(errs, fmt.Errorf("%s.address %q is not a hex address", prefix, t.Address))
	}
	if t.Decimals < 0 || t.Decimals > 255 {
		errs = append(errs, fmt.Errorf("%s.decimals must be within [0, 255], got %d", prefix, t.Decimals))
	}
	return errs
}

// Interval is the polling period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// AmountIn is the fixed base-token amount quoted every tick.
func (c *Config) AmountIn() decimal.Decimal {
	return decimal.NewFromFloat(c.Arbitrage.AmountIn)
}

// CostModel returns the configured cost model.
func (c *Config) CostModel() model.CostModel {
	return model.CostModel{
		MinimumProfitThreshold: decimal.NewFromFloat(c.Arbitrage.MinimumProfitThreshold),
		SimulatedCost:          decimal.NewFromFloat(c.Arbitrage.SimulatedCost),
	}
}

// Pair returns the configured trading pair.
func (c *Config) Pair() model.TradingPair {
	return model.TradingPair{
		Base:  tokenModel(c.Tokens.Base, "BASE"),
		Quote: tokenModel(c.Tokens.Quote, "QUOTE"),
	}
}

func tokenModel(t TokenConfig, fallback string) model.Token {
	symbol := t.Symbol
	if symbol == "" {
		symbol = fallback
	}
	return model.Token{Symbol: symbol, Address: t.Address, Decimals: uint8(t.Decimals)}
}

// ActiveVenues returns the venues that are polled: the first two configured.
func (c *Config) ActiveVenues() []model.Venue {
	n := min(len(c.Venues), activeVenueCount)
	venues := make([]model.Venue, 0, n)
	for _, v := range c.Venues[:n] {
		venues = append(venues, model.Venue{Name: v.Name, Router: v.RouterAddress, Protocol: v.Protocol})
	}
	return venues
}

// RequestTimeout is the per-request deadline applied by the quote adapter.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RPC.TimeoutMS) * time.Millisecond
}

// RetryBackoff is the initial delay between adapter retries.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.RPC.RetryBackoffMS) * time.Millisecond
}
