package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GetEnv returns the value of an environment variable or a default.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LevelConfig describes one rung of the membership ladder.
type LevelConfig struct {
	Name          string `yaml:"name"`
	MinPoints     int64  `yaml:"min_points"`
	MultiplierBps uint32 `yaml:"multiplier_bps"`
	ValidityDays  int    `yaml:"validity_days"`
}

// Policy holds the business rules that were previously scattered across
// UI copy: balance discount, recharge accrual rate and the tier ladder.
type Policy struct {
	// ConsumeDiscountBps is the discount applied when paying from stored
	// balance, in basis points (1000 = 10% off).
	ConsumeDiscountBps uint32 `yaml:"consume_discount_bps"`
	// RechargeAccrualBps scales how many points a recharge earns per
	// currency unit before the tier multiplier (10000 = 1 point per unit).
	RechargeAccrualBps uint32 `yaml:"recharge_accrual_bps"`
	// DefaultVoucherValidityDays is used when a voucher type declares
	// expiry_days <= 0.
	DefaultVoucherValidityDays int           `yaml:"default_voucher_validity_days"`
	Levels                     []LevelConfig `yaml:"levels"`
}

// Config is the full server configuration. Every field has an environment
// default so the server starts with no config file at all.
type Config struct {
	MongoURI    string `yaml:"mongo_uri"`
	MongoDB     string `yaml:"mongo_db"`
	Port        string `yaml:"port"`
	MetricsPort string `yaml:"metrics_port"`
	JWTSecret   string `yaml:"jwt_secret"`
	TokenTTL    string `yaml:"token_ttl"`
	LogLevel    string `yaml:"log_level"`
	Policy      Policy `yaml:"policy"`
}

// DefaultPolicy returns the policy used when no config file overrides it.
func DefaultPolicy() Policy {
	return Policy{
		ConsumeDiscountBps:         1000,
		RechargeAccrualBps:         10000,
		DefaultVoucherValidityDays: 365,
		Levels: []LevelConfig{
			{Name: "Bronze", MinPoints: 0, MultiplierBps: 10000, ValidityDays: 365},
			{Name: "Silver", MinPoints: 500, MultiplierBps: 12000, ValidityDays: 365},
			{Name: "Gold", MinPoints: 2000, MultiplierBps: 15000, ValidityDays: 365},
			{Name: "Platinum", MinPoints: 5000, MultiplierBps: 18000, ValidityDays: 365},
			{Name: "Diamond", MinPoints: 10000, MultiplierBps: 20000, ValidityDays: 365},
		},
	}
}

// Load builds the configuration from environment variables, merged with an
// optional YAML file named by CONFIG_FILE.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:    GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     GetEnv("MONGO_DB", "loyalty_system"),
		Port:        GetEnv("PORT", "8080"),
		MetricsPort: GetEnv("METRICS_PORT", "9090"),
		JWTSecret:   GetEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:    GetEnv("TOKEN_TTL", "24h"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		Policy:      DefaultPolicy(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if len(cfg.Policy.Levels) == 0 {
		cfg.Policy.Levels = DefaultPolicy().Levels
	}
	return cfg, nil
}
