package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"` // sqlite file path
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EngineConfig holds the tunable constants of the scoring engine. The
// financing assumptions feed the affordability dimension; the insight
// fields control strength/weakness selection.
type EngineConfig struct {
	LoanToValue            float64 `yaml:"loan_to_value" mapstructure:"loan_to_value"`                       // fraction of price financed
	AnnualInterestRate     float64 `yaml:"annual_interest_rate" mapstructure:"annual_interest_rate"`         // e.g. 0.07
	LoanTermYears          int     `yaml:"loan_term_years" mapstructure:"loan_term_years"`
	AnnualTaxRate          float64 `yaml:"annual_tax_rate" mapstructure:"annual_tax_rate"`                   // escrowed into monthly cost
	ConditionReferenceYear int     `yaml:"condition_reference_year" mapstructure:"condition_reference_year"` // year-built recency anchor
	StrengthMinScore       float64 `yaml:"strength_min_score" mapstructure:"strength_min_score"`             // 0-100
	WeaknessMaxScore       float64 `yaml:"weakness_max_score" mapstructure:"weakness_max_score"`             // 0-100
	InsightLimit           int     `yaml:"insight_limit" mapstructure:"insight_limit"`                       // top/bottom N dimensions
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROPSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "propscore.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("engine.loan_to_value", 0.8)
	v.SetDefault("engine.annual_interest_rate", 0.07)
	v.SetDefault("engine.loan_term_years", 30)
	v.SetDefault("engine.annual_tax_rate", 0.011)
	v.SetDefault("engine.condition_reference_year", 2025)
	v.SetDefault("engine.strength_min_score", 60)
	v.SetDefault("engine.weakness_max_score", 50)
	v.SetDefault("engine.insight_limit", 3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
