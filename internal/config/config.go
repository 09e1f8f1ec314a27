package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Cron     CronConfig     `yaml:"cron" mapstructure:"cron"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Sourcing SourcingConfig `yaml:"sourcing" mapstructure:"sourcing"`
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	Cost     CostConfig     `yaml:"cost" mapstructure:"cost"`
	Profit   ProfitConfig   `yaml:"profit" mapstructure:"profit"`
	Engine   EngineConfig   `yaml:"engine" mapstructure:"engine"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP trigger surface.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// CronConfig configures the scheduled regeneration trigger.
type CronConfig struct {
	// Token is the bearer credential required by the daily trigger.
	Token string `yaml:"token" mapstructure:"token"`
	// RecommendationMaxAgeDays is the retention window for recommendations.
	RecommendationMaxAgeDays int `yaml:"recommendation_max_age_days" mapstructure:"recommendation_max_age_days"`
	// SupplierProductMaxAgeDays is the retention window for sourced products.
	SupplierProductMaxAgeDays int `yaml:"supplier_product_max_age_days" mapstructure:"supplier_product_max_age_days"`
}

// FetchConfig configures the catalog fetch channel.
type FetchConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	MinIntervalMS  int     `yaml:"min_interval_ms" mapstructure:"min_interval_ms"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// SourcingConfig configures the concurrent sourcing orchestrator.
type SourcingConfig struct {
	MaxRetries         int  `yaml:"max_retries" mapstructure:"max_retries"`
	BaseDelayMS        int  `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	AttemptTimeoutSecs int  `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
	EnableFallback     bool `yaml:"enable_fallback" mapstructure:"enable_fallback"`
	UseLiveSources     bool `yaml:"use_live_sources" mapstructure:"use_live_sources"`
}

// AnalyzerConfig configures sales performance analysis.
type AnalyzerConfig struct {
	WindowDays       int `yaml:"window_days" mapstructure:"window_days"`
	VolumeNormalizer int `yaml:"volume_normalizer" mapstructure:"volume_normalizer"`
	MaxKeywords      int `yaml:"max_keywords" mapstructure:"max_keywords"`
	MaxBestSellers   int `yaml:"max_best_sellers" mapstructure:"max_best_sellers"`
}

// CostConfig holds jurisdiction-specific import cost rates. Rates are
// configuration, not business logic scattered through call sites.
type CostConfig struct {
	TargetCurrency  string             `yaml:"target_currency" mapstructure:"target_currency"`
	DutyRate        float64            `yaml:"duty_rate" mapstructure:"duty_rate"`
	TaxRate         float64            `yaml:"tax_rate" mapstructure:"tax_rate"`
	CarrierBaseFee  float64            `yaml:"carrier_base_fee" mapstructure:"carrier_base_fee"`
	ProcessingFee   float64            `yaml:"processing_fee" mapstructure:"processing_fee"`
	ExchangeRates   map[string]float64 `yaml:"exchange_rates" mapstructure:"exchange_rates"`
	BaseShipping    map[string]float64 `yaml:"base_shipping" mapstructure:"base_shipping"`
	DefaultShipping float64            `yaml:"default_shipping" mapstructure:"default_shipping"`
}

// ProfitConfig configures the profitability engine.
type ProfitConfig struct {
	DefaultMarkup   float64 `yaml:"default_markup" mapstructure:"default_markup"`
	OverheadRate    float64 `yaml:"overhead_rate" mapstructure:"overhead_rate"`
	FixedHandling   float64 `yaml:"fixed_handling" mapstructure:"fixed_handling"`
	UndercutFactor  float64 `yaml:"undercut_factor" mapstructure:"undercut_factor"`
	MinMarkupFactor float64 `yaml:"min_markup_factor" mapstructure:"min_markup_factor"`
}

// EngineConfig configures the recommendation assembler.
type EngineConfig struct {
	DefaultLimit     int      `yaml:"default_limit" mapstructure:"default_limit"`
	MatchesPerSeller int      `yaml:"matches_per_seller" mapstructure:"matches_per_seller"`
	MinMarginPercent float64  `yaml:"min_margin_percent" mapstructure:"min_margin_percent"`
	RunBudgetSecs    int      `yaml:"run_budget_secs" mapstructure:"run_budget_secs"`
	CacheMaxAgeDays  int      `yaml:"cache_max_age_days" mapstructure:"cache_max_age_days"`
	DefaultKeywords  []string `yaml:"default_keywords" mapstructure:"default_keywords"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FetchTimeout returns the fetch timeout as a duration.
func (c FetchConfig) FetchTimeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// MinInterval returns the minimum inter-request interval.
func (c FetchConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}

// BaseDelay returns the orchestrator stagger/backoff base.
func (c SourcingConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

// AttemptTimeout returns the per-attempt race timeout.
func (c SourcingConfig) AttemptTimeout() time.Duration {
	return time.Duration(c.AttemptTimeoutSecs) * time.Second
}

// RunBudget returns the whole-run deadline.
func (c EngineConfig) RunBudget() time.Duration {
	return time.Duration(c.RunBudgetSecs) * time.Second
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SOURCING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("cron.recommendation_max_age_days", 30)
	v.SetDefault("cron.supplier_product_max_age_days", 7)
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.min_interval_ms", 2000)
	v.SetDefault("fetch.requests_per_sec", 1.0)
	v.SetDefault("fetch.burst", 2)
	v.SetDefault("sourcing.max_retries", 3)
	v.SetDefault("sourcing.base_delay_ms", 1000)
	v.SetDefault("sourcing.attempt_timeout_secs", 8)
	v.SetDefault("sourcing.enable_fallback", true)
	v.SetDefault("sourcing.use_live_sources", false)
	v.SetDefault("analyzer.window_days", 30)
	v.SetDefault("analyzer.volume_normalizer", 100)
	v.SetDefault("analyzer.max_keywords", 15)
	v.SetDefault("analyzer.max_best_sellers", 20)
	v.SetDefault("cost.target_currency", "TTD")
	v.SetDefault("cost.duty_rate", 0.15)
	v.SetDefault("cost.tax_rate", 0.125)
	v.SetDefault("cost.carrier_base_fee", 25.00)
	v.SetDefault("cost.processing_fee", 10.00)
	v.SetDefault("cost.exchange_rates", map[string]float64{
		"USD": 6.75,
		"EUR": 7.30,
		"GBP": 8.50,
	})
	v.SetDefault("cost.base_shipping", map[string]float64{
		"alibaba": 8.00,
		"temu":    3.00,
		"shein":   4.00,
	})
	v.SetDefault("cost.default_shipping", 5.00)
	v.SetDefault("profit.default_markup", 2.5)
	v.SetDefault("profit.overhead_rate", 0.15)
	v.SetDefault("profit.fixed_handling", 5.00)
	v.SetDefault("profit.undercut_factor", 0.9)
	v.SetDefault("profit.min_markup_factor", 1.4)
	v.SetDefault("engine.default_limit", 3)
	v.SetDefault("engine.matches_per_seller", 3)
	v.SetDefault("engine.min_margin_percent", 25.0)
	v.SetDefault("engine.run_budget_secs", 120)
	v.SetDefault("engine.cache_max_age_days", 30)
	v.SetDefault("engine.default_keywords", []string{
		"nail art", "rhinestone", "nail brush", "gel polish", "uv lamp",
		"nail file", "cuticle tool", "nail tips", "nail stickers",
	})

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
