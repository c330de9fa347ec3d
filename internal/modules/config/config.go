package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"signal_bot/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDir         = "configs"
	defaultConfigFile = "values_local.yaml"
	envPrefix         = "SIGNAL_BOT"
)

// Config ...
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Service struct {
		Host      string `mapstructure:"host"`
		AdminPort int    `mapstructure:"admin_port"`
	} `mapstructure:"service"`

	DB string `mapstructure:"db_dsn"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
		// шлём только BUY/SELL, WAIT в чат не нужен
		EntriesOnly bool `mapstructure:"entries_only"`
	} `mapstructure:"telegram"`

	Tracing struct {
		Enabled bool   `mapstructure:"enabled"`
		Host    string `mapstructure:"host"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"tracing"`

	Engine EngineConfig `mapstructure:"engine"`

	// Дефолты стратегии. Нулевые параметры — дефолты варианта.
	Defaults models.Assignment `mapstructure:"defaults"`

	// Назначения по символам. Пусто — watchlist с OKX.
	Symbols []models.Assignment `mapstructure:"symbols"`

	WSFeed struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"wsfeed"`

	index map[string]models.Assignment
}

type EngineConfig struct {
	Timeframe    string        `mapstructure:"timeframe"`
	WindowLength int           `mapstructure:"window_length"`
	Interval     time.Duration `mapstructure:"interval"`
	Workers      int           `mapstructure:"workers"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	WatchTopN    int           `mapstructure:"watch_top_n"`
	OKXBaseURL   string        `mapstructure:"okx_base_url"`
}

// NewConfig читает configs/$CONFIG_FILE (или values_local.yaml) и env.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	name := os.Getenv(configFilePathENV)
	explicit := name != ""
	if !explicit {
		name = defaultConfigFile
	}
	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, errors.Wrapf(err, "config file %s", path)
		}
		// без файла живём на дефолтах и env
		path = ""
	}
	return Load(path)
}

// Load — конфиг из файла path (пусто — только дефолты и env).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.buildIndex()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.admin_port", 8080)

	v.SetDefault("db_dsn", "")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.entries_only", true)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)

	v.SetDefault("engine.timeframe", "15m")
	v.SetDefault("engine.window_length", 200)
	v.SetDefault("engine.interval", "1m")
	v.SetDefault("engine.workers", 8)
	v.SetDefault("engine.fetch_timeout", "10s")
	v.SetDefault("engine.watch_top_n", 30)
	v.SetDefault("engine.okx_base_url", "https://www.okx.com")

	v.SetDefault("defaults.strategy", string(models.VariantMultiIndicator))
	v.SetDefault("defaults.min_confidence", 0)
	v.SetDefault("defaults.stop_multiplier", 0)
	v.SetDefault("defaults.take_multiplier", 0)
	v.SetDefault("defaults.fallback_stop_pct", 0)
	v.SetDefault("defaults.fallback_take_pct", 0)

	v.SetDefault("wsfeed.enabled", false)
	v.SetDefault("wsfeed.path", "/ws/signals")
}

func (c *Config) validate() error {
	if c.Engine.WindowLength <= 0 {
		return errors.Errorf("engine.window_length must be positive, got %d", c.Engine.WindowLength)
	}
	if c.Engine.Workers <= 0 {
		return errors.Errorf("engine.workers must be positive, got %d", c.Engine.Workers)
	}
	if c.Engine.Interval <= 0 {
		return errors.Errorf("engine.interval must be positive, got %s", c.Engine.Interval)
	}
	if c.Defaults.Strategy == "" {
		return errors.New("defaults.strategy is required")
	}
	for i, s := range c.Symbols {
		if s.Symbol == "" {
			return errors.Errorf("symbols[%d]: symbol is required", i)
		}
	}
	return nil
}

func (c *Config) buildIndex() {
	c.index = make(map[string]models.Assignment, len(c.Symbols))
	for _, s := range c.Symbols {
		c.index[s.Symbol] = s
	}
}

// Assignment — стратегия для символа: дефолты, поверх них оверрайды символа.
func (c *Config) Assignment(symbol string) models.Assignment {
	a := models.Assignment{
		Symbol:   symbol,
		Strategy: c.Defaults.Strategy,
		Params:   c.Defaults.Params,
	}
	if s, ok := c.index[symbol]; ok {
		if s.Strategy != "" {
			a.Strategy = s.Strategy
		}
		a.Params = a.Params.Merge(s.Params)
	}
	return a
}

// SymbolList — символы из конфига в порядке объявления.
func (c *Config) SymbolList() []string {
	out := make([]string, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		out = append(out, s.Symbol)
	}
	return out
}

func (c *Config) TelegramEnabled() bool { return c.Telegram.Token != "" && c.Telegram.ChatID != 0 }

func (c *Config) PostgresEnabled() bool { return c.DB != "" }
