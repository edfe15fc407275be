package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"lobmonitor/internal/domain"
)

// Config — вся конфигурация приложения
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
}

type AppConfig struct {
	Env string `mapstructure:"env"` // local | prod
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ExchangeConfig struct {
	Testnet    bool          `mapstructure:"testnet"`
	MainURL    string        `mapstructure:"main_url"`
	TestnetURL string        `mapstructure:"testnet_url"`
	BaseURL    string        `mapstructure:"base_url"` // явный override, важнее флага testnet
	Timeout    time.Duration `mapstructure:"timeout"`
}

type MonitorConfig struct {
	Symbols    []string      `mapstructure:"symbols"`
	Available  []string      `mapstructure:"available"`
	DepthLimit int           `mapstructure:"depth_limit"`
	HistoryLen int           `mapstructure:"history_len"`
	Interval   time.Duration `mapstructure:"interval"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

// Endpoint — базовый URL источника: override, иначе testnet/mainnet.
func (e ExchangeConfig) Endpoint() string {
	switch {
	case e.BaseURL != "":
		return e.BaseURL
	case e.Testnet:
		return e.TestnetURL
	default:
		return e.MainURL
	}
}

// Settings — стартовые пользовательские настройки опроса.
func (m MonitorConfig) Settings() domain.Settings {
	return domain.Settings{
		Symbols:    domain.NormalizeSymbols(m.Symbols),
		DepthLimit: m.DepthLimit,
		HistoryLen: m.HistoryLen,
	}
}

// Load читает дефолты, затем файл конфигурации, .env и переменные окружения.
// При path == "" ищет lobmonitor.{yaml,json,toml} в рабочей директории.
func Load(path string) (*Config, error) {
	v := viper.New()

	// .env только дополняет окружение, его может и не быть
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	// в облаке mainnet часто отдаёт 451, поэтому по умолчанию testnet
	v.SetDefault("exchange.testnet", true)
	v.SetDefault("exchange.main_url", "https://api.binance.com")
	v.SetDefault("exchange.testnet_url", "https://testnet.binance.vision")
	v.SetDefault("exchange.base_url", "")
	v.SetDefault("exchange.timeout", "10s")

	v.SetDefault("monitor.symbols", []string{"BTCUSDT", "ETHUSDT"})
	v.SetDefault("monitor.available", domain.DefaultSymbols)
	v.SetDefault("monitor.depth_limit", 20)
	v.SetDefault("monitor.history_len", 180)
	v.SetDefault("monitor.interval", "1s")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("grpc.addr", ":9090")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lobmonitor")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// "monitor.depth_limit" -> MONITOR_DEPTH_LIMIT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет границы, которые допускают элементы управления дашборда.
func (c *Config) Validate() error {
	s := c.Monitor.Settings()
	if len(s.Symbols) == 0 {
		return errors.New("monitor.symbols cannot be empty")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be > 0, got %s", c.Monitor.Interval)
	}
	if c.Exchange.Endpoint() == "" {
		return errors.New("exchange endpoint is empty")
	}
	return nil
}
