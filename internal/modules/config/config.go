package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"contract_calc/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"

	defaultConfigFile = "values_local.yaml"
	configDir         = "configs"
)

// Config ...
type Config struct {
	Telegram struct {
		Token        string `mapstructure:"token"`
		Enabled      bool   `mapstructure:"enabled"`
		MaxTableRows int    `mapstructure:"max_table_rows"`
	} `mapstructure:"telegram"`
	DB      string `mapstructure:"db_dsn"`
	Service struct {
		Host       string `mapstructure:"host"`
		PublicPort int    `mapstructure:"public_port"`
	} `mapstructure:"service"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	Tracing struct {
		Enabled bool   `mapstructure:"enabled"`
		Host    string `mapstructure:"host"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"tracing"`

	Limits struct {
		// больше доливок не считаем: и таблица, и время ответа растут линейно
		MaxAdds     int `mapstructure:"max_adds"`
		HistorySize int `mapstructure:"history_size"`
	} `mapstructure:"limits"`

	// Дефолты калькулятора (новому пользователю бота и в API для пропущенных полей)
	Defaults Defaults `mapstructure:"defaults"`
}

type Defaults struct {
	Direction             string  `mapstructure:"direction"`
	InitialPrice          float64 `mapstructure:"initial_price"`
	AddDiffPercent        float64 `mapstructure:"add_diff_percent"`
	TpPercent             float64 `mapstructure:"tp_percent"`
	InitialMargin         float64 `mapstructure:"initial_margin"`
	AddMarginBase         float64 `mapstructure:"add_margin_base"`
	MaxAdds               int     `mapstructure:"max_adds"`
	Leverage              float64 `mapstructure:"leverage"`
	TakerFee              float64 `mapstructure:"taker_fee"`
	MakerFee              float64 `mapstructure:"maker_fee"`
	MaintenanceMarginRate float64 `mapstructure:"maintenance_margin_rate"`
	FundingRate           float64 `mapstructure:"funding_rate"`
	FundingSettlements    int     `mapstructure:"funding_settlements"`
	AmountMultiplier      float64 `mapstructure:"amount_multiplier"`
	DiffMultiplier        float64 `mapstructure:"diff_multiplier"`
}

// Strategy — дефолты как параметры прогона.
func (d Defaults) Strategy() models.StrategyParameters {
	return models.StrategyParameters{
		Direction:             models.Direction(d.Direction),
		InitialPrice:          d.InitialPrice,
		AddDiffPercent:        d.AddDiffPercent,
		TpPercent:             d.TpPercent,
		InitialMargin:         d.InitialMargin,
		AddMarginBase:         d.AddMarginBase,
		MaxAdds:               d.MaxAdds,
		Leverage:              d.Leverage,
		TakerFee:              d.TakerFee,
		MakerFee:              d.MakerFee,
		MaintenanceMarginRate: d.MaintenanceMarginRate,
		FundingRate:           d.FundingRate,
		FundingSettlements:    d.FundingSettlements,
		AmountMultiplier:      d.AmountMultiplier,
		DiffMultiplier:        d.DiffMultiplier,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.enabled", true)
	v.SetDefault("telegram.max_table_rows", 15)
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.public_port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)

	v.SetDefault("limits.max_adds", 50)
	v.SetDefault("limits.history_size", 20)

	v.SetDefault("defaults.direction", "long")
	v.SetDefault("defaults.initial_price", 100.0)
	v.SetDefault("defaults.add_diff_percent", 2.0)
	v.SetDefault("defaults.tp_percent", 1.5)
	v.SetDefault("defaults.initial_margin", 10.0)
	v.SetDefault("defaults.add_margin_base", 10.0)
	v.SetDefault("defaults.max_adds", 6)
	v.SetDefault("defaults.leverage", 10.0)
	v.SetDefault("defaults.taker_fee", 0.05)
	v.SetDefault("defaults.maker_fee", 0.02)
	v.SetDefault("defaults.maintenance_margin_rate", 0.5)
	v.SetDefault("defaults.funding_rate", 0.01)
	v.SetDefault("defaults.funding_settlements", 3)
	v.SetDefault("defaults.amount_multiplier", 1.5)
	v.SetDefault("defaults.diff_multiplier", 1.2)
}

// NewConfig читает configs/$CONFIG_FILE (по умолчанию values_local.yaml).
// Файла может не быть: тогда работают дефолты и переменные окружения.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}
	return Load(filepath.Join(configDir, configFileName))
}

func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// telegram.token <- TELEGRAM_TOKEN и т.п.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", tokenTelegramENV); err != nil {
		return nil, err
	}
	if err := v.BindEnv("db_dsn", databaseDSN); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Limits.MaxAdds <= 0 {
		return nil, fmt.Errorf("limits.max_adds must be > 0, got %d", cfg.Limits.MaxAdds)
	}
	return &cfg, nil
}

func (c *Config) PublicAddr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.PublicPort)
}
