package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Weather    WeatherConfig    `mapstructure:"weather"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Excursions ExcursionsConfig `mapstructure:"excursions"`
	Links      LinksConfig      `mapstructure:"links"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Log        LogConfig        `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type WeatherConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	GeoURL       string        `mapstructure:"geo_url"`
	Timezone     string        `mapstructure:"timezone"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ForecastDays int           `mapstructure:"forecast_days"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	// ImportDir holds users.csv / actions_log.csv to seed an empty store.
	ImportDir string `mapstructure:"import_dir"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ExcursionsConfig struct {
	Path string `mapstructure:"path"`
}

type LinksConfig struct {
	Group         string `mapstructure:"group"`
	Stickers      string `mapstructure:"stickers"`
	Accommodation string `mapstructure:"accommodation"`
	Flights       string `mapstructure:"flights"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type AdminConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Location loads the configured weather timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Weather.Timezone)
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is required (TELEGRAM_TOKEN or telegram.token)")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid weather.timezone: %w", err)
	}
	if c.Weather.ForecastDays <= 0 {
		return errors.New("weather.forecast_days must be positive")
	}
	return nil
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		if _, err := fmt.Sscanf(u.Port(), "%d", &port); err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q", u.Port())
		}
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

// LoadConfig reads .env, then the YAML file at path, then the environment.
// Neither file has to exist.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("telegram.token", "")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.geo_url", "https://api.openweathermap.org/geo/1.0")
	v.SetDefault("weather.timezone", "Europe/Moscow")
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("weather.forecast_days", 7)
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/blacksea.db")
	v.SetDefault("storage.import_dir", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "blacksea")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("excursions.path", "data/excursions.yaml")
	v.SetDefault("links.group", "https://t.me/blackseaeveryday")
	v.SetDefault("links.stickers", "https://t.me/addstickers/blacksea365")
	v.SetDefault("links.accommodation", "https://sutochno.tp.st/zntj72if")
	v.SetDefault("links.flights", "https://aviasales.tp.st/WFskNTRl")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("admin.addr", "")
	v.SetDefault("log.development", false)
	v.SetDefault("log.level", "info")

	// Enable environment variable support, e.g. STORAGE_DRIVER=memory
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Database = dbConfig
		config.Storage.Driver = DriverPostgres
	}

	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	} else if token := v.GetString("BOT_TOKEN"); token != "" && config.Telegram.Token == "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("WEATHER_API_KEY"); apiKey != "" {
		config.Weather.APIKey = apiKey
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	return &config, nil
}
