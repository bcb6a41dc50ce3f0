package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrInvalidConfig возвращается, если конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса (config.toml)
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Slots    SlotsConfig    `toml:"slots"`
	Redis    RedisConfig    `toml:"redis"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	// Driver postgres или memory (in-process хранилище, данные не переживают рестарт)
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	// SeedFile каталог услуг и мастеров для драйвера memory (опционально)
	SeedFile string `toml:"seed_file"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SlotsConfig рабочее окно и сетка тиков
type SlotsConfig struct {
	Open          string `toml:"open"`  // "09:00"
	Close         string `toml:"close"` // "18:00"
	TickMinutes   int    `toml:"tick_minutes"`
	HorizonDays   int    `toml:"horizon_days"`
	SweepInterval int    `toml:"sweep_interval"` // минуты, 0 - только при старте
	LockTTL       int    `toml:"lock_ttl"`       // секунды
}

// SweepEvery период фонового прохода генератора
func (s SlotsConfig) SweepEvery() time.Duration {
	return time.Duration(s.SweepInterval) * time.Minute
}

// LockTimeout время жизни блокировки на слоты
func (s SlotsConfig) LockTimeout() time.Duration {
	return time.Duration(s.LockTTL) * time.Second
}

type RedisConfig struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

type EventsConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"` // секунды
}

// Load читает config.toml, затем .env (если есть) и переопределения из SALON_* переменных окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// .env опционален
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-booking",
		},
		Slots: SlotsConfig{
			Open:          "09:00",
			Close:         "18:00",
			TickMinutes:   5,
			HorizonDays:   7,
			SweepInterval: 60,
			LockTTL:       10,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "salon:lock:",
		},
		Events: EventsConfig{
			Topic:        "salon.bookings",
			WriteTimeout: 5,
		},
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Database.Driver, "SALON_DB_DRIVER")
	setString(&cfg.Database.Host, "SALON_DB_HOST")
	setString(&cfg.Database.User, "SALON_DB_USER")
	setString(&cfg.Database.Password, "SALON_DB_PASSWORD")
	setString(&cfg.Database.DBName, "SALON_DB_NAME")
	setString(&cfg.Logs.Level, "SALON_LOG_LEVEL")
	setString(&cfg.Redis.Addr, "SALON_REDIS_ADDR")
	setString(&cfg.Redis.Password, "SALON_REDIS_PASSWORD")

	if v, ok := os.LookupEnv("SALON_KAFKA_BROKERS"); ok && v != "" {
		cfg.Events.Brokers = strings.Split(v, ",")
	}

	if err := setInt(&cfg.Server.HTTPPort, "SALON_HTTP_PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Database.Port, "SALON_DB_PORT"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidConfig, key, err)
	}
	*dst = n
	return nil
}

// Validate проверяет значения, без которых сервис не сможет стартовать
// Согласованность окна слотов проверяет slots.Window.Validate
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if c.Slots.TickMinutes <= 0 {
		return fmt.Errorf("%w: slots.tick_minutes must be positive", ErrInvalidConfig)
	}

	if c.Slots.HorizonDays < 0 {
		return fmt.Errorf("%w: slots.horizon_days must not be negative", ErrInvalidConfig)
	}

	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("%w: events enabled but no brokers configured", ErrInvalidConfig)
	}

	return nil
}
