package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Stripe      StripeConfig      `yaml:"stripe"`
	Reservation ReservationConfig `yaml:"reservation"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port        string          `yaml:"port"`
	CORSOrigins []string        `yaml:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver     string `yaml:"driver"`
	URL        string `yaml:"url"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SQLitePath string `yaml:"sqlite_path"`
	LogLevel   string `yaml:"log_level"`
	Seed       bool   `yaml:"seed"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type ReservationConfig struct {
	Currency             string        `yaml:"currency"`
	PrecheckAvailability bool          `yaml:"precheck_availability"`
	PendingTTL           time.Duration `yaml:"pending_ttl"`
	SweepInterval        time.Duration `yaml:"sweep_interval"`
	LockTTL              time.Duration `yaml:"lock_ttl"`
	LockWait             time.Duration `yaml:"lock_wait"`
	DraftTTL             time.Duration `yaml:"draft_ttl"`
	ProcessorTimeout     time.Duration `yaml:"processor_timeout"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FromName string `yaml:"from_name"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// Load reads the optional YAML file at path, then applies .env and process
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.App.Environment, "APP_ENV")
	setString(&c.HTTP.Port, "PORT")
	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		c.HTTP.CORSOrigins = splitList(raw)
	}

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.URL, "MYSQL_URL")
	if c.Database.URL == "" {
		setString(&c.Database.URL, "DATABASE_URL")
	}
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASS")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SQLitePath, "SQLITE_PATH")
	setBool(&c.Database.Seed, "DB_SEED")

	setString(&c.Redis.Address, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	setString(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")

	setString(&c.Reservation.Currency, "PAYMENT_CURRENCY")
	setBool(&c.Reservation.PrecheckAvailability, "PRECHECK_AVAILABILITY")
	setDuration(&c.Reservation.PendingTTL, "PENDING_BOOKING_TTL")

	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		c.Kafka.Brokers = splitList(raw)
	}
	setString(&c.Kafka.Topic, "KAFKA_TOPIC")

	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}

	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Port, "SMTP_PORT")
	setString(&c.SMTP.Username, "SMTP_USERNAME")
	setString(&c.SMTP.Password, "SMTP_PASSWORD")
	setString(&c.SMTP.FromName, "SMTP_FROM_NAME")

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "hotel-booking"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}
	if c.HTTP.RateLimit.RPS == 0 {
		c.HTTP.RateLimit.RPS = 20
	}
	if c.HTTP.RateLimit.Burst == 0 {
		c.HTTP.RateLimit.Burst = 40
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "hotel.db"
	}
	if c.Reservation.Currency == "" {
		c.Reservation.Currency = "inr"
	}
	c.Reservation.Currency = strings.ToLower(c.Reservation.Currency)
	if c.Reservation.SweepInterval == 0 {
		c.Reservation.SweepInterval = time.Minute
	}
	if c.Reservation.LockTTL == 0 {
		c.Reservation.LockTTL = 30 * time.Second
	}
	if c.Reservation.LockWait == 0 {
		c.Reservation.LockWait = 5 * time.Second
	}
	if c.Reservation.DraftTTL == 0 {
		c.Reservation.DraftTTL = 2 * time.Hour
	}
	if c.Reservation.ProcessorTimeout == 0 {
		c.Reservation.ProcessorTimeout = 15 * time.Second
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "booking-events"
	}
	if c.SMTP.FromName == "" {
		c.SMTP.FromName = "Hotel Booking"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Stripe.SecretKey == "" {
		return errors.New("stripe secret key is required")
	}
	if c.Reservation.PendingTTL < 0 {
		return errors.New("reservation.pending_ttl must not be negative")
	}
	if c.Reservation.SweepInterval <= 0 {
		return errors.New("reservation.sweep_interval must be positive")
	}
	if c.Reservation.ProcessorTimeout < 0 {
		return errors.New("reservation.processor_timeout must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required when a bot token is set")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
