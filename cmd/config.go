package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultHTTPPort                 = "8080"
	defaultReservationExpiryHours   = 24
	defaultReservationSweepSchedule = "0 */5 * * * *"
	defaultStuckOrderThreshold      = 24 * time.Hour
	defaultStuckOrderSchedule       = "0 0 * * * *"
	defaultOrderChangedTopic        = "order.status.changed"
	defaultSweepLockKey             = "fulfillment:reservation-sweep"
)

type Config struct {
	AppEnv   string
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr    string
	RedisDB      int
	SweepLockKey string

	KafkaHost              string
	KafkaOrderChangedTopic string

	ReservationExpiryHours   int
	ReservationSweepSchedule string
	StuckOrderThreshold      time.Duration
	StuckOrderSchedule       string
}

// LoadConfig reads the environment, after loading .env when one is present. Unset optional
// values take their defaults; malformed values are reported together.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var problems []error

	cfg := Config{
		AppEnv:   stringEnv("APP_ENV", "development"),
		HTTPPort: stringEnv("HTTP_PORT", defaultHTTPPort),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     stringEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  stringEnv("DB_SSLMODE", "disable"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		SweepLockKey: stringEnv("SWEEP_LOCK_KEY", defaultSweepLockKey),

		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: stringEnv("KAFKA_ORDER_CHANGED_TOPIC", defaultOrderChangedTopic),

		ReservationSweepSchedule: stringEnv("RESERVATION_SWEEP_SCHEDULE", defaultReservationSweepSchedule),
		StuckOrderSchedule:       stringEnv("STUCK_ORDER_SCHEDULE", defaultStuckOrderSchedule),
	}

	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		problems = append(problems, err)
	}
	if cfg.ReservationExpiryHours, err = intEnv("RESERVATION_EXPIRY_HOURS", defaultReservationExpiryHours); err != nil {
		problems = append(problems, err)
	}
	if cfg.StuckOrderThreshold, err = durationEnv("STUCK_ORDER_THRESHOLD", defaultStuckOrderThreshold); err != nil {
		problems = append(problems, err)
	}

	problems = append(problems, cfg.validate()...)
	if len(problems) > 0 {
		return Config{}, errors.Join(problems...)
	}
	return cfg, nil
}

func (c Config) validate() []error {
	var problems []error

	for name, value := range map[string]string{
		"DB_HOST": c.DBHost,
		"DB_USER": c.DBUser,
		"DB_NAME": c.DBName,
	} {
		if value == "" {
			problems = append(problems, fmt.Errorf("%s is required", name))
		}
	}

	if c.ReservationExpiryHours <= 0 {
		problems = append(problems, fmt.Errorf("RESERVATION_EXPIRY_HOURS must be positive, got %d", c.ReservationExpiryHours))
	}
	if c.StuckOrderThreshold <= 0 {
		problems = append(problems, fmt.Errorf("STUCK_ORDER_THRESHOLD must be positive, got %s", c.StuckOrderThreshold))
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, expr := range map[string]string{
		"RESERVATION_SWEEP_SCHEDULE": c.ReservationSweepSchedule,
		"STUCK_ORDER_SCHEDULE":       c.StuckOrderSchedule,
	} {
		if _, err := parser.Parse(expr); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", name, err))
		}
	}

	return problems
}

// DSN is the PostgreSQL connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) KafkaBrokers() []string {
	if c.KafkaHost == "" {
		return nil
	}
	return strings.Split(c.KafkaHost, ",")
}

func (c Config) IsProduction() bool {
	return c.AppEnv == logger.EnvProduction
}

func stringEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
