package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	RedisURL          string
	JWTSecret         string
	FrontendURL       string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
	PayHereMerchantID string
	PayHereSecret     string
	PayHereNotifyURL  string
	SessionAmount     string
	SessionCurrency   string
	SweepInterval     time.Duration
	DashboardCacheTTL time.Duration
	FeedbackEditLimit time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TUTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "TuteSkillz API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("frontend.url", "http://localhost:5173")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("session.amount", "1000.00")
	v.SetDefault("session.currency", "LKR")
	v.SetDefault("sweep.interval", "1m")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("feedback.edit_limit", "30m")

	connLifetime, err := time.ParseDuration(v.GetString("database.conn_max_lifetime"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid database connection lifetime: %w", err)
	}

	sweep, err := time.ParseDuration(v.GetString("sweep.interval"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid sweep interval: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	editLimit, err := time.ParseDuration(v.GetString("feedback.edit_limit"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid feedback edit limit: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		DBMaxOpenConns:    v.GetInt("database.max_open_conns"),
		DBMaxIdleConns:    v.GetInt("database.max_idle_conns"),
		DBConnMaxLifetime: connLifetime,
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		FrontendURL:       v.GetString("frontend.url"),
		SMTPHost:          v.GetString("smtp.host"),
		SMTPPort:          v.GetInt("smtp.port"),
		SMTPUsername:      v.GetString("smtp.username"),
		SMTPPassword:      v.GetString("smtp.password"),
		SMTPFrom:          v.GetString("smtp.from"),
		PayHereMerchantID: v.GetString("payhere.merchant_id"),
		PayHereSecret:     v.GetString("payhere.merchant_secret"),
		PayHereNotifyURL:  v.GetString("payhere.notify_url"),
		SessionAmount:     v.GetString("session.amount"),
		SessionCurrency:   v.GetString("session.currency"),
		SweepInterval:     sweep,
		DashboardCacheTTL: ttl,
		FeedbackEditLimit: editLimit,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
