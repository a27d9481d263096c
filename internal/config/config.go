package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret string

	StripeSecretKey string

	PayPalClientID    string
	PayPalSecret      string
	PayPalEnvironment string // "sandbox" or "live"

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// SweepSpec is the cron expression for the overdue sweep.
	SweepSpec string

	FrontendURL string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "lendpeer"),
		MySQLUser: getenv("MYSQL_USER", "lendpeer"),
		MySQLPass: getenv("MYSQL_PASS", "lendpeer"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: getenv("REDIS_PASSWORD", ""),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: getenv("JWT_SECRET", ""),

		StripeSecretKey: getenv("STRIPE_SECRET_KEY", ""),

		PayPalClientID:    getenv("PAYPAL_CLIENT_ID", ""),
		PayPalSecret:      getenv("PAYPAL_CLIENT_SECRET", ""),
		PayPalEnvironment: getenv("PAYPAL_ENVIRONMENT", "sandbox"),

		SMTPHost: getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getenvInt("SMTP_PORT", 587),
		SMTPUser: getenv("SMTP_USER", ""),
		SMTPPass: getenv("SMTP_PASS", ""),
		MailFrom: getenv("MAIL_FROM", "no-reply@lendpeer.io"),

		// Daily at midnight, matching the original cadence.
		SweepSpec: getenv("SWEEP_CRON", "0 0 * * *"),

		FrontendURL: getenv("FRONTEND_URL", "http://localhost:5173"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// PayPalBaseURL picks the API host for the configured environment.
func (c *Config) PayPalBaseURL() string {
	if c.PayPalEnvironment == "live" {
		return "https://api.paypal.com"
	}
	return "https://api.sandbox.paypal.com"
}
