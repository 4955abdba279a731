package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment. It is built
// once in main and handed to the components that need it; business logic never
// touches os.Getenv directly.
type Config struct {
	AppHost     string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort     string `env:"APP_PORT" envDefault:"8080"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_DATABASE" envDefault:"markiz"`
	DBUser     string `env:"DB_USERNAME" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTAccessSecret  string        `env:"JWT_SECRET_KEY,required"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	OTPTTL time.Duration `env:"OTP_TTL" envDefault:"2m"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	EmailFrom      string `env:"EMAIL_FROM"`
	EmailFromName  string `env:"EMAIL_FROM_NAME" envDefault:"Markiz Al-Maa'idah"`

	TwilioAccountSID   string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `env:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppFrom string `env:"TWILIO_WHATSAPP_NUMBER"`

	AppEnv string `env:"APP_ENV" envDefault:"development"`
}

// Load reads .env (when present) and parses the environment into a Config.
// Missing JWT secrets make this fail, so a misconfigured process never serves
// a single request.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// IsProduction reports whether the process runs with production settings
// (secure cookies, real senders).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
