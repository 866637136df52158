package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Payment  PaymentConfig
	SMTP     SMTPConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret        string
	TokenExpiry   time.Duration
	ResetTokenTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type PaymentConfig struct {
	Paymob PaymobConfig
}

type PaymobConfig struct {
	APIKey              string
	BaseURL             string
	CardIntegrationID   int
	WalletIntegrationID int
	IframeID            string
	Currency            string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Email    string
	Password string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "atlastours"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "dev-only-secret"),
			TokenExpiry:   parseDuration(getEnv("JWT_EXPIRES_IN", "2160h"), 90*24*time.Hour),
			ResetTokenTTL: parseDuration(getEnv("RESET_TOKEN_EXPIRES_IN", "10m"), 10*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Payment: PaymentConfig{
			Paymob: PaymobConfig{
				APIKey:              getEnv("PAYMOB_API_KEY", ""),
				BaseURL:             getEnv("PAYMOB_BASE_URL", "https://accept.paymob.com/api"),
				CardIntegrationID:   parseInt(getEnv("PAYMOB_ONLINE_CARD_INTEGRATION", "0")),
				WalletIntegrationID: parseInt(getEnv("PAYMOB_MOBILE_WALLET_INTEGRATION", "0")),
				IframeID:            getEnv("PAYMOB_IFRAME_ID", "755518"),
				Currency:            getEnv("PAYMOB_CURRENCY", "EGP"),
			},
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Email:    getEnv("SMTP_EMAIL", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate enforces startup-fatal settings. Misconfiguration outside
// development aborts the process instead of surfacing per request.
func (c *Config) validate() error {
	if c.Server.Environment == "development" {
		return nil
	}
	if c.JWT.Secret == "" || c.JWT.Secret == "dev-only-secret" {
		return fmt.Errorf("JWT_SECRET must be set in %s environment", c.Server.Environment)
	}
	if c.Payment.Paymob.APIKey == "" {
		return fmt.Errorf("PAYMOB_API_KEY must be set in %s environment", c.Server.Environment)
	}
	if c.Payment.Paymob.CardIntegrationID == 0 || c.Payment.Paymob.WalletIntegrationID == 0 {
		return fmt.Errorf("paymob integration ids must be set in %s environment", c.Server.Environment)
	}
	return nil
}

// IsProduction reports whether error responses should hide internal detail.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
