package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Session  SessionConfig
	S3       S3Config
	Snapshot SnapshotConfig
	Pricing  PricingConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string
	LogFormat   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	Secret       string
	TokenExpiry  time.Duration
	CookieSecure bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig controls where cart sessions live.
type SessionConfig struct {
	Store   string // redis, memory
	CartTTL time.Duration
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
	Endpoint        string // S3-compatible endpoint such as MinIO, path-style
}

type SnapshotConfig struct {
	Enabled bool
	Cron    string
}

// PricingConfig overrides entries of the paper surcharge table.
type PricingConfig struct {
	PaperSurcharges map[string]float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	surcharges, err := parseSurcharges(getEnv("PAPER_SURCHARGES", ""))
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cixi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			Secret:       getEnv("JWT_SECRET", "change-me"),
			TokenExpiry:  parseDuration(getEnv("SESSION_TOKEN_EXPIRY", "24h"), 24*time.Hour),
			CookieSecure: getEnv("SESSION_COOKIE_SECURE", "false") == "true",
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			Store:   getEnv("SESSION_STORE", "redis"),
			CartTTL: parseDuration(getEnv("CART_SESSION_TTL", "72h"), 72*time.Hour),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
		},
		Snapshot: SnapshotConfig{
			Enabled: getEnv("SNAPSHOT_ENABLED", "false") == "true",
			Cron:    getEnv("SNAPSHOT_CRON", "0 3 * * *"),
		},
		Pricing: PricingConfig{
			PaperSurcharges: surcharges,
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ResolvedLogLevel falls back to debug in development and info elsewhere.
func (c *ServerConfig) ResolvedLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	if c.Environment == "development" {
		return "debug"
	}
	return "info"
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

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// parseSurcharges reads "Bond=5,Mate 90g=10".
func parseSurcharges(s string) (map[string]float64, error) {
	result := map[string]float64{}
	for _, entry := range parseSlice(s) {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid PAPER_SURCHARGES entry %q", entry)
		}
		fee, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || fee < 0 {
			return nil, fmt.Errorf("invalid PAPER_SURCHARGES fee for %q", name)
		}
		result[strings.TrimSpace(name)] = fee
	}
	return result, nil
}
