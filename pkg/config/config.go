package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Marketplace MarketplaceConfig
	Session     SessionConfig
	Scanner     ScannerConfig
	Agent       AgentConfig
	Logger      LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// MarketplaceConfig configures the external buy-box pricing API.
// An empty BaseURL disables live pricing; the catalog price is used instead.
type MarketplaceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type SessionConfig struct {
	HeartbeatInterval time.Duration
}

type ScannerConfig struct {
	PollInterval time.Duration
	HistoryLimit int
}

// AgentConfig configures the terminal scanning client.
type AgentConfig struct {
	APIBaseURL string
	StateFile  string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	var loaded bool
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			loaded = true
			break
		}
	}

	// If no .env file found, continue with environment variables
	// This allows using environment variables directly (useful for Docker/K8s)
	if !loaded {
		// .env file is optional, continue with environment variables
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	marketplaceTimeout, _ := strconv.Atoi(getEnv("MARKETPLACE_TIMEOUT", "10"))
	heartbeat, _ := strconv.Atoi(getEnv("SESSION_HEARTBEAT_INTERVAL", "30"))
	pollInterval, _ := strconv.Atoi(getEnv("SCANNER_POLL_INTERVAL_MS", "16"))
	historyLimit, _ := strconv.Atoi(getEnv("SCANNER_HISTORY_LIMIT", "10"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resellscan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Marketplace: MarketplaceConfig{
			BaseURL: getEnv("MARKETPLACE_BASE_URL", ""),
			APIKey:  getEnv("MARKETPLACE_API_KEY", ""),
			Timeout: time.Duration(marketplaceTimeout) * time.Second,
		},
		Session: SessionConfig{
			HeartbeatInterval: time.Duration(heartbeat) * time.Second,
		},
		Scanner: ScannerConfig{
			PollInterval: time.Duration(pollInterval) * time.Millisecond,
			HistoryLimit: historyLimit,
		},
		Agent: AgentConfig{
			APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
			StateFile:  getEnv("AGENT_STATE_FILE", ".scanagent.json"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
