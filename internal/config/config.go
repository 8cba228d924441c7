package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Generator GeneratorConfig
	Workspace WorkspaceConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type GeneratorConfig struct {
	BaseURL      string
	Timeout      time.Duration
	CatalogCache time.Duration
}

type WorkspaceConfig struct {
	// Store is "memory" or "redis".
	Store       string
	TTL         time.Duration
	ForcedChips bool
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "logs/events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Generator: GeneratorConfig{
			BaseURL:      getEnv("GENERATOR_BASE_URL", "http://127.0.0.1:5000"),
			Timeout:      time.Duration(getEnvAsInt("GENERATOR_TIMEOUT_SECONDS", 60)) * time.Second,
			CatalogCache: time.Duration(getEnvAsInt("CATALOG_CACHE_MINUTES", 5)) * time.Minute,
		},
		Workspace: WorkspaceConfig{
			Store:       getEnv("WORKSPACE_STORE", "memory"),
			TTL:         time.Duration(getEnvAsInt("WORKSPACE_TTL_MINUTES", 120)) * time.Minute,
			ForcedChips: getEnvAsBool("WORKSPACE_FORCED_CHIPS", false),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
