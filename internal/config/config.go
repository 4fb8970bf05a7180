package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	SMTP       SMTPConfig
	Pagination PaginationConfig
	Selection  SelectionConfig
	Bulk       BulkConfig
	Tracing    TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection   string
	MaxIdleConns int
	MaxOpenConns int
}

type MongoConfig struct {
	URI      string
	Database string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	// DefaultSortDirection is "asc" or "desc"; it is never left implicit.
	DefaultSortDirection string
	DefaultSortField     string
}

type SelectionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type BulkConfig struct {
	MaxIDsLimit  int
	RecordStore  string // "postgres" or "mongo"
	DeletedTopic string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "4000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:4000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", "default_secret"),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "crdc-datahub"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "CRDC Submission Portal"),
		},
		Pagination: PaginationConfig{
			DefaultPageSize:      getEnvAsInt("DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:          getEnvAsInt("MAX_PAGE_SIZE", 1000),
			DefaultSortDirection: getEnv("DEFAULT_SORT_DIRECTION", "desc"),
			DefaultSortField:     getEnv("DEFAULT_SORT_FIELD", "updatedAt"),
		},
		Selection: SelectionConfig{
			Store: getEnv("SELECTION_STORE", "memory"),
			TTL:   getEnvAsDuration("SELECTION_TTL", time.Hour),
		},
		Bulk: BulkConfig{
			MaxIDsLimit:  getEnvAsInt("MAX_IDS_LIMIT", 2000),
			RecordStore:  getEnv("RECORD_STORE", "postgres"),
			DeletedTopic: getEnv("RECORDS_DELETED_TOPIC_NAME", "RECORDS_DELETED"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "datahub-portal-backend"),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
