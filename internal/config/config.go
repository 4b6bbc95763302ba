package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Record store backends.
const (
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	FrontendURL    string

	RecordStore          string
	DatabaseURL          string
	DBDriver             string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int

	RedisURL       string
	RedisPassword  string
	ScoresCacheTTL time.Duration

	DynamoDBTable string
	AWSRegion     string

	BotParallel bool
	BotSeed     uint64

	SessionIdleTimeout time.Duration

	LogLevel  string
	LogPretty bool
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{
		frontendURL,
		"http://localhost:5173", // Local development
	}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Database Config
	dbDriver := GetEnv("DB_DRIVER", "pgx")
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	if dbDriver == "pgx" {
		dbURL = withSimpleProtocol(dbURL)
	}

	seed, err := strconv.ParseUint(GetEnv("BOT_SEED", "0"), 10, 64)
	if err != nil {
		log.Warn().Str("key", "BOT_SEED").Err(err).Msg("invalid seed, playing unseeded")
		seed = 0
	}

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		RecordStore:          strings.ToLower(GetEnv("RECORD_STORE", StorePostgres)),
		DatabaseURL:          dbURL,
		DBDriver:             dbDriver,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		ScoresCacheTTL:       time.Duration(GetEnvAsInt("SCORES_CACHE_TTL_SECONDS", 60)) * time.Second,
		DynamoDBTable:        GetEnv("DYNAMODB_TABLE", "games"),
		AWSRegion:            GetEnv("AWS_REGION", "us-east-1"),
		BotParallel:          GetEnvAsBool("BOT_PARALLEL", false),
		BotSeed:              seed,
		SessionIdleTimeout:   time.Duration(GetEnvAsInt("SESSION_IDLE_TIMEOUT_MINUTES", 60)) * time.Minute,
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogPretty:            GetEnvAsBool("LOG_PRETTY", false),
	}

	return AppConfig
}

// withSimpleProtocol appends simple_protocol for PgBouncer compatibility (pgx driver).
func withSimpleProtocol(dbURL string) string {
	if dbURL == "" {
		return dbURL
	}
	u, err := url.Parse(dbURL)
	if err != nil {
		return dbURL
	}
	q := u.Query()
	if q.Get("default_query_exec_mode") == "" {
		q.Set("default_query_exec_mode", "simple_protocol")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}
	return value
}
