package config

import (
	"os"
	"strconv"
	"time"

	"cuctask_bot/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	StoreDriver string
	BotToken    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Location used to read and print clock times. Reminders compare
	// absolute instants, so this only affects parsing and display.
	Location *time.Location

	CommandRateLimit  int
	CommandRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads the configuration from the environment, optionally seeded by a .env file.
func Load() *Config {
	_ = godotenv.Load()

	storeDriver := os.Getenv("STORE_DRIVER")
	if storeDriver == "" {
		storeDriver = StoreDriverPostgres
	}
	if storeDriver != StoreDriverPostgres && storeDriver != StoreDriverMemory {
		logger.Fatal("unknown STORE_DRIVER", "value", storeDriver)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && storeDriver == StoreDriverPostgres {
		logger.Fatal("DATABASE_URL is not set")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		}
	}

	loc := time.Local
	if name := os.Getenv("TZ_NAME"); name != "" {
		l, err := time.LoadLocation(name)
		if err != nil {
			logger.Fatal("invalid TZ_NAME", "value", name, "error", err)
		}
		loc = l
	}

	rateLimit := 20 // commands per window per channel
	if v := os.Getenv("COMMAND_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}

	rateWindow := 60 * time.Second
	if v := os.Getenv("COMMAND_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateWindow = time.Duration(n) * time.Second
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:           port,
		DatabaseURL:       dbURL,
		StoreDriver:       storeDriver,
		BotToken:          botToken,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		Location:          loc,
		CommandRateLimit:  rateLimit,
		CommandRateWindow: rateWindow,
		LogLevel:          logLevel,
		LogJSON:           os.Getenv("LOG_JSON") == "true",
	}
}
