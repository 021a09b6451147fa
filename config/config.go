package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"sentinal-delivery/internal/domain/message"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AppMode       string
	LogMode       string
	StoreDriver   string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	JWTSecret     string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	ActionLimit   int

	// Message capability settings.
	GroupAckEnabled     bool
	RemoteDeleteEnabled bool
	RemoteDeleteMaxAge  time.Duration
	EditMaxAge          time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		AppMode:       getEnv("APP_MODE", "debug"),
		LogMode:       getEnv("LOG_MODE", "development"),
		StoreDriver:   getEnv("STORE_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "sentinal_delivery"),
		DBPort:        getEnv("DB_PORT", "5432"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		ActionLimit:   getEnvAsInt("ACTION_RATE_LIMIT", 120),

		GroupAckEnabled:     getEnvAsBool("GROUP_ACK_ENABLED", true),
		RemoteDeleteEnabled: getEnvAsBool("REMOTE_DELETE_ENABLED", true),
		RemoteDeleteMaxAge:  time.Duration(getEnvAsInt("REMOTE_DELETE_MAX_AGE_MIN", 360)) * time.Minute,
		EditMaxAge:          time.Duration(getEnvAsInt("EDIT_MAX_AGE_MIN", 360)) * time.Minute,
	}
}

// MessageSettings returns the capability settings handed to the message service.
func (c *Config) MessageSettings() message.Settings {
	return message.Settings{
		GroupAckEnabled:     c.GroupAckEnabled,
		RemoteDeleteEnabled: c.RemoteDeleteEnabled,
		RemoteDeleteMaxAge:  c.RemoteDeleteMaxAge,
		EditMaxAge:          c.EditMaxAge,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
