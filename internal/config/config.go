package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	ServerPort string
	GinMode    string

	StoreDriver string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	MongoURI      string
	MongoDatabase string

	// TaskDefaultLimit caps GET /tasks when no limit is supplied. 0 disables the cap.
	TaskDefaultLimit int

	LogLevel  string
	LogFormat string
	LogOutput string
	LogFile   string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "release"),
		StoreDriver:      getEnv("STORE_DRIVER", DriverPostgres),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "taskapi_user"),
		DBPassword:       getEnv("DB_PASSWORD", "taskapi_pass"),
		DBName:           getEnv("DB_NAME", "taskapi_db"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		DBAutoMigrate:    getEnvBool("DB_AUTO_MIGRATE", true),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "taskapi"),
		TaskDefaultLimit: getEnvInt("TASK_DEFAULT_LIMIT", 100),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		LogOutput:        getEnv("LOG_OUTPUT", "stdout"),
		LogFile:          getEnv("LOG_FILE", "logs/app.log"),
	}
}

// PostgresDSN is the key/value DSN understood by the gorm postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// MigrationURL is the same database in the URL form golang-migrate's pgx5 driver expects.
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, value, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %t", key, value, defaultVal)
		return defaultVal
	}
	return b
}
