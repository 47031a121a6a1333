// Package config assembles runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the engine reads from the environment. The
// optional integrations (Kafka, Postgres) stay disabled when their
// variables are empty.
type Config struct {
	LogLevel string

	// KafkaBrokers is empty when dispute-event publishing is disabled.
	KafkaBrokers []string
	KafkaTopic   string

	// DBConnStr is empty when snapshot persistence is disabled.
	DBConnStr string
}

// Load reads a .env file if one is present (missing files are fine; local
// runs usually rely on the shell environment) and then the environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		KafkaTopic: getEnv("KAFKA_TOPIC", "dispute-events"),
		DBConnStr:  os.Getenv("DB_CONN_STR"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if cfg.DBConnStr == "" {
		cfg.DBConnStr = assembleDBConnStr()
	}

	return cfg
}

// assembleDBConnStr builds a connection string from individual DB_* vars
// (Docker friendly). Persistence stays off unless DB_HOST is set.
func assembleDBConnStr() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host,
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "txengine"),
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
