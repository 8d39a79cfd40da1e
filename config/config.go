package config

import (
	"log/slog"
	"os"
)

type Config struct {
	// Store configuration. Driver is "mongo" or "memory"; memory backs
	// local development without a database.
	StoreDriver  string
	MongoURI     string
	DatabaseName string

	// Bootstrap super admin, created once iff no super admin exists.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	// Server configuration
	Port string
}

func LoadConfig() *Config {
	cfg := &Config{
		StoreDriver:            getEnv("STORE_DRIVER", "mongo"),
		MongoURI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:           getEnv("MONGO_DB_NAME", "retail_admin"),
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		Port:                   getEnv("PORT", "8080"),
	}

	if cfg.StoreDriver == "mongo" && cfg.MongoURI == "" {
		slog.Error("MONGO_URI not set")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
