package service

import (
	"os"
	"strconv"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	HeartAPI struct {
		URL     string
		Enabled bool
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/heartgame.db"),
	}

	// Heart API
	config.HeartAPI.URL = getEnv("HEART_API_URL", "http://marcconrad.com/uob/heart/api.php")
	config.HeartAPI.Enabled = true
	if v, err := strconv.ParseBool(getEnv("HEART_API_ENABLED", "true")); err == nil {
		config.HeartAPI.Enabled = v
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
