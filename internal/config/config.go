package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the client configuration, read from the environment with an
// optional .env file next to the working directory.
type Config struct {
	// APIBaseURL is the root of the task-management REST API.
	APIBaseURL string
	// DataDir holds the local session database.
	DataDir string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	dataDir := os.Getenv("TASKDECK_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(homeDir, ".taskdeck")
	}

	return &Config{
		APIBaseURL: getEnv("TASKDECK_API_URL", "http://localhost:8080"),
		DataDir:    dataDir,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
