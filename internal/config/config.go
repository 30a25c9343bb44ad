package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// BaseURL of the storefront REST backend.
	BaseURL string
	// DBPath is the sqlite file holding the session identity.
	DBPath string
	// LogPath receives structured logs; stdout is owned by the UI.
	LogPath string
	// HTTPTimeout bounds every backend call.
	HTTPTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() Config {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getenv("STORE_HTTP_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	return Config{
		BaseURL:     getenv("STORE_API_BASE_URL", "http://localhost:8080"),
		DBPath:      getenv("STORE_DB_PATH", "./data/storefront.db"),
		LogPath:     getenv("STORE_LOG_PATH", "./data/storefront.log"),
		HTTPTimeout: timeout,
	}
}
