package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Host string
	Port int

	// DataDir is the root directory for per-user snapshot artifacts.
	DataDir string

	// PostgresDSN enables the optional stats mirror when non-empty.
	PostgresDSN string

	// WaitTimeout bounds each element wait inside the browser session.
	WaitTimeout time.Duration
	// NavTimeout bounds a full page navigation.
	NavTimeout time.Duration

	// PacingEnabled turns the randomized anti-detection delays on or off.
	// Tests run with pacing disabled.
	PacingEnabled bool

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Host: getEnv("SERVER_HOST", "0.0.0.0"),
		Port: getEnvInt("SERVER_PORT", 3000),

		DataDir:     getEnv("DATA_DIR", "./scraped_data"),
		PostgresDSN: getEnv("PG_DSN", ""),

		WaitTimeout: getEnvDuration("WAIT_TIMEOUT", 20*time.Second),
		NavTimeout:  getEnvDuration("NAV_TIMEOUT", 60*time.Second),

		PacingEnabled: getEnvBool("PACING_ENABLED", true),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Credentials looks up the CSES login for the given user index from
// CSES_USERNAME_<n> / CSES_PASSWORD_<n>. Absence of either value is a
// not-found condition, not an error.
func (c *Config) Credentials(index int) (username, password string, ok bool) {
	username = os.Getenv(fmt.Sprintf("CSES_USERNAME_%d", index))
	password = os.Getenv(fmt.Sprintf("CSES_PASSWORD_%d", index))
	if username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
