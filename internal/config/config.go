// Package config loads client settings from a .env file and the
// environment. Command-line flags may still override everything here.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config are the environment-driven client settings.
type Config struct {
	// APIBaseURL is the backend address.
	APIBaseURL string

	// DBPath is the SQLite file holding the session.
	DBPath string

	// ShiftExerciseDate / ClampMonthNav select the calendar policy
	// variants; see tracker.Policy.
	ShiftExerciseDate bool
	ClampMonthNav     bool
}

// Load reads .env (if present) and the environment, falling back to
// defaults that match a local backend.
func Load() Config {
	_ = godotenv.Load() // a missing .env file is fine

	return Config{
		APIBaseURL:        getenv("SHAPEBUILDER_API_URL", "http://localhost:8080"),
		DBPath:            getenv("SHAPEBUILDER_DB", filepath.Join(homeDir(), ".shapebuilder.db")),
		ShiftExerciseDate: getenvBool("SHAPEBUILDER_SHIFT_EXERCISE_DATE", true),
		ClampMonthNav:     getenvBool("SHAPEBUILDER_CLAMP_MONTH_NAV", true),
	}
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}
