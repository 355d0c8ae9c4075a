package config

import (
	"bufio"
	"os"
	"strings"

	"nycleads/internal/database"
)

// Config holds everything the CLI and the HTTP service need.
type Config struct {
	DataDir        string
	CategoriesFile string
	IndexJSON      string
	IndexCSV       string
	NotesFile      string

	ZoningShapefile string
	ZoningProjected bool

	LogLevel string
	LogDir   string

	ListenAddr string

	DB database.DBConfig
}

// Load reads .env (without overriding variables already set) and then the
// environment.
func Load() Config {
	loadEnvFile(".env")

	return Config{
		DataDir:        GetEnv("DATA_DIR", "data"),
		CategoriesFile: GetEnv("CATEGORIES_FILE", ""),
		IndexJSON:      GetEnv("INDEX_JSON", "borough_neighborhoods.json"),
		IndexCSV:       GetEnv("INDEX_CSV", "borough_neighborhoods.csv"),
		NotesFile:      GetEnv("NOTES_FILE", "data/annotations.csv"),

		ZoningShapefile: GetEnv("ZONING_SHAPEFILE", ""),
		ZoningProjected: GetEnvBool("ZONING_PROJECTED", true),

		LogLevel: GetEnv("LOG_LEVEL", "info"),
		LogDir:   GetEnv("LOG_DIR", ""),

		ListenAddr: GetEnv("LISTEN_ADDR", ":8080"),

		DB: database.DBConfig{
			Driver:         GetEnv("DB_DRIVER", "oracle"),
			Host:           GetEnv("DB_HOST", "localhost"),
			Port:           GetEnv("DB_PORT", ""),
			Service:        GetEnv("DB_SERVICE", "XE"),
			Username:       GetEnv("DB_USERNAME", ""),
			Password:       GetEnv("DB_PASSWORD", ""),
			WalletLocation: GetEnv("DB_WALLET_LOCATION", ""),
			SSLMode:        GetEnv("DB_SSLMODE", "disable"),
		},
	}
}

// loadEnvFile reads KEY=VALUE lines from filename. A missing file is fine.
func loadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if idx := strings.Index(line, "="); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+1:])

			if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"') {
				value = value[1 : len(value)-1]
			}

			// Only set if not already set in environment
			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	}

	return scanner.Err()
}

// GetEnv returns the variable or defaultValue when unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool accepts true/false, 1/0, yes/no, on/off.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
