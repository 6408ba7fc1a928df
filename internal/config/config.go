package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	JWTSecret       string // HS256 secret; when set it replaces JWKS verification
	CORSOrigins     string
	TablePrefix     string
	StorageBackend  string // "postgres" or "memory"
	// Logging
	LogDir      string // Empty disables file logging
	LogMaxFiles int
	// Realtime overrides file (YAML). Empty uses embedded defaults.
	RealtimeConfigPath string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := getEnv("JWKS_URL", supabaseURL+"/auth/v1/.well-known/jwks.json")

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		SupabaseURL:        supabaseURL,
		SupabaseKey:        getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:      getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL:    jwksURL,
		JWTSecret:          getEnv("SUPABASE_JWT_SECRET", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        tablePrefix,
		StorageBackend:     getEnv("STORAGE_BACKEND", "postgres"),
		LogDir:             getEnv("LOG_DIR", ""),
		LogMaxFiles:        getEnvInt("LOG_MAX_FILES", 10),
		RealtimeConfigPath: getEnv("REALTIME_CONFIG", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
