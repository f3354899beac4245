package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config aggregates application configuration. It is built once at startup
// and passed to components; nothing mutates it afterwards.
type Config struct {
	ServerAddr   string
	SecretKey    string
	DatabasePath string
	UploadDir    string
	ExportDir    string
	LogLevel     string
	LogFormat    string // text|json
	MaxUploadMB  int64
	PageSize     int

	// StrictFilters controls how malformed numeric/date filter values are
	// handled: false = silently skip the predicate, true = reject the
	// request with a validation error.
	StrictFilters bool
}

const (
	defaultServerAddr   = ":8080"
	defaultDatabasePath = "collections.db"
	defaultUploadDir    = "uploads/payment_proofs"
	defaultExportDir    = "exports"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultMaxUploadMB  = 5
	defaultPageSize     = 20
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		ServerAddr:    valueOrDefault("SERVER_ADDR", defaultServerAddr),
		SecretKey:     os.Getenv("SECRET_KEY"),
		DatabasePath:  valueOrDefault("DATABASE_PATH", defaultDatabasePath),
		UploadDir:     valueOrDefault("UPLOAD_DIR", defaultUploadDir),
		ExportDir:     valueOrDefault("EXPORT_DIR", defaultExportDir),
		LogLevel:      valueOrDefault("LOG_LEVEL", defaultLogLevel),
		LogFormat:     valueOrDefault("LOG_FORMAT", defaultLogFormat),
		MaxUploadMB:   defaultMaxUploadMB,
		PageSize:      defaultPageSize,
		StrictFilters: parseBoolWithDefault("STRICT_FILTERS", false),
	}

	if cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("SECRET_KEY must be set")
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || mb <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_MB value %q", v)
		}
		cfg.MaxUploadMB = mb
	}

	return cfg, nil
}

// EnsureDirs creates the upload and export directories if they are missing.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadDir, c.ExportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}
