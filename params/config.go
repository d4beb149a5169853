package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/uhyunpark/hyperswap/pkg/app/core/amm"
)

type Log struct {
	Level string
	File  string // empty logs to stdout only
}

type Engine struct {
	RatioConvention amm.RatioConvention
	// DefaultTolerance applies to scenario deposits that omit a tolerance.
	DefaultTolerance float64
	// DirectRoute allows swaps to settle on the direct leg when no
	// intermediate asset prices positively.
	DirectRoute bool
}

type Journal struct {
	Path string // empty disables the journal
}

type Metrics struct {
	Namespace string
}

type Config struct {
	Log     Log
	Engine  Engine
	Journal Journal
	Metrics Metrics
}

func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Engine: Engine{
			RatioConvention:  amm.DefaultRatioConvention,
			DefaultTolerance: 0.1,
		},
		Journal: Journal{Path: ""},
		Metrics: Metrics{Namespace: "hyperswap"},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// optional; a missing file is not an error
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Journal.Path = getEnv("JOURNAL_PATH", cfg.Journal.Path)
	cfg.Metrics.Namespace = getEnv("METRICS_NAMESPACE", cfg.Metrics.Namespace)

	if conv := os.Getenv("ENGINE_RATIO_CONVENTION"); conv != "" {
		if c, err := amm.ParseRatioConvention(conv); err == nil {
			cfg.Engine.RatioConvention = c
		}
	}

	if tol := os.Getenv("ENGINE_DEFAULT_TOLERANCE"); tol != "" {
		if f, err := strconv.ParseFloat(tol, 64); err == nil && f >= 0 {
			cfg.Engine.DefaultTolerance = f
		}
	}

	if direct := os.Getenv("ENGINE_DIRECT_ROUTE"); direct != "" {
		if b, err := strconv.ParseBool(direct); err == nil {
			cfg.Engine.DirectRoute = b
		}
	}

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
