package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bluelinehq/rinkline/internal/platform/logging"
)

// Thresholds tunes matching and validation behavior. Validated before any
// processing starts; an invalid value fails the run with no output.
type Thresholds struct {
	FuzzyMinConfidence           float64 `validate:"gte=0,lte=1"`
	FuzzyAmbiguityMargin         float64 `validate:"gte=0,lte=1"`
	ShiftOverlapToleranceSeconds float64 `validate:"gte=0"`
	GoalFilterStrict             bool
	UnresolvedWarningRate        float64 `validate:"gte=0,lte=1"`
}

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	DBURL          string
	WorkerCount    int `validate:"gte=1,lte=256"`
	Thresholds     Thresholds
	LogLevel       logging.Level
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	workerCount, err := getEnvAsInt("PIPELINE_WORKER_COUNT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_WORKER_COUNT: %w", err)
	}

	fuzzyMinConfidence, err := getEnvAsFloat("FUZZY_MIN_CONFIDENCE", 0.82)
	if err != nil {
		return Config{}, fmt.Errorf("parse FUZZY_MIN_CONFIDENCE: %w", err)
	}
	fuzzyAmbiguityMargin, err := getEnvAsFloat("FUZZY_AMBIGUITY_MARGIN", 0.05)
	if err != nil {
		return Config{}, fmt.Errorf("parse FUZZY_AMBIGUITY_MARGIN: %w", err)
	}
	shiftOverlapTolerance, err := getEnvAsFloat("SHIFT_OVERLAP_TOLERANCE_SECONDS", 2.0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHIFT_OVERLAP_TOLERANCE_SECONDS: %w", err)
	}
	goalFilterStrict, err := strconv.ParseBool(getEnv("GOAL_FILTER_STRICT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GOAL_FILTER_STRICT: %w", err)
	}
	unresolvedWarningRate, err := getEnvAsFloat("UNRESOLVED_WARNING_RATE", 0.02)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNRESOLVED_WARNING_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "rinkline-pipeline"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		DBURL:          strings.TrimSpace(getEnv("DB_URL", "")),
		WorkerCount:    workerCount,
		Thresholds: Thresholds{
			FuzzyMinConfidence:           fuzzyMinConfidence,
			FuzzyAmbiguityMargin:         fuzzyAmbiguityMargin,
			ShiftOverlapToleranceSeconds: shiftOverlapTolerance,
			GoalFilterStrict:             goalFilterStrict,
			UnresolvedWarningRate:        unresolvedWarningRate,
		},
		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New()

// Validate enforces threshold ranges plus the cross-field constraint that
// an ambiguous band cannot swallow the whole acceptance range.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validate.Struct(cfg.Thresholds); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	if cfg.Thresholds.FuzzyAmbiguityMargin >= cfg.Thresholds.FuzzyMinConfidence {
		return fmt.Errorf("invalid thresholds: ambiguity margin %.3f must be below min confidence %.3f",
			cfg.Thresholds.FuzzyAmbiguityMargin, cfg.Thresholds.FuzzyMinConfidence)
	}
	return nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}
