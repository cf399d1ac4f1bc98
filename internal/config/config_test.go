package config

import "testing"

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Thresholds.FuzzyMinConfidence != 0.82 {
		t.Fatalf("unexpected fuzzy min confidence: %v", cfg.Thresholds.FuzzyMinConfidence)
	}
	if !cfg.Thresholds.GoalFilterStrict {
		t.Fatalf("expected GoalFilterStrict=true by default")
	}
	if cfg.WorkerCount != 4 {
		t.Fatalf("unexpected worker count: %d", cfg.WorkerCount)
	}
}

func TestLoad_InvalidThresholdFailsBeforeProcessing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FUZZY_MIN_CONFIDENCE", "1.5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out-of-range FUZZY_MIN_CONFIDENCE")
	}
}

func TestLoad_AmbiguityMarginMustBeBelowMinConfidence(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FUZZY_MIN_CONFIDENCE", "0.3")
	t.Setenv("FUZZY_AMBIGUITY_MARGIN", "0.4")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when margin exceeds min confidence")
	}
}

func TestLoad_NegativeShiftToleranceRejected(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SHIFT_OVERLAP_TOLERANCE_SECONDS", "-1")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative shift overlap tolerance")
	}
}
