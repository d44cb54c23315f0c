// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// Package config defines the typed configuration tree for the Lexicat
// server and loads it from layered sources (defaults, YAML file,
// environment variables) via koanf.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Lexicat server.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Bank        BankConfig        `koanf:"bank"`
	CAT         CATConfig         `koanf:"cat"`
	Learning    LearningConfig    `koanf:"learning"`
	Exposure    ExposureConfig    `koanf:"exposure"`
	Calibration CalibrationConfig `koanf:"calibration"`
	Storage     StorageConfig     `koanf:"storage"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Timeout      time.Duration `koanf:"timeout"`
	DrainTimeout time.Duration `koanf:"drain_timeout"`
	Environment  string        `koanf:"environment"`
}

// BankConfig holds item bank settings.
type BankConfig struct {
	// VocabPath is the TSV vocabulary source. Empty means the bank must be
	// supplied programmatically (tests, embedded fixtures).
	VocabPath string `koanf:"vocab_path"`

	// LoanwordMaxPerTest caps transparent loanwords per CAT session.
	LoanwordMaxPerTest int `koanf:"loanword_max_per_test"`
}

// CATConfig holds adaptive test settings. Defaults reproduce the
// operational constants of the diagnostic engine.
type CATConfig struct {
	MinItems           int           `koanf:"min_items"`
	MaxItems           int           `koanf:"max_items"`
	SEThreshold        float64       `koanf:"se_threshold"`
	ConvergenceWindow  int           `koanf:"convergence_window"`
	ConvergenceEpsilon float64       `koanf:"convergence_epsilon"`
	TopK               int           `koanf:"top_k"`
	TopicMax           int           `koanf:"topic_max"`
	POSTolerance       float64       `koanf:"pos_tolerance"`
	SessionTTL         time.Duration `koanf:"session_ttl"`
	SweepInterval      time.Duration `koanf:"sweep_interval"`
}

// LearningConfig holds goal-learning (spaced repetition) settings.
type LearningConfig struct {
	DefaultTargetWords int     `koanf:"default_target_words"`
	MasteryMinReviews  int     `koanf:"mastery_min_reviews"`
	MasteryAccuracy    float64 `koanf:"mastery_accuracy"`
	MasteryMinInterval int     `koanf:"mastery_min_interval_days"`
}

// ExposureConfig holds item exposure control settings.
type ExposureConfig struct {
	MaxRate       float64       `koanf:"max_rate"`
	Relaxation    float64       `koanf:"relaxation"`
	UnderusedRate float64       `koanf:"underused_rate"`
	StorePath     string        `koanf:"store_path"`
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// CalibrationConfig holds online calibration settings.
type CalibrationConfig struct {
	MinResponses   int     `koanf:"min_responses"`
	MaxDeltaB      float64 `koanf:"max_delta_b"`
	MaxDeltaA      float64 `koanf:"max_delta_a"`
	Sessions3PL    int     `koanf:"sessions_3pl"`
	ItemsPerSecond float64 `koanf:"items_per_second"`
}

// StorageConfig holds DuckDB persistence settings.
type StorageConfig struct {
	Path      string        `koanf:"path"`
	MaxMemory string        `koanf:"max_memory"`
	Threads   int           `koanf:"threads"`
	MaxRetry  int           `koanf:"max_retry"`
	RetryBase time.Duration `koanf:"retry_base"`
}

// SecurityConfig holds API protection settings.
type SecurityConfig struct {
	// AdminSecret enables JWT bearer auth on /admin routes when non-empty.
	AdminSecret       string        `koanf:"admin_secret"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults. These are applied first,
// then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8622,
			Timeout:      30 * time.Second,
			DrainTimeout: 10 * time.Second,
			Environment:  "development",
		},
		Bank: BankConfig{
			VocabPath:          "/data/vocabulary.tsv",
			LoanwordMaxPerTest: 2,
		},
		CAT: CATConfig{
			MinItems:           15,
			MaxItems:           40,
			SEThreshold:        0.30,
			ConvergenceWindow:  5,
			ConvergenceEpsilon: 0.05,
			TopK:               5,
			TopicMax:           3,
			POSTolerance:       0.10,
			SessionTTL:         2 * time.Hour,
			SweepInterval:      5 * time.Minute,
		},
		Learning: LearningConfig{
			DefaultTargetWords: 50,
			MasteryMinReviews:  5,
			MasteryAccuracy:    0.80,
			MasteryMinInterval: 7,
		},
		Exposure: ExposureConfig{
			MaxRate:       0.25,
			Relaxation:    0.10,
			UnderusedRate: 0.05,
			StorePath:     "/data/exposure",
			FlushInterval: 30 * time.Second,
		},
		Calibration: CalibrationConfig{
			MinResponses:   200,
			MaxDeltaB:      0.5,
			MaxDeltaA:      0.3,
			Sessions3PL:    5000,
			ItemsPerSecond: 200,
		},
		Storage: StorageConfig{
			Path:      "/data/lexicat.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = runtime.NumCPU()
			MaxRetry:  3,
			RetryBase: 50 * time.Millisecond,
		},
		Security: SecurityConfig{
			AdminSecret:       "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime behavior.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d outside valid range 1-65535", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}

	if c.CAT.MinItems < 1 {
		return fmt.Errorf("cat.min_items must be at least 1, got %d", c.CAT.MinItems)
	}
	if c.CAT.MaxItems < c.CAT.MinItems {
		return fmt.Errorf("cat.max_items %d below cat.min_items %d", c.CAT.MaxItems, c.CAT.MinItems)
	}
	if c.CAT.SEThreshold <= 0 {
		return fmt.Errorf("cat.se_threshold must be positive, got %g", c.CAT.SEThreshold)
	}
	if c.CAT.ConvergenceWindow < 1 {
		return fmt.Errorf("cat.convergence_window must be at least 1, got %d", c.CAT.ConvergenceWindow)
	}
	if c.CAT.TopK < 1 {
		return fmt.Errorf("cat.top_k must be at least 1, got %d", c.CAT.TopK)
	}
	if c.CAT.SessionTTL <= 0 {
		return fmt.Errorf("cat.session_ttl must be positive, got %v", c.CAT.SessionTTL)
	}
	if c.CAT.SweepInterval <= 0 {
		return fmt.Errorf("cat.sweep_interval must be positive, got %v", c.CAT.SweepInterval)
	}

	if c.Exposure.MaxRate <= 0 || c.Exposure.MaxRate > 1 {
		return fmt.Errorf("exposure.max_rate must be in (0, 1], got %g", c.Exposure.MaxRate)
	}
	if c.Exposure.Relaxation < 0 {
		return fmt.Errorf("exposure.relaxation must be non-negative, got %g", c.Exposure.Relaxation)
	}

	if c.Calibration.MinResponses < 1 {
		return fmt.Errorf("calibration.min_responses must be at least 1, got %d", c.Calibration.MinResponses)
	}
	if c.Calibration.MaxDeltaB <= 0 || c.Calibration.MaxDeltaA <= 0 {
		return fmt.Errorf("calibration guard bounds must be positive")
	}

	if c.Learning.MasteryAccuracy <= 0 || c.Learning.MasteryAccuracy > 1 {
		return fmt.Errorf("learning.mastery_accuracy must be in (0, 1], got %g", c.Learning.MasteryAccuracy)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format %q not one of json, console", c.Logging.Format)
	}

	return nil
}
