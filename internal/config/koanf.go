// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/lexicat/config.yaml",
	"/etc/lexicat/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Env vars map through an explicit whitelist so stray environment
	// variables cannot pollute the config tree.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are config paths parsed as comma-separated slices when
// supplied through environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names onto koanf config paths.
// Unmapped variables are dropped.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - VOCAB_PATH -> bank.vocab_path
//   - DUCKDB_PATH -> storage.path
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":          "server.host",
		"http_port":          "server.port",
		"http_timeout":       "server.timeout",
		"http_drain_timeout": "server.drain_timeout",
		"environment":        "server.environment",

		// Item bank
		"vocab_path":            "bank.vocab_path",
		"loanword_max_per_test": "bank.loanword_max_per_test",

		// CAT engine
		"cat_min_items":           "cat.min_items",
		"cat_max_items":           "cat.max_items",
		"cat_se_threshold":        "cat.se_threshold",
		"cat_convergence_window":  "cat.convergence_window",
		"cat_convergence_epsilon": "cat.convergence_epsilon",
		"cat_top_k":               "cat.top_k",
		"cat_topic_max":           "cat.topic_max",
		"cat_pos_tolerance":       "cat.pos_tolerance",
		"session_ttl":             "cat.session_ttl",
		"session_sweep_interval":  "cat.sweep_interval",

		// Learning scheduler
		"learning_default_target_words": "learning.default_target_words",
		"learning_mastery_min_reviews":  "learning.mastery_min_reviews",
		"learning_mastery_accuracy":     "learning.mastery_accuracy",
		"learning_mastery_min_interval": "learning.mastery_min_interval_days",

		// Exposure control
		"exposure_max_rate":       "exposure.max_rate",
		"exposure_relaxation":     "exposure.relaxation",
		"exposure_underused_rate": "exposure.underused_rate",
		"exposure_store_path":     "exposure.store_path",
		"exposure_flush_interval": "exposure.flush_interval",

		// Calibration
		"calibration_min_responses":    "calibration.min_responses",
		"calibration_max_delta_b":      "calibration.max_delta_b",
		"calibration_max_delta_a":      "calibration.max_delta_a",
		"calibration_sessions_3pl":     "calibration.sessions_3pl",
		"calibration_items_per_second": "calibration.items_per_second",

		// Storage
		"duckdb_path":       "storage.path",
		"duckdb_max_memory": "storage.max_memory",
		"duckdb_threads":    "storage.threads",
		"storage_max_retry": "storage.max_retry",

		// Security
		"admin_secret":        "security.admin_secret",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
