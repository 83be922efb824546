// Package config loads and validates run configuration from environment
// variables, following the run configuration table.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything needed to construct and run one debate, single
// claim or batch.
type Config struct {
	// Debate parameters.
	MaxRounds            int
	SearchTopK           int
	CredibilityWhitelist []string // extra host suffixes treated as High credibility
	PriorityEpsilon      float64
	AttackMode           string // "strict" or "relaxed"

	// Timeouts.
	LLMTimeout      time.Duration
	SearchTimeout   time.Duration
	ClaimDeadline   time.Duration
	ConcurrentSearches int

	// Batch-mode inputs.
	DatasetPath string
	OutputDir   string
	ResultsName string
	MaxSamples  int
	StartIndex  int

	// LLM backend settings.
	LLMProvider string // "ollama" or "openai"
	OllamaURL   string
	OllamaModel string
	OpenAIAPIKey string
	OpenAIModel  string

	// Search backend settings.
	JinaAPIKey string

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel string
}

// Load reads an optional .env file (teacher's cmd/akashi/main.go does the
// same via godotenv before reading the environment) and then configuration
// from environment variables with sensible defaults. Returns an error if any
// environment variable contains an unparseable value.
func Load() (Config, error) {
	_ = godotenv.Load() // absence of a .env file is not an error

	var errs []error
	cfg := Config{
		AttackMode:   envStr("FACTDEBATE_ATTACK_MODE", "strict"),
		DatasetPath:  envStr("FACTDEBATE_DATASET_PATH", ""),
		OutputDir:    envStr("FACTDEBATE_OUTPUT_DIR", "./output"),
		ResultsName:  envStr("FACTDEBATE_RESULTS_NAME", "results"),
		LLMProvider:  envStr("FACTDEBATE_LLM_PROVIDER", "ollama"),
		OllamaURL:    envStr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:  envStr("OLLAMA_MODEL", "llama3"),
		OpenAIAPIKey: envStr("OPENAI_API_KEY", ""),
		OpenAIModel:  envStr("OPENAI_MODEL", "gpt-4o-mini"),
		JinaAPIKey:   envStr("JINA_API_KEY", ""),
		OTELEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  envStr("OTEL_SERVICE_NAME", "factdebate"),
		LogLevel:     envStr("FACTDEBATE_LOG_LEVEL", "info"),
		CredibilityWhitelist: envStrSlice("FACTDEBATE_CREDIBILITY_WHITELIST", nil),
	}

	cfg.MaxRounds, errs = collectInt(errs, "FACTDEBATE_MAX_ROUNDS", 3)
	cfg.SearchTopK, errs = collectInt(errs, "FACTDEBATE_SEARCH_TOP_K", 5)
	cfg.ConcurrentSearches, errs = collectInt(errs, "FACTDEBATE_CONCURRENT_SEARCHES", 4)
	cfg.MaxSamples, errs = collectInt(errs, "FACTDEBATE_MAX_SAMPLES", 0)
	cfg.StartIndex, errs = collectInt(errs, "FACTDEBATE_START_INDEX", 0)

	cfg.PriorityEpsilon, errs = collectFloat(errs, "FACTDEBATE_PRIORITY_EPSILON", 0.05)

	cfg.LLMTimeout, errs = collectDuration(errs, "FACTDEBATE_LLM_TIMEOUT", 60*time.Second)
	cfg.SearchTimeout, errs = collectDuration(errs, "FACTDEBATE_SEARCH_TIMEOUT", 30*time.Second)
	cfg.ClaimDeadline, errs = collectDuration(errs, "FACTDEBATE_CLAIM_DEADLINE", 10*time.Minute)

	cfg.OTELInsecure, errs = collectBool(errs, "OTEL_EXPORTER_OTLP_INSECURE", false)

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return Config{}, fmt.Errorf("config: invalid environment variables:\n  %s", strings.Join(msgs, "\n  "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// collectInt parses an int env var, appending any error to the accumulator.
func collectInt(errs []error, key string, fallback int) (int, []error) {
	v, err := envInt(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// collectFloat parses a float env var, appending any error to the accumulator.
func collectFloat(errs []error, key string, fallback float64) (float64, []error) {
	v, err := envFloat(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// collectBool parses a bool env var, appending any error to the accumulator.
func collectBool(errs []error, key string, fallback bool) (bool, []error) {
	v, err := envBool(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// collectDuration parses a duration-in-seconds env var, appending any error
// to the accumulator.
func collectDuration(errs []error, key string, fallback time.Duration) (time.Duration, []error) {
	v, err := envDuration(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// Validate checks that required configuration is present and sane.
func (c Config) Validate() error {
	var errs []error

	if c.MaxRounds < 1 {
		errs = append(errs, errors.New("config: FACTDEBATE_MAX_ROUNDS must be >= 1"))
	}
	if c.SearchTopK < 1 {
		errs = append(errs, errors.New("config: FACTDEBATE_SEARCH_TOP_K must be >= 1"))
	}
	if c.PriorityEpsilon < 0 {
		errs = append(errs, errors.New("config: FACTDEBATE_PRIORITY_EPSILON must be >= 0"))
	}
	if c.AttackMode != "strict" && c.AttackMode != "relaxed" {
		errs = append(errs, fmt.Errorf("config: FACTDEBATE_ATTACK_MODE must be \"strict\" or \"relaxed\", got %q", c.AttackMode))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, errors.New("config: FACTDEBATE_LLM_TIMEOUT must be positive"))
	}
	if c.SearchTimeout <= 0 {
		errs = append(errs, errors.New("config: FACTDEBATE_SEARCH_TIMEOUT must be positive"))
	}
	if c.ClaimDeadline <= 0 {
		errs = append(errs, errors.New("config: FACTDEBATE_CLAIM_DEADLINE must be positive"))
	}
	if c.ConcurrentSearches < 1 {
		errs = append(errs, errors.New("config: FACTDEBATE_CONCURRENT_SEARCHES must be >= 1"))
	}
	if c.LLMProvider != "ollama" && c.LLMProvider != "openai" {
		errs = append(errs, fmt.Errorf("config: FACTDEBATE_LLM_PROVIDER must be \"ollama\" or \"openai\", got %q", c.LLMProvider))
	}
	if c.LLMProvider == "openai" && c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("config: OPENAI_API_KEY is required when FACTDEBATE_LLM_PROVIDER=openai"))
	}

	return errors.Join(errs...)
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid float", key, v)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

// envDuration reads a duration given in whole seconds (the run configuration
// table's *_s fields, e.g. claim_deadline_s), not Go duration syntax.
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid number of seconds", key, v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// envStrSlice reads a comma-separated env var into a string slice.
// Returns fallback if the env var is empty or unset.
func envStrSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
