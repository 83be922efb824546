package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FACTDEBATE_ATTACK_MODE", "FACTDEBATE_DATASET_PATH", "FACTDEBATE_OUTPUT_DIR",
		"FACTDEBATE_RESULTS_NAME", "FACTDEBATE_LLM_PROVIDER", "OLLAMA_URL", "OLLAMA_MODEL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "JINA_API_KEY", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_SERVICE_NAME", "FACTDEBATE_LOG_LEVEL", "FACTDEBATE_CREDIBILITY_WHITELIST",
		"FACTDEBATE_MAX_ROUNDS", "FACTDEBATE_SEARCH_TOP_K", "FACTDEBATE_CONCURRENT_SEARCHES",
		"FACTDEBATE_MAX_SAMPLES", "FACTDEBATE_START_INDEX", "FACTDEBATE_PRIORITY_EPSILON",
		"FACTDEBATE_LLM_TIMEOUT", "FACTDEBATE_SEARCH_TIMEOUT", "FACTDEBATE_CLAIM_DEADLINE",
		"OTEL_EXPORTER_OTLP_INSECURE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxRounds)
	assert.Equal(t, 5, cfg.SearchTopK)
	assert.Equal(t, "strict", cfg.AttackMode)
	assert.InDelta(t, 0.05, cfg.PriorityEpsilon, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 30*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.ClaimDeadline)
	assert.Equal(t, 4, cfg.ConcurrentSearches)
	assert.Equal(t, "ollama", cfg.LLMProvider)
}

func TestLoadParsesOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACTDEBATE_MAX_ROUNDS", "5")
	t.Setenv("FACTDEBATE_ATTACK_MODE", "relaxed")
	t.Setenv("FACTDEBATE_CLAIM_DEADLINE", "0.01")
	t.Setenv("FACTDEBATE_CREDIBILITY_WHITELIST", "example.edu, mytrusted.org")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxRounds)
	assert.Equal(t, "relaxed", cfg.AttackMode)
	assert.InDelta(t, 10*time.Millisecond, cfg.ClaimDeadline, float64(time.Millisecond))
	assert.Equal(t, []string{"example.edu", "mytrusted.org"}, cfg.CredibilityWhitelist)
}

func TestLoadRejectsUnparseableInt(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACTDEBATE_MAX_ROUNDS", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidAttackMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACTDEBATE_ATTACK_MODE", "aggressive")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsOpenAIProviderWithoutAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACTDEBATE_LLM_PROVIDER", "openai")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadAcceptsOpenAIProviderWithAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACTDEBATE_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLMProvider)
}

func TestValidateRejectsNonPositiveMaxRounds(t *testing.T) {
	cfg := Config{
		MaxRounds: 0, SearchTopK: 1, AttackMode: "strict",
		LLMTimeout: time.Second, SearchTimeout: time.Second, ClaimDeadline: time.Second,
		ConcurrentSearches: 1, LLMProvider: "ollama",
	}
	assert.Error(t, cfg.Validate())
}
