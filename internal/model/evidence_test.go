package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeQuality(t *testing.T) {
	tests := []struct {
		name    string
		cred    Credibility
		content string
		want    float64
	}{
		{"high short", CredibilityHigh, strings.Repeat("a", 50), 0.7*1.0 + 0.3*(50.0/500.0)},
		{"high saturated", CredibilityHigh, strings.Repeat("a", 600), 0.7*1.0 + 0.3*1.0},
		{"medium", CredibilityMedium, strings.Repeat("a", 250), 0.7*0.6 + 0.3*0.5},
		{"low", CredibilityLow, strings.Repeat("a", 500), 0.7*0.3 + 0.3*1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeQuality(tt.cred, tt.content)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestEvidencePriorityMonotonicInCredibility(t *testing.T) {
	content := strings.Repeat("x", 500)
	high, err := NewEvidence("e1", content, "https://who.int/a", "WHO", CredibilityHigh, AgentPro, 1, "q", time.Now(), "h1")
	require.NoError(t, err)
	med, err := NewEvidence("e2", content, "https://example.com/a", "Example", CredibilityMedium, AgentPro, 1, "q", time.Now(), "h2")
	require.NoError(t, err)
	low, err := NewEvidence("e3", content, "https://blog.example/a", "Blog", CredibilityLow, AgentPro, 1, "q", time.Now(), "h3")
	require.NoError(t, err)

	assert.Greater(t, high.Priority(), med.Priority())
	assert.Greater(t, med.Priority(), low.Priority())
}

func TestNewEvidenceRejectsShortContent(t *testing.T) {
	_, err := NewEvidence("e1", "too short", "https://example.com", "Example", CredibilityMedium, AgentPro, 1, "q", time.Now(), "h")
	require.ErrorIs(t, err, ErrContentTooShort)
}

func TestNewEvidenceRejectsEmptyURL(t *testing.T) {
	_, err := NewEvidence("e1", strings.Repeat("a", 60), "", "Example", CredibilityMedium, AgentPro, 1, "q", time.Now(), "h")
	require.ErrorIs(t, err, ErrEmptyURL)
}

func TestValidAttackStrictMode(t *testing.T) {
	// priority diff must exceed epsilon.
	_, ok := ValidAttack(AttackModeStrict, DefaultEpsilon, 0.5, 0.47)
	assert.False(t, ok, "diff of 0.03 should not clear epsilon 0.05")

	strength, ok := ValidAttack(AttackModeStrict, DefaultEpsilon, 0.9, 0.6)
	require.True(t, ok)
	assert.InDelta(t, 0.3, strength, 1e-9)
}

func TestValidAttackRelaxedMode(t *testing.T) {
	// Equal priority is allowed in relaxed mode (diff 0 >= -0.15).
	strength, ok := ValidAttack(AttackModeRelaxed, DefaultEpsilon, 0.5, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.2, strength, 1e-9)

	// Attacker slightly weaker but within slack still produces an edge,
	// floored at 0.1.
	strength, ok = ValidAttack(AttackModeRelaxed, DefaultEpsilon, 0.4, 0.54)
	require.True(t, ok)
	assert.InDelta(t, 0.1, strength, 1e-9)

	// Beyond the slack, no edge.
	_, ok = ValidAttack(AttackModeRelaxed, DefaultEpsilon, 0.2, 0.5)
	assert.False(t, ok)
}
