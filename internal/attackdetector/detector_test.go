package attackdetector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex-ai/factdebate/internal/graph"
	"github.com/veridex-ai/factdebate/internal/model"
)

func ev(t *testing.T, id string, cred model.Credibility, agent model.Agent, round int) model.Evidence {
	t.Helper()
	e, err := model.NewEvidence(id, "evidence content long enough to pass the admission length filter ok", "https://example.com/"+id, "src", cred, agent, round, "q", time.Now(), id)
	require.NoError(t, err)
	return e
}

func TestRunFallsBackToCredibilityRankWithoutChain(t *testing.T) {
	d := New(nil, model.AttackModeStrict)
	high := ev(t, "high", model.CredibilityHigh, model.AgentPro, 1)
	low := ev(t, "low", model.CredibilityLow, model.AgentCon, 1)
	snap := graph.Snapshot{Nodes: []model.Evidence{high, low}}

	proposals := d.Run(context.Background(), snap, 1, model.DefaultEpsilon)
	require.Len(t, proposals, 1)
	assert.Equal(t, "high", proposals[0].Attacker)
	assert.Equal(t, "low", proposals[0].Target)
}

func TestRunSkipsPairsFailingPriorityGate(t *testing.T) {
	d := New(nil, model.AttackModeStrict)
	low := ev(t, "low", model.CredibilityLow, model.AgentPro, 1)
	high := ev(t, "high", model.CredibilityHigh, model.AgentCon, 1)
	snap := graph.Snapshot{Nodes: []model.Evidence{low, high}}

	proposals := d.Run(context.Background(), snap, 1, model.DefaultEpsilon)
	for _, p := range proposals {
		assert.NotEqual(t, "low", p.Attacker, "a lower-priority node must never be proposed as an attacker")
	}
}

func TestRunSkipsSameAgentPairs(t *testing.T) {
	d := New(nil, model.AttackModeStrict)
	a := ev(t, "a", model.CredibilityHigh, model.AgentPro, 1)
	b := ev(t, "b", model.CredibilityLow, model.AgentPro, 1)
	snap := graph.Snapshot{Nodes: []model.Evidence{a, b}}

	proposals := d.Run(context.Background(), snap, 1, model.DefaultEpsilon)
	assert.Empty(t, proposals, "same-agent pairs are never attack candidates")
}

func TestStrictModeOnlyConsidersCurrentRoundAttackers(t *testing.T) {
	d := New(nil, model.AttackModeStrict)
	oldHigh := ev(t, "oldHigh", model.CredibilityHigh, model.AgentPro, 1)
	newLow := ev(t, "newLow", model.CredibilityLow, model.AgentCon, 2)
	snap := graph.Snapshot{Nodes: []model.Evidence{oldHigh, newLow}}

	proposals := d.Run(context.Background(), snap, 2, model.DefaultEpsilon)
	for _, p := range proposals {
		assert.NotEqual(t, "oldHigh", p.Attacker, "strict mode only considers attackers added in the current round")
	}
}
