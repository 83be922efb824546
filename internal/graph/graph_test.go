package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex-ai/factdebate/internal/model"
)

func ev(t *testing.T, id string, cred model.Credibility, quality float64, agent model.Agent) model.Evidence {
	t.Helper()
	e, err := model.NewEvidence(id, "content long enough to pass the minimum admission length filter here", "https://example.com/"+id, "src", cred, agent, 1, "q", time.Now(), id+"-hash")
	require.NoError(t, err)
	e.Quality = quality
	return e
}

func TestAddAttackEnforcesPriorityInvariant(t *testing.T) {
	g := New("claim", model.AttackModeStrict, model.DefaultEpsilon)
	low := ev(t, "low", model.CredibilityLow, 0.3, model.AgentPro)   // priority 0.09
	high := ev(t, "high", model.CredibilityHigh, 1.0, model.AgentCon) // priority 1.0
	require.True(t, g.AddEvidenceNode(low))
	require.True(t, g.AddEvidenceNode(high))

	// low cannot attack high.
	assert.False(t, g.AddAttack("low", "high", "weak attacking strong", 1))
	assert.Equal(t, 1, g.RejectedEdgeCount())

	// high can attack low.
	assert.True(t, g.AddAttack("high", "low", "strong attacking weak", 1))
	assert.Equal(t, 1, len(g.Edges()))
}

func TestAddAttackRequiresExistingNodes(t *testing.T) {
	g := New("claim", model.AttackModeStrict, model.DefaultEpsilon)
	n := ev(t, "n1", model.CredibilityHigh, 1.0, model.AgentPro)
	require.True(t, g.AddEvidenceNode(n))

	assert.False(t, g.AddAttack("n1", "missing", "r", 1))
	assert.False(t, g.AddAttack("missing", "n1", "r", 1))
}

func TestAddAttackIdempotent(t *testing.T) {
	g := New("claim", model.AttackModeStrict, model.DefaultEpsilon)
	low := ev(t, "low", model.CredibilityLow, 0.3, model.AgentPro)
	high := ev(t, "high", model.CredibilityHigh, 1.0, model.AgentCon)
	require.True(t, g.AddEvidenceNode(low))
	require.True(t, g.AddEvidenceNode(high))

	assert.True(t, g.AddAttack("high", "low", "r1", 1))
	assert.False(t, g.AddAttack("high", "low", "r2", 2), "duplicate (attacker,target) must be a no-op")
	assert.Len(t, g.Edges(), 1)
}

func TestAttackersAndTargetsOf(t *testing.T) {
	g := New("claim", model.AttackModeStrict, model.DefaultEpsilon)
	a := ev(t, "a", model.CredibilityHigh, 1.0, model.AgentCon)
	b := ev(t, "b", model.CredibilityMedium, 0.8, model.AgentPro)
	c := ev(t, "c", model.CredibilityLow, 0.3, model.AgentPro)
	for _, n := range []model.Evidence{a, b, c} {
		require.True(t, g.AddEvidenceNode(n))
	}
	require.True(t, g.AddAttack("a", "b", "r", 1))
	require.True(t, g.AddAttack("b", "c", "r", 1))

	assert.Equal(t, []string{"a"}, g.AttackersOf("b"))
	assert.Equal(t, []string{"b"}, g.TargetsOf("a"))
	assert.Empty(t, g.AttackersOf("a"))
}

func TestSerializeStableShape(t *testing.T) {
	g := New("the claim", model.AttackModeStrict, model.DefaultEpsilon)
	a := ev(t, "a", model.CredibilityHigh, 1.0, model.AgentPro)
	require.True(t, g.AddEvidenceNode(a))

	out := g.Serialize()
	assert.Equal(t, "the claim", out.Claim)
	require.Len(t, out.EvidenceNodes, 1)
	assert.Equal(t, "a", out.EvidenceNodes[0].ID)
	assert.Equal(t, 1, out.Statistics.TotalNodes)
	assert.Equal(t, 1, out.Statistics.ProNodes)
}
