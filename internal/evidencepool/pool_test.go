package evidencepool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex-ai/factdebate/internal/model"
)

func mustEvidence(t *testing.T, id, content, url string, agent model.Agent, round int) model.Evidence {
	t.Helper()
	e, err := model.NewEvidence(id, content, url, "Source", model.CredibilityMedium, agent, round, "query", time.Now(), NormalizeContentHash(content))
	require.NoError(t, err)
	return e
}

func TestPoolAddIdempotentOnID(t *testing.T) {
	p := New()
	e := mustEvidence(t, "e1", "this is a sufficiently long piece of evidence content for testing.", "https://example.com/a", model.AgentPro, 1)

	assert.True(t, p.Add(e))
	assert.False(t, p.Add(e), "re-adding the same id must be a no-op")
	assert.Len(t, p.GetAll(), 1)
}

func TestPoolDedupByNormalizedContent(t *testing.T) {
	p := New()
	content := "This Is The Exact Same Claim   with  extra   whitespace variance."
	e1 := mustEvidence(t, "e1", content, "https://example.com/a", model.AgentPro, 1)
	e2 := mustEvidence(t, "e2", "this is the exact same claim with extra whitespace variance.", "https://example.org/b", model.AgentCon, 1)

	assert.True(t, p.Add(e1))
	assert.False(t, p.Add(e2), "content-identical evidence from a different agent must collapse to the first")
	assert.Len(t, p.GetAll(), 1)
	stats := p.Statistics()
	assert.Equal(t, 1, stats.DuplicateK)
}

func TestPoolViews(t *testing.T) {
	p := New()
	e1 := mustEvidence(t, "e1", "pro evidence content long enough to pass the admission filter here.", "https://example.com/a", model.AgentPro, 1)
	e2 := mustEvidence(t, "e2", "con evidence content long enough to pass the admission filter also.", "https://example.com/b", model.AgentCon, 1)
	e3 := mustEvidence(t, "e3", "pro evidence from round two long enough to pass the admission filter.", "https://example.com/c", model.AgentPro, 2)
	for _, e := range []model.Evidence{e1, e2, e3} {
		require.True(t, p.Add(e))
	}

	assert.Len(t, p.GetByAgent(model.AgentPro, -1), 2)
	assert.Len(t, p.GetByAgent(model.AgentPro, 1), 1)
	assert.Len(t, p.GetByRound(1), 2)
	assert.Len(t, p.GetByCredibility(model.CredibilityMedium), 3)

	stats := p.Statistics()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByAgent[model.AgentPro])
	assert.Equal(t, 1, stats.ByAgent[model.AgentCon])
}
