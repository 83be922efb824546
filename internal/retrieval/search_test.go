package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex-ai/factdebate/internal/model"
)

func TestInferCredibilityBuiltins(t *testing.T) {
	cases := []struct {
		url  string
		want model.Credibility
	}{
		{"https://www.cdc.gov/report", model.CredibilityHigh},
		{"https://mit.edu/paper", model.CredibilityHigh},
		{"https://who.int/news", model.CredibilityHigh},
		{"https://en.wikipedia.org/wiki/Earth", model.CredibilityHigh},
		{"https://www.nature.com/articles/x", model.CredibilityHigh},
		{"https://www.nytimes.com/2024/article", model.CredibilityMedium},
		{"https://example.org/post", model.CredibilityMedium},
		{"https://some-random-blog.xyz/post", model.CredibilityLow},
		{"not a url at all", model.CredibilityLow},
	}
	for _, c := range cases {
		got := InferCredibility(c.url, CredibilityWhitelist{})
		assert.Equal(t, c.want, got, c.url)
	}
}

func TestInferCredibilityRespectsConfiguredWhitelist(t *testing.T) {
	wl := CredibilityWhitelist{Suffixes: []string{"reuters.com"}}
	assert.Equal(t, model.CredibilityHigh, InferCredibility("https://www.reuters.com/world/x", wl))
	assert.Equal(t, model.CredibilityMedium, InferCredibility("https://www.apnews.com/article", wl))
}

func TestInferCredibilityStripsWWWAndLowercases(t *testing.T) {
	a := InferCredibility("https://WWW.CDC.GOV/report", CredibilityWhitelist{})
	b := InferCredibility("https://cdc.gov/report", CredibilityWhitelist{})
	assert.Equal(t, a, b)
	assert.Equal(t, model.CredibilityHigh, a)
}

func TestBuildEvidenceRejectsShortContent(t *testing.T) {
	hit := Hit{Title: "t", URL: "https://example.com/a", Content: "too short"}
	_, err := BuildEvidence(hit, CredibilityWhitelist{}, model.AgentPro, 1, "q", time.Now())
	require.ErrorIs(t, err, model.ErrContentTooShort)
}

func TestBuildEvidenceRejectsEmptyURL(t *testing.T) {
	hit := Hit{Title: "t", URL: "", Content: "this content is long enough to pass the minimum admission filter for evidence"}
	_, err := BuildEvidence(hit, CredibilityWhitelist{}, model.AgentPro, 1, "q", time.Now())
	require.ErrorIs(t, err, model.ErrEmptyURL)
}

func TestBuildEvidenceDerivesCredibilityAndPriority(t *testing.T) {
	hit := Hit{Title: "CDC Report", URL: "https://www.cdc.gov/report", Content: "this content is long enough to pass the minimum admission filter for evidence"}
	e, err := BuildEvidence(hit, CredibilityWhitelist{}, model.AgentCon, 2, "q", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.CredibilityHigh, e.Credibility)
	assert.Equal(t, model.AgentCon, e.RetrievedBy)
	assert.Equal(t, 2, e.Round)
	assert.Greater(t, e.Priority(), 0.0)
}
