// Package agent implements the Pro and Con debate controllers. Pro and Con are symmetric except for their stance; both
// are instances of Controller, each configured with its own side's QueryChain.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/veridex-ai/factdebate/internal/llmchain"
	"github.com/veridex-ai/factdebate/internal/model"
)

const maxOpposingSummaryItems = 3

// Controller runs one side of the debate. Symmetric: stance is carried
// entirely inside the QueryChain supplied at construction.
type Controller struct {
	Agent     model.Agent
	queryChain *llmchain.QueryChain
}

func NewPro(chain *llmchain.QueryChain) *Controller {
	return &Controller{Agent: model.AgentPro, queryChain: chain}
}

func NewCon(chain *llmchain.QueryChain) *Controller {
	return &Controller{Agent: model.AgentCon, queryChain: chain}
}

// GenerateQueries produces this round's search queries: summarize the
// opponent's most recent evidence, invoke the query chain, then drop any
// query already issued by either side.
func (c *Controller) GenerateQueries(ctx context.Context, claim string, round int, opposingRecent []model.Evidence, priorQueries []string) ([]string, error) {
	summary := SummarizeOpposing(opposingRecent)

	raw, err := c.queryChain.Run(ctx, llmchain.QueryInput{
		Claim:           claim,
		Round:           round,
		OpposingSummary: summary,
		PriorQueries:    priorQueries,
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: generate queries: %w", c.Agent, err)
	}

	seen := make(map[string]bool, len(priorQueries))
	for _, q := range priorQueries {
		seen[strings.ToLower(strings.TrimSpace(q))] = true
	}

	var out []string
	for _, q := range raw {
		key := strings.ToLower(strings.TrimSpace(q))
		if key == "" || seen[key] {
			continue
		}
		out = append(out, q)
		seen[key] = true
	}
	return out, nil
}

// SummarizeOpposing bullets the up-to-3 most recent opposing evidences into
// a short source + truncated-content list.
func SummarizeOpposing(opposingRecent []model.Evidence) string {
	if len(opposingRecent) == 0 {
		return ""
	}
	items := opposingRecent
	if len(items) > maxOpposingSummaryItems {
		items = items[len(items)-maxOpposingSummaryItems:]
	}
	var b strings.Builder
	for _, e := range items {
		fmt.Fprintf(&b, "- %s: %s\n", e.Source, truncate(e.Content, 200))
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
