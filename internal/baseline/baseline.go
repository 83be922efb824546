// Package baseline implements a single-shot fact-check ablation: one LLM
// call with no debate, retrieval, or argumentation graph, for comparison
// against the full debate pipeline. The orchestrator never calls this package.
package baseline

import (
	"context"
	"fmt"
	"strings"

	"github.com/veridex-ai/factdebate/internal/llmchain"
	"github.com/veridex-ai/factdebate/internal/model"
)

// Checker issues one zero-shot verdict call per claim.
type Checker struct {
	client llmchain.ChatClient
}

func NewChecker(client llmchain.ChatClient) *Checker {
	return &Checker{client: client}
}

// Check asks the model to decide a claim directly from its own knowledge,
// with no retrieved evidence and no adversarial debate.
func (c *Checker) Check(ctx context.Context, claim string) (model.Verdict, error) {
	messages := []llmchain.Message{
		{Role: "system", Content: "You fact-check claims using only your own knowledge. No search results are provided."},
		{Role: "user", Content: fmt.Sprintf(
			"Claim: %s\n\nReply with exactly two parts:\n"+
				"DECISION: Supported, Refuted, or NotEnoughEvidence\n"+
				"REASONING: up to 200 words explaining your decision", claim)},
	}

	resp, err := llmchain.WithRetry(ctx, llmchain.MaxRetries, llmchain.BaseRetryDelay, func() (string, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return model.Verdict{}, fmt.Errorf("baseline: check claim: %w", err)
	}

	decision, reasoning := parse(resp)
	if decision == "" {
		return model.Verdict{}, fmt.Errorf("baseline: no recognizable DECISION line in response")
	}

	return model.Verdict{
		Decision:   decision,
		Confidence: 0.5,
		Reasoning:  reasoning,
	}, nil
}

func parse(resp string) (model.Decision, string) {
	var decision model.Decision
	var reasoning string
	for _, line := range strings.Split(resp, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "decision:"):
			switch strings.ToLower(strings.TrimSpace(trimmed[len("decision:"):])) {
			case "supported":
				decision = model.Supported
			case "refuted":
				decision = model.Refuted
			case "notenoughevidence", "not enough evidence", "insufficient evidence":
				decision = model.NotEnoughEvidence
			}
		case strings.HasPrefix(lower, "reasoning:"):
			reasoning = strings.TrimSpace(trimmed[len("reasoning:"):])
		}
	}
	return decision, reasoning
}
