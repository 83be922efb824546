// Package judge implements the Judge controller:
// grounded-extension computation, per-node stance classification, strength
// derivation, and the ordered decision rule that turns those into a verdict.
//
// Despite the field names ProStrength/ConStrength inherited from
// model.Verdict, the values computed here are strictly stance-derived
// (S_support, S_refute) and never consult which agent retrieved a node.
package judge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/veridex-ai/factdebate/internal/graph"
	"github.com/veridex-ai/factdebate/internal/llmchain"
	"github.com/veridex-ai/factdebate/internal/model"
	"github.com/veridex-ai/factdebate/internal/solver"
)

// Judge computes the final verdict for a completed debate graph.
type Judge struct {
	stanceChain  *llmchain.StanceCheckChain
	verdictChain *llmchain.VerdictGenChain
}

func New(stanceChain *llmchain.StanceCheckChain, verdictChain *llmchain.VerdictGenChain) *Judge {
	return &Judge{stanceChain: stanceChain, verdictChain: verdictChain}
}

// Decide runs the full judge pipeline over a claim's final graph.
func (j *Judge) Decide(ctx context.Context, snap graph.Snapshot) model.Verdict {
	result := solver.Solve(snap)
	acceptedIDs := result.AcceptedIDs(nodeIDs(snap))

	if len(acceptedIDs) == 0 {
		return model.Verdict{
			Decision:      model.NotEnoughEvidence,
			Confidence:    0.3,
			Reasoning:     "No evidence survived the grounded extension; nothing to decide on.",
			Accepted:      nil,
			TotalCount:    len(snap.Nodes),
			AcceptedCount: 0,
		}
	}

	byID := make(map[string]model.Evidence, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}

	var supporting, refuting []model.Evidence
	for _, id := range acceptedIDs {
		ev := byID[id]
		stance := j.classify(ctx, snap.Claim, ev)
		switch stance {
		case llmchain.StanceSupport:
			supporting = append(supporting, ev)
		case llmchain.StanceRefute:
			refuting = append(refuting, ev)
		}
	}

	supportStrength := meanPriority(supporting)
	refuteStrength := meanPriority(refuting)

	decision, confidence := decide(supporting, refuting, supportStrength, refuteStrength)
	keyEvidence := selectKeyEvidence(supporting, refuting, decision)

	reasoning := j.generateReasoning(ctx, snap.Claim, decision, supporting, refuting, supportStrength, refuteStrength, keyEvidence)

	return model.Verdict{
		Decision:      decision,
		Confidence:    confidence,
		Reasoning:     reasoning,
		KeyEvidence:   keyEvidence,
		Accepted:      acceptedIDs,
		ProStrength:   supportStrength,
		ConStrength:   refuteStrength,
		TotalCount:    len(snap.Nodes),
		AcceptedCount: len(acceptedIDs),
	}
}

func nodeIDs(snap graph.Snapshot) []string {
	ids := make([]string, len(snap.Nodes))
	for i, n := range snap.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// classify falls back to StanceNeutral, the chain's own conservative
// default on parse failure, when the chain is unavailable or errors.
// pro_strength/con_strength must depend only on stance classification, never
// on which agent retrieved the node, so the fallback cannot read
// ev.RetrievedBy either.
func (j *Judge) classify(ctx context.Context, claim string, ev model.Evidence) llmchain.Stance {
	if j.stanceChain == nil {
		return llmchain.StanceNeutral
	}
	stance, err := j.stanceChain.Run(ctx, llmchain.StanceCheckInput{Claim: claim, EvidenceContent: ev.Content})
	if err != nil {
		return llmchain.StanceNeutral
	}
	return stance
}

func meanPriority(evs []model.Evidence) float64 {
	if len(evs) == 0 {
		return 0
	}
	var sum float64
	for _, e := range evs {
		sum += e.Priority()
	}
	return sum / float64(len(evs))
}

// decide applies the ordered decision rule, checking each clause in turn
// and returning on the first one that matches.
func decide(supporting, refuting []model.Evidence, supportStrength, refuteStrength float64) (model.Decision, float64) {
	if len(supporting) == 0 && len(refuting) == 0 {
		return model.NotEnoughEvidence, 0.3
	}
	if len(supporting) == 0 {
		return model.Refuted, cap90(0.6 + 0.4*refuteStrength)
	}
	if len(refuting) == 0 {
		return model.Supported, cap90(0.6 + 0.4*supportStrength)
	}

	delta := supportStrength - refuteStrength
	if abs(delta) > 0.15 {
		confidence := cap90(0.6 + 0.4*abs(delta))
		if delta > 0 {
			return model.Supported, confidence
		}
		return model.Refuted, confidence
	}

	maxSupport := maxPriority(supporting)
	maxRefute := maxPriority(refuting)
	if maxSupport > maxRefute+0.1 {
		return model.Supported, 0.6
	}
	if maxRefute > maxSupport+0.1 {
		return model.Refuted, 0.6
	}

	if len(supporting) >= len(refuting)+2 {
		return model.Supported, 0.55
	}
	if len(refuting) >= len(supporting)+2 {
		return model.Refuted, 0.55
	}

	return model.NotEnoughEvidence, 0.5
}

func cap90(x float64) float64 {
	if x > 0.9 {
		return 0.9
	}
	return x
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func maxPriority(evs []model.Evidence) float64 {
	var m float64
	for i, e := range evs {
		p := e.Priority()
		if i == 0 || p > m {
			m = p
		}
	}
	return m
}

// selectKeyEvidence returns the top <=3 ids by priority from the winning
// side, or the union for NotEnoughEvidence.
func selectKeyEvidence(supporting, refuting []model.Evidence, decision model.Decision) []string {
	var pool []model.Evidence
	switch decision {
	case model.Supported:
		pool = supporting
	case model.Refuted:
		pool = refuting
	default:
		pool = append(append([]model.Evidence{}, supporting...), refuting...)
	}

	sorted := append([]model.Evidence{}, pool...)
	sort.SliceStable(sorted, func(i, k int) bool { return sorted[i].Priority() > sorted[k].Priority() })
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	ids := make([]string, len(sorted))
	for i, e := range sorted {
		ids[i] = e.ID
	}
	return ids
}

// generateReasoning invokes VerdictGen and reconciles its decision with the
// rule-derived one: the rule always wins on disagreement, with a note
// prefixed to the returned reasoning.
func (j *Judge) generateReasoning(ctx context.Context, claim string, decision model.Decision, supporting, refuting []model.Evidence, supportStrength, refuteStrength float64, keyEvidence []string) string {
	if j.verdictChain == nil {
		return fmt.Sprintf("Based on %d supporting and %d refuting accepted evidence items, the decision is %s.", len(supporting), len(refuting), decision)
	}

	out, err := j.verdictChain.Run(ctx, llmchain.VerdictGenInput{
		Claim:             claim,
		SupportingSummary: summarize(supporting),
		RefutingSummary:   summarize(refuting),
		SupportStrength:   supportStrength,
		RefuteStrength:    refuteStrength,
		RuleDecision:      string(decision),
		KeyEvidenceIDs:    keyEvidence,
	})
	if err != nil {
		return fmt.Sprintf("Based on %d supporting and %d refuting accepted evidence items, the decision is %s.", len(supporting), len(refuting), decision)
	}
	if out.Decision != string(decision) {
		return fmt.Sprintf("(verdict generator suggested %s; the rule-derived decision %s takes precedence) %s", out.Decision, decision, out.Reasoning)
	}
	return out.Reasoning
}

func summarize(evs []model.Evidence) string {
	if len(evs) == 0 {
		return "none"
	}
	limit := evs
	if len(limit) > 2 {
		limit = limit[:2]
	}
	var b strings.Builder
	for i, e := range limit {
		fmt.Fprintf(&b, "%d. [%s] %s (credibility: %s, priority: %.2f)\n", i+1, e.Source, truncate(e.Content, 150), e.Credibility, e.Priority())
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
