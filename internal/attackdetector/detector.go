// Package attackdetector proposes candidate attack edges for one debate
// round: a priority gate cheap enough to run over
// every cross-agent pair, an LLM semantic check for the pairs that pass it,
// and a credibility-rank fallback when the LLM is unavailable.
package attackdetector

import (
	"context"

	"github.com/veridex-ai/factdebate/internal/graph"
	"github.com/veridex-ai/factdebate/internal/llmchain"
	"github.com/veridex-ai/factdebate/internal/model"
)

// Proposal is a candidate edge the caller still has to run through
// graph.AddAttack, which re-validates the priority invariant (I2) before
// storing it.
type Proposal struct {
	Attacker  string
	Target    string
	Rationale string
}

// Detector finds candidate attack edges among a graph's nodes.
type Detector struct {
	chain *llmchain.AttackCheckChain
	mode  model.AttackMode
}

func New(chain *llmchain.AttackCheckChain, mode model.AttackMode) *Detector {
	return &Detector{chain: chain, mode: mode}
}

// candidatePairs returns the (attacker, target) pairs to evaluate for the
// given round: in strict mode, only pairs where the attacker was added this
// round; in relaxed mode,
// all cross-agent pairs in the graph, since relaxed mode also reconsiders
// pairs added in earlier rounds.
func candidatePairs(snap graph.Snapshot, round int, mode model.AttackMode) [][2]model.Evidence {
	var pairs [][2]model.Evidence
	for _, a := range snap.Nodes {
		if mode == model.AttackModeStrict && a.Round != round {
			continue
		}
		for _, b := range snap.Nodes {
			if a.ID == b.ID || a.RetrievedBy == b.RetrievedBy {
				continue
			}
			pairs = append(pairs, [2]model.Evidence{a, b})
		}
	}
	return pairs
}

// Run evaluates candidate pairs for round and returns the edges that pass
// both the priority gate and the semantic or fallback check. The priority
// invariant is re-checked by the caller at insertion time (I2); Run's own
// gate is an optimization to avoid LLM calls on pairs that can never
// produce a valid edge.
func (d *Detector) Run(ctx context.Context, snap graph.Snapshot, round int, epsilon float64) []Proposal {
	var proposals []Proposal
	for _, pair := range candidatePairs(snap, round, d.mode) {
		a, b := pair[0], pair[1]
		diff := a.Priority() - b.Priority()

		switch d.mode {
		case model.AttackModeStrict:
			if diff <= epsilon {
				continue
			}
		case model.AttackModeRelaxed:
			if diff < -model.RelaxedSlack {
				continue
			}
		}

		attacks, rationale := d.check(ctx, a, b)
		if attacks {
			proposals = append(proposals, Proposal{Attacker: a.ID, Target: b.ID, Rationale: rationale})
		}
	}
	return proposals
}

// check runs the LLM semantic check; on any chain error
// it falls back to the credibility-rank rule (step 3).
func (d *Detector) check(ctx context.Context, a, b model.Evidence) (bool, string) {
	if d.chain != nil {
		out, err := d.chain.Run(ctx, llmchain.AttackCheckInput{
			AttackerContent:     a.Content,
			AttackerSource:      a.Source,
			AttackerCredibility: string(a.Credibility),
			AttackerPriority:    a.Priority(),
			TargetContent:       b.Content,
			TargetSource:        b.Source,
			TargetCredibility:   string(b.Credibility),
			TargetPriority:      b.Priority(),
		})
		if err == nil {
			return out.Attacks, out.Rationale
		}
	}
	return fallbackAttackCheck(a, b)
}

// fallbackAttackCheck declares an attack iff the attacker outranks the
// target in the credibility rank order.
func fallbackAttackCheck(a, b model.Evidence) (bool, string) {
	if model.CredibilityRank(a.Credibility) > model.CredibilityRank(b.Credibility) {
		return true, "higher credibility (" + string(a.Credibility) + " vs " + string(b.Credibility) + ")"
	}
	return false, ""
}
