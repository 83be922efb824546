// Package solver computes the grounded extension of an argumentation graph
//: a deterministic fixed-point partition of
// evidence ids into Accepted and Defeated.
package solver

import "github.com/veridex-ai/factdebate/internal/graph"

// DefaultIterationCap bounds the number of passes over the node set before
// any still-unclassified node is forced into Defeated.
const DefaultIterationCap = 100

// Result is the Accepted/Defeated partition produced by Solve. Every node id
// present in the input snapshot belongs to exactly one side.
type Result struct {
	Accepted map[string]bool
	Defeated map[string]bool
}

// IsAccepted reports whether id was placed in the accepted set.
func (r Result) IsAccepted(id string) bool {
	return r.Accepted[id]
}

// AcceptedIDs returns accepted ids in the order they appear in ids, so
// callers can recover a stable iteration order from the original snapshot.
func (r Result) AcceptedIDs(ids []string) []string {
	out := make([]string, 0, len(r.Accepted))
	for _, id := range ids {
		if r.Accepted[id] {
			out = append(out, id)
		}
	}
	return out
}

// attackerIndex maps a node id to the ids of its attackers, built once from
// the edge list so each pass over the node set is a map lookup.
type attackerIndex map[string][]string

func buildAttackerIndex(edges []graphEdge) attackerIndex {
	idx := make(attackerIndex)
	for _, e := range edges {
		idx[e.Target] = append(idx[e.Target], e.Attacker)
	}
	return idx
}

// graphEdge is the minimal edge shape the solver needs, decoupled from the
// graph package's richer AttackEdge so Solve can be tested against bare
// fixtures without constructing full evidence records.
type graphEdge struct {
	Attacker string
	Target   string
}

// Solve computes the grounded extension over the given snapshot using a
// deterministic fixed-point iteration. It is a pure function of
// (nodes, edges): same input always yields the same partition.
func Solve(snap graph.Snapshot) Result {
	ids := make([]string, len(snap.Nodes))
	for i, n := range snap.Nodes {
		ids[i] = n.ID
	}
	edges := make([]graphEdge, len(snap.Edges))
	for i, e := range snap.Edges {
		edges[i] = graphEdge{Attacker: e.Attacker, Target: e.Target}
	}
	return solve(ids, edges, DefaultIterationCap)
}

// solve runs the core algorithm over a plain id list and edge list, with an
// explicit iteration cap, so it can be exercised directly from tests without
// building a graph.Snapshot.
func solve(ids []string, edges []graphEdge, iterationCap int) Result {
	attackers := buildAttackerIndex(edges)

	accepted := make(map[string]bool, len(ids))
	defeated := make(map[string]bool, len(ids))

	for pass := 0; pass < iterationCap; pass++ {
		changed := false
		for _, id := range ids {
			if accepted[id] || defeated[id] {
				continue
			}
			atk := attackers[id]
			switch {
			case len(atk) == 0:
				accepted[id] = true
				changed = true
			case allDefeated(atk, defeated):
				accepted[id] = true
				changed = true
			case anyAccepted(atk, accepted):
				defeated[id] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Anything still unclassified after termination is rejected under
	// grounded semantics.
	for _, id := range ids {
		if !accepted[id] && !defeated[id] {
			defeated[id] = true
		}
	}

	return Result{Accepted: accepted, Defeated: defeated}
}

func allDefeated(ids []string, defeated map[string]bool) bool {
	for _, id := range ids {
		if !defeated[id] {
			return false
		}
	}
	return true
}

func anyAccepted(ids []string, accepted map[string]bool) bool {
	for _, id := range ids {
		if accepted[id] {
			return true
		}
	}
	return false
}
