// Package graph implements the argumentation graph: evidence nodes with directed attack edges, subject to the
// priority invariant enforced at edge-insertion time.
package graph

import (
	"sync"

	"github.com/veridex-ai/factdebate/internal/model"
)

// Graph holds the claim text, evidence nodes, and the append-only edge list
// for one debate run. It is owned by the orchestrator; agent and judge
// controllers only ever read from it.
type Graph struct {
	mu     sync.RWMutex
	Claim  string
	nodes  map[string]model.Evidence
	order  []string // insertion order, preserved through serialization
	edges  []model.AttackEdge
	edgeOf map[[2]string]bool // (attacker,target) -> present, for idempotent AddAttack

	mode    model.AttackMode
	epsilon float64

	rejectedEdges int // count of proposals that failed the priority invariant or named a missing node
}

// New creates an empty graph for claim, configured with the attack mode and
// epsilon that govern edge validity for the lifetime of this run.
func New(claim string, mode model.AttackMode, epsilon float64) *Graph {
	return &Graph{
		Claim:   claim,
		nodes:   make(map[string]model.Evidence),
		edgeOf:  make(map[[2]string]bool),
		mode:    mode,
		epsilon: epsilon,
	}
}

// AddEvidenceNode inserts e as a node if not already present. Returns
// whether insertion occurred.
func (g *Graph) AddEvidenceNode(e model.Evidence) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[e.ID]; exists {
		return false
	}
	g.nodes[e.ID] = e
	g.order = append(g.order, e.ID)
	return true
}

// AddAttack validates a proposed edge against the graph's priority mode and
// against I1 (both endpoints must exist), then appends it. Returns whether
// the edge was stored; a false return with no error means the edge was
// rejected as invalid or duplicates an existing (attacker,target) pair (P4).
func (g *Graph) AddAttack(attacker, target, rationale string, round int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	a, aok := g.nodes[attacker]
	b, bok := g.nodes[target]
	if !aok || !bok {
		g.rejectedEdges++
		return false
	}
	key := [2]string{attacker, target}
	if g.edgeOf[key] {
		return false // idempotent: duplicate (attacker, target) is a no-op (P4)
	}

	strength, ok := model.ValidAttack(g.mode, g.epsilon, a.Priority(), b.Priority())
	if !ok {
		g.rejectedEdges++
		return false
	}

	g.edges = append(g.edges, model.AttackEdge{
		Attacker:  attacker,
		Target:    target,
		Strength:  strength,
		Rationale: rationale,
		Round:     round,
	})
	g.edgeOf[key] = true
	return true
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Node returns the evidence for id, if present.
func (g *Graph) Node(id string) (model.Evidence, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.nodes[id]
	return e, ok
}

// Edges returns a copy of the append-only edge list.
func (g *Graph) Edges() []model.AttackEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]model.AttackEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// AttackersOf returns the ids of evidence that attack id.
func (g *Graph) AttackersOf(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e.Attacker)
		}
	}
	return out
}

// TargetsOf returns the ids of evidence that id attacks.
func (g *Graph) TargetsOf(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for _, e := range g.edges {
		if e.Attacker == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// NodesByAgent returns node ids retrieved by the given agent, in insertion order.
func (g *Graph) NodesByAgent(agent model.Agent) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for _, id := range g.order {
		if g.nodes[id].RetrievedBy == agent {
			out = append(out, id)
		}
	}
	return out
}

// RejectedEdgeCount returns how many proposed edges were dropped for
// violating the priority invariant or for naming a node not in the graph
// (I1). Duplicate (attacker,target) proposals are not counted.
func (g *Graph) RejectedEdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rejectedEdges
}

// NodeCount and EdgeCount report graph size for statistics/serialization.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Snapshot is an immutable view used by the solver and serializer: the node
// set and edge list at a point in time, decoupled from the graph's locking.
type Snapshot struct {
	Claim string
	Nodes []model.Evidence // insertion order
	Edges []model.AttackEdge
}

// Snapshot captures the current graph state.
func (g *Graph) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nodes := make([]model.Evidence, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	edges := make([]model.AttackEdge, len(g.edges))
	copy(edges, g.edges)
	return Snapshot{Claim: g.Claim, Nodes: nodes, Edges: edges}
}

