package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSolveOriginalFixture mirrors the reference fixture: n2 attacks n1, n3
// attacks n2. n3 has no attackers so it is accepted; that defeats n2; a
// defeated n2 no longer defends itself against n1, so n1 is also accepted.
func TestSolveOriginalFixture(t *testing.T) {
	ids := []string{"n1", "n2", "n3"}
	edges := []graphEdge{
		{Attacker: "n2", Target: "n1"},
		{Attacker: "n3", Target: "n2"},
	}
	r := solve(ids, edges, DefaultIterationCap)

	assert.True(t, r.Accepted["n1"])
	assert.True(t, r.Defeated["n2"])
	assert.True(t, r.Accepted["n3"])
}

// TestSolveUncontestedNode covers scenario 1: a single node with
// no attackers is always accepted.
func TestSolveUncontestedNode(t *testing.T) {
	r := solve([]string{"a"}, nil, DefaultIterationCap)
	assert.True(t, r.Accepted["a"])
	assert.False(t, r.Defeated["a"])
}

// TestSolveDirectRefutation covers scenario 2: b attacks a with no defense,
// a is defeated, b (no attackers) is accepted.
func TestSolveDirectRefutation(t *testing.T) {
	r := solve([]string{"a", "b"}, []graphEdge{{Attacker: "b", Target: "a"}}, DefaultIterationCap)
	assert.True(t, r.Accepted["b"])
	assert.True(t, r.Defeated["a"])
}

// TestSolveMutualAttackNoEdges covers scenario 3: with no edges at all,
// every node is uncontested and accepted.
func TestSolveMutualAttackNoEdges(t *testing.T) {
	r := solve([]string{"a", "b"}, nil, DefaultIterationCap)
	assert.True(t, r.Accepted["a"])
	assert.True(t, r.Accepted["b"])
}

// TestSolveChainDefense covers scenario 4: a <- b <- c <- d, alternating
// accept/defeat down the chain.
func TestSolveChainDefense(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	edges := []graphEdge{
		{Attacker: "b", Target: "a"},
		{Attacker: "c", Target: "b"},
		{Attacker: "d", Target: "c"},
	}
	r := solve(ids, edges, DefaultIterationCap)

	assert.True(t, r.Accepted["d"])
	assert.True(t, r.Defeated["c"])
	assert.True(t, r.Accepted["b"])
	assert.True(t, r.Defeated["a"])
}

// TestSolveOddCycleStaysUnclassifiedThenDefeated covers a 3-cycle (a<-b<-c<-a):
// no node ever satisfies "no attackers" or "all attackers defeated" or "an
// attacker accepted", so the pass loop converges with nothing decided and
// every node is forced into Defeated at termination.
func TestSolveOddCycleStaysUnclassifiedThenDefeated(t *testing.T) {
	ids := []string{"a", "b", "c"}
	edges := []graphEdge{
		{Attacker: "b", Target: "a"},
		{Attacker: "c", Target: "b"},
		{Attacker: "a", Target: "c"},
	}
	r := solve(ids, edges, DefaultIterationCap)

	assert.Empty(t, r.Accepted)
	assert.True(t, r.Defeated["a"])
	assert.True(t, r.Defeated["b"])
	assert.True(t, r.Defeated["c"])
}

// TestSolveDeterministic (P2): repeated runs over the same input produce
// identical partitions.
func TestSolveDeterministic(t *testing.T) {
	ids := []string{"n1", "n2", "n3", "n4"}
	edges := []graphEdge{
		{Attacker: "n2", Target: "n1"},
		{Attacker: "n3", Target: "n2"},
		{Attacker: "n4", Target: "n1"},
	}
	first := solve(ids, edges, DefaultIterationCap)
	for i := 0; i < 20; i++ {
		got := solve(ids, edges, DefaultIterationCap)
		assert.Equal(t, first.Accepted, got.Accepted)
		assert.Equal(t, first.Defeated, got.Defeated)
	}
}

// TestSolveSatisfiesGroundedDefinition (P3): every accepted node has every
// attacker in Defeated, and no non-accepted node satisfies that predicate.
func TestSolveSatisfiesGroundedDefinition(t *testing.T) {
	ids := []string{"n1", "n2", "n3", "n4", "n5"}
	edges := []graphEdge{
		{Attacker: "n2", Target: "n1"},
		{Attacker: "n3", Target: "n2"},
		{Attacker: "n4", Target: "n3"},
		{Attacker: "n5", Target: "n1"},
	}
	r := solve(ids, edges, DefaultIterationCap)
	attackers := buildAttackerIndex(edges)

	for _, id := range ids {
		allAttackersDefeated := allDefeated(attackers[id], r.Defeated)
		if r.Accepted[id] {
			assert.True(t, allAttackersDefeated, "%s is accepted but not all its attackers are defeated", id)
		} else {
			assert.True(t, r.Defeated[id], "%s is neither accepted nor defeated", id)
		}
	}
}

// TestSolveRespectsIterationCap ensures a degenerate cap of 0 leaves every
// node unclassified by the pass loop and thus defeated by the fallback rule,
// without panicking or looping forever.
func TestSolveRespectsIterationCap(t *testing.T) {
	r := solve([]string{"a"}, nil, 0)
	assert.True(t, r.Defeated["a"])
	assert.False(t, r.Accepted["a"])
}
