package model

// AttackMode selects which priority rule governs edge validity: the implementation picks one mode at configuration
// time and applies it consistently for the whole run.
type AttackMode string

const (
	// AttackModeStrict requires priority(attacker) > priority(target) + epsilon.
	AttackModeStrict AttackMode = "strict"
	// AttackModeRelaxed requires priority(attacker) >= priority(target) - 0.15,
	// used for Pro/Con rebuttals where a near-equal-priority counter still
	// gets a (weaker) edge.
	AttackModeRelaxed AttackMode = "relaxed"
)

// RelaxedSlack is the tolerance in the relaxed priority rule.
const RelaxedSlack = 0.15

// DefaultEpsilon is the strict-mode priority margin.
const DefaultEpsilon = 0.05

// AttackEdge is an append-only directed edge asserting that Attacker defeats
// Target, subject to the priority invariant.
type AttackEdge struct {
	Attacker  string
	Target    string
	Strength  float64
	Rationale string
	Round     int
}

// ValidAttack reports whether an edge from attacker to target is valid under
// the given mode and epsilon, and if so what strength it carries. ok is false when the priority rule rejects the edge (I2).
func ValidAttack(mode AttackMode, epsilon, attackerPriority, targetPriority float64) (strength float64, ok bool) {
	diff := attackerPriority - targetPriority
	switch mode {
	case AttackModeRelaxed:
		if diff < -RelaxedSlack {
			return 0, false
		}
		s := diff + 0.2
		if s < 0.1 {
			s = 0.1
		}
		return s, true
	default: // AttackModeStrict
		if diff <= epsilon {
			return 0, false
		}
		return diff, true
	}
}
