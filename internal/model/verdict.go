package model

// Decision is the final verdict label.
type Decision string

const (
	Supported         Decision = "Supported"
	Refuted           Decision = "Refuted"
	NotEnoughEvidence Decision = "NotEnoughEvidence"
)

// Stance is the LLM-derived relation of one evidence item to the claim.
type Stance string

const (
	StanceSupport Stance = "support"
	StanceRefute  Stance = "refute"
	StanceNeutral Stance = "neutral"
)

// Verdict is the system's final output for one claim.
type Verdict struct {
	Decision      Decision
	Confidence    float64
	Reasoning     string
	KeyEvidence   []string // ordered, length <= 3
	Accepted      []string // the grounded extension's accepted ids
	ProStrength   float64
	ConStrength   float64
	TotalCount    int
	AcceptedCount int

	// DeadlineExceeded marks a verdict returned because the per-claim
	// deadline fired before the debate completed.
	DeadlineExceeded bool

	// ExternalUnavailable marks a verdict returned because both the LLM
	// backend and the search backend failed on every attempt, so the claim
	// could not be processed at all.
	ExternalUnavailable bool
}
