package llmchain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxRetries and BaseRetryDelay bound the retry policy shared by every chain.
const (
	MaxRetries     = 3
	BaseRetryDelay = 500 * time.Millisecond
)

// hasCJK reports whether s contains a CJK unified ideograph, used to detect
// the claim's dominant script for VerdictGen's language-aware output.
func hasCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}

// --- ProQuery / ConQuery -----------------------------------------------

// QueryInput is the fixed input record shared by ProQuery and ConQuery.
type QueryInput struct {
	Claim           string
	Round           int
	OpposingSummary string // ≤3 most recent opposing evidences, bulleted
	PriorQueries    []string
}

// QueryChain generates 1-2 search query strings for one side of the debate.
// stance is the fixed system-prompt framing ("find supporting evidence" or
// "find refuting evidence") that is the only difference between ProQuery and
// ConQuery.
type QueryChain struct {
	client ChatClient
	stance string
}

func NewProQueryChain(client ChatClient) *QueryChain {
	return &QueryChain{client: client, stance: "find evidence that SUPPORTS the claim"}
}

func NewConQueryChain(client ChatClient) *QueryChain {
	return &QueryChain{client: client, stance: "find evidence that REFUTES the claim"}
}

func (c *QueryChain) Run(ctx context.Context, in QueryInput) ([]string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim: %s\nRound: %d\n", in.Claim, in.Round)
	if in.OpposingSummary != "" {
		fmt.Fprintf(&b, "Recent opposing evidence:\n%s\n", in.OpposingSummary)
	}
	if len(in.PriorQueries) > 0 {
		fmt.Fprintf(&b, "Queries already issued (do not repeat): %s\n", strings.Join(in.PriorQueries, "; "))
	}
	b.WriteString("Propose 1 or 2 short web search queries to " + c.stance + ".\n")
	b.WriteString("Do not invent facts or URLs. Reply with one query per line, nothing else.")

	messages := []Message{
		{Role: "system", Content: "You are a search query planner for a fact-checking debate agent. " + c.stance + "."},
		{Role: "user", Content: b.String()},
	}

	resp, err := WithRetry(ctx, MaxRetries, BaseRetryDelay, func() (string, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return nil, fmt.Errorf("llmchain: query chain: %w", err)
	}
	return parseQueryLines(resp), nil
}

func parseQueryLines(resp string) []string {
	var out []string
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. \t")
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == 2 {
			break
		}
	}
	return out
}

// --- AttackCheck ----------------------------------------------------------

// AttackCheckInput supplies both evidence candidates' attributes.
type AttackCheckInput struct {
	Claim string

	AttackerContent     string
	AttackerSource      string
	AttackerCredibility string
	AttackerPriority    float64

	TargetContent     string
	TargetSource      string
	TargetCredibility string
	TargetPriority    float64
}

// AttackCheckOutput is the parsed chain result: whether the attacker node
// attacks the target node, with a short rationale.
type AttackCheckOutput struct {
	Attacks   bool
	Rationale string
}

type AttackCheckChain struct{ client ChatClient }

func NewAttackCheckChain(client ChatClient) *AttackCheckChain {
	return &AttackCheckChain{client: client}
}

// Run asks whether the attacker evidence undermines the target evidence. On
// any error (including parse failure) it returns the conservative default
// "no attack", so a single bad call cannot crash a round; the caller is
// expected to fall back to the credibility-rank rule when err != nil.
func (c *AttackCheckChain) Run(ctx context.Context, in AttackCheckInput) (AttackCheckOutput, error) {
	prompt := fmt.Sprintf(
		"Claim: %s\n\nEvidence A (source: %s, credibility: %s, priority: %.3f):\n%s\n\n"+
			"Evidence B (source: %s, credibility: %s, priority: %.3f):\n%s\n\n"+
			"Does Evidence A undermine or contradict Evidence B with respect to the claim? "+
			"Reply with exactly two lines:\nATTACKS: yes or no\nRATIONALE: one sentence, 50 words or fewer",
		in.Claim,
		in.AttackerSource, in.AttackerCredibility, in.AttackerPriority, in.AttackerContent,
		in.TargetSource, in.TargetCredibility, in.TargetPriority, in.TargetContent,
	)
	messages := []Message{
		{Role: "system", Content: "You judge whether one piece of evidence attacks another in a fact-checking debate graph. Only use the evidence given; never invent facts or URLs."},
		{Role: "user", Content: prompt},
	}

	resp, err := WithRetry(ctx, MaxRetries, BaseRetryDelay, func() (string, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return AttackCheckOutput{Attacks: false, Rationale: "no attack (chain error: " + err.Error() + ")"}, err
	}
	out, perr := parseAttackCheck(resp)
	if perr != nil {
		return AttackCheckOutput{Attacks: false, Rationale: "no attack (unparsable response)"}, perr
	}
	return out, nil
}

func parseAttackCheck(resp string) (AttackCheckOutput, error) {
	var attacksStr, rationale string
	for _, line := range strings.Split(resp, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "attacks:"):
			attacksStr = strings.ToLower(strings.TrimSpace(trimmed[len("attacks:"):]))
		case strings.HasPrefix(lower, "rationale:"):
			rationale = strings.TrimSpace(trimmed[len("rationale:"):])
		}
	}
	if attacksStr == "" {
		return AttackCheckOutput{}, fmt.Errorf("llmchain: attack check: no ATTACKS line in response")
	}
	attacks := attacksStr == "yes" || attacksStr == "true"
	return AttackCheckOutput{Attacks: attacks, Rationale: truncateWords(rationale, 50)}, nil
}

func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// --- StanceCheck ------------------------------------------------------------

// Stance mirrors model.Stance's string values; duplicated here rather than
// imported to keep llmchain free of a dependency on the model package.
type Stance string

const (
	StanceSupport Stance = "support"
	StanceRefute  Stance = "refute"
	StanceNeutral Stance = "neutral"
)

type StanceCheckInput struct {
	Claim           string
	EvidenceContent string
}

type StanceCheckChain struct{ client ChatClient }

func NewStanceCheckChain(client ChatClient) *StanceCheckChain {
	return &StanceCheckChain{client: client}
}

// Run classifies one evidence item's stance toward the claim. On parse
// failure or chain error it returns the conservative default "neutral".
func (c *StanceCheckChain) Run(ctx context.Context, in StanceCheckInput) (Stance, error) {
	messages := []Message{
		{Role: "system", Content: "You classify whether a piece of evidence supports, refutes, or is neutral toward a claim."},
		{Role: "user", Content: fmt.Sprintf(
			"Claim: %s\n\nEvidence:\n%s\n\nReply with exactly one word: support, refute, or neutral.",
			in.Claim, in.EvidenceContent)},
	}

	resp, err := WithRetry(ctx, MaxRetries, BaseRetryDelay, func() (string, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return StanceNeutral, err
	}
	stance, perr := parseStance(resp)
	if perr != nil {
		return StanceNeutral, perr
	}
	return stance, nil
}

func parseStance(resp string) (Stance, error) {
	word := strings.ToLower(strings.TrimSpace(resp))
	word = strings.Trim(word, ".*_ \n\t")
	// Some models answer with a full sentence; take the first recognized token.
	for _, tok := range strings.Fields(word) {
		tok = strings.Trim(tok, ".,!*_")
		switch tok {
		case "support", "supports", "supporting":
			return StanceSupport, nil
		case "refute", "refutes", "refuting":
			return StanceRefute, nil
		case "neutral":
			return StanceNeutral, nil
		}
	}
	return "", fmt.Errorf("llmchain: stance check: unrecognized response %q", resp)
}

// --- VerdictGen -------------------------------------------------------------

// VerdictGenInput supplies the evidence summaries and derived strengths the
// chain uses to write natural-language reasoning.
type VerdictGenInput struct {
	Claim              string
	SupportingSummary  string
	RefutingSummary    string
	SupportStrength    float64
	RefuteStrength     float64
	RuleDecision       string // one of model.Decision's string values, supplied by the judge
	KeyEvidenceIDs     []string
}

// VerdictGenOutput is the chain's parsed result: a decision that the judge
// reconciles with its own rule-derived decision, reasoning text, and echoed key-evidence ids.
type VerdictGenOutput struct {
	Decision       string
	Reasoning      string
	KeyEvidenceIDs []string
}

type VerdictGenChain struct{ client ChatClient }

func NewVerdictGenChain(client ChatClient) *VerdictGenChain {
	return &VerdictGenChain{client: client}
}

func (c *VerdictGenChain) Run(ctx context.Context, in VerdictGenInput) (VerdictGenOutput, error) {
	langInstruction := "Reply in English."
	if hasCJK(in.Claim) {
		langInstruction = "回复请使用中文。"
	}

	prompt := fmt.Sprintf(
		"Claim: %s\n\nSupporting evidence:\n%s\n\nRefuting evidence:\n%s\n\n"+
			"Support strength: %.3f, Refute strength: %.3f. Rule-derived decision: %s.\n\n"+
			"Write a verdict. %s Reply with exactly three parts:\n"+
			"DECISION: Supported, Refuted, or NotEnoughEvidence\n"+
			"REASONING: up to 300 words, explaining the decision using only the evidence given\n"+
			"KEY_EVIDENCE: comma-separated evidence ids from the lists above that most justify the decision",
		in.Claim, in.SupportingSummary, in.RefutingSummary,
		in.SupportStrength, in.RefuteStrength, in.RuleDecision, langInstruction,
	)
	messages := []Message{
		{Role: "system", Content: "You write the final natural-language verdict for a fact-checking debate. Never invent URLs or facts not present in the evidence given."},
		{Role: "user", Content: prompt},
	}

	resp, err := WithRetry(ctx, MaxRetries, BaseRetryDelay, func() (string, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return VerdictGenOutput{Decision: "NotEnoughEvidence", Reasoning: "verdict generation unavailable: " + err.Error()}, err
	}
	out, perr := parseVerdictGen(resp)
	if perr != nil {
		return VerdictGenOutput{Decision: "NotEnoughEvidence", Reasoning: "verdict generation response unparsable"}, perr
	}
	return out, nil
}

func parseVerdictGen(resp string) (VerdictGenOutput, error) {
	var decision, reasoning, keyEvidence string
	for _, line := range strings.Split(resp, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "decision:"):
			decision = strings.TrimSpace(trimmed[len("decision:"):])
		case strings.HasPrefix(lower, "reasoning:"):
			reasoning = strings.TrimSpace(trimmed[len("reasoning:"):])
		case strings.HasPrefix(lower, "key_evidence:"):
			keyEvidence = strings.TrimSpace(trimmed[len("key_evidence:"):])
		}
	}
	decision = normalizeDecision(decision)
	if decision == "" {
		return VerdictGenOutput{}, fmt.Errorf("llmchain: verdict gen: no recognizable DECISION line")
	}

	var ids []string
	for _, id := range strings.Split(keyEvidence, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}

	return VerdictGenOutput{Decision: decision, Reasoning: truncateWords(reasoning, 300), KeyEvidenceIDs: ids}, nil
}

func normalizeDecision(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "supported":
		return "Supported"
	case "refuted":
		return "Refuted"
	case "notenoughevidence", "not enough evidence", "insufficient evidence":
		return "NotEnoughEvidence"
	default:
		return ""
	}
}

// formatFloat renders f with three decimal places. Nothing in the
// repository calls it.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
