// Package model holds the data types shared across the debate engine:
// evidence records, attack edges, and verdicts. Evidence is immutable once
// constructed; priority and quality are pure functions of its fields.
package model

import (
	"errors"
	"fmt"
	"time"
)

// Credibility is a coarse trust tag inferred from a retrieval URL's host.
type Credibility string

const (
	CredibilityHigh   Credibility = "High"
	CredibilityMedium Credibility = "Medium"
	CredibilityLow    Credibility = "Low"
)

// credibilityWeight maps a credibility tag to the scalar used in priority
// and quality derivation.
func credibilityWeight(c Credibility) float64 {
	switch c {
	case CredibilityHigh:
		return 1.0
	case CredibilityMedium:
		return 0.6
	case CredibilityLow:
		return 0.3
	default:
		return 0.0
	}
}

// CredibilityRank orders credibility tags for the fallback attack check
// (High > Medium > Low) used when the LLM is unavailable.
func CredibilityRank(c Credibility) int {
	switch c {
	case CredibilityHigh:
		return 3
	case CredibilityMedium:
		return 2
	case CredibilityLow:
		return 1
	default:
		return 0
	}
}

// Agent identifies which side of the debate retrieved a piece of evidence.
type Agent string

const (
	AgentPro Agent = "pro"
	AgentCon Agent = "con"
)

// Other returns the opposing agent.
func (a Agent) Other() Agent {
	if a == AgentPro {
		return AgentCon
	}
	return AgentPro
}

// minContentLength is the minimum content length for evidence to be
// considered meaningful: shorter fragments are discarded before
// a record is ever created.
const minContentLength = 50

// ErrContentTooShort and ErrEmptyURL are returned by NewEvidence when the
// candidate record fails admission.
var (
	ErrContentTooShort = errors.New("model: evidence content shorter than minimum length")
	ErrEmptyURL        = errors.New("model: evidence url is empty")
)

// Evidence is an immutable record of one retrieved document excerpt. It is
// created only by the search adapter (internal/retrieval) and never mutated.
type Evidence struct {
	ID          string
	Content     string
	URL         string
	Source      string
	Credibility Credibility
	RetrievedBy Agent
	Round       int
	Query       string
	Timestamp   time.Time
	Quality     float64

	// ContentHash is a normalized-content fingerprint (case-folded,
	// whitespace-collapsed) used by the evidence pool for deduplication.
	// It is not part of the evidence's external identity.
	ContentHash string
}

// ComputeQuality derives the quality score in [0,1] from credibility and
// content length: 0.7*credibility_weight + 0.3*min(1, len/500).
func ComputeQuality(c Credibility, content string) float64 {
	lengthTerm := float64(len(content)) / 500.0
	if lengthTerm > 1 {
		lengthTerm = 1
	}
	return 0.7*credibilityWeight(c) + 0.3*lengthTerm
}

// Priority is the derived ordering scalar used for attack validity:
// credibility_weight * quality_score.
func (e Evidence) Priority() float64 {
	return credibilityWeight(e.Credibility) * e.Quality
}

// NewEvidence validates and constructs an Evidence record. It enforces the
// admission filters (content length, non-empty URL) before deriving
// quality. id and contentHash are supplied by the caller (the search
// adapter owns ID generation and content normalization).
func NewEvidence(id, content, url, source string, cred Credibility, agent Agent, round int, query string, ts time.Time, contentHash string) (Evidence, error) {
	if len(content) < minContentLength {
		return Evidence{}, fmt.Errorf("%w: got %d chars, need >= %d", ErrContentTooShort, len(content), minContentLength)
	}
	if url == "" {
		return Evidence{}, ErrEmptyURL
	}
	return Evidence{
		ID:          id,
		Content:     content,
		URL:         url,
		Source:      source,
		Credibility: cred,
		RetrievedBy: agent,
		Round:       round,
		Query:       query,
		Timestamp:   ts,
		Quality:     ComputeQuality(cred, content),
		ContentHash: contentHash,
	}, nil
}
