// Package persistence implements the batch-mode run layout: progress
// tracking for resumable runs, a flat results array, per-claim log
// files, and a final stats summary.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/veridex-ai/factdebate/internal/graph"
	"github.com/veridex-ai/factdebate/internal/model"
)

// Progress is the resumable-run record.
type Progress struct {
	ProcessedIndices []int     `json:"processed_indices"`
	Total            int       `json:"total"`
	LastUpdated      time.Time `json:"last_updated"`
}

// ResultEntry is one line of results.json.
type ResultEntry struct {
	Index        int     `json:"index"`
	Claim        string  `json:"claim"`
	Predicted    string  `json:"predicted"`
	GroundTruth  string  `json:"ground_truth"`
	Confidence   float64 `json:"confidence"`
	Correct      bool    `json:"correct"`
}

// ClaimLog is the full per-claim log file.
type ClaimLog struct {
	Claim               string          `json:"claim"`
	GroundTruth         string          `json:"ground_truth"`
	Timestamp           time.Time       `json:"timestamp"`
	Statistics          EvidenceStats   `json:"statistics"`
	Graph               graph.GraphJSON `json:"graph"`
	AcceptedIDs         []string        `json:"accepted_ids"`
	Verdict             VerdictJSON     `json:"verdict"`
	DeadlineExceeded    bool            `json:"deadline_exceeded"`
	ExternalUnavailable bool            `json:"external_unavailable"`
}

type EvidenceStats struct {
	TotalEvidence int `json:"total_evidence"`
	ProEvidence   int `json:"pro_evidence"`
	ConEvidence   int `json:"con_evidence"`
}

type VerdictJSON struct {
	Decision      string   `json:"decision"`
	Confidence    float64  `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
	KeyEvidence   []string `json:"key_evidence"`
	ProStrength   float64  `json:"pro_strength"`
	ConStrength   float64  `json:"con_strength"`
	TotalCount    int      `json:"total_count"`
	AcceptedCount int      `json:"accepted_count"`
}

func ToVerdictJSON(v model.Verdict) VerdictJSON {
	return VerdictJSON{
		Decision:      string(v.Decision),
		Confidence:    v.Confidence,
		Reasoning:     v.Reasoning,
		KeyEvidence:   v.KeyEvidence,
		ProStrength:   v.ProStrength,
		ConStrength:   v.ConStrength,
		TotalCount:    v.TotalCount,
		AcceptedCount: v.AcceptedCount,
	}
}

// Stats is the final run summary.
type Stats struct {
	Total     int           `json:"total"`
	Correct   int           `json:"correct"`
	Accuracy  float64       `json:"accuracy"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Results   []ResultEntry `json:"results"`
}

// Store manages the on-disk layout for one batch run.
type Store struct {
	outputDir  string
	resultsName string
}

func NewStore(outputDir, resultsBaseName string) *Store {
	return &Store{outputDir: outputDir, resultsName: resultsBaseName}
}

func (s *Store) progressPath() string { return filepath.Join(s.outputDir, "progress.json") }
func (s *Store) resultsPath() string  { return filepath.Join(s.outputDir, "results.json") }
func (s *Store) statsPath() string {
	return filepath.Join(s.outputDir, s.resultsName+"_stats.json")
}
func (s *Store) logPath(index int) string {
	return filepath.Join(s.outputDir, "logs", fmt.Sprintf("log_%03d.json", index))
}

// EnsureDirs creates the output directory and its logs subdirectory.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(filepath.Join(s.outputDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("persistence: create output dirs: %w", err)
	}
	return nil
}

// LoadProgress reads progress.json. An unreadable or missing file is
// treated as "no progress" with a warning, not an error: callers should log the returned bool.
func (s *Store) LoadProgress() (Progress, bool) {
	data, err := os.ReadFile(s.progressPath())
	if err != nil {
		return Progress{}, false
	}
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return Progress{}, false
	}
	return p, true
}

// SaveProgress writes progress.json, overwriting any existing file.
func (s *Store) SaveProgress(p Progress) error {
	p.LastUpdated = time.Now()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: marshal progress: %w", err)
	}
	return os.WriteFile(s.progressPath(), data, 0o644)
}

// AppendResult appends one entry to the in-memory results slice and
// rewrites results.json in full (the file is small relative to claim
// processing time, so a full rewrite keeps the format simple and crash-safe
// between writes).
func (s *Store) AppendResult(existing []ResultEntry, entry ResultEntry) ([]ResultEntry, error) {
	updated := append(existing, entry)
	sorted := append([]ResultEntry(nil), updated...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return updated, fmt.Errorf("persistence: marshal results: %w", err)
	}
	if err := os.WriteFile(s.resultsPath(), data, 0o644); err != nil {
		return updated, fmt.Errorf("persistence: write results: %w", err)
	}
	return updated, nil
}

// LoadResults reads an existing results.json, returning an empty slice if
// the file does not exist.
func (s *Store) LoadResults() ([]ResultEntry, error) {
	data, err := os.ReadFile(s.resultsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("persistence: read results: %w", err)
	}
	var out []ResultEntry
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("persistence: parse results: %w", err)
	}
	return out, nil
}

// WriteClaimLog writes the full per-claim log.
func (s *Store) WriteClaimLog(index int, log ClaimLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: marshal claim log: %w", err)
	}
	return os.WriteFile(s.logPath(index), data, 0o644)
}

// WriteStats writes the final run summary.
func (s *Store) WriteStats(stats Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: marshal stats: %w", err)
	}
	return os.WriteFile(s.statsPath(), data, 0o644)
}

// BuildEvidenceStats derives the pro/con/total evidence counts from a graph
// snapshot, for the per-claim log's summary statistics block.
func BuildEvidenceStats(snap graph.Snapshot) EvidenceStats {
	var pro, con int
	for _, n := range snap.Nodes {
		if n.RetrievedBy == model.AgentPro {
			pro++
		} else {
			con++
		}
	}
	return EvidenceStats{TotalEvidence: len(snap.Nodes), ProEvidence: pro, ConEvidence: con}
}
