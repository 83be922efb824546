package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veridex-ai/factdebate/internal/dataset"
	"github.com/veridex-ai/factdebate/internal/persistence"
)

// BatchConfig holds the batch-mode output settings: the directory results,
// logs and the resumable progress record are written to, and the base name
// of the stats file.
type BatchConfig struct {
	OutputDir   string
	ResultsName string
}

// RunBatch processes claims sequentially against persisted progress, so a
// restart resumes instead of reprocessing. Execution is sequential between claims, never
// concurrent, to bound external API spend.
func (o *Orchestrator) RunBatch(ctx context.Context, claims []dataset.Claim, bc BatchConfig) (persistence.Stats, error) {
	store := persistence.NewStore(bc.OutputDir, bc.ResultsName)
	if err := store.EnsureDirs(); err != nil {
		return persistence.Stats{}, fmt.Errorf("orchestrator: batch setup: %w", err)
	}

	progress, ok := store.LoadProgress()
	if !ok {
		o.logger.Warn("no readable progress record found, starting fresh batch run")
		progress = persistence.Progress{Total: len(claims)}
	}
	done := make(map[int]bool, len(progress.ProcessedIndices))
	for _, i := range progress.ProcessedIndices {
		done[i] = true
	}

	results, err := store.LoadResults()
	if err != nil {
		return persistence.Stats{}, fmt.Errorf("orchestrator: batch setup: %w", err)
	}

	failed := 0
	for index, claim := range claims {
		if done[index] {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		run := o.RunClaim(ctx, claim.Claim)
		predicted := string(run.Verdict.Decision)
		correct := strings.EqualFold(predicted, claim.GroundTruth)
		if run.ExternalUnavailable {
			failed++
			o.logger.Error("claim failed: external services unavailable", "index", index, "claim", claim.Claim)
		}

		results, err = store.AppendResult(results, persistence.ResultEntry{
			Index:       index,
			Claim:       claim.Claim,
			Predicted:   predicted,
			GroundTruth: claim.GroundTruth,
			Confidence:  run.Verdict.Confidence,
			Correct:     correct,
		})
		if err != nil {
			return persistence.Stats{}, fmt.Errorf("orchestrator: append result for claim %d: %w", index, err)
		}

		logErr := store.WriteClaimLog(index, persistence.ClaimLog{
			Claim:               claim.Claim,
			GroundTruth:         claim.GroundTruth,
			Timestamp:           time.Now(),
			Statistics:          persistence.BuildEvidenceStats(run.Graph.Snapshot()),
			Graph:               run.Graph.Serialize(),
			AcceptedIDs:         run.Verdict.Accepted,
			Verdict:             persistence.ToVerdictJSON(run.Verdict),
			DeadlineExceeded:    run.DeadlineExceeded,
			ExternalUnavailable: run.ExternalUnavailable,
		})
		if logErr != nil {
			o.logger.Warn("failed to write claim log", "index", index, "error", logErr)
		}

		done[index] = true
		progress.ProcessedIndices = append(progress.ProcessedIndices, index)
		progress.Total = len(claims)
		if err := store.SaveProgress(progress); err != nil {
			o.logger.Warn("failed to save progress", "index", index, "error", err)
		}
	}

	correctCount := 0
	for _, r := range results {
		if r.Correct {
			correctCount++
		}
	}
	accuracy := 0.0
	if len(results) > 0 {
		accuracy = float64(correctCount) / float64(len(results))
	}

	stats := persistence.Stats{
		Total:     len(claims),
		Correct:   correctCount,
		Accuracy:  accuracy,
		Processed: len(results),
		Failed:    failed,
		Results:   results,
	}
	if err := store.WriteStats(stats); err != nil {
		return stats, fmt.Errorf("orchestrator: write stats: %w", err)
	}
	return stats, nil
}
