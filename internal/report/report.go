// Package report renders verdicts and batch accuracy summaries as
// human-readable console output. Console-only: no template engine or charting library in the
// pack justifies adopting one for this.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/veridex-ai/factdebate/internal/model"
	"github.com/veridex-ai/factdebate/internal/persistence"
)

// Verdict writes a single claim's verdict as a short bordered block.
func Verdict(w io.Writer, claim string, v model.Verdict) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Claim:      %s\n", claim)
	fmt.Fprintf(w, "Decision:   %s (confidence %.2f)\n", v.Decision, v.Confidence)
	fmt.Fprintf(w, "Evidence:   %d accepted of %d total\n", v.AcceptedCount, v.TotalCount)
	fmt.Fprintf(w, "Strengths:  support=%.2f refute=%.2f\n", v.ProStrength, v.ConStrength)
	if v.DeadlineExceeded {
		fmt.Fprintln(w, "Note:       per-claim deadline was exceeded before the debate completed")
	}
	if len(v.KeyEvidence) > 0 {
		fmt.Fprintf(w, "Key evidence: %s\n", strings.Join(v.KeyEvidence, ", "))
	}
	fmt.Fprintln(w, "Reasoning:")
	fmt.Fprintln(w, wrap(v.Reasoning, 70))
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// Stats writes a batch run's accuracy summary as a console table.
func Stats(w io.Writer, stats persistence.Stats) {
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Total claims:   %d\n", stats.Total)
	fmt.Fprintf(w, "Processed:      %d\n", stats.Processed)
	fmt.Fprintf(w, "Failed:         %d\n", stats.Failed)
	fmt.Fprintf(w, "Correct:        %d\n", stats.Correct)
	fmt.Fprintf(w, "Accuracy:       %.1f%%\n", stats.Accuracy*100)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, r := range stats.Results {
		mark := "x"
		if r.Correct {
			mark = "v"
		}
		fmt.Fprintf(w, "[%s] #%d %s -> %s (truth: %s, confidence %.2f)\n",
			mark, r.Index, truncate(r.Claim, 50), r.Predicted, r.GroundTruth, r.Confidence)
	}
}

func wrap(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return "  (none)"
	}
	var b strings.Builder
	lineLen := 0
	b.WriteString("  ")
	for i, word := range words {
		if lineLen > 0 && lineLen+1+len(word) > width {
			b.WriteString("\n  ")
			lineLen = 0
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
