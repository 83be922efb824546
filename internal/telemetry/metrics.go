package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// Metrics bundles the counters the debate loop emits. All methods are nil-receiver safe so callers can pass a nil
// *Metrics when telemetry is disabled instead of branching at every call
// site.
type Metrics struct {
	evidenceInserted metric.Int64Counter
	edgesAccepted    metric.Int64Counter
	edgesRejected    metric.Int64Counter
	llmCalls         metric.Int64Counter
	llmRetries       metric.Int64Counter
}

// NewMetrics registers the debate-loop counters against the given meter
// name. Returns an error only if instrument creation fails (never if OTEL is
// disabled, since Meter() then returns a no-op meter).
func NewMetrics(meterName string) (*Metrics, error) {
	m := Meter(meterName)

	evidenceInserted, err := m.Int64Counter("factdebate.evidence.inserted")
	if err != nil {
		return nil, err
	}
	edgesAccepted, err := m.Int64Counter("factdebate.edges.accepted")
	if err != nil {
		return nil, err
	}
	edgesRejected, err := m.Int64Counter("factdebate.edges.rejected")
	if err != nil {
		return nil, err
	}
	llmCalls, err := m.Int64Counter("factdebate.llm.calls")
	if err != nil {
		return nil, err
	}
	llmRetries, err := m.Int64Counter("factdebate.llm.retries")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		evidenceInserted: evidenceInserted,
		edgesAccepted:    edgesAccepted,
		edgesRejected:    edgesRejected,
		llmCalls:         llmCalls,
		llmRetries:       llmRetries,
	}, nil
}

func (m *Metrics) IncEvidenceInserted(ctx context.Context, n int64) {
	if m == nil {
		return
	}
	m.evidenceInserted.Add(ctx, n)
}

func (m *Metrics) IncEdgeAccepted(ctx context.Context) {
	if m == nil {
		return
	}
	m.edgesAccepted.Add(ctx, 1)
}

func (m *Metrics) IncEdgeRejected(ctx context.Context) {
	if m == nil {
		return
	}
	m.edgesRejected.Add(ctx, 1)
}

func (m *Metrics) IncLLMCall(ctx context.Context) {
	if m == nil {
		return
	}
	m.llmCalls.Add(ctx, 1)
}

func (m *Metrics) IncLLMRetry(ctx context.Context) {
	if m == nil {
		return
	}
	m.llmRetries.Add(ctx, 1)
}
