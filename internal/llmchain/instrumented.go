package llmchain

import (
	"context"

	"github.com/veridex-ai/factdebate/internal/telemetry"
)

// InstrumentedChatClient wraps a ChatClient, counting every attempted call
// and every retriable failure. Wrapping the client once, rather than
// threading a *telemetry.Metrics through every chain constructor, keeps the
// counters accurate regardless of which chain issues the call.
type InstrumentedChatClient struct {
	client  ChatClient
	metrics *telemetry.Metrics
}

func NewInstrumentedChatClient(client ChatClient, metrics *telemetry.Metrics) *InstrumentedChatClient {
	return &InstrumentedChatClient{client: client, metrics: metrics}
}

func (c *InstrumentedChatClient) Chat(ctx context.Context, messages []Message) (string, error) {
	c.metrics.IncLLMCall(ctx)
	out, err := c.client.Chat(ctx, messages)
	if err != nil && isRetriable(err) {
		c.metrics.IncLLMRetry(ctx)
	}
	return out, err
}
