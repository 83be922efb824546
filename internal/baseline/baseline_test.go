package baseline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex-ai/factdebate/internal/llmchain"
	"github.com/veridex-ai/factdebate/internal/model"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) Chat(_ context.Context, _ []llmchain.Message) (string, error) {
	return f.response, f.err
}

func TestCheckParsesDecisionAndReasoning(t *testing.T) {
	c := NewChecker(&fakeClient{response: "DECISION: Refuted\nREASONING: contradicts known measurements"})

	v, err := c.Check(context.Background(), "the earth is flat")
	require.NoError(t, err)
	assert.Equal(t, model.Refuted, v.Decision)
	assert.Equal(t, "contradicts known measurements", v.Reasoning)
	assert.InDelta(t, 0.5, v.Confidence, 1e-9)
}

func TestCheckReturnsErrorOnUnparsableResponse(t *testing.T) {
	c := NewChecker(&fakeClient{response: "I am not sure what to say"})

	_, err := c.Check(context.Background(), "some claim")
	assert.Error(t, err)
}

func TestCheckPropagatesChatError(t *testing.T) {
	c := NewChecker(&fakeClient{err: errors.New("backend down")})

	_, err := c.Check(context.Background(), "some claim")
	assert.Error(t, err)
}
