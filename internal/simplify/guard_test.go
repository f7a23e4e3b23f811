package simplify

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       "error",
		Output:      io.Discard,
		ServiceName: "clauselens-test",
	})
}

// blockingSimplifier waits for context cancellation and reports the
// context error, standing in for a hung upstream call.
type blockingSimplifier struct{}

func (b *blockingSimplifier) Simplify(ctx context.Context, req Request) (*Summary, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestGuarded_PassesThroughSuccess(t *testing.T) {
	inner := &Mock{Response: &Summary{SimplifiedText: "plain", ConfidenceScore: 0.8}}
	guard := NewGuarded(inner, time.Second, testLogger())

	summary, err := guard.Simplify(context.Background(), Request{Text: "legalese"})
	require.NoError(t, err)
	assert.Equal(t, "plain", summary.SimplifiedText)
	assert.InDelta(t, 0.8, summary.ConfidenceScore, 0.001)
}

func TestGuarded_ErrorBecomesFallback(t *testing.T) {
	inner := &Mock{Err: errors.New("upstream down")}
	guard := NewGuarded(inner, time.Second, testLogger())

	summary, err := guard.Simplify(context.Background(), Request{Text: "original text"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.ConfidenceScore)
	assert.Equal(t, "original text", summary.SimplifiedText)
	assert.Equal(t, "fallback", summary.ModelUsed)
	assert.Empty(t, summary.RedFlags)
}

func TestGuarded_TimeoutBecomesFallback(t *testing.T) {
	guard := NewGuarded(&blockingSimplifier{}, 10*time.Millisecond, testLogger())

	start := time.Now()
	summary, err := guard.Simplify(context.Background(), Request{Text: "slow doc"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0.0, summary.ConfidenceScore)
}

func TestGuarded_NilInnerDegradesImmediately(t *testing.T) {
	guard := NewGuarded(nil, time.Second, testLogger())

	summary, err := guard.Simplify(context.Background(), Request{Text: "anything"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.ConfidenceScore)
	assert.Contains(t, summary.WhatItMeans, "temporarily unavailable")
}
