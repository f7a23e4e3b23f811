package simplify

import (
	"context"
	"io"
	"time"

	"github.com/clauselens/clauselens/internal/observability"
)

// Fallback returns the degraded summary used when the simplifier is
// unavailable or fails. The original text is preserved so the caller
// still has something to show.
func Fallback(text string) *Summary {
	return &Summary{
		SimplifiedText:  text,
		KeyPoints:       []string{"Unable to process with AI - original text preserved"},
		WhatItMeans:     "AI translation service temporarily unavailable. Please review the original text or try again later.",
		RedFlags:        []string{},
		ConfidenceScore: 0.0,
		ModelUsed:       "fallback",
		GeneratedAt:     time.Now().UTC(),
	}
}

// Guarded wraps a Simplifier with a per-call timeout and converts every
// failure into the fallback summary, so callers always receive a result.
// A nil inner simplifier means the collaborator is disabled and every
// call degrades immediately.
type Guarded struct {
	inner   Simplifier
	timeout time.Duration
	logger  *observability.Logger
}

// NewGuarded wraps inner with a timeout bound and fallback behavior.
// The logger may be nil.
func NewGuarded(inner Simplifier, timeout time.Duration, logger *observability.Logger) *Guarded {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = observability.NewLogger(observability.LogConfig{Level: "error", Output: io.Discard})
	}
	return &Guarded{
		inner:   inner,
		timeout: timeout,
		logger:  logger,
	}
}

// Simplify calls the wrapped simplifier. The returned error is always nil.
func (g *Guarded) Simplify(ctx context.Context, req Request) (*Summary, error) {
	if g.inner == nil {
		return Fallback(req.Text), nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	summary, err := g.inner.Simplify(ctx, req)
	if err != nil {
		g.logger.Warn().Err(err).Msg("simplifier call failed, substituting fallback summary")
		return Fallback(req.Text), nil
	}

	return summary, nil
}

var _ Simplifier = (*Guarded)(nil)
