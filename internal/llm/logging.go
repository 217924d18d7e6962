package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// RequestLogEntry captures one LLM call for the local request log.
type RequestLogEntry struct {
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestLog receives one entry per LLM call. The store implements this.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, entry RequestLogEntry) error
}

// loggingProvider decorates a Provider with request logging.
type loggingProvider struct {
	inner Provider
	name  string
	log   RequestLog
}

// WithLogging wraps a Provider so every call is recorded under the given
// provider name. A nil log disables logging.
func WithLogging(p Provider, name string, log RequestLog) Provider {
	if log == nil {
		return p
	}
	return &loggingProvider{inner: p, name: name, log: log}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	entry := RequestLogEntry{
		Provider:  l.name,
		Model:     l.inner.ModelID(),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		entry.Model = resp.Model
		entry.InputTokens = resp.Usage.InputTokens
		entry.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}

	// Logging must never fail the request.
	if logErr := l.log.AppendLLMRequest(ctx, entry); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request: %v\n", logErr)
	}

	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
