package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pioneer-academy/nmotrain/internal/llm"
)

// LLMRequestRecord is one logged evaluation call.
type LLMRequestRecord struct {
	ID           int64
	CreatedAt    time.Time
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// AppendLLMRequest records one evaluation call. Implements llm.RequestLog.
func (s *Store) AppendLLMRequest(ctx context.Context, entry llm.RequestLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_requests
			(created_at, provider, model, input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		entry.Provider, entry.Model,
		entry.InputTokens, entry.OutputTokens, entry.LatencyMs,
		entry.Success, entry.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

// RecentLLMRequests returns the newest logged calls, most recent first.
func (s *Store) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, provider, model, input_tokens, output_tokens, latency_ms, success, error_message
		FROM llm_requests
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query llm requests: %w", err)
	}
	defer rows.Close()

	var records []LLMRequestRecord
	for rows.Next() {
		var r LLMRequestRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.Provider, &r.Model,
			&r.InputTokens, &r.OutputTokens, &r.LatencyMs, &r.Success, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan llm request: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
