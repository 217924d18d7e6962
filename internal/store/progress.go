package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pioneer-academy/nmotrain/internal/flow"
)

// SaveProgress upserts the single progress slot. The run id is minted on
// first save and kept across updates, so one resumable run has one
// identity for its whole lifetime.
func (s *Store) SaveProgress(ctx context.Context, snap flow.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress (id, run_id, data, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at`,
		uuid.NewString(), string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// LoadProgress reads the progress slot. No saved run and an unreadable
// blob both come back as (nil, nil): a corrupt snapshot is treated as
// absent rather than blocking startup.
func (s *Store) LoadProgress(ctx context.Context) (*flow.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM progress WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	var snap flow.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, nil
	}
	return &snap, nil
}

// ClearProgress deletes the saved run, if any.
func (s *Store) ClearProgress(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE id = 1`); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
