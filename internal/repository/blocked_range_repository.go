package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonmost/booking-api/internal/models"
)

const blockedRangeColumns = "id, stylist_id, start_time, end_time, source_event_id, synced_at"

// BlockedRangeRepository manages externally-sourced busy intervals.
type BlockedRangeRepository struct {
	db *sqlx.DB
}

// NewBlockedRangeRepository constructs a BlockedRangeRepository.
func NewBlockedRangeRepository(db *sqlx.DB) *BlockedRangeRepository {
	return &BlockedRangeRepository{db: db}
}

// ListForStylistOnDate returns a stylist's blocked ranges intersecting the
// calendar day of date.
func (r *BlockedRangeRepository) ListForStylistOnDate(ctx context.Context, stylistID string, date time.Time) ([]models.BlockedRange, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := fmt.Sprintf(`SELECT %s FROM blocked_ranges
		WHERE stylist_id = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time ASC`, blockedRangeColumns)

	var blocks []models.BlockedRange
	if err := r.db.SelectContext(ctx, &blocks, query, stylistID, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("list blocked ranges for stylist %s: %w", stylistID, err)
	}
	return blocks, nil
}

// ReplaceSynced swaps all calendar-sourced ranges for the provided set in one
// transaction. Manually created blocks (no source event) are left untouched.
func (r *BlockedRangeRepository) ReplaceSynced(ctx context.Context, blocks []models.BlockedRange) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin blocked-range tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocked_ranges WHERE source_event_id IS NOT NULL`); err != nil {
		return fmt.Errorf("clear synced blocked ranges: %w", err)
	}

	const insert = `INSERT INTO blocked_ranges (id, stylist_id, start_time, end_time, source_event_id, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	now := time.Now().UTC()
	for i := range blocks {
		b := &blocks[i]
		if b.ID == "" {
			b.ID = "block-" + uuid.NewString()
		}
		if b.SyncedAt.IsZero() {
			b.SyncedAt = now
		}
		if _, err := tx.ExecContext(ctx, insert, b.ID, b.StylistID, b.StartTime, b.EndTime, b.SourceEventID, b.SyncedAt); err != nil {
			return fmt.Errorf("insert blocked range: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit blocked ranges: %w", err)
	}
	return nil
}

// Create inserts a manual blocked range.
func (r *BlockedRangeRepository) Create(ctx context.Context, block *models.BlockedRange) error {
	if block.ID == "" {
		block.ID = "block-" + uuid.NewString()
	}
	if block.SyncedAt.IsZero() {
		block.SyncedAt = time.Now().UTC()
	}

	const query = `INSERT INTO blocked_ranges (id, stylist_id, start_time, end_time, source_event_id, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, block.ID, block.StylistID, block.StartTime, block.EndTime, block.SourceEventID, block.SyncedAt); err != nil {
		return fmt.Errorf("create blocked range: %w", err)
	}
	return nil
}

// Delete removes a blocked range by ID.
func (r *BlockedRangeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blocked_ranges WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete blocked range: %w", err)
	}
	return nil
}
