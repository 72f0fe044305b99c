package storage

import (
	"context"
	"errors"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/internal/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunCounts carries the tallies a finished run reports
type RunCounts struct {
	Total   int
	Changed int
	Failed  int
}

// StartRun opens the audit row for one chain scrape
func (d *DB) StartRun(ctx context.Context, chain string) (*IngestionRun, error) {
	run := &IngestionRun{
		ID:        uuid.New(),
		Chain:     chain,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := d.gorm.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun finalizes a run with its status, counts, and error text
func (d *DB) FinishRun(ctx context.Context, run *IngestionRun, status RunStatus, counts RunCounts, runErr error) error {
	now := time.Now().UTC()

	run.Status = status
	run.FinishedAt = &now
	run.ItemsTotal = counts.Total
	run.ItemsChanged = counts.Changed
	run.ItemsFailed = counts.Failed
	if runErr != nil {
		msg := runErr.Error()
		run.Error = &msg
	}

	assignments := map[string]interface{}{
		"status":        status,
		"finished_at":   now,
		"items_total":   counts.Total,
		"items_changed": counts.Changed,
		"items_failed":  counts.Failed,
		"error":         run.Error,
	}
	if err := d.gorm.WithContext(ctx).Model(run).Updates(assignments).Error; err != nil {
		return err
	}

	metrics.RecordRun(run.Chain, string(status), now)
	return nil
}

// RunningRuns lists runs still marked running, oldest first. Rows from
// crashed processes stay here forever, which is how orphans surface.
func (d *DB) RunningRuns(ctx context.Context) ([]IngestionRun, error) {
	var runs []IngestionRun
	err := d.gorm.WithContext(ctx).
		Where("status = ?", RunStatusRunning).
		Order("started_at").
		Find(&runs).Error
	return runs, err
}

// LastRun returns a chain's most recent run, nil when it has none
func (d *DB) LastRun(ctx context.Context, chain string) (*IngestionRun, error) {
	var run IngestionRun
	err := d.gorm.WithContext(ctx).
		Where("chain = ?", chain).
		Order("started_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns lists runs newest first, optionally for one chain
func (d *DB) RecentRuns(ctx context.Context, chain string, limit int) ([]IngestionRun, error) {
	q := d.gorm.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if chain != "" {
		q = q.Where("chain = ?", chain)
	}
	var runs []IngestionRun
	err := q.Find(&runs).Error
	return runs, err
}
