package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/port"
)

// RecordRun stores a run summary and its outcomes in one transaction
func (s *Store) RecordRun(ctx context.Context, summary *domain.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, reference_date, started_at, finished_at, total, succeeded, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, summary.RunID, summary.ReferenceDate,
		toMillis(summary.StartedAt), toMillis(summary.FinishedAt),
		summary.Total(), summary.Succeeded, summary.Failed)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_outcomes (
			run_id, seq, report_seq, feed, remote_url, local_path,
			status, state, http_status, message, bytes, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range summary.Outcomes {
		_, err := stmt.ExecContext(ctx,
			summary.RunID, o.Job.Seq, o.ReportSeq, string(o.Job.Feed), o.Job.RemoteURL, o.Job.LocalPath,
			string(o.Status), string(o.State), o.HTTPStatus, o.Message, o.Bytes, o.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.Job.Feed, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns up to limit runs, newest first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]port.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, reference_date, started_at, finished_at, total, succeeded, failed
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []port.RunRecord
	for rows.Next() {
		var r port.RunRecord
		var started, finished int64
		if err := rows.Scan(&r.RunID, &r.ReferenceDate, &started, &finished, &r.Total, &r.Succeeded, &r.Failed); err != nil {
			return nil, err
		}
		r.StartedAt = fromMillis(started)
		r.FinishedAt = fromMillis(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunOutcomes returns the outcomes of one run ordered by job sequence
func (s *Store) GetRunOutcomes(ctx context.Context, runID string) ([]domain.DownloadOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, report_seq, feed, remote_url, local_path,
			   status, state, http_status, message, bytes, duration_ms
		FROM run_outcomes
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []domain.DownloadOutcome
	for rows.Next() {
		var o domain.DownloadOutcome
		var feed, status, state string
		var durationMs int64
		err := rows.Scan(&o.Job.Seq, &o.ReportSeq, &feed, &o.Job.RemoteURL, &o.Job.LocalPath,
			&status, &state, &o.HTTPStatus, &o.Message, &o.Bytes, &durationMs)
		if err != nil {
			return nil, err
		}
		o.Job.Feed = domain.FeedIdentifier(feed)
		o.Status = domain.OutcomeStatus(status)
		o.State = domain.JobState(state)
		o.Duration = time.Duration(durationMs) * time.Millisecond
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if outcomes == nil {
		return nil, fmt.Errorf("run %s: %w", runID, domain.ErrRunNotFound)
	}
	return outcomes, nil
}

// PruneRuns deletes runs started before now-olderThan together with their outcomes
func (s *Store) PruneRuns(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := toMillis(time.Now().Add(-olderThan))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM run_outcomes
		WHERE run_id IN (SELECT run_id FROM runs WHERE started_at < ?)
	`, cutoff)
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(affected), nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
