package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lowrester/Veriqko/internal/data/pgxutil"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

// ListSLACandidates returns active jobs carrying a deadline, oldest
// deadline first. The sweep works through this set one job at a time.
func (r *JobRepo) ListSLACandidates(ctx context.Context, limit int) ([]*model.Job, error) {
	if limit <= 0 {
		limit = 500
	}

	var rowsOut []model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+jobColumns+` FROM jobs
			WHERE `+jobActive+` AND sla_due_at IS NOT NULL
			ORDER BY sla_due_at ASC
			LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list sla candidates: %w", err)
	}

	res := make([]*model.Job, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkWarningNotified latches the warning timestamp. The update is
// conditional so a job that was closed, deleted, or already latched by a
// concurrent writer is left untouched; the return value reports whether
// the latch was applied.
func (r *JobRepo) MarkWarningNotified(ctx context.Context, jobID string) (bool, error) {
	return r.latchNotified(ctx, jobID, "sla_warning_notified_at")
}

// MarkBreachNotified latches the breach timestamp under the same
// conditions as MarkWarningNotified.
func (r *JobRepo) MarkBreachNotified(ctx context.Context, jobID string) (bool, error) {
	return r.latchNotified(ctx, jobID, "sla_breach_notified_at")
}

func (r *JobRepo) latchNotified(ctx context.Context, jobID, column string) (bool, error) {
	now := r.timeProvider.Now().UTC()
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE jobs SET `+column+` = $2, updated_at = $2
			WHERE id = $1 AND `+jobActive+` AND `+column+` IS NULL`,
			jobID, now)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
