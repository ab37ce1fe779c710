package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data/pgxutil"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

// jobColumns is the standard column list for job queries.
const jobColumns = `id, serial_number, device_id, batch_id, status, station_id, technician_id,
	failure_reason, sla_due_at, sla_warning_notified_at, sla_breach_notified_at,
	intake_started_at, intake_completed_at, reset_started_at, reset_completed_at,
	functional_started_at, functional_completed_at, qc_started_at, qc_completed_at,
	completed_at, picea_verify_status, picea_erase_confirmed, picea_mdm_locked,
	created_at, updated_at, deleted_at`

// jobNotDeleted is the single tombstone predicate. Every job query that
// should ignore soft-deleted rows must use this constant rather than
// restating the condition.
const jobNotDeleted = `deleted_at IS NULL`

// jobActive restricts a query to jobs still moving through the pipeline.
const jobActive = jobNotDeleted + ` AND status NOT IN ('COMPLETED', 'FAILED')`

// phaseCompletedColumns maps each active phase to its completion timestamp column.
var phaseCompletedColumns = map[model.JobStatus]string{
	model.JobStatusIntake:     "intake_completed_at",
	model.JobStatusReset:      "reset_completed_at",
	model.JobStatusFunctional: "functional_completed_at",
	model.JobStatusQC:         "qc_completed_at",
}

// phaseStartedColumns maps each active phase to its start timestamp column.
var phaseStartedColumns = map[model.JobStatus]string{
	model.JobStatusIntake:     "intake_started_at",
	model.JobStatusReset:      "reset_started_at",
	model.JobStatusFunctional: "functional_started_at",
	model.JobStatusQC:         "qc_started_at",
}

// JobRepo provides database operations for refurbishment jobs.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo with real time provider.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobRepoWithTimeProvider creates a new JobRepo with a custom time provider (useful for tests).
func NewJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: tp}
}

// Create inserts a new job at the head of the pipeline.
func (r *JobRepo) Create(ctx context.Context, params core.CreateJobParams) (*model.Job, error) {
	req := params.Request
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO jobs (
				id, serial_number, device_id, batch_id, status, technician_id, sla_due_at,
				intake_started_at, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $8, $8
			) RETURNING `+jobColumns,
			uuid.NewString(),
			strings.TrimSpace(req.SerialNumber),
			req.DeviceID,
			req.BatchID,
			model.JobStatusIntake,
			req.TechnicianID,
			params.SLADueAt,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a job by ID. Soft-deleted jobs are not found.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND `+jobNotDeleted, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		job, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return &job, nil
}

// Transition applies one pipeline edge under a row lock. The edge is
// validated against the status graph and the completed phase timestamp is
// stamped exactly once.
func (r *JobRepo) Transition(ctx context.Context, params core.TransitionJobParams) (*model.Job, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Job
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		job, err := lockJob(ctx, tx, params.ID)
		if err != nil {
			return err
		}
		if job.Status.Terminal() {
			return apperrors.JobClosedf("job %s is %s", job.ID, job.Status)
		}
		if !job.Status.CanTransitionTo(params.Next) {
			return apperrors.InvalidTransitionf("cannot move job %s from %s to %s", job.ID, job.Status, params.Next)
		}

		set := []string{"status = $2", "updated_at = $3"}
		if phase, ok := model.PhaseCompletedBy(job.Status, params.Next); ok {
			if stamp := job.PhaseCompletedAt(phase); stamp != nil && *stamp != nil {
				return apperrors.PhaseCompletedf("phase %s of job %s is already completed", phase, job.ID)
			}
			set = append(set, phaseCompletedColumns[phase]+" = $3")
		}
		if phase, ok := model.PhaseStartedBy(job.Status, params.Next); ok {
			if stamp := job.PhaseStartedAt(phase); stamp != nil && *stamp != nil {
				return apperrors.PhaseCompletedf("phase %s of job %s was already entered", phase, job.ID)
			}
			set = append(set, phaseStartedColumns[phase]+" = $3")
		}
		if params.Next == model.JobStatusCompleted {
			if job.CompletedAt != nil {
				return apperrors.PhaseCompletedf("job %s already carries a completion timestamp", job.ID)
			}
			set = append(set, "completed_at = $3")
		}

		rows, err := tx.Query(ctx,
			`UPDATE jobs SET `+strings.Join(set, ", ")+
				` WHERE id = $1 RETURNING `+jobColumns,
			job.ID, params.Next, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Fail pulls an active job from the pipeline, recording the reason. No
// phase timestamp is stamped.
func (r *JobRepo) Fail(ctx context.Context, params core.FailJobParams) (*model.Job, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Job
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		job, err := lockJob(ctx, tx, params.ID)
		if err != nil {
			return err
		}
		if job.Status.Terminal() {
			return apperrors.JobClosedf("job %s is %s", job.ID, job.Status)
		}

		rows, err := tx.Query(ctx, `
			UPDATE jobs SET status = $2, failure_reason = $3, updated_at = $4
			WHERE id = $1 RETURNING `+jobColumns,
			job.ID, model.JobStatusFailed, strings.TrimSpace(params.Reason), now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Assign moves an active job to a station, a technician, or both.
func (r *JobRepo) Assign(ctx context.Context, params core.AssignJobParams) (*model.Job, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Job
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		job, err := lockJob(ctx, tx, params.ID)
		if err != nil {
			return err
		}
		if job.Status.Terminal() {
			return apperrors.JobClosedf("job %s is %s", job.ID, job.Status)
		}

		setParts := make([]string, 0, 3)
		args := []any{job.ID}
		switch {
		case params.ClearStation:
			setParts = append(setParts, "station_id = NULL")
		case params.StationID != nil:
			args = append(args, *params.StationID)
			setParts = append(setParts, "station_id = $"+strconv.Itoa(len(args)))
		}
		if params.TechnicianID != nil {
			args = append(args, *params.TechnicianID)
			setParts = append(setParts, "technician_id = $"+strconv.Itoa(len(args)))
		}
		args = append(args, now)
		setParts = append(setParts, "updated_at = $"+strconv.Itoa(len(args)))

		rows, err := tx.Query(ctx,
			`UPDATE jobs SET `+strings.Join(setParts, ", ")+
				` WHERE id = $1 RETURNING `+jobColumns, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// UpdateDiagnostics records test-tool flags on an active job. Nil fields
// in the update are left unchanged.
func (r *JobRepo) UpdateDiagnostics(ctx context.Context, id string, update model.DiagnosticsUpdate) (*model.Job, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Job
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		job, err := lockJob(ctx, tx, id)
		if err != nil {
			return err
		}
		if job.Status.Terminal() {
			return apperrors.JobClosedf("job %s is %s", job.ID, job.Status)
		}

		setParts := make([]string, 0, 4)
		args := []any{job.ID}
		if update.PiceaVerifyStatus != nil {
			args = append(args, *update.PiceaVerifyStatus)
			setParts = append(setParts, "picea_verify_status = $"+strconv.Itoa(len(args)))
		}
		if update.PiceaEraseConfirmed != nil {
			args = append(args, *update.PiceaEraseConfirmed)
			setParts = append(setParts, "picea_erase_confirmed = $"+strconv.Itoa(len(args)))
		}
		if update.PiceaMDMLocked != nil {
			args = append(args, *update.PiceaMDMLocked)
			setParts = append(setParts, "picea_mdm_locked = $"+strconv.Itoa(len(args)))
		}
		args = append(args, now)
		setParts = append(setParts, "updated_at = $"+strconv.Itoa(len(args)))

		rows, err := tx.Query(ctx,
			`UPDATE jobs SET `+strings.Join(setParts, ", ")+
				` WHERE id = $1 RETURNING `+jobColumns, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// SoftDelete tombstones a job. Already-deleted jobs report not found.
func (r *JobRepo) SoftDelete(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE jobs SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND `+jobNotDeleted,
			id, now)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("job %s not found", id)
	}
	return nil
}

// lockJob loads a job row FOR UPDATE inside a transaction. Soft-deleted
// jobs are reported as not found.
func lockJob(ctx context.Context, tx pgx.Tx, id string) (*model.Job, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND `+jobNotDeleted+` FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	job, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, err
	}
	return &job, nil
}
