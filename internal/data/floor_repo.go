package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data/pgxutil"
	"github.com/lowrester/Veriqko/internal/domain/model"
)

// jobSummaryRow is the scan target for floor board queries. StationID is
// carried so the caller can bucket summaries into columns.
type jobSummaryRow struct {
	ID                  string     `db:"id"`
	SerialNumber        string     `db:"serial_number"`
	Status              string     `db:"status"`
	BatchID             *string    `db:"batch_id"`
	StationID           *string    `db:"station_id"`
	TechnicianID        *string    `db:"technician_id"`
	TechnicianName      *string    `db:"technician_name"`
	Brand               string     `db:"brand"`
	DeviceType          string     `db:"device_type"`
	DeviceModel         string     `db:"device_model"`
	SLADueAt            *time.Time `db:"sla_due_at"`
	PiceaVerifyStatus   *string    `db:"picea_verify_status"`
	PiceaEraseConfirmed bool       `db:"picea_erase_confirmed"`
	PiceaMDMLocked      bool       `db:"picea_mdm_locked"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// jobSummarySelect joins device identity and technician names onto the
// compact job projection.
const jobSummarySelect = `
	SELECT j.id, j.serial_number, j.status, j.batch_id, j.station_id, j.technician_id,
	       t.name AS technician_name,
	       d.brand, d.device_type, d.model AS device_model,
	       j.sla_due_at, j.picea_verify_status, j.picea_erase_confirmed, j.picea_mdm_locked,
	       j.created_at, j.updated_at
	FROM jobs j
	JOIN devices d ON d.id = j.device_id
	LEFT JOIN technicians t ON t.id = j.technician_id`

// FloorRepo provides the read-model queries behind the floor board and
// dashboard projections.
type FloorRepo struct {
	DB *sql.DB
}

// NewFloorRepo creates a new FloorRepo.
func NewFloorRepo(db *sql.DB) *FloorRepo {
	return &FloorRepo{DB: db}
}

// ActiveStations returns active stations ordered by name.
func (r *FloorRepo) ActiveStations(ctx context.Context) ([]*model.Station, error) {
	var rowsOut []model.Station
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, type, is_active, created_at, updated_at
			FROM stations
			WHERE is_active
			ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Station])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list active stations: %w", err)
	}

	res := make([]*model.Station, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ActiveJobSummaries returns summaries of jobs still on the floor, keyed
// by station assignment. The empty key holds the unassigned queue.
func (r *FloorRepo) ActiveJobSummaries(ctx context.Context) (map[string][]model.JobSummary, error) {
	var rowsOut []jobSummaryRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobSummarySelect+`
			WHERE j.`+jobNotDeleted+` AND j.status NOT IN ('COMPLETED', 'FAILED')
			ORDER BY j.created_at ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[jobSummaryRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list active job summaries: %w", err)
	}

	byStation := make(map[string][]model.JobSummary)
	for i := range rowsOut {
		key := ""
		if rowsOut[i].StationID != nil {
			key = *rowsOut[i].StationID
		}
		byStation[key] = append(byStation[key], rowsOut[i].toSummary())
	}
	return byStation, nil
}

// DashboardCounts aggregates job counters over non-deleted jobs.
func (r *FloorRepo) DashboardCounts(ctx context.Context) (*core.DashboardCounts, error) {
	var out core.DashboardCounts
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			       COUNT(*) FILTER (WHERE status = 'FAILED'),
			       COUNT(*) FILTER (WHERE status NOT IN ('COMPLETED', 'FAILED'))
			FROM jobs
			WHERE `+jobNotDeleted).
			Scan(&out.Total, &out.Completed, &out.Failed, &out.InProgress)
	}); err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard counts: %w", err)
	}
	return &out, nil
}

// RecentJobs returns the newest non-deleted jobs, terminal ones included.
func (r *FloorRepo) RecentJobs(ctx context.Context, limit int) ([]model.JobSummary, error) {
	if limit <= 0 {
		limit = 5
	}

	var rowsOut []jobSummaryRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobSummarySelect+`
			WHERE j.`+jobNotDeleted+`
			ORDER BY j.created_at DESC
			LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[jobSummaryRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list recent jobs: %w", err)
	}

	res := make([]model.JobSummary, len(rowsOut))
	for i := range rowsOut {
		res[i] = rowsOut[i].toSummary()
	}
	return res, nil
}

// PhaseDurations returns average dwell times in seconds per phase, from
// each phase's start stamp to its completion stamp, over jobs completed
// at or after since. The total runs from creation to the job-level
// completion stamp.
func (r *FloorRepo) PhaseDurations(ctx context.Context, since time.Time) (*core.ThroughputAggregate, error) {
	var (
		intake, reset, functional, qc, total sql.NullFloat64
		sample                               int
	)
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT
				AVG(EXTRACT(EPOCH FROM (intake_completed_at - intake_started_at))),
				AVG(EXTRACT(EPOCH FROM (reset_completed_at - reset_started_at))),
				AVG(EXTRACT(EPOCH FROM (functional_completed_at - functional_started_at))),
				AVG(EXTRACT(EPOCH FROM (qc_completed_at - qc_started_at))),
				AVG(EXTRACT(EPOCH FROM (completed_at - created_at))),
				COUNT(*)
			FROM jobs
			WHERE `+jobNotDeleted+` AND status = 'COMPLETED' AND completed_at >= $1`, since).
			Scan(&intake, &reset, &functional, &qc, &total, &sample)
	}); err != nil {
		return nil, fmt.Errorf("failed to aggregate phase durations: %w", err)
	}

	return &core.ThroughputAggregate{
		Phases: []core.PhaseDurationRow{
			{Phase: model.JobStatusIntake, AvgSeconds: intake.Float64},
			{Phase: model.JobStatusReset, AvgSeconds: reset.Float64},
			{Phase: model.JobStatusFunctional, AvgSeconds: functional.Float64},
			{Phase: model.JobStatusQC, AvgSeconds: qc.Float64},
		},
		TotalAvgSeconds: total.Float64,
		SampleSize:      sample,
	}, nil
}

// TechnicianCompletions ranks technicians by completed jobs since the
// given instant.
func (r *FloorRepo) TechnicianCompletions(ctx context.Context, params core.TechnicianCompletionsParams) ([]model.TechnicianStanding, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	type standingRow struct {
		TechnicianID string `db:"technician_id"`
		Name         string `db:"name"`
		Completed    int    `db:"completed"`
	}

	var rowsOut []standingRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT j.technician_id, t.name, COUNT(*) AS completed
			FROM jobs j
			JOIN technicians t ON t.id = j.technician_id
			WHERE j.`+jobNotDeleted+` AND j.status = 'COMPLETED'
			  AND j.completed_at >= $1
			GROUP BY j.technician_id, t.name
			ORDER BY completed DESC, t.name ASC
			LIMIT $2`, params.Since, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[standingRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to rank technician completions: %w", err)
	}

	res := make([]model.TechnicianStanding, len(rowsOut))
	for i := range rowsOut {
		res[i] = model.TechnicianStanding{
			TechnicianID: rowsOut[i].TechnicianID,
			Name:         rowsOut[i].Name,
			Completed:    rowsOut[i].Completed,
		}
	}
	return res, nil
}

func (row *jobSummaryRow) toSummary() model.JobSummary {
	return model.JobSummary{
		ID:                  row.ID,
		SerialNumber:        row.SerialNumber,
		Status:              model.JobStatus(row.Status),
		BatchID:             row.BatchID,
		TechnicianID:        row.TechnicianID,
		TechnicianName:      row.TechnicianName,
		Brand:               row.Brand,
		DeviceType:          row.DeviceType,
		Model:               row.DeviceModel,
		SLADueAt:            row.SLADueAt,
		PiceaVerifyStatus:   row.PiceaVerifyStatus,
		PiceaEraseConfirmed: row.PiceaEraseConfirmed,
		PiceaMDMLocked:      row.PiceaMDMLocked,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}
