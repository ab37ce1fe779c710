package model

import (
	"math"
	"time"
)

// SLAStatus is the coarse deadline health shown on the floor board.
type SLAStatus string

const (
	// SLAStatusNone means the job carries no deadline.
	SLAStatusNone SLAStatus = "none"
	// SLAStatusCritical means the deadline has passed.
	SLAStatusCritical SLAStatus = "critical"
	// SLAStatusWarning means the deadline is inside the display window.
	SLAStatusWarning SLAStatus = "warning"
	// SLAStatusHealthy means the deadline is comfortably in the future.
	SLAStatusHealthy SLAStatus = "healthy"
)

// floorWarningWindow is the board's amber threshold. It is a display rule
// and deliberately wider than the alerting window used by the SLA monitor.
const floorWarningWindow = 4 * time.Hour

// SLAStatusAt derives the board health for a deadline at the given instant.
func SLAStatusAt(due *time.Time, now time.Time) SLAStatus {
	if due == nil {
		return SLAStatusNone
	}
	switch remaining := due.Sub(now); {
	case remaining < 0:
		return SLAStatusCritical
	case remaining < floorWarningWindow:
		return SLAStatusWarning
	default:
		return SLAStatusHealthy
	}
}

// UnassignedColumnID identifies the virtual column for jobs with no station.
const UnassignedColumnID = "unassigned"

// UnassignedColumnName is the display label for the virtual intake column.
const UnassignedColumnName = "Unassigned / Intake Queue"

// JobSummary is the compact job projection used by the floor board and
// the dashboard's recent-jobs list.
type JobSummary struct {
	ID                  string     `json:"id"`
	SerialNumber        string     `json:"serial_number"`
	Status              JobStatus  `json:"status"`
	BatchID             *string    `json:"batch_id,omitempty"`
	TechnicianID        *string    `json:"technician_id,omitempty"`
	TechnicianName      *string    `json:"technician_name,omitempty"`
	Brand               string     `json:"brand"`
	DeviceType          string     `json:"device_type"`
	Model               string     `json:"model"`
	SLADueAt            *time.Time `json:"sla_due_at,omitempty"`
	SLAStatus           SLAStatus  `json:"sla_status"`
	PiceaVerifyStatus   *string    `json:"picea_verify_status,omitempty"`
	PiceaEraseConfirmed bool       `json:"picea_erase_confirmed"`
	PiceaMDMLocked      bool       `json:"picea_mdm_locked"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// FloorColumn is one lane on the floor board: a station, or the virtual
// unassigned queue.
type FloorColumn struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type string       `json:"type"`
	Jobs []JobSummary `json:"jobs"`
}

// FloorSnapshot is a complete point-in-time view of the floor.
type FloorSnapshot struct {
	Columns     []FloorColumn `json:"columns"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// DashboardStats summarizes pipeline health for the overview page.
type DashboardStats struct {
	TotalJobs  int          `json:"total_jobs"`
	Completed  int          `json:"completed"`
	Failed     int          `json:"failed"`
	InProgress int          `json:"in_progress"`
	YieldRate  float64      `json:"yield_rate"`
	RecentJobs []JobSummary `json:"recent_jobs"`
}

// YieldRate computes the completed share of all closed jobs as a
// percentage rounded to one decimal. No closed jobs yields zero.
func YieldRate(completed, failed int) float64 {
	closed := completed + failed
	if closed == 0 {
		return 0
	}
	rate := float64(completed) / float64(closed) * 100
	return math.Round(rate*10) / 10
}

// PhaseThroughput is the average dwell time for one pipeline phase.
type PhaseThroughput struct {
	Phase    JobStatus `json:"phase"`
	AvgHours float64   `json:"avg_hours"`
}

// ThroughputReport aggregates phase dwell times over jobs completed
// within the reported window.
type ThroughputReport struct {
	Phases        []PhaseThroughput `json:"phases"`
	TotalAvgHours float64           `json:"total_avg_hours"`
	SampleSize    int               `json:"sample_size"`
	WindowDays    int               `json:"window_days"`
}

// TechnicianStanding is one row of the completion leaderboard.
type TechnicianStanding struct {
	TechnicianID string `json:"technician_id"`
	Name         string `json:"name"`
	Completed    int    `json:"completed"`
}
