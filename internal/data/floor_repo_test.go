package data_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	"github.com/lowrester/Veriqko/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *jobRepoFixture) completePipeline(t *testing.T, serial string, perPhase time.Duration) *model.Job {
	t.Helper()
	job := f.createJob(t, serial, nil)
	for _, next := range []model.JobStatus{
		model.JobStatusReset,
		model.JobStatusFunctional,
		model.JobStatusQC,
		model.JobStatusCompleted,
	} {
		f.clock.AddTime(perPhase)
		job = f.advance(t, job, next)
	}
	return job
}

func insertTechnician(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO technicians (id, name, email, is_active, created_at)
		VALUES ($1, $2, $3, true, NOW())`,
		id, name, name+"@veriqko.local")
	require.NoError(t, err)
	return id
}

func TestFloorRepo_ActiveStationsOrderedByName(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := newJobRepoFixture(t, db)
		stations := data.NewStationRepoWithTimeProvider(db, f.clock)

		for _, name := range []string{"Bench Z", "Bench A", "Bench M"} {
			_, err := stations.Create(context.Background(), testutil.BenchStationRequest(name))
			require.NoError(t, err)
		}
		retired, err := stations.Create(context.Background(), testutil.BenchStationRequest("Bench Retired"))
		require.NoError(t, err)
		_, err = stations.Deactivate(context.Background(), retired.ID)
		require.NoError(t, err)

		floor := data.NewFloorRepo(db)
		active, err := floor.ActiveStations(context.Background())
		require.NoError(t, err)

		require.Len(t, active, 3)
		assert.Equal(t, "Bench A", active[0].Name)
		assert.Equal(t, "Bench M", active[1].Name)
		assert.Equal(t, "Bench Z", active[2].Name)
	})
}

func TestFloorRepo_ActiveJobSummariesBucketedByStation(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := newJobRepoFixture(t, db)
		stations := data.NewStationRepoWithTimeProvider(db, f.clock)
		station, err := stations.Create(context.Background(), testutil.BenchStationRequest("Bench 1"))
		require.NoError(t, err)

		queued := f.createJob(t, "SN-FLOOR-0001", nil)
		benched := f.createJob(t, "SN-FLOOR-0002", nil)
		_, err = f.jobs.Assign(context.Background(), core.AssignJobParams{
			ID:        benched.ID,
			StationID: &station.ID,
		})
		require.NoError(t, err)

		// Closed jobs leave the floor.
		done := f.completePipeline(t, "SN-FLOOR-0003", time.Minute)
		require.Equal(t, model.JobStatusCompleted, done.Status)

		floor := data.NewFloorRepo(db)
		byStation, err := floor.ActiveJobSummaries(context.Background())
		require.NoError(t, err)

		require.Len(t, byStation[""], 1)
		assert.Equal(t, queued.ID, byStation[""][0].ID)
		require.Len(t, byStation[station.ID], 1)
		assert.Equal(t, benched.ID, byStation[station.ID][0].ID)

		// The board renders device identity without extra lookups.
		card := byStation[""][0]
		assert.Equal(t, "Apple", card.Brand)
		assert.Equal(t, "phone", card.DeviceType)
		assert.Equal(t, "iPhone 13", card.Model)
		assert.False(t, card.UpdatedAt.IsZero())
	})
}

func TestFloorRepo_DashboardCountsAndRecentJobs(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := newJobRepoFixture(t, db)

		f.completePipeline(t, "SN-FLOOR-0004", time.Minute)
		failed := f.createJob(t, "SN-FLOOR-0005", nil)
		_, err := f.jobs.Fail(context.Background(), core.FailJobParams{ID: failed.ID, Reason: "doa"})
		require.NoError(t, err)
		f.clock.AddTime(time.Minute)
		f.createJob(t, "SN-FLOOR-0006", nil)

		deleted := f.createJob(t, "SN-FLOOR-0007", nil)
		require.NoError(t, f.jobs.SoftDelete(context.Background(), deleted.ID))

		floor := data.NewFloorRepo(db)
		counts, err := floor.DashboardCounts(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 3, counts.Total)
		assert.Equal(t, 1, counts.Completed)
		assert.Equal(t, 1, counts.Failed)
		assert.Equal(t, 1, counts.InProgress)

		recent, err := floor.RecentJobs(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "SN-FLOOR-0006", recent[0].SerialNumber)
	})
}

func TestFloorRepo_PhaseDurations(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := newJobRepoFixture(t, db)

		// Two completed jobs, one hour per phase each.
		f.completePipeline(t, "SN-FLOOR-0008", time.Hour)
		f.completePipeline(t, "SN-FLOOR-0009", time.Hour)

		// Active jobs never enter the sample.
		f.createJob(t, "SN-FLOOR-0010", nil)

		floor := data.NewFloorRepo(db)
		since := testutil.TestTime().Add(-time.Hour)
		agg, err := floor.PhaseDurations(context.Background(), since)
		require.NoError(t, err)

		assert.Equal(t, 2, agg.SampleSize)
		require.Len(t, agg.Phases, 4)
		for _, row := range agg.Phases {
			assert.InDelta(t, 3600, row.AvgSeconds, 1, "phase %s", row.Phase)
		}
		// Intake to done spans all four phases.
		assert.InDelta(t, 4*3600, agg.TotalAvgSeconds, 1)

		// Jobs completed before the window stay out of the sample.
		empty, err := floor.PhaseDurations(context.Background(), f.clock.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, empty.SampleSize)
	})
}

func TestFloorRepo_TechnicianCompletions(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := newJobRepoFixture(t, db)

		avery := insertTechnician(t, db, "Avery")
		blake := insertTechnician(t, db, "Blake")

		assignAndFinish := func(serial, techID string) {
			job := f.createJob(t, serial, nil)
			_, err := f.jobs.Assign(context.Background(), core.AssignJobParams{
				ID:           job.ID,
				TechnicianID: &techID,
			})
			require.NoError(t, err)
			for _, next := range []model.JobStatus{
				model.JobStatusReset,
				model.JobStatusFunctional,
				model.JobStatusQC,
				model.JobStatusCompleted,
			} {
				f.clock.AddTime(time.Minute)
				job = f.advance(t, job, next)
			}
		}

		assignAndFinish("SN-FLOOR-0011", avery)
		assignAndFinish("SN-FLOOR-0012", avery)
		assignAndFinish("SN-FLOOR-0013", blake)

		floor := data.NewFloorRepo(db)
		standings, err := floor.TechnicianCompletions(context.Background(), core.TechnicianCompletionsParams{
			Since: testutil.TestTime().Add(-time.Hour),
			Limit: 10,
		})
		require.NoError(t, err)

		require.Len(t, standings, 2)
		assert.Equal(t, "Avery", standings[0].Name)
		assert.Equal(t, 2, standings[0].Completed)
		assert.Equal(t, "Blake", standings[1].Name)
		assert.Equal(t, 1, standings[1].Completed)
	})
}
