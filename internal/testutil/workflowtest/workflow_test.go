package workflowtest

import (
	"testing"

	"github.com/lowrester/Veriqko/internal/domain/model"
	"github.com/lowrester/Veriqko/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkflowTestOptions tests the option builders.
func TestWorkflowTestOptions(t *testing.T) {
	opts := DefaultWorkflowOptions()
	assert.False(t, opts.EnableRedis)

	redisOpts := RedisWorkflowOptions()
	assert.True(t, redisOpts.EnableRedis)
}

// TestCompletePipelineWorkflow walks a unit through every phase over HTTP.
func TestCompletePipelineWorkflow(t *testing.T) {
	WithWorkflowHarness(t, DefaultWorkflowOptions(), func(h *WorkflowTestHarness) {
		helpers := h.NewWorkflowHelpers()
		slaHours := 48

		job := helpers.RunCompletePipeline("SN-WF-0001", &slaHours)

		require.Equal(t, model.JobStatusCompleted, job.Status)
		require.NotNil(t, job.SLADueAt)
		require.NotNil(t, job.IntakeCompletedAt)
		require.NotNil(t, job.ResetCompletedAt)
		require.NotNil(t, job.FunctionalCompletedAt)
		require.NotNil(t, job.QCCompletedAt)
	})
}

// TestFailedPipelineWorkflow pulls a unit mid-reset and checks the terminal state.
func TestFailedPipelineWorkflow(t *testing.T) {
	WithWorkflowHarness(t, DefaultWorkflowOptions(), func(h *WorkflowTestHarness) {
		helpers := h.NewWorkflowHelpers()

		job := helpers.RunFailedPipeline("SN-WF-0002", "cracked display")

		require.Equal(t, model.JobStatusFailed, job.Status)
		require.NotNil(t, job.FailureReason)
		assert.Equal(t, "cracked display", *job.FailureReason)
	})
}

// TestDashboardReflectsPipelineOutcomes runs mixed outcomes and checks the projection.
func TestDashboardReflectsPipelineOutcomes(t *testing.T) {
	WithWorkflowHarness(t, DefaultWorkflowOptions(), func(h *WorkflowTestHarness) {
		helpers := h.NewWorkflowHelpers()

		helpers.RunCompletePipeline("SN-WF-0010", testutil.IntPtr(48))
		helpers.RunCompletePipeline("SN-WF-0011", testutil.IntPtr(48))
		helpers.RunFailedPipeline("SN-WF-0012", "water damage")
		helpers.IntakeUnit("SN-WF-0013", nil)

		stats := helpers.Client().Dashboard()
		assert.Equal(t, 4, stats.TotalJobs)
		assert.Equal(t, 2, stats.Completed)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, 1, stats.InProgress)
		// 2 completed out of 3 terminal outcomes
		assert.InDelta(t, 66.7, stats.YieldRate, 0.01)
	})
}
