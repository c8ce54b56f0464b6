package jobs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	manager := NewManager()

	job := manager.CreateJob("train", "train lda on clusters.csv")
	require.Equal(t, JobPending, job.GetStatus())

	found, exists := manager.GetJob(job.ID)
	require.True(t, exists)
	require.Equal(t, job.ID, found.ID)

	job.SetStatus(JobRunning)
	job.SetProgress(0.5)
	job.AddLog("halfway")
	require.Equal(t, JobRunning, job.GetStatus())
	require.Equal(t, 0.5, job.GetProgress())
	require.Len(t, job.GetLogs(), 1)

	job.SetStatus(JobCompleted)
	require.NotNil(t, job.EndTime)
}

func TestManagerCancel(t *testing.T) {
	manager := NewManager()

	require.Error(t, manager.CancelJob("missing"))

	job := manager.CreateJob("experiment", "sweep")
	require.Error(t, manager.CancelJob(job.ID), "pending jobs cannot be cancelled")

	job.SetStatus(JobRunning)
	cancelled := false
	job.SetCancelFunc(func() { cancelled = true })

	require.NoError(t, manager.CancelJob(job.ID))
	require.True(t, cancelled)
	require.Equal(t, JobCancelled, job.GetStatus())
}

// A cancelled job stays cancelled even if the worker goroutine finishes
// afterwards and reports success or failure.
func TestCancelledStatusIsTerminal(t *testing.T) {
	manager := NewManager()
	job := manager.CreateJob("train", "long run")
	job.SetStatus(JobRunning)
	require.NoError(t, manager.CancelJob(job.ID))

	job.SetStatus(JobCompleted)
	require.Equal(t, JobCancelled, job.GetStatus())

	job.SetError(errors.New("late failure"))
	require.Equal(t, JobCancelled, job.GetStatus())
	require.NoError(t, job.Error)
}

func TestJobFailure(t *testing.T) {
	manager := NewManager()
	job := manager.CreateJob("train", "doomed")
	job.SetStatus(JobRunning)

	job.SetError(errors.New("singular matrix"))
	require.Equal(t, JobFailed, job.GetStatus())
	require.Error(t, job.Error)
}
