package jobs

import (
	"fmt"
)

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []job
	started []job
}

// NewJobManager creates a job manager. Nil jobs are skipped, which is how a job
// disabled by configuration is left out.
func NewJobManager(backfill *KitchenBackfillJob, reconnect *PrinterReconnectJob) *JobManager {
	jm := &JobManager{}
	if reconnect != nil {
		jm.jobs = append(jm.jobs, reconnect)
	}
	if backfill != nil {
		jm.jobs = append(jm.jobs, backfill)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %T: %w", j, err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
