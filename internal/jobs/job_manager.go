package jobs

import (
	"fmt"
)

// job is a scheduled task that can be started and stopped.
type job interface {
	Start() error
	Stop()
}

// JobManager starts and stops the scheduled jobs as one unit.
type JobManager struct {
	reservationExpiryJob *ReservationExpiryJob
	stuckOrderMonitorJob *StuckOrderMonitorJob
}

func NewJobManager(expiry *ReservationExpiryJob, monitor *StuckOrderMonitorJob) *JobManager {
	return &JobManager{
		reservationExpiryJob: expiry,
		stuckOrderMonitorJob: monitor,
	}
}

// StartAll starts every job. If one fails to start, the jobs already running are stopped.
func (jm *JobManager) StartAll() error {
	named := []struct {
		name string
		job  job
	}{
		{"reservation expiry job", jm.reservationExpiryJob},
		{"stuck order monitor job", jm.stuckOrderMonitorJob},
	}

	started := make([]job, 0, len(named))
	for _, n := range named {
		if err := n.job.Start(); err != nil {
			for _, s := range started {
				s.Stop()
			}
			return fmt.Errorf("failed to start %s: %w", n.name, err)
		}
		started = append(started, n.job)
	}
	return nil
}

// StopAll waits for running ticks to finish.
func (jm *JobManager) StopAll() {
	jm.stuckOrderMonitorJob.Stop()
	jm.reservationExpiryJob.Stop()
}
