package jobs

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type reservationExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireReservationsCommand) (int64, error)
}

// ReservationExpiryJob moves stale ACTIVE reservations to EXPIRED on a schedule. With a locker
// only the replica holding the sweep lock runs a tick; the others skip it.
type ReservationExpiryJob struct {
	handler        reservationExpirer
	locker         ports.SweepLocker
	thresholdHours int
	schedule       string
	cron           *cron.Cron
	logger         *zap.Logger
}

// NewReservationExpiryJob creates the job. locker may be nil for single-replica deployments.
func NewReservationExpiryJob(
	handler reservationExpirer,
	locker ports.SweepLocker,
	thresholdHours int,
	schedule string,
	logger *zap.Logger,
) *ReservationExpiryJob {
	return &ReservationExpiryJob{
		handler:        handler,
		locker:         locker,
		thresholdHours: thresholdHours,
		schedule:       schedule,
		cron:           cron.New(cron.WithSeconds()),
		logger:         logger.With(zap.String("component", "reservation_expiry_job")),
	}
}

func (j *ReservationExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Reservation expiry job started",
		zap.String("schedule", j.schedule),
		zap.Int("thresholdHours", j.thresholdHours),
	)
	return nil
}

func (j *ReservationExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Reservation expiry job stopped")
}

// Run performs one sweep.
func (j *ReservationExpiryJob) Run(ctx context.Context) {
	if j.locker != nil {
		token, ok, err := j.locker.Acquire(ctx)
		if err != nil {
			j.logger.Error("Failed to acquire sweep lock", zap.Error(err))
			return
		}
		if !ok {
			j.logger.Debug("Sweep lock held by another replica, skipping")
			return
		}
		defer func() {
			if releaseErr := j.locker.Release(ctx, token); releaseErr != nil {
				j.logger.Warn("Failed to release sweep lock", zap.Error(releaseErr))
			}
		}()
	}

	cmd, err := commands.NewExpireReservationsCommand(j.thresholdHours)
	if err != nil {
		j.logger.Error("Invalid expiry threshold", zap.Error(err))
		return
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("Reservation expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		j.logger.Info("Expired stale reservations", zap.Int64("expired", expired))
	}
}
