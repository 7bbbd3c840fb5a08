package jobs

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type stuckOrderFinder interface {
	Handle(ctx context.Context, query queries.GetStuckOrdersQuery) ([]queries.StuckOrderResponse, error)
}

// StuckOrderMonitorJob logs a warning for every order whose status has not moved for longer
// than the threshold. It never changes an order.
type StuckOrderMonitorJob struct {
	handler   stuckOrderFinder
	threshold time.Duration
	schedule  string
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewStuckOrderMonitorJob(
	handler stuckOrderFinder,
	threshold time.Duration,
	schedule string,
	logger *zap.Logger,
) *StuckOrderMonitorJob {
	return &StuckOrderMonitorJob{
		handler:   handler,
		threshold: threshold,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With(zap.String("component", "stuck_order_monitor_job")),
	}
}

func (j *StuckOrderMonitorJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Stuck order monitor started",
		zap.String("schedule", j.schedule),
		zap.Duration("threshold", j.threshold),
	)
	return nil
}

func (j *StuckOrderMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Stuck order monitor stopped")
}

// Run performs one scan and returns the number of stuck orders found.
func (j *StuckOrderMonitorJob) Run(ctx context.Context) int {
	query, err := queries.NewGetStuckOrdersQuery(j.threshold)
	if err != nil {
		j.logger.Error("Invalid stuck order threshold", zap.Error(err))
		return 0
	}

	stuck, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.Error("Stuck order scan failed", zap.Error(err))
		return 0
	}

	for _, o := range stuck {
		j.logger.Warn("Order is stuck",
			zap.String("orderId", o.OrderID.String()),
			zap.String("number", o.Number),
			zap.String("status", o.Status.String()),
			zap.String("priority", o.Priority.String()),
			zap.Duration("stuckFor", o.StuckFor),
		)
	}
	return len(stuck)
}
