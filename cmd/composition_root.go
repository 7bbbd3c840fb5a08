package cmd

import (
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot wires the use cases to the PostgreSQL unit of work, the event publisher and
// the sweep lock. publisher and locker may be nil.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	strategies *services.StrategyRegistry
	policy     ports.TransitionPolicy
	locker     ports.SweepLocker
	logger     *zap.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	locker ports.SweepLocker,
	logger *zap.Logger,
) CompositionRoot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		strategies: services.NewStrategyRegistry(),
		policy:     services.NewAnyRolePolicy(),
		locker:     locker,
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) reservationUoWFactory() commands.ReservationUoWFactory {
	return FuncReservationUoWFactory(func() commands.ReservationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryAll() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreatePerformTransitionCommandHandler() commands.PerformTransitionCommandHandler {
	return commands.NewPerformTransitionCommandHandler(c.uowFactoryAll(), c.policy, c.strategies)
}

func (c *CompositionRoot) CreateUpdatePaymentStatusCommandHandler() commands.UpdatePaymentStatusCommandHandler {
	return commands.NewUpdatePaymentStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReserveInventoryCommandHandler() commands.ReserveInventoryCommandHandler {
	return commands.NewReserveInventoryCommandHandler(c.reservationUoWFactory())
}

func (c *CompositionRoot) CreateCancelReservationsCommandHandler() commands.CancelReservationsCommandHandler {
	return commands.NewCancelReservationsCommandHandler(c.reservationUoWFactory())
}

func (c *CompositionRoot) CreateFulfillReservationsCommandHandler() commands.FulfillReservationsCommandHandler {
	return commands.NewFulfillReservationsCommandHandler(c.reservationUoWFactory())
}

func (c *CompositionRoot) CreateRestoreExpiredReservationsCommandHandler() commands.RestoreExpiredReservationsCommandHandler {
	return commands.NewRestoreExpiredReservationsCommandHandler(c.reservationUoWFactory())
}

func (c *CompositionRoot) CreateExpireReservationsCommandHandler() commands.ExpireReservationsCommandHandler {
	return commands.NewExpireReservationsCommandHandler(c.reservationUoWFactory())
}

func (c *CompositionRoot) CreateExecuteInventoryTransactionCommandHandler() commands.ExecuteInventoryTransactionCommandHandler {
	return commands.NewExecuteInventoryTransactionCommandHandler(c.ledgerUoWFactory(), c.strategies)
}

func (c *CompositionRoot) CreateSwitchInventorySnapshotCommandHandler() commands.SwitchInventorySnapshotCommandHandler {
	return commands.NewSwitchInventorySnapshotCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateGetStuckOrdersQueryHandler() queries.GetStuckOrdersQueryHandler {
	return queries.NewGetStuckOrdersQueryHandler(c.gormDB)
}

// HTTPHandlers builds every use case the HTTP API exposes.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	transition := c.CreatePerformTransitionCommandHandler()
	reserve := c.CreateReserveInventoryCommandHandler()
	cancel := c.CreateCancelReservationsCommandHandler()

	return httpin.Handlers{
		CreateOrder:                 c.CreateCreateOrderCommandHandler(),
		PerformTransition:           transition,
		BulkStatusTransition:        commands.NewBulkStatusTransitionCommandHandler(transition),
		ReserveInventory:            reserve,
		BulkReserveItems:            commands.NewBulkReserveItemsCommandHandler(reserve),
		CancelReservations:          cancel,
		BulkCancelReservations:      commands.NewBulkCancelReservationsCommandHandler(cancel),
		FulfillReservations:         c.CreateFulfillReservationsCommandHandler(),
		RestoreExpiredReservations:  c.CreateRestoreExpiredReservationsCommandHandler(),
		ExpireReservations:          c.CreateExpireReservationsCommandHandler(),
		ExecuteInventoryTransaction: c.CreateExecuteInventoryTransactionCommandHandler(),
		SwitchInventorySnapshot:     c.CreateSwitchInventorySnapshotCommandHandler(),
		UpdatePaymentStatus:         c.CreateUpdatePaymentStatusCommandHandler(),

		CheckAvailability:           queries.NewCheckAvailabilityQueryHandler(c.gormDB),
		GetOrderHistory:             queries.NewGetOrderHistoryQueryHandler(c.gormDB),
		GetOrderTimeline:            queries.NewGetOrderTimelineQueryHandler(c.gormDB),
		GetStuckOrders:              c.CreateGetStuckOrdersQueryHandler(),
		GetWorkflowMetrics:          queries.NewGetWorkflowMetricsQueryHandler(c.gormDB),
		GetReservationMetrics:       queries.NewGetReservationMetricsQueryHandler(c.gormDB),
		FindConflictingReservations: queries.NewFindConflictingReservationsQueryHandler(c.gormDB),
		OptimizeReservations:        queries.NewOptimizeReservationsQueryHandler(c.gormDB),
	}
}

// NewHTTPServer returns the HTTP server over HTTPHandlers.
func (c *CompositionRoot) NewHTTPServer() *httpin.Server {
	return httpin.NewServer(c.HTTPHandlers(), c.logger)
}

// NewJobManager builds the reservation expiry sweep and the stuck order monitor.
func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	expiryJob := jobs.NewReservationExpiryJob(
		c.CreateExpireReservationsCommandHandler(),
		c.locker,
		c.cfg.ReservationExpiryHours,
		c.cfg.ReservationSweepSchedule,
		c.logger,
	)

	monitorJob := jobs.NewStuckOrderMonitorJob(
		c.CreateGetStuckOrdersQueryHandler(),
		c.cfg.StuckOrderThreshold,
		c.cfg.StuckOrderSchedule,
		c.logger,
	)

	return jobs.NewJobManager(expiryJob, monitorJob)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncReservationUoWFactory func() commands.ReservationUoW

func (f FuncReservationUoWFactory) Create() commands.ReservationUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
